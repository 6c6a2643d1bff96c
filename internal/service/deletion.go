package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
)

// Standard errors for deletion workflow preconditions.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrDeletionAlreadyPending indicates the user already has a pending request.
	ErrDeletionAlreadyPending = errors.New("deletion request already pending")

	// ErrDeletionNotPending indicates the request is in a terminal state.
	ErrDeletionNotPending = errors.New("deletion request not pending")

	// ErrDeletionNotFound indicates no request exists with the given ID.
	ErrDeletionNotFound = errors.New("deletion request not found")

	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// DeletionRequestRepository defines the request repo interface needed by
// DeletionService
type DeletionRequestRepository interface {
	Create(ctx context.Context, req *model.DeletionRequest) error
	GetByID(ctx context.Context, id string) (*model.DeletionRequest, error)
	GetPendingByUser(ctx context.Context, userID string) (*model.DeletionRequest, error)
	ListDue(ctx context.Context, now time.Time) ([]*model.DeletionRequest, error)
	MarkCancelled(ctx context.Context, id string, at time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error)
}

// DeletionUserRepository defines the user repo interface needed by
// DeletionService
type DeletionUserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	Anonymize(ctx context.Context, id string, profile model.AnonymousProfile) error
	DeleteCascade(ctx context.Context, user *model.User) error
}

// DeletionPushTokenRepository defines the push token repo interface needed
// by DeletionService
type DeletionPushTokenRepository interface {
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// DeletionInvitationRepository defines the invitation repo interface needed
// by DeletionService
type DeletionInvitationRepository interface {
	DeleteUnresolvedByEmail(ctx context.Context, email string) (int, error)
}

// DeletionService manages the account-deletion grace-period workflow.
// A request stays cancellable for GracePeriod; once due, finalization runs
// the branch the user chose and marks the request completed. Requests are
// never deleted.
type DeletionService struct {
	requests     DeletionRequestRepository
	users        DeletionUserRepository
	pushTokens   DeletionPushTokenRepository
	invitations  DeletionInvitationRepository
	pseudonymKey []byte
	gracePeriod  time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// DeletionServiceConfig holds configuration for the deletion service
type DeletionServiceConfig struct {
	Requests    DeletionRequestRepository
	Users       DeletionUserRepository
	PushTokens  DeletionPushTokenRepository
	Invitations DeletionInvitationRepository

	// PseudonymKey keys the pseudonym derivation for anonymized users.
	// At most 64 bytes; empty derives unkeyed pseudonyms.
	PseudonymKey []byte

	// GracePeriod between request and finalization eligibility.
	// Defaults to model.DeletionGracePeriod.
	GracePeriod time.Duration

	// Now supplies the current time. Nil means time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// NewDeletionService creates a new deletion service
func NewDeletionService(cfg DeletionServiceConfig) *DeletionService {
	gracePeriod := cfg.GracePeriod
	if gracePeriod <= 0 {
		gracePeriod = model.DeletionGracePeriod
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DeletionService{
		requests:     cfg.Requests,
		users:        cfg.Users,
		pushTokens:   cfg.PushTokens,
		invitations:  cfg.Invitations,
		pseudonymKey: cfg.PseudonymKey,
		gracePeriod:  gracePeriod,
		now:          now,
		logger:       logger,
	}
}

// Request opens a deletion request for the user, due GracePeriod from now.
// A user can hold at most one pending request: a second one is rejected
// with ErrDeletionAlreadyPending rather than restarting the grace timer.
func (s *DeletionService) Request(ctx context.Context, userID string, opts model.DeletionOptions) (*model.DeletionRequest, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	existing, err := s.requests.GetPendingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user %s", ErrDeletionAlreadyPending, userID)
	}

	now := s.now().UTC()
	req := &model.DeletionRequest{
		UserID:       userID,
		RequestedAt:  now,
		ScheduledFor: now.Add(s.gracePeriod),
		Options:      opts,
		Status:       model.DeletionStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("deletion requested",
		"request", req.ID,
		"user", userID,
		"scheduled_for", req.ScheduledFor,
		"anonymize_contributions", opts.AnonymizeContributions,
	)
	return req, nil
}

// Cancel aborts a pending request. Requests in a terminal state reject with
// ErrDeletionNotPending; once completed, the account is gone and there is
// nothing to restore.
func (s *DeletionService) Cancel(ctx context.Context, requestID string) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("%w: %s", ErrDeletionNotFound, requestID)
	}
	if req.Status != model.DeletionStatusPending {
		return fmt.Errorf("%w: %s is %s", ErrDeletionNotPending, requestID, req.Status)
	}

	applied, err := s.requests.MarkCancelled(ctx, requestID, s.now().UTC())
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: %s", ErrDeletionNotPending, requestID)
	}

	s.logger.Info("deletion cancelled", "request", requestID, "user", req.UserID)
	return nil
}

// FinalizeSummary aggregates one finalization pass.
type FinalizeSummary struct {
	Due       int      `json:"due"`
	Completed int      `json:"completed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// FinalizeDue processes every pending request whose grace period has
// elapsed at the given instant. A request scheduled for exactly now is due.
// One request's failure is recorded and the pass continues.
func (s *DeletionService) FinalizeDue(ctx context.Context, now time.Time) (*FinalizeSummary, error) {
	due, err := s.requests.ListDue(ctx, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list due deletion requests: %w", err)
	}

	summary := &FinalizeSummary{Due: len(due)}
	for _, req := range due {
		if err := s.finalize(ctx, req); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("request %s: %v", req.ID, err))
			s.logger.Error("deletion finalization failed",
				"request", req.ID,
				"user", req.UserID,
				"error", err,
			)
			continue
		}
		summary.Completed++
	}

	return summary, nil
}

// finalize runs one request's branch and marks it completed. A missing user
// means an earlier pass did the work but failed before marking the request;
// completing it is the repair.
func (s *DeletionService) finalize(ctx context.Context, req *model.DeletionRequest) error {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	if user != nil {
		if req.Options.AnonymizeContributions {
			err = s.anonymize(ctx, user)
		} else {
			err = s.users.DeleteCascade(ctx, user)
		}
		if err != nil {
			return err
		}
	}

	applied, err := s.requests.MarkCompleted(ctx, req.ID, s.now().UTC())
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Warn("deletion request no longer pending after processing", "request", req.ID)
	}
	return nil
}

// anonymize strips the user's identity while preserving authored content:
// the identity fields get a pseudonymous replacement profile, and the rows
// that carry contact or device data (push tokens, unresolved invitations
// addressed to the user) are removed.
func (s *DeletionService) anonymize(ctx context.Context, user *model.User) error {
	if err := s.users.Anonymize(ctx, user.ID, s.pseudonymProfile(user.ID)); err != nil {
		return err
	}

	tokens, err := s.pushTokens.DeleteByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	invitations, err := s.invitations.DeleteUnresolvedByEmail(ctx, user.Email)
	if err != nil {
		return err
	}

	s.logger.Info("user anonymized",
		"user", user.ID,
		"push_tokens_removed", tokens,
		"invitations_removed", invitations,
	)
	return nil
}

// pseudonymProfile derives the replacement identity for a user. A keyed
// blake2b digest gives a stable, non-reversible label: the same user always
// maps to the same pseudonym, and the email lands on a reserved domain that
// can never resolve.
func (s *DeletionService) pseudonymProfile(userID string) model.AnonymousProfile {
	h, err := blake2b.New256(s.pseudonymKey)
	if err != nil {
		// Key longer than 64 bytes; derive unkeyed rather than fail the branch.
		h, _ = blake2b.New256(nil)
	}
	h.Write([]byte(userID))
	label := hex.EncodeToString(h.Sum(nil))[:12]

	return model.AnonymousProfile{
		Email:       fmt.Sprintf("%s@%s", label, model.AnonymizedEmailDomain),
		DisplayName: "user-" + label,
	}
}
