package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/pkg/batch"
)

// Karma recalculation defaults. Both are tunable through the service config;
// the pause keeps a full recalculation from monopolizing the data store.
const (
	DefaultKarmaBatchSize  = 50
	DefaultKarmaBatchPause = 100 * time.Millisecond
)

// KarmaUserRepository defines the user repo interface needed by KarmaService
type KarmaUserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
	SetKarma(ctx context.Context, id string, karma int) error
}

// KarmaCollaborationRepository defines the collaboration repo interface
// needed by KarmaService
type KarmaCollaborationRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*model.Collaboration, error)
}

// KarmaService recalculates every user's karma from their collaborations.
// Recalculation is exhaustive and idempotent: the computed score depends
// only on the current collaborations, never on the previous score.
type KarmaService struct {
	userRepo   KarmaUserRepository
	collabRepo KarmaCollaborationRepository
	batchSize  int
	batchPause time.Duration
	logger     *slog.Logger
}

// KarmaServiceConfig holds configuration for the karma service
type KarmaServiceConfig struct {
	UserRepo   KarmaUserRepository
	CollabRepo KarmaCollaborationRepository
	BatchSize  int           // items per batch; default DefaultKarmaBatchSize
	BatchPause time.Duration // pause between batches; default DefaultKarmaBatchPause
	Logger     *slog.Logger
}

// NewKarmaService creates a new karma service
func NewKarmaService(cfg KarmaServiceConfig) *KarmaService {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultKarmaBatchSize
	}
	batchPause := cfg.BatchPause
	if batchPause <= 0 {
		batchPause = DefaultKarmaBatchPause
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &KarmaService{
		userRepo:   cfg.UserRepo,
		collabRepo: cfg.CollabRepo,
		batchSize:  batchSize,
		batchPause: batchPause,
		logger:     logger,
	}
}

// RecalculateAll recomputes karma for every user that still holds an
// identity, in batches with a pause between them. A failing user is
// recorded in the summary and the pass continues; the outcome is the same
// for any batch size.
func (s *KarmaService) RecalculateAll(ctx context.Context) (*batch.Summary, error) {
	ids, err := s.userRepo.ListActiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for recalculation: %w", err)
	}

	return batch.Process(ctx, ids, batch.Config{
		Size:  s.batchSize,
		Pause: s.batchPause,
	}, s.recalculateUser)
}

// recalculateUser recomputes one user's karma and writes it only when it
// changed. Users deleted or anonymized since the ID listing are skipped.
func (s *KarmaService) recalculateUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %s: %w", userID, err)
	}
	if user == nil || user.Anonymized {
		return nil
	}

	collabs, err := s.collabRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %s: %w", userID, err)
	}

	karma := ComputeKarma(collabs)
	if karma == user.Karma {
		return nil
	}

	if err := s.userRepo.SetKarma(ctx, userID, karma); err != nil {
		return fmt.Errorf("user %s: %w", userID, err)
	}

	s.logger.Debug("karma updated",
		"user", userID,
		"karma", karma,
		"previous", user.Karma,
	)
	return nil
}

// ComputeKarma derives a karma score from a user's collaborations. Each
// collaboration contributes its project's upvote count weighted by the role
// multiplier, floored. Each distinct featured project where the user holds
// the creator role adds the flat bonus exactly once.
func ComputeKarma(collabs []*model.Collaboration) int {
	karma := 0
	bonusAwarded := make(map[string]bool)

	for _, collab := range collabs {
		karma += collab.Contribution()

		if collab.Role != model.RoleCreator || collab.Project == nil {
			continue
		}
		if collab.Project.Featured && !bonusAwarded[collab.ProjectID] {
			bonusAwarded[collab.ProjectID] = true
			karma += model.FeaturedCreatorBonus
		}
	}

	return karma
}
