package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockDeletionRequestRepo struct {
	createFunc           func(ctx context.Context, req *model.DeletionRequest) error
	getByIDFunc          func(ctx context.Context, id string) (*model.DeletionRequest, error)
	getPendingByUserFunc func(ctx context.Context, userID string) (*model.DeletionRequest, error)
	listDueFunc          func(ctx context.Context, now time.Time) ([]*model.DeletionRequest, error)
	markCancelledFunc    func(ctx context.Context, id string, at time.Time) (bool, error)
	markCompletedFunc    func(ctx context.Context, id string, at time.Time) (bool, error)

	completed []string
}

func (m *mockDeletionRequestRepo) Create(ctx context.Context, req *model.DeletionRequest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil
}

func (m *mockDeletionRequestRepo) GetByID(ctx context.Context, id string) (*model.DeletionRequest, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDeletionRequestRepo) GetPendingByUser(ctx context.Context, userID string) (*model.DeletionRequest, error) {
	if m.getPendingByUserFunc != nil {
		return m.getPendingByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockDeletionRequestRepo) ListDue(ctx context.Context, now time.Time) ([]*model.DeletionRequest, error) {
	if m.listDueFunc != nil {
		return m.listDueFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockDeletionRequestRepo) MarkCancelled(ctx context.Context, id string, at time.Time) (bool, error) {
	if m.markCancelledFunc != nil {
		return m.markCancelledFunc(ctx, id, at)
	}
	return true, nil
}

func (m *mockDeletionRequestRepo) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	m.completed = append(m.completed, id)
	if m.markCompletedFunc != nil {
		return m.markCompletedFunc(ctx, id, at)
	}
	return true, nil
}

type mockDeletionUserRepo struct {
	getByIDFunc       func(ctx context.Context, id string) (*model.User, error)
	anonymizeFunc     func(ctx context.Context, id string, profile model.AnonymousProfile) error
	deleteCascadeFunc func(ctx context.Context, user *model.User) error

	anonymized map[string]model.AnonymousProfile
	cascaded   []string
}

func (m *mockDeletionUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDeletionUserRepo) Anonymize(ctx context.Context, id string, profile model.AnonymousProfile) error {
	if m.anonymized == nil {
		m.anonymized = make(map[string]model.AnonymousProfile)
	}
	m.anonymized[id] = profile
	if m.anonymizeFunc != nil {
		return m.anonymizeFunc(ctx, id, profile)
	}
	return nil
}

func (m *mockDeletionUserRepo) DeleteCascade(ctx context.Context, user *model.User) error {
	m.cascaded = append(m.cascaded, user.ID)
	if m.deleteCascadeFunc != nil {
		return m.deleteCascadeFunc(ctx, user)
	}
	return nil
}

type mockDeletionPushTokenRepo struct {
	deleteByUserFunc func(ctx context.Context, userID string) (int, error)

	deletedFor []string
}

func (m *mockDeletionPushTokenRepo) DeleteByUser(ctx context.Context, userID string) (int, error) {
	m.deletedFor = append(m.deletedFor, userID)
	if m.deleteByUserFunc != nil {
		return m.deleteByUserFunc(ctx, userID)
	}
	return 0, nil
}

type mockDeletionInvitationRepo struct {
	deleteUnresolvedByEmailFunc func(ctx context.Context, email string) (int, error)

	deletedFor []string
}

func (m *mockDeletionInvitationRepo) DeleteUnresolvedByEmail(ctx context.Context, email string) (int, error) {
	m.deletedFor = append(m.deletedFor, email)
	if m.deleteUnresolvedByEmailFunc != nil {
		return m.deleteUnresolvedByEmailFunc(ctx, email)
	}
	return 0, nil
}

// ============================================================================
// Test Helpers
// ============================================================================

type deletionMocks struct {
	requests    *mockDeletionRequestRepo
	users       *mockDeletionUserRepo
	pushTokens  *mockDeletionPushTokenRepo
	invitations *mockDeletionInvitationRepo
}

func newDeletionMocks() *deletionMocks {
	return &deletionMocks{
		requests:    &mockDeletionRequestRepo{},
		users:       &mockDeletionUserRepo{},
		pushTokens:  &mockDeletionPushTokenRepo{},
		invitations: &mockDeletionInvitationRepo{},
	}
}

func (m *deletionMocks) service(now time.Time) *DeletionService {
	return NewDeletionService(DeletionServiceConfig{
		Requests:     m.requests,
		Users:        m.users,
		PushTokens:   m.pushTokens,
		Invitations:  m.invitations,
		PseudonymKey: []byte("test-key"),
		Now:          func() time.Time { return now },
	})
}

func existingUser(id string) func(ctx context.Context, userID string) (*model.User, error) {
	return func(_ context.Context, userID string) (*model.User, error) {
		if userID == id {
			return &model.User{ID: id, Email: "alice@example.com", DisplayName: "Alice"}, nil
		}
		return nil, nil
	}
}

func dueRequest(id, userID string, anonymize bool) *model.DeletionRequest {
	return &model.DeletionRequest{
		ID:      id,
		UserID:  userID,
		Options: model.DeletionOptions{AnonymizeContributions: anonymize},
		Status:  model.DeletionStatusPending,
	}
}

// ============================================================================
// Request Tests
// ============================================================================

func TestDeletionService_Request_OpensPendingRequest(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	mocks := newDeletionMocks()
	mocks.users.getByIDFunc = existingUser("user:alice")

	var created *model.DeletionRequest
	mocks.requests.createFunc = func(_ context.Context, req *model.DeletionRequest) error {
		created = req
		return nil
	}
	svc := mocks.service(now)

	req, err := svc.Request(context.Background(), "user:alice", model.DeletionOptions{AnonymizeContributions: true})

	if err != nil {
		t.Fatalf("expected request to succeed, got %v", err)
	}
	if created == nil || req != created {
		t.Fatal("expected the request to be persisted")
	}
	if req.Status != model.DeletionStatusPending {
		t.Errorf("expected status pending, got %s", req.Status)
	}
	if !req.RequestedAt.Equal(now) {
		t.Errorf("expected RequestedAt %v, got %v", now, req.RequestedAt)
	}
	if !req.ScheduledFor.Equal(now.Add(model.DeletionGracePeriod)) {
		t.Errorf("expected ScheduledFor 30 days out, got %v", req.ScheduledFor)
	}
	if !req.Options.AnonymizeContributions {
		t.Error("expected the chosen options to be preserved")
	}
}

func TestDeletionService_Request_CustomGracePeriod(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	mocks := newDeletionMocks()
	mocks.users.getByIDFunc = existingUser("user:alice")
	svc := NewDeletionService(DeletionServiceConfig{
		Requests:    mocks.requests,
		Users:       mocks.users,
		PushTokens:  mocks.pushTokens,
		Invitations: mocks.invitations,
		GracePeriod: 48 * time.Hour,
		Now:         func() time.Time { return now },
	})

	req, err := svc.Request(context.Background(), "user:alice", model.DeletionOptions{})

	if err != nil {
		t.Fatalf("expected request to succeed, got %v", err)
	}
	if !req.ScheduledFor.Equal(now.Add(48 * time.Hour)) {
		t.Errorf("expected ScheduledFor 48h out, got %v", req.ScheduledFor)
	}
}

func TestDeletionService_Request_SecondPendingRejected(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	mocks.users.getByIDFunc = existingUser("user:alice")
	mocks.requests.getPendingByUserFunc = func(_ context.Context, userID string) (*model.DeletionRequest, error) {
		return dueRequest("deletion_request:1", userID, false), nil
	}
	createCalled := false
	mocks.requests.createFunc = func(_ context.Context, _ *model.DeletionRequest) error {
		createCalled = true
		return nil
	}
	svc := mocks.service(time.Now())

	_, err := svc.Request(context.Background(), "user:alice", model.DeletionOptions{})

	if !errors.Is(err, ErrDeletionAlreadyPending) {
		t.Errorf("expected ErrDeletionAlreadyPending, got %v", err)
	}
	if createCalled {
		t.Error("expected no second request to be created")
	}
}

func TestDeletionService_Request_UnknownUser(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	svc := mocks.service(time.Now())

	_, err := svc.Request(context.Background(), "user:ghost", model.DeletionOptions{})

	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// ============================================================================
// Cancel Tests
// ============================================================================

func TestDeletionService_Cancel_PendingRequest(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	mocks.requests.getByIDFunc = func(_ context.Context, id string) (*model.DeletionRequest, error) {
		return dueRequest(id, "user:alice", false), nil
	}
	var cancelledID string
	mocks.requests.markCancelledFunc = func(_ context.Context, id string, _ time.Time) (bool, error) {
		cancelledID = id
		return true, nil
	}
	svc := mocks.service(time.Now())

	if err := svc.Cancel(context.Background(), "deletion_request:1"); err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}
	if cancelledID != "deletion_request:1" {
		t.Errorf("expected the request to be marked cancelled, got %q", cancelledID)
	}
}

func TestDeletionService_Cancel_MissingRequest(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	svc := mocks.service(time.Now())

	err := svc.Cancel(context.Background(), "deletion_request:ghost")

	if !errors.Is(err, ErrDeletionNotFound) {
		t.Errorf("expected ErrDeletionNotFound, got %v", err)
	}
}

func TestDeletionService_Cancel_TerminalRequest(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	mocks.requests.getByIDFunc = func(_ context.Context, id string) (*model.DeletionRequest, error) {
		req := dueRequest(id, "user:alice", false)
		req.Status = model.DeletionStatusCompleted
		return req, nil
	}
	markCalled := false
	mocks.requests.markCancelledFunc = func(_ context.Context, _ string, _ time.Time) (bool, error) {
		markCalled = true
		return true, nil
	}
	svc := mocks.service(time.Now())

	err := svc.Cancel(context.Background(), "deletion_request:1")

	if !errors.Is(err, ErrDeletionNotPending) {
		t.Errorf("expected ErrDeletionNotPending, got %v", err)
	}
	if markCalled {
		t.Error("expected no transition attempt on a terminal request")
	}
}

func TestDeletionService_Cancel_LostRace(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	mocks.requests.getByIDFunc = func(_ context.Context, id string) (*model.DeletionRequest, error) {
		return dueRequest(id, "user:alice", false), nil
	}
	mocks.requests.markCancelledFunc = func(_ context.Context, _ string, _ time.Time) (bool, error) {
		return false, nil
	}
	svc := mocks.service(time.Now())

	err := svc.Cancel(context.Background(), "deletion_request:1")

	if !errors.Is(err, ErrDeletionNotPending) {
		t.Errorf("expected ErrDeletionNotPending when the transition no longer applies, got %v", err)
	}
}

// ============================================================================
// FinalizeDue Tests
// ============================================================================

func TestDeletionService_FinalizeDue_DeleteBranch(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	mocks.users.getByIDFunc = existingUser("user:alice")
	mocks.requests.listDueFunc = func(_ context.Context, _ time.Time) ([]*model.DeletionRequest, error) {
		return []*model.DeletionRequest{dueRequest("deletion_request:1", "user:alice", false)}, nil
	}
	svc := mocks.service(time.Now())

	summary, err := svc.FinalizeDue(context.Background(), time.Now())

	if err != nil {
		t.Fatalf("expected finalization to succeed, got %v", err)
	}
	if summary.Due != 1 || summary.Completed != 1 || summary.Failed != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if len(mocks.users.cascaded) != 1 || mocks.users.cascaded[0] != "user:alice" {
		t.Errorf("expected a cascading delete for the user, got %v", mocks.users.cascaded)
	}
	if len(mocks.users.anonymized) != 0 {
		t.Error("expected no anonymization on the delete branch")
	}
	if len(mocks.requests.completed) != 1 || mocks.requests.completed[0] != "deletion_request:1" {
		t.Errorf("expected the request marked completed, got %v", mocks.requests.completed)
	}
}

func TestDeletionService_FinalizeDue_AnonymizeBranch(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	mocks.users.getByIDFunc = existingUser("user:alice")
	mocks.requests.listDueFunc = func(_ context.Context, _ time.Time) ([]*model.DeletionRequest, error) {
		return []*model.DeletionRequest{dueRequest("deletion_request:1", "user:alice", true)}, nil
	}
	svc := mocks.service(time.Now())

	summary, err := svc.FinalizeDue(context.Background(), time.Now())

	if err != nil {
		t.Fatalf("expected finalization to succeed, got %v", err)
	}
	if summary.Completed != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	profile, ok := mocks.users.anonymized["user:alice"]
	if !ok {
		t.Fatal("expected the user to be anonymized")
	}
	if !strings.HasSuffix(profile.Email, "@"+model.AnonymizedEmailDomain) {
		t.Errorf("expected a reserved-domain email, got %q", profile.Email)
	}
	if !strings.HasPrefix(profile.DisplayName, "user-") {
		t.Errorf("expected a pseudonymous display name, got %q", profile.DisplayName)
	}
	if len(mocks.users.cascaded) != 0 {
		t.Error("expected no cascading delete on the anonymize branch")
	}
	if len(mocks.pushTokens.deletedFor) != 1 || mocks.pushTokens.deletedFor[0] != "user:alice" {
		t.Errorf("expected push tokens removed, got %v", mocks.pushTokens.deletedFor)
	}
	if len(mocks.invitations.deletedFor) != 1 || mocks.invitations.deletedFor[0] != "alice@example.com" {
		t.Errorf("expected unresolved invitations for the original email removed, got %v", mocks.invitations.deletedFor)
	}
	if len(mocks.requests.completed) != 1 {
		t.Errorf("expected the request marked completed, got %v", mocks.requests.completed)
	}
}

func TestDeletionService_FinalizeDue_MissingUser_CompletesRequest(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	mocks.requests.listDueFunc = func(_ context.Context, _ time.Time) ([]*model.DeletionRequest, error) {
		return []*model.DeletionRequest{dueRequest("deletion_request:1", "user:ghost", false)}, nil
	}
	svc := mocks.service(time.Now())

	summary, err := svc.FinalizeDue(context.Background(), time.Now())

	if err != nil {
		t.Fatalf("expected finalization to succeed, got %v", err)
	}
	if summary.Completed != 1 || summary.Failed != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if len(mocks.users.cascaded) != 0 || len(mocks.users.anonymized) != 0 {
		t.Error("expected no branch work for a vanished user")
	}
	if len(mocks.requests.completed) != 1 {
		t.Errorf("expected the dangling request marked completed, got %v", mocks.requests.completed)
	}
}

func TestDeletionService_FinalizeDue_FailureIsolation(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	mocks.users.getByIDFunc = func(_ context.Context, userID string) (*model.User, error) {
		return &model.User{ID: userID, Email: userID + "@example.com"}, nil
	}
	mocks.users.deleteCascadeFunc = func(_ context.Context, user *model.User) error {
		if user.ID == "user:broken" {
			return errors.New("query timeout")
		}
		return nil
	}
	mocks.requests.listDueFunc = func(_ context.Context, _ time.Time) ([]*model.DeletionRequest, error) {
		return []*model.DeletionRequest{
			dueRequest("deletion_request:1", "user:a", false),
			dueRequest("deletion_request:2", "user:broken", false),
			dueRequest("deletion_request:3", "user:c", false),
		}, nil
	}
	svc := mocks.service(time.Now())

	summary, err := svc.FinalizeDue(context.Background(), time.Now())

	if err != nil {
		t.Fatalf("expected per-request isolation, got %v", err)
	}
	if summary.Due != 3 || summary.Completed != 2 || summary.Failed != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0], "deletion_request:2") {
		t.Errorf("expected the failing request recorded, got %v", summary.Errors)
	}
	if len(mocks.requests.completed) != 2 {
		t.Errorf("expected the other requests still completed, got %v", mocks.requests.completed)
	}
}

func TestDeletionService_FinalizeDue_ListFailure_Fails(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	mocks.requests.listDueFunc = func(_ context.Context, _ time.Time) ([]*model.DeletionRequest, error) {
		return nil, errors.New("connection refused")
	}
	svc := mocks.service(time.Now())

	if _, err := svc.FinalizeDue(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error when the due listing fails")
	}
}

func TestDeletionService_FinalizeDue_ListsWithUTCInstant(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	var listedAt time.Time
	mocks.requests.listDueFunc = func(_ context.Context, now time.Time) ([]*model.DeletionRequest, error) {
		listedAt = now
		return nil, nil
	}
	svc := mocks.service(time.Now())

	local := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))
	if _, err := svc.FinalizeDue(context.Background(), local); err != nil {
		t.Fatalf("expected finalization to succeed, got %v", err)
	}

	if !listedAt.Equal(local) {
		t.Errorf("expected the same instant, got %v", listedAt)
	}
	if listedAt.Location() != time.UTC {
		t.Errorf("expected a UTC instant, got %v", listedAt.Location())
	}
}

// ============================================================================
// Pseudonym Tests
// ============================================================================

func TestDeletionService_PseudonymProfile_StablePerKey(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	first := mocks.service(time.Now())
	second := mocks.service(time.Now())

	if first.pseudonymProfile("user:alice") != second.pseudonymProfile("user:alice") {
		t.Error("expected the same user to map to the same pseudonym")
	}
	if first.pseudonymProfile("user:alice") == first.pseudonymProfile("user:bob") {
		t.Error("expected distinct users to map to distinct pseudonyms")
	}
}

func TestDeletionService_PseudonymProfile_KeyDependent(t *testing.T) {
	t.Parallel()
	mocks := newDeletionMocks()
	svc := mocks.service(time.Now())
	other := NewDeletionService(DeletionServiceConfig{
		Requests:     mocks.requests,
		Users:        mocks.users,
		PushTokens:   mocks.pushTokens,
		Invitations:  mocks.invitations,
		PseudonymKey: []byte("another-key"),
	})

	if svc.pseudonymProfile("user:alice") == other.pseudonymProfile("user:alice") {
		t.Error("expected pseudonyms to depend on the key")
	}
}
