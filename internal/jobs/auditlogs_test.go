package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
)

// ============================================================================
// Mock audit log store
// ============================================================================

// mockAuditLogStore serves pre-built pages and re-serves entries whose save
// failed, the way the real repository would (a failed save leaves the row
// unanonymized and matching the next listing).
type mockAuditLogStore struct {
	pages   [][]*model.AuditLogEntry
	listErr error
	saveErr func(entry *model.AuditLogEntry) error

	listCalls int
	gotLimit  int
	saved     []*model.AuditLogEntry
}

func (m *mockAuditLogStore) ListUnanonymizedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*model.AuditLogEntry, error) {
	m.listCalls++
	m.gotLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	if len(m.pages) == 0 {
		return nil, nil
	}
	page := m.pages[0]
	m.pages = m.pages[1:]
	return page, nil
}

func (m *mockAuditLogStore) SaveScrubbed(ctx context.Context, entry *model.AuditLogEntry) error {
	if m.saveErr != nil {
		if err := m.saveErr(entry); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, entry)
	return nil
}

func auditEntry(id string) *model.AuditLogEntry {
	actor := "user:" + id
	ip := "203.0.113.7"
	return &model.AuditLogEntry{
		ID:        "audit_log:" + id,
		Action:    "project.update",
		ActorID:   &actor,
		IPAddress: &ip,
		Metadata: map[string]any{
			"email":      "someone@example.com",
			"project_id": "project:42",
		},
		CreatedOn: time.Now().UTC().Add(-2 * 365 * 24 * time.Hour),
	}
}

// ============================================================================
// Anonymization
// ============================================================================

func TestAuditLogAnonymization_ScrubsAllPages(t *testing.T) {
	store := &mockAuditLogStore{
		pages: [][]*model.AuditLogEntry{
			{auditEntry("1"), auditEntry("2")},
			{auditEntry("3"), auditEntry("4")},
			{auditEntry("5")},
		},
	}

	job := NewAuditLogAnonymization(store, 2, testLogger())
	assert.Equal(t, "anonymize-audit-logs", job.Name)
	assert.Equal(t, "0 2 * * *", job.Schedule)

	result, err := job.Handler(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 5, result.Details["anonymized"])
	assert.Equal(t, 0, result.Details["failed"])

	require.Len(t, store.saved, 5)
	for _, entry := range store.saved {
		assert.Nil(t, entry.ActorID, "entry %s should be scrubbed before saving", entry.ID)
		assert.Nil(t, entry.IPAddress)
		assert.True(t, entry.Anonymized)
		assert.NotContains(t, entry.Metadata, "email")
		assert.Equal(t, "project:42", entry.Metadata["project_id"])
		assert.Equal(t, "project.update", entry.Action, "the action must survive")
	}

	// Pages of 2, 2, 1: the short last page ends the loop without an extra
	// empty listing.
	assert.Equal(t, 3, store.listCalls)
	assert.Equal(t, 2, store.gotLimit)
}

func TestAuditLogAnonymization_StopsAfterFailingPage(t *testing.T) {
	store := &mockAuditLogStore{
		pages: [][]*model.AuditLogEntry{
			{auditEntry("1"), auditEntry("2")},
			{auditEntry("3"), auditEntry("4")},
		},
		saveErr: func(entry *model.AuditLogEntry) error {
			if entry.ID == "audit_log:2" {
				return errors.New("write conflict")
			}
			return nil
		},
	}

	job := NewAuditLogAnonymization(store, 2, testLogger())
	result, err := job.Handler(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Details["anonymized"])
	assert.Equal(t, 1, result.Details["failed"])
	assert.Len(t, result.Details["errors"], 1)

	// The failing row would match every later listing; the pass stops after
	// its page instead of spinning, leaving the rest for the next night.
	assert.Equal(t, 1, store.listCalls)
}

func TestAuditLogAnonymization_NothingToDo(t *testing.T) {
	store := &mockAuditLogStore{}

	job := NewAuditLogAnonymization(store, 2, testLogger())
	result, err := job.Handler(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Details["anonymized"])
	assert.Equal(t, 1, store.listCalls)
}

func TestAuditLogAnonymization_ListError(t *testing.T) {
	store := &mockAuditLogStore{listErr: errors.New("connection refused")}

	job := NewAuditLogAnonymization(store, 2, testLogger())
	result, err := job.Handler(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestAuditLogAnonymization_DefaultPageSize(t *testing.T) {
	store := &mockAuditLogStore{}

	job := NewAuditLogAnonymization(store, 0, testLogger())
	_, err := job.Handler(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultAuditPageSize, store.gotLimit)
}

// ============================================================================
// Purge
// ============================================================================

type mockAuditLogPurger struct {
	deleted int
	err     error

	gotCutoff time.Time
}

func (m *mockAuditLogPurger) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	m.gotCutoff = cutoff
	return m.deleted, m.err
}

func TestAuditLogPurge(t *testing.T) {
	purger := &mockAuditLogPurger{deleted: 40}

	job := NewAuditLogPurge(purger)
	assert.Equal(t, "purge-audit-logs", job.Name)
	assert.Equal(t, "20 2 * * *", job.Schedule)

	result, err := job.Handler(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 40, result.Details["deleted"])

	wantCutoff := time.Now().UTC().Add(-3 * 365 * 24 * time.Hour)
	assert.WithinDuration(t, wantCutoff, purger.gotCutoff, time.Minute)
}

func TestAuditLogPurge_RepositoryError(t *testing.T) {
	job := NewAuditLogPurge(&mockAuditLogPurger{err: fmt.Errorf("table locked")})

	result, err := job.Handler(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "table locked")
}
