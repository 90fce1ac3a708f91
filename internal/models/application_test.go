package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_Predicates(t *testing.T) {
	assert.False(t, LifecycleActive.Deleted())
	assert.True(t, LifecyclePendingDeletion.Deleted())
	assert.True(t, LifecycleTombstone.Deleted())

	assert.False(t, LifecycleActive.Purgeable())
	assert.False(t, LifecyclePendingDeletion.Purgeable())
	assert.True(t, LifecycleTombstone.Purgeable())
}

func TestApplication_NeedsSync(t *testing.T) {
	a := &Application{Lifecycle: LifecycleActive}
	assert.False(t, a.NeedsSync())

	a.Dirty = true
	assert.True(t, a.NeedsSync())

	a.Dirty = false
	a.Lifecycle = LifecyclePendingDeletion
	assert.True(t, a.NeedsSync())

	// A tombstone's deletion is already synced.
	a.Lifecycle = LifecycleTombstone
	assert.False(t, a.NeedsSync())
}

func TestApplication_ToDocument_OmitsLocalID(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	a := &Application{
		ID:        "local-1",
		RemoteID:  "remote-1",
		Role:      "Engineer",
		Company:   "Acme",
		Status:    StatusApplied,
		Date:      created,
		Starred:   true,
		Note:      "referred",
		CreatedAt: created,
		UpdatedAt: updated,
	}

	doc := a.ToDocument()

	assert.Equal(t, "Engineer", doc[FieldRole])
	assert.Equal(t, "Acme", doc[FieldCompany])
	assert.Equal(t, "applied", doc[FieldStatus])
	assert.Equal(t, true, doc[FieldStarred])
	assert.Equal(t, "referred", doc[FieldNote])
	assert.Equal(t, created, doc[FieldCreatedAt])
	assert.Equal(t, updated, doc[FieldUpdatedAt])

	_, hasID := doc["id"]
	assert.False(t, hasID)
	_, hasRemoteID := doc["remoteId"]
	assert.False(t, hasRemoteID)
}

func TestApplicationFromDoc_ArrivesClean(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	data := map[string]any{
		FieldRole:      "Engineer",
		FieldCompany:   "Acme",
		FieldStatus:    "interviewing",
		FieldDate:      created,
		FieldStarred:   true,
		FieldNote:      "n",
		FieldCreatedAt: created,
		FieldUpdatedAt: created.Add(time.Hour),
	}

	a := ApplicationFromDoc("remote-1", data, now)

	require.Equal(t, "remote-1", a.RemoteID)
	assert.Empty(t, a.ID)
	assert.Equal(t, StatusInterviewing, a.Status)
	assert.Equal(t, LifecycleActive, a.Lifecycle)
	assert.False(t, a.Dirty)
	assert.Equal(t, now, a.LastSyncedAt)
}

func TestApplicationFromDoc_ToleratesMissingFields(t *testing.T) {
	a := ApplicationFromDoc("r", map[string]any{}, time.Now())
	assert.Empty(t, a.Role)
	assert.Empty(t, a.Company)
	assert.True(t, a.Date.IsZero())
	assert.False(t, a.Starred)
}

func TestApplication_AbsorbRemote_KeepsIdentity(t *testing.T) {
	now := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	local := &Application{
		ID:        "local-1",
		RemoteID:  "remote-1",
		Role:      "Engineer",
		Company:   "Acme",
		Lifecycle: LifecycleTombstone,
		Dirty:     true,
	}
	remote := &Application{
		RemoteID:  "remote-1",
		Role:      "Senior Engineer",
		Company:   "Acme",
		Status:    StatusOffer,
		UpdatedAt: now,
	}

	local.AbsorbRemote(remote, now)

	assert.Equal(t, "local-1", local.ID)
	assert.Equal(t, "remote-1", local.RemoteID)
	assert.Equal(t, "Senior Engineer", local.Role)
	assert.Equal(t, StatusOffer, local.Status)
	assert.Equal(t, LifecycleActive, local.Lifecycle)
	assert.False(t, local.Dirty)
	assert.Equal(t, now, local.LastSyncedAt)
}

func TestNaturalKey(t *testing.T) {
	d := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	a := &Application{Company: "Acme", Role: "Engineer", Date: d}
	b := &Application{Company: "Acme", Role: "Engineer", Date: d, Note: "other device"}

	assert.Equal(t, a.NaturalKey(), b.NaturalKey())
}

func TestStage_DocumentRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	now := created.Add(24 * time.Hour)

	s := &Stage{
		ID:            "local-s1",
		ApplicationID: "local-1",
		Name:          "phone screen",
		Status:        StageScheduled,
		Date:          created,
		Note:          "with hiring manager",
		SortOrder:     3,
		CreatedAt:     created,
		UpdatedAt:     created,
	}

	doc := s.ToDocument()
	_, hasID := doc["id"]
	assert.False(t, hasID)
	_, hasOwner := doc["applicationId"]
	assert.False(t, hasOwner)

	got := StageFromDoc("remote-s1", doc, now)
	assert.Equal(t, "remote-s1", got.RemoteID)
	assert.Empty(t, got.ApplicationID) // owner is assigned by the caller
	assert.Equal(t, "phone screen", got.Name)
	assert.Equal(t, StageScheduled, got.Status)
	assert.Equal(t, int64(3), got.SortOrder)
	assert.False(t, got.Dirty)
	assert.Equal(t, now, got.LastSyncedAt)
}
