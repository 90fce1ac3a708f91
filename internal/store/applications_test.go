package store

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationUpsert_InsertAndUpdate(t *testing.T) {
	s := setupStore(t)
	r := s.Repos().Applications
	ctx := context.Background()

	a := testApplication("a1")
	require.NoError(t, r.Upsert(ctx, a))

	got, err := r.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Engineer", got.Role)
	assert.Equal(t, "Acme", got.Company)
	assert.True(t, got.Dirty)
	assert.True(t, got.LastSyncedAt.IsZero())

	// update via the same id
	a.RemoteID = "r1"
	a.Role = "Senior Engineer"
	a.Dirty = false
	a.LastSyncedAt = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, r.Upsert(ctx, a))

	got, err = r.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.RemoteID)
	assert.Equal(t, "Senior Engineer", got.Role)
	assert.False(t, got.Dirty)
	assert.Equal(t, a.LastSyncedAt, got.LastSyncedAt)
}

func TestApplicationGetByID_NotFound(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Repos().Applications.GetByID(ctx, "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApplicationGetByRemoteID(t *testing.T) {
	s := setupStore(t)
	r := s.Repos().Applications
	ctx := context.Background()

	a := testApplication("a1")
	a.RemoteID = "r1"
	require.NoError(t, r.Upsert(ctx, a))

	got, err := r.GetByRemoteID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	_, err = r.GetByRemoteID(ctx, "r2")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApplicationListActive_ExcludesDeleted(t *testing.T) {
	s := setupStore(t)
	r := s.Repos().Applications
	ctx := context.Background()

	a1 := testApplication("a1")
	a2 := testApplication("a2")
	a2.Lifecycle = models.LifecyclePendingDeletion
	a3 := testApplication("a3")
	a3.Lifecycle = models.LifecycleTombstone
	require.NoError(t, r.Upsert(ctx, a1))
	require.NoError(t, r.Upsert(ctx, a2))
	require.NoError(t, r.Upsert(ctx, a3))

	got, err := r.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}

func TestApplicationListPushable(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	ar := s.Repos().Applications
	sr := s.Repos().Stages

	// dirty application
	dirty := testApplication("dirty")
	require.NoError(t, ar.Upsert(ctx, dirty))

	// clean, already synced application
	clean := testApplication("clean")
	clean.RemoteID = "r-clean"
	clean.Dirty = false
	require.NoError(t, ar.Upsert(ctx, clean))

	// clean application with one dirty stage
	withStage := testApplication("with-stage")
	withStage.RemoteID = "r-ws"
	withStage.Dirty = false
	require.NoError(t, ar.Upsert(ctx, withStage))
	require.NoError(t, sr.Upsert(ctx, testStage("s1", "with-stage", 1)))

	// deleted application must never be pushed as an update
	deleted := testApplication("deleted")
	deleted.Lifecycle = models.LifecyclePendingDeletion
	require.NoError(t, ar.Upsert(ctx, deleted))

	got, err := ar.ListPushable(ctx)
	require.NoError(t, err)

	ids := make(map[string]struct{})
	for _, a := range got {
		ids[a.ID] = struct{}{}
	}
	assert.Equal(t, map[string]struct{}{"dirty": {}, "with-stage": {}}, ids)
}

func TestApplicationCountNeedingSync(t *testing.T) {
	s := setupStore(t)
	r := s.Repos().Applications
	ctx := context.Background()

	n, err := r.CountNeedingSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, r.Upsert(ctx, testApplication("a1")))

	pending := testApplication("a2")
	pending.Dirty = false
	pending.Lifecycle = models.LifecyclePendingDeletion
	require.NoError(t, r.Upsert(ctx, pending))

	tombstone := testApplication("a3")
	tombstone.Dirty = false
	tombstone.Lifecycle = models.LifecycleTombstone
	require.NoError(t, r.Upsert(ctx, tombstone))

	n, err = r.CountNeedingSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestApplicationPendingDeletionAndPurgeable(t *testing.T) {
	s := setupStore(t)
	r := s.Repos().Applications
	ctx := context.Background()

	pending := testApplication("pending")
	pending.Lifecycle = models.LifecyclePendingDeletion
	require.NoError(t, r.Upsert(ctx, pending))

	tombstone := testApplication("tombstone")
	tombstone.Dirty = false
	tombstone.Lifecycle = models.LifecycleTombstone
	require.NoError(t, r.Upsert(ctx, tombstone))

	pd, err := r.ListPendingDeletion(ctx)
	require.NoError(t, err)
	require.Len(t, pd, 1)
	assert.Equal(t, "pending", pd[0].ID)

	pg, err := r.ListPurgeable(ctx)
	require.NoError(t, err)
	require.Len(t, pg, 1)
	assert.Equal(t, "tombstone", pg[0].ID)
}

func TestApplicationHardDeleteAndWipe(t *testing.T) {
	s := setupStore(t)
	r := s.Repos().Applications
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, testApplication("a1")))
	require.NoError(t, r.Upsert(ctx, testApplication("a2")))

	require.NoError(t, r.HardDelete(ctx, "a1"))
	_, err := r.GetByID(ctx, "a1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.DeleteAll(ctx))
	got, err := r.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
