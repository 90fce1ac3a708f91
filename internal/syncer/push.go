package syncer

import (
	"context"

	"github.com/dmitrijs2005/jobkeeper/internal/models"
	"github.com/dmitrijs2005/jobkeeper/internal/store"
)

// push delivers local divergence to the remote store. Deletions go first:
// once a parent is deleted its stages must not be pushed as updates in the
// same cycle. Any failure aborts the remaining push work; affected records
// keep their sync obligation and are retried next cycle, so every operation
// here must be safe to repeat.
func (e *Engine) push(ctx context.Context, userID string) error {
	if err := e.pushDeletions(ctx, userID); err != nil {
		return err
	}
	return e.pushUpserts(ctx, userID)
}

func (e *Engine) pushDeletions(ctx context.Context, userID string) error {
	r := e.store.Repos()

	apps, err := r.Applications.ListPendingDeletion(ctx)
	if err != nil {
		return err
	}
	for _, a := range apps {
		if a.RemoteID != "" {
			if err := e.remote.DeleteApplication(ctx, userID, a.RemoteID); err != nil {
				return err
			}
		}
		// The remote delete took the stage documents with it; the whole
		// family becomes tombstones and is swept by the purge step.
		err := e.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
			if err := r.Stages.MarkTombstoneByApplication(ctx, a.ID); err != nil {
				return err
			}
			a.Lifecycle = models.LifecycleTombstone
			return r.Applications.Upsert(ctx, a)
		})
		if err != nil {
			return err
		}
		e.log.Debug(ctx, "pushed application deletion", "id", a.ID)
	}

	// Individually deleted stages; their parents are still alive, since
	// stages under a deleted application were tombstoned above.
	stages, err := r.Stages.ListPendingDeletion(ctx)
	if err != nil {
		return err
	}
	for _, s := range stages {
		owner, err := r.Applications.GetByID(ctx, s.ApplicationID)
		if err != nil {
			return err
		}
		if s.RemoteID != "" && owner.RemoteID != "" {
			if err := e.remote.DeleteStage(ctx, userID, owner.RemoteID, s.RemoteID); err != nil {
				return err
			}
		}
		s.Lifecycle = models.LifecycleTombstone
		if err := r.Stages.Upsert(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) pushUpserts(ctx context.Context, userID string) error {
	r := e.store.Repos()

	apps, err := r.Applications.ListPushable(ctx)
	if err != nil {
		return err
	}

	for _, a := range apps {
		if a.RemoteID == "" {
			// Another device may have created this record before we ever
			// synced; link to it instead of creating a duplicate document.
			rec, err := e.remote.FindApplicationByKey(ctx, userID, a.NaturalKey())
			if err != nil {
				return err
			}
			if rec != nil {
				a.RemoteID = rec.Application.RemoteID
				if rec.Application.UpdatedAt.After(a.UpdatedAt) {
					a.AbsorbRemote(rec.Application, e.now())
				}
				e.log.Debug(ctx, "linked application to existing remote document",
					"id", a.ID, "remote_id", a.RemoteID)
			}
		}

		if a.RemoteID == "" {
			remoteID, err := e.remote.CreateApplication(ctx, userID, a)
			if err != nil {
				return err
			}
			a.RemoteID = remoteID
		} else if a.Dirty {
			if err := e.remote.UpdateApplication(ctx, userID, a); err != nil {
				return err
			}
		}

		a.Dirty = false
		a.LastSyncedAt = e.now()
		if err := r.Applications.Upsert(ctx, a); err != nil {
			return err
		}

		if err := e.pushStages(ctx, userID, a); err != nil {
			return err
		}
	}
	return nil
}

// pushStages pushes the dirty live stages of one application. The parent's
// remote id is already assigned by the time this runs.
func (e *Engine) pushStages(ctx context.Context, userID string, a *models.Application) error {
	r := e.store.Repos()

	stages, err := r.Stages.ListDirtyByApplication(ctx, a.ID)
	if err != nil {
		return err
	}
	for _, s := range stages {
		if s.RemoteID == "" {
			remoteID, err := e.remote.CreateStage(ctx, userID, a.RemoteID, s)
			if err != nil {
				return err
			}
			s.RemoteID = remoteID
		} else {
			if err := e.remote.UpdateStage(ctx, userID, a.RemoteID, s); err != nil {
				return err
			}
		}
		s.Dirty = false
		s.LastSyncedAt = e.now()
		if err := r.Stages.Upsert(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
