package syncer

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/models"
	"github.com/dmitrijs2005/jobkeeper/internal/remote"
	"github.com/dmitrijs2005/jobkeeper/internal/store"
	"github.com/google/uuid"
)

// pull merges the remote view into the local store. It only runs as part of
// a full sync, after push. For each remote application: materialize it if it
// is unknown locally, leave it alone while a local deletion still awaits
// push, resurrect it if the local copy is a tombstone the remote store still
// returns, and otherwise merge last-writer-wins on updatedAt (strictly newer
// remote wins, ties keep local). Stages merge recursively under the same
// rule.
func (e *Engine) pull(ctx context.Context, userID string) error {
	records, err := e.remote.ListApplications(ctx, userID)
	if err != nil {
		return err
	}

	r := e.store.Repos()
	for _, rec := range records {
		local, err := r.Applications.GetByRemoteID(ctx, rec.Application.RemoteID)
		if errors.Is(err, common.ErrorNotFound) {
			if err := e.materialize(ctx, rec); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		switch local.Lifecycle {
		case models.LifecyclePendingDeletion:
			// The local deletion has not been pushed yet; it must win.
			continue

		case models.LifecycleTombstone:
			// The deletion was synced, yet the remote store still returned
			// the document (late delete, or a third device wrote it back).
			// Treat as resurrection.
			local.AbsorbRemote(rec.Application, e.now())
			if err := r.Applications.Upsert(ctx, local); err != nil {
				return err
			}
			e.log.Debug(ctx, "resurrected application from remote", "id", local.ID)

		default:
			if rec.Application.UpdatedAt.After(local.UpdatedAt) {
				local.AbsorbRemote(rec.Application, e.now())
				if err := r.Applications.Upsert(ctx, local); err != nil {
					return err
				}
			}
		}

		if err := e.mergeStages(ctx, local, rec.Stages); err != nil {
			return err
		}
	}
	return nil
}

// materialize creates local records for a remote application seen for the
// first time. Application and stages land in one commit, already clean.
func (e *Engine) materialize(ctx context.Context, rec *remote.Record) error {
	a := rec.Application
	a.ID = uuid.NewString()

	err := e.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		if err := r.Applications.Upsert(ctx, a); err != nil {
			return err
		}
		for _, s := range rec.Stages {
			s.ID = uuid.NewString()
			s.ApplicationID = a.ID
			if err := r.Stages.Upsert(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Debug(ctx, "materialized application from remote", "id", a.ID, "remote_id", a.RemoteID)
	return nil
}

// mergeStages applies the pull rules to one application's remote stages.
func (e *Engine) mergeStages(ctx context.Context, a *models.Application, remoteStages []*models.Stage) error {
	r := e.store.Repos()

	for _, rs := range remoteStages {
		local, err := r.Stages.GetByRemoteID(ctx, a.ID, rs.RemoteID)
		if errors.Is(err, common.ErrorNotFound) {
			rs.ID = uuid.NewString()
			rs.ApplicationID = a.ID
			if err := r.Stages.Upsert(ctx, rs); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		switch local.Lifecycle {
		case models.LifecyclePendingDeletion:
			continue

		case models.LifecycleTombstone:
			local.AbsorbRemote(rs, e.now())
			if err := r.Stages.Upsert(ctx, local); err != nil {
				return err
			}

		default:
			if rs.UpdatedAt.After(local.UpdatedAt) {
				local.AbsorbRemote(rs, e.now())
				if err := r.Stages.Upsert(ctx, local); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
