package syncer

import (
	"context"

	"github.com/dmitrijs2005/jobkeeper/internal/store"
)

// purge hard-deletes tombstones: records whose deletion has definitely
// reached the remote store. Records still awaiting push are never touched.
// Stages go before their application. Runs as the trailing step of every
// sync cycle.
func (e *Engine) purge(ctx context.Context) error {
	return e.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		stages, err := r.Stages.ListPurgeable(ctx)
		if err != nil {
			return err
		}
		for _, s := range stages {
			if err := r.Stages.HardDelete(ctx, s.ID); err != nil {
				return err
			}
		}

		apps, err := r.Applications.ListPurgeable(ctx)
		if err != nil {
			return err
		}
		for _, a := range apps {
			if err := r.Stages.HardDeleteByApplication(ctx, a.ID); err != nil {
				return err
			}
			if err := r.Applications.HardDelete(ctx, a.ID); err != nil {
				return err
			}
		}
		return nil
	})
}
