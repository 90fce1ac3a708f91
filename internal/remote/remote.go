// Package remote is the adapter for the per-user remote replica: a
// hierarchical document collection holding each user's applications with
// their stages nested underneath. All calls are network I/O and may fail or
// be slow; failures wrap common.ErrNetworkFailure.
package remote

import (
	"context"

	"github.com/dmitrijs2005/jobkeeper/internal/models"
)

// Record is one remote application together with its stage documents, both
// already converted to the local shape (clean, just-synced, remote ids set).
type Record struct {
	Application *models.Application
	Stages      []*models.Stage
}

// Store describes the remote document store operations used by the sync
// engine. Every write stamps the item's updatedAt with the caller's clock
// before transmission so conflict comparison is deterministic across
// replicas (at the cost of trusting device clocks).
type Store interface {
	// ListApplications returns all of the user's applications with their
	// stages, in stable creation order.
	ListApplications(ctx context.Context, userID string) ([]*Record, error)

	// CreateApplication creates a new document and returns its assigned
	// remote id.
	CreateApplication(ctx context.Context, userID string, a *models.Application) (string, error)

	// UpdateApplication overwrites the fields present in the payload and
	// leaves absent fields untouched. The application must already have a
	// remote id.
	UpdateApplication(ctx context.Context, userID string, a *models.Application) error

	// DeleteApplication removes the document and every stage under it.
	DeleteApplication(ctx context.Context, userID, remoteID string) error

	// FindApplicationByKey looks up an existing document by natural key.
	// It returns at most one match and (nil, nil) when there is none. Used
	// to de-duplicate records that two devices both created offline. Best
	// effort: two first pushes racing within the query's visibility window
	// can still create two documents.
	FindApplicationByKey(ctx context.Context, userID string, key models.NaturalKey) (*Record, error)

	// CreateStage creates a stage document under the given application and
	// returns its assigned remote id.
	CreateStage(ctx context.Context, userID, appRemoteID string, s *models.Stage) (string, error)

	// UpdateStage overwrites the fields present in the payload. The stage
	// must already have a remote id.
	UpdateStage(ctx context.Context, userID, appRemoteID string, s *models.Stage) error

	// DeleteStage removes one stage document.
	DeleteStage(ctx context.Context, userID, appRemoteID, stageRemoteID string) error
}
