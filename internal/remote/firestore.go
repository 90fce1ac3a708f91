package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/models"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection        = "users"
	applicationsCollection = "applications"
	stagesCollection       = "stages"

	// stageListConcurrency bounds parallel stage listings during a full pull.
	stageListConcurrency = 4
)

// FirestoreStore implements Store on top of Cloud Firestore. Documents live
// at users/{uid}/applications/{id} with stages in a subcollection.
type FirestoreStore struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreStore returns a Store backed by the given Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client, now: time.Now}
}

// NewClient creates a Firestore client for the given project.
func NewClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: firestore project id is required", common.ErrInvalidData)
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}

func (f *FirestoreStore) applications(userID string) *firestore.CollectionRef {
	return f.client.Collection(usersCollection).Doc(userID).Collection(applicationsCollection)
}

func (f *FirestoreStore) stages(userID, appRemoteID string) *firestore.CollectionRef {
	return f.applications(userID).Doc(appRemoteID).Collection(stagesCollection)
}

// wrapErr classifies a Firestore error: NotFound maps to the repository
// sentinel, everything else counts as a network failure wrapping the
// transport error.
func wrapErr(op string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", op, common.ErrorNotFound)
	}
	return fmt.Errorf("%s: %w", op, errors.Join(common.ErrNetworkFailure, err))
}

func (f *FirestoreStore) ListApplications(ctx context.Context, userID string) ([]*Record, error) {
	iter := f.applications(userID).OrderBy(models.FieldCreatedAt, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	now := f.now().UTC()
	var records []*Record
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, wrapErr("listing applications", err)
		}
		records = append(records, &Record{
			Application: models.ApplicationFromDoc(doc.Ref.ID, doc.Data(), now),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stageListConcurrency)
	for _, rec := range records {
		g.Go(func() error {
			stages, err := f.listStages(gctx, userID, rec.Application.RemoteID)
			if err != nil {
				return err
			}
			rec.Stages = stages
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (f *FirestoreStore) listStages(ctx context.Context, userID, appRemoteID string) ([]*models.Stage, error) {
	iter := f.stages(userID, appRemoteID).OrderBy(models.FieldSortOrder, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	now := f.now().UTC()
	var stages []*models.Stage
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, wrapErr("listing stages", err)
		}
		stages = append(stages, models.StageFromDoc(doc.Ref.ID, doc.Data(), now))
	}
	return stages, nil
}

func (f *FirestoreStore) CreateApplication(ctx context.Context, userID string, a *models.Application) (string, error) {
	a.UpdatedAt = f.now().UTC()
	ref, _, err := f.applications(userID).Add(ctx, a.ToDocument())
	if err != nil {
		return "", wrapErr("creating application", err)
	}
	return ref.ID, nil
}

func (f *FirestoreStore) UpdateApplication(ctx context.Context, userID string, a *models.Application) error {
	if a.RemoteID == "" {
		return fmt.Errorf("updating application: %w", common.ErrMissingIdentifier)
	}
	a.UpdatedAt = f.now().UTC()
	_, err := f.applications(userID).Doc(a.RemoteID).Set(ctx, a.ToDocument(), firestore.MergeAll)
	if err != nil {
		return wrapErr("updating application", err)
	}
	return nil
}

func (f *FirestoreStore) DeleteApplication(ctx context.Context, userID, remoteID string) error {
	if remoteID == "" {
		return fmt.Errorf("deleting application: %w", common.ErrMissingIdentifier)
	}

	// Stage documents do not disappear with their parent; remove them first.
	iter := f.stages(userID, remoteID).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return wrapErr("listing stages for delete", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return wrapErr("deleting stage", err)
		}
	}

	if _, err := f.applications(userID).Doc(remoteID).Delete(ctx); err != nil {
		return wrapErr("deleting application", err)
	}
	return nil
}

func (f *FirestoreStore) FindApplicationByKey(ctx context.Context, userID string, key models.NaturalKey) (*Record, error) {
	query := f.applications(userID).
		Where(models.FieldCompany, "==", key.Company).
		Where(models.FieldRole, "==", key.Role).
		Where(models.FieldDate, "==", key.Date).
		Limit(1)

	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("finding application by key", err)
	}

	return &Record{
		Application: models.ApplicationFromDoc(doc.Ref.ID, doc.Data(), f.now().UTC()),
	}, nil
}

func (f *FirestoreStore) CreateStage(ctx context.Context, userID, appRemoteID string, s *models.Stage) (string, error) {
	if appRemoteID == "" {
		return "", fmt.Errorf("creating stage: %w", common.ErrMissingIdentifier)
	}
	s.UpdatedAt = f.now().UTC()
	ref, _, err := f.stages(userID, appRemoteID).Add(ctx, s.ToDocument())
	if err != nil {
		return "", wrapErr("creating stage", err)
	}
	return ref.ID, nil
}

func (f *FirestoreStore) UpdateStage(ctx context.Context, userID, appRemoteID string, s *models.Stage) error {
	if appRemoteID == "" || s.RemoteID == "" {
		return fmt.Errorf("updating stage: %w", common.ErrMissingIdentifier)
	}
	s.UpdatedAt = f.now().UTC()
	_, err := f.stages(userID, appRemoteID).Doc(s.RemoteID).Set(ctx, s.ToDocument(), firestore.MergeAll)
	if err != nil {
		return wrapErr("updating stage", err)
	}
	return nil
}

func (f *FirestoreStore) DeleteStage(ctx context.Context, userID, appRemoteID, stageRemoteID string) error {
	if appRemoteID == "" || stageRemoteID == "" {
		return fmt.Errorf("deleting stage: %w", common.ErrMissingIdentifier)
	}
	if _, err := f.stages(userID, appRemoteID).Doc(stageRemoteID).Delete(ctx); err != nil {
		return wrapErr("deleting stage", err)
	}
	return nil
}
