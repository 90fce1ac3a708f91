// Package service exposes application and stage CRUD to the presentation
// layer. Every mutation stamps the record's sync obligation and notifies the
// sync engine; deletions cascade from an application to its stages in the
// same commit.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"github.com/dmitrijs2005/jobkeeper/internal/models"
	"github.com/dmitrijs2005/jobkeeper/internal/store"
	"github.com/google/uuid"
)

// SyncScheduler is the slice of the sync engine the facade needs: a
// post-mutation nudge and the knowledge whether a user session is bound.
type SyncScheduler interface {
	ScheduleSync()
	Enabled() bool
}

// Tracker is the user-facing repository over the local store.
type Tracker struct {
	store *store.Store
	sync  SyncScheduler
	log   logging.Logger
	now   func() time.Time
}

func NewTracker(st *store.Store, sync SyncScheduler, log logging.Logger) *Tracker {
	return &Tracker{store: st, sync: sync, log: log, now: time.Now}
}

// ApplicationInput carries the user-editable application fields.
type ApplicationInput struct {
	Role    string
	Company string
	Status  models.ApplicationStatus
	Date    time.Time
	Note    string
}

// StageInput carries the user-editable stage fields.
type StageInput struct {
	Name   string
	Status models.StageStatus
	Date   time.Time
	Note   string
}

// List returns all live applications with their live stages, newest
// application first, stages in pipeline order.
func (t *Tracker) List(ctx context.Context) ([]*models.ApplicationWithStages, error) {
	r := t.store.Repos()

	apps, err := r.Applications.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}

	result := make([]*models.ApplicationWithStages, 0, len(apps))
	for _, a := range apps {
		stages, err := r.Stages.ListActiveByApplication(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing stages: %w", err)
		}
		result = append(result, &models.ApplicationWithStages{Application: a, Stages: stages})
	}
	return result, nil
}

// Get returns one live application with its stages.
func (t *Tracker) Get(ctx context.Context, id string) (*models.ApplicationWithStages, error) {
	r := t.store.Repos()

	a, err := r.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Lifecycle.Deleted() {
		return nil, common.ErrorNotFound
	}
	stages, err := r.Stages.ListActiveByApplication(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing stages: %w", err)
	}
	return &models.ApplicationWithStages{Application: a, Stages: stages}, nil
}

// Create adds a new application. It starts dirty and is pushed by the next
// sync cycle.
func (t *Tracker) Create(ctx context.Context, in ApplicationInput) (*models.Application, error) {
	if in.Role == "" || in.Company == "" {
		return nil, fmt.Errorf("%w: role and company are required", common.ErrInvalidData)
	}
	if in.Status == "" {
		in.Status = models.StatusApplied
	}

	now := t.now().UTC()
	a := &models.Application{
		ID:        uuid.NewString(),
		Role:      in.Role,
		Company:   in.Company,
		Status:    in.Status,
		Date:      in.Date,
		Note:      in.Note,
		CreatedAt: now,
		UpdatedAt: now,
		Lifecycle: models.LifecycleActive,
		Dirty:     true,
	}
	if a.Date.IsZero() {
		a.Date = now
	}

	if err := t.store.Repos().Applications.Upsert(ctx, a); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	t.sync.ScheduleSync()
	return a, nil
}

// Update replaces the editable fields of a live application.
func (t *Tracker) Update(ctx context.Context, id string, in ApplicationInput) error {
	if id == "" {
		return common.ErrMissingIdentifier
	}

	r := t.store.Repos()
	a, err := r.Applications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Lifecycle.Deleted() {
		return common.ErrorNotFound
	}

	a.Role = in.Role
	a.Company = in.Company
	a.Status = in.Status
	if !in.Date.IsZero() {
		a.Date = in.Date
	}
	a.Note = in.Note
	t.touchApplication(a)

	if err := r.Applications.Upsert(ctx, a); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	t.sync.ScheduleSync()
	return nil
}

// ToggleStar flips the starred flag.
func (t *Tracker) ToggleStar(ctx context.Context, id string) error {
	r := t.store.Repos()
	a, err := r.Applications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Lifecycle.Deleted() {
		return common.ErrorNotFound
	}

	a.Starred = !a.Starred
	t.touchApplication(a)

	if err := r.Applications.Upsert(ctx, a); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	t.sync.ScheduleSync()
	return nil
}

// Delete soft-deletes an application and cascades to its stages in the same
// commit. With a bound user the records await the next push; without one no
// remote copy can exist, so they are hard-deleted right away.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	enabled := t.sync.Enabled()

	err := t.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		a, err := r.Applications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.Lifecycle.Deleted() {
			return common.ErrorNotFound
		}

		if !enabled {
			if err := r.Stages.HardDeleteByApplication(ctx, a.ID); err != nil {
				return err
			}
			return r.Applications.HardDelete(ctx, a.ID)
		}

		stages, err := r.Stages.ListActiveByApplication(ctx, a.ID)
		if err != nil {
			return err
		}
		for _, s := range stages {
			s.Lifecycle = models.LifecyclePendingDeletion
			s.UpdatedAt = t.now().UTC()
			if err := r.Stages.Upsert(ctx, s); err != nil {
				return err
			}
		}

		a.Lifecycle = models.LifecyclePendingDeletion
		a.UpdatedAt = t.now().UTC()
		return r.Applications.Upsert(ctx, a)
	})
	if err != nil {
		return err
	}

	if enabled {
		t.sync.ScheduleSync()
	}
	return nil
}

// AddStage appends a stage to an application's pipeline.
func (t *Tracker) AddStage(ctx context.Context, applicationID string, in StageInput) (*models.Stage, error) {
	if applicationID == "" {
		return nil, common.ErrMissingIdentifier
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: stage name is required", common.ErrInvalidData)
	}

	r := t.store.Repos()
	a, err := r.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.Lifecycle.Deleted() {
		return nil, common.ErrorNotFound
	}

	maxOrder, err := r.Stages.MaxSortOrder(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = models.StagePending
	}
	now := t.now().UTC()
	s := &models.Stage{
		ID:            uuid.NewString(),
		ApplicationID: a.ID,
		Name:          in.Name,
		Status:        in.Status,
		Date:          in.Date,
		Note:          in.Note,
		SortOrder:     maxOrder + 1,
		CreatedAt:     now,
		UpdatedAt:     now,
		Lifecycle:     models.LifecycleActive,
		Dirty:         true,
	}

	if err := r.Stages.Upsert(ctx, s); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	t.sync.ScheduleSync()
	return s, nil
}

// UpdateStage replaces the editable fields of a live stage.
func (t *Tracker) UpdateStage(ctx context.Context, stageID string, in StageInput) error {
	if stageID == "" {
		return common.ErrMissingIdentifier
	}

	r := t.store.Repos()
	s, err := r.Stages.GetByID(ctx, stageID)
	if err != nil {
		return err
	}
	if s.Lifecycle.Deleted() {
		return common.ErrorNotFound
	}

	s.Name = in.Name
	s.Status = in.Status
	if !in.Date.IsZero() {
		s.Date = in.Date
	}
	s.Note = in.Note
	s.UpdatedAt = t.now().UTC()
	s.Dirty = true

	if err := r.Stages.Upsert(ctx, s); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	t.sync.ScheduleSync()
	return nil
}

// RemoveStage soft-deletes one stage; the owning application stays live.
// Without a bound user the stage is hard-deleted right away.
func (t *Tracker) RemoveStage(ctx context.Context, stageID string) error {
	r := t.store.Repos()
	s, err := r.Stages.GetByID(ctx, stageID)
	if err != nil {
		return err
	}
	if s.Lifecycle.Deleted() {
		return common.ErrorNotFound
	}

	if !t.sync.Enabled() {
		return r.Stages.HardDelete(ctx, s.ID)
	}

	s.Lifecycle = models.LifecyclePendingDeletion
	s.UpdatedAt = t.now().UTC()
	if err := r.Stages.Upsert(ctx, s); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	t.sync.ScheduleSync()
	return nil
}

func (t *Tracker) touchApplication(a *models.Application) {
	a.UpdatedAt = t.now().UTC()
	a.Dirty = true
}
