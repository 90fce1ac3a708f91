package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/dbx"
	"github.com/dmitrijs2005/jobkeeper/internal/models"
)

// StageRepository implements stage persistence over a DBTX.
type StageRepository struct {
	db dbx.DBTX
}

func NewStageRepository(db dbx.DBTX) *StageRepository {
	return &StageRepository{db: db}
}

const stageColumns = `id, application_id, remote_id, name, status, date, note, sort_order,
	created_at, updated_at, lifecycle, dirty, last_synced_at`

// Upsert inserts a new stage or replaces the stored state of an existing one
// by local id.
func (r *StageRepository) Upsert(ctx context.Context, s *models.Stage) error {
	query := `INSERT INTO stages (` + stageColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			application_id = excluded.application_id,
			remote_id = excluded.remote_id,
			name = excluded.name,
			status = excluded.status,
			date = excluded.date,
			note = excluded.note,
			sort_order = excluded.sort_order,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			lifecycle = excluded.lifecycle,
			dirty = excluded.dirty,
			last_synced_at = excluded.last_synced_at
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ApplicationID, s.RemoteID, s.Name, string(s.Status), toUnix(s.Date),
		s.Note, s.SortOrder, toUnix(s.CreatedAt), toUnix(s.UpdatedAt),
		string(s.Lifecycle), boolToInt(s.Dirty), toUnix(s.LastSyncedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert stage: %w", err)
	}
	return nil
}

func scanStage(row interface{ Scan(...any) error }) (*models.Stage, error) {
	s := &models.Stage{}
	var status, lifecycle string
	var date, createdAt, updatedAt, lastSyncedAt int64
	var dirty int
	err := row.Scan(&s.ID, &s.ApplicationID, &s.RemoteID, &s.Name, &status, &date,
		&s.Note, &s.SortOrder, &createdAt, &updatedAt, &lifecycle, &dirty, &lastSyncedAt)
	if err != nil {
		return nil, err
	}
	s.Status = models.StageStatus(status)
	s.Lifecycle = models.Lifecycle(lifecycle)
	s.Date = fromUnix(date)
	s.CreatedAt = fromUnix(createdAt)
	s.UpdatedAt = fromUnix(updatedAt)
	s.LastSyncedAt = fromUnix(lastSyncedAt)
	s.Dirty = dirty == 1
	return s, nil
}

func (r *StageRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Stage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select stages: %w", err)
	}
	defer rows.Close()

	var result []*models.Stage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a stage by local id regardless of lifecycle.
func (r *StageRepository) GetByID(ctx context.Context, id string) (*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE id = ?`
	s, err := scanStage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return s, nil
}

// GetByRemoteID returns the stage of the given application linked to the
// given remote document.
func (r *StageRepository) GetByRemoteID(ctx context.Context, applicationID, remoteID string) (*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE application_id = ? AND remote_id = ?`
	s, err := scanStage(r.db.QueryRowContext(ctx, query, applicationID, remoteID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return s, nil
}

// ListActiveByApplication returns the live stages of one application ordered
// by sort order.
func (r *StageRepository) ListActiveByApplication(ctx context.Context, applicationID string) ([]*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages
		WHERE application_id = ? AND lifecycle = 'active'
		ORDER BY sort_order, id`
	return r.queryMany(ctx, query, applicationID)
}

// ListDirtyByApplication returns the live dirty stages of one application in
// sort order.
func (r *StageRepository) ListDirtyByApplication(ctx context.Context, applicationID string) ([]*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages
		WHERE application_id = ? AND lifecycle = 'active' AND (dirty = 1 OR remote_id = '')
		ORDER BY sort_order, id`
	return r.queryMany(ctx, query, applicationID)
}

// ListPendingDeletion returns stages whose deletion has not been pushed yet.
func (r *StageRepository) ListPendingDeletion(ctx context.Context) ([]*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages
		WHERE lifecycle = 'pending_deletion' ORDER BY application_id, sort_order, id`
	return r.queryMany(ctx, query)
}

// ListPurgeable returns tombstoned stages.
func (r *StageRepository) ListPurgeable(ctx context.Context) ([]*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages
		WHERE lifecycle = 'tombstone' ORDER BY application_id, sort_order, id`
	return r.queryMany(ctx, query)
}

// CountNeedingSync counts stages with local changes awaiting push.
func (r *StageRepository) CountNeedingSync(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM stages
		WHERE dirty = 1 OR lifecycle = 'pending_deletion'`
	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count dirty stages: %w", err)
	}
	return n, nil
}

// MaxSortOrder returns the highest sort order among an application's stages,
// deleted ones included so a re-added stage never collides.
func (r *StageRepository) MaxSortOrder(ctx context.Context, applicationID string) (int64, error) {
	query := `SELECT COALESCE(MAX(sort_order), 0) FROM stages WHERE application_id = ?`
	var n int64
	if err := r.db.QueryRowContext(ctx, query, applicationID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to get max sort order: %w", err)
	}
	return n, nil
}

// MarkTombstoneByApplication transitions every stage of an application to
// tombstone. Used after the parent's remote deletion, which removed the
// stage documents along with it.
func (r *StageRepository) MarkTombstoneByApplication(ctx context.Context, applicationID string) error {
	query := `UPDATE stages SET lifecycle = 'tombstone' WHERE application_id = ?`
	_, err := r.db.ExecContext(ctx, query, applicationID)
	if err != nil {
		return fmt.Errorf("failed to tombstone stages: %w", err)
	}
	return nil
}

// HardDelete physically removes a row.
func (r *StageRepository) HardDelete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to hard-delete stage: %w", err)
	}
	return nil
}

// HardDeleteByApplication physically removes every stage of an application.
func (r *StageRepository) HardDeleteByApplication(ctx context.Context, applicationID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stages WHERE application_id = ?`, applicationID)
	if err != nil {
		return fmt.Errorf("failed to hard-delete stages: %w", err)
	}
	return nil
}

// DeleteAll wipes the table. Used on sign-out.
func (r *StageRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stages`)
	if err != nil {
		return fmt.Errorf("failed to wipe stages: %w", err)
	}
	return nil
}
