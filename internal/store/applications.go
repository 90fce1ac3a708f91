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

// ApplicationRepository implements application persistence over a DBTX
// (either *sql.DB or *sql.Tx).
type ApplicationRepository struct {
	db dbx.DBTX
}

func NewApplicationRepository(db dbx.DBTX) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, remote_id, role, company, status, date, starred, note,
	created_at, updated_at, lifecycle, dirty, last_synced_at`

// Upsert inserts a new application or replaces the stored state of an
// existing one by local id.
func (r *ApplicationRepository) Upsert(ctx context.Context, a *models.Application) error {
	query := `INSERT INTO applications (` + applicationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			remote_id = excluded.remote_id,
			role = excluded.role,
			company = excluded.company,
			status = excluded.status,
			date = excluded.date,
			starred = excluded.starred,
			note = excluded.note,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			lifecycle = excluded.lifecycle,
			dirty = excluded.dirty,
			last_synced_at = excluded.last_synced_at
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.RemoteID, a.Role, a.Company, string(a.Status), toUnix(a.Date),
		boolToInt(a.Starred), a.Note, toUnix(a.CreatedAt), toUnix(a.UpdatedAt),
		string(a.Lifecycle), boolToInt(a.Dirty), toUnix(a.LastSyncedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert application: %w", err)
	}
	return nil
}

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	a := &models.Application{}
	var status, lifecycle string
	var date, createdAt, updatedAt, lastSyncedAt int64
	var starred, dirty int
	err := row.Scan(&a.ID, &a.RemoteID, &a.Role, &a.Company, &status, &date,
		&starred, &a.Note, &createdAt, &updatedAt, &lifecycle, &dirty, &lastSyncedAt)
	if err != nil {
		return nil, err
	}
	a.Status = models.ApplicationStatus(status)
	a.Lifecycle = models.Lifecycle(lifecycle)
	a.Date = fromUnix(date)
	a.CreatedAt = fromUnix(createdAt)
	a.UpdatedAt = fromUnix(updatedAt)
	a.LastSyncedAt = fromUnix(lastSyncedAt)
	a.Starred = starred == 1
	a.Dirty = dirty == 1
	return a, nil
}

func (r *ApplicationRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select applications: %w", err)
	}
	defer rows.Close()

	var result []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns an application by local id regardless of lifecycle.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = ?`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return a, nil
}

// GetByRemoteID returns the application linked to the given remote document,
// regardless of lifecycle.
func (r *ApplicationRepository) GetByRemoteID(ctx context.Context, remoteID string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE remote_id = ?`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, remoteID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return a, nil
}

// ListActive returns all live applications in stable order.
func (r *ApplicationRepository) ListActive(ctx context.Context) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
		WHERE lifecycle = 'active' ORDER BY created_at DESC, id`
	return r.queryMany(ctx, query)
}

// ListPushable returns live applications that need a push: the application
// itself is dirty, it has never been linked to a remote document, or it owns
// at least one dirty live stage.
func (r *ApplicationRepository) ListPushable(ctx context.Context) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications a
		WHERE a.lifecycle = 'active' AND (a.dirty = 1 OR a.remote_id = '' OR EXISTS (
			SELECT 1 FROM stages s
			WHERE s.application_id = a.id AND s.lifecycle = 'active' AND s.dirty = 1
		))
		ORDER BY a.created_at, a.id`
	return r.queryMany(ctx, query)
}

// ListPendingDeletion returns applications whose deletion has not been
// pushed yet.
func (r *ApplicationRepository) ListPendingDeletion(ctx context.Context) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
		WHERE lifecycle = 'pending_deletion' ORDER BY created_at, id`
	return r.queryMany(ctx, query)
}

// ListPurgeable returns tombstones: deleted applications whose deletion has
// definitely reached the remote store.
func (r *ApplicationRepository) ListPurgeable(ctx context.Context) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
		WHERE lifecycle = 'tombstone' ORDER BY created_at, id`
	return r.queryMany(ctx, query)
}

// CountNeedingSync counts applications with local changes awaiting push.
func (r *ApplicationRepository) CountNeedingSync(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM applications
		WHERE dirty = 1 OR lifecycle = 'pending_deletion'`
	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count dirty applications: %w", err)
	}
	return n, nil
}

// HardDelete physically removes a row. Callers must only do this for
// tombstones or during a sign-out wipe; a record awaiting push would lose
// its deletion otherwise.
func (r *ApplicationRepository) HardDelete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to hard-delete application: %w", err)
	}
	return nil
}

// DeleteAll wipes the table. Used on sign-out.
func (r *ApplicationRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM applications`)
	if err != nil {
		return fmt.Errorf("failed to wipe applications: %w", err)
	}
	return nil
}
