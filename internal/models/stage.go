package models

import "time"

// StageStatus classifies the outcome of a single pipeline stage.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageScheduled StageStatus = "scheduled"
	StagePassed    StageStatus = "passed"
	StageFailed    StageStatus = "failed"
)

// Stage is one step of an application's interview pipeline. It is owned by
// exactly one Application; ApplicationID references the owner's local ID and
// is never empty after creation.
type Stage struct {
	ID            string
	RemoteID      string
	ApplicationID string

	Name      string
	Status    StageStatus
	Date      time.Time
	Note      string
	SortOrder int64

	CreatedAt time.Time
	UpdatedAt time.Time

	Lifecycle    Lifecycle
	Dirty        bool
	LastSyncedAt time.Time
}

// NeedsSync reports whether local state has diverged from the last-known
// remote state.
func (s *Stage) NeedsSync() bool {
	return s.Dirty || s.Lifecycle == LifecyclePendingDeletion
}

// Remote document field names for stages.
const (
	FieldStage     = "stage"
	FieldSortOrder = "sortOrder"
)

// ToDocument converts the stage to its remote document shape. Neither the
// local ID nor the owner reference is part of the document; ownership is
// expressed by the document's position under its application.
func (s *Stage) ToDocument() map[string]any {
	return map[string]any{
		FieldStage:     s.Name,
		FieldStatus:    string(s.Status),
		FieldDate:      s.Date,
		FieldNote:      s.Note,
		FieldSortOrder: s.SortOrder,
		FieldCreatedAt: s.CreatedAt,
		FieldUpdatedAt: s.UpdatedAt,
	}
}

// StageFromDoc builds a local stage from a remote document. The result is
// clean and stamped as just synced. The caller assigns the local ID and the
// owning application's local ID.
func StageFromDoc(remoteID string, data map[string]any, now time.Time) *Stage {
	return &Stage{
		RemoteID:     remoteID,
		Name:         docString(data, FieldStage),
		Status:       StageStatus(docString(data, FieldStatus)),
		Date:         docTime(data, FieldDate),
		Note:         docString(data, FieldNote),
		SortOrder:    docInt(data, FieldSortOrder),
		CreatedAt:    docTime(data, FieldCreatedAt),
		UpdatedAt:    docTime(data, FieldUpdatedAt),
		Lifecycle:    LifecycleActive,
		Dirty:        false,
		LastSyncedAt: now,
	}
}

// AbsorbRemote overwrites the payload fields of s with the remote copy's,
// keeping local identity.
func (s *Stage) AbsorbRemote(remote *Stage, now time.Time) {
	s.Name = remote.Name
	s.Status = remote.Status
	s.Date = remote.Date
	s.Note = remote.Note
	s.SortOrder = remote.SortOrder
	s.CreatedAt = remote.CreatedAt
	s.UpdatedAt = remote.UpdatedAt
	s.Lifecycle = LifecycleActive
	s.Dirty = false
	s.LastSyncedAt = now
}
