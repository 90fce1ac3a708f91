// Package models defines the two synchronized entity kinds, job applications
// and their pipeline stages, together with their sync envelope and the pure
// conversions to and from the remote document shape.
package models

import "time"

// ApplicationStatus classifies where an application currently stands.
type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "applied"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffer        ApplicationStatus = "offer"
	StatusAccepted     ApplicationStatus = "accepted"
	StatusRejected     ApplicationStatus = "rejected"
	StatusWithdrawn    ApplicationStatus = "withdrawn"
)

// Application is a tracked job application. ID is the local identity and is
// never sent to the remote store; RemoteID is assigned by the remote store on
// first push and is immutable once set.
type Application struct {
	ID       string
	RemoteID string

	Role    string
	Company string
	Status  ApplicationStatus
	Date    time.Time
	Starred bool
	Note    string

	CreatedAt time.Time
	UpdatedAt time.Time

	Lifecycle    Lifecycle
	Dirty        bool
	LastSyncedAt time.Time
}

// NeedsSync reports whether local state has diverged from the last-known
// remote state: either the payload changed, or a deletion awaits push.
func (a *Application) NeedsSync() bool {
	return a.Dirty || a.Lifecycle == LifecyclePendingDeletion
}

// NaturalKey identifies "the same logical application" across devices before
// a remote identifier exists. Two devices that both created the record
// offline will produce equal keys.
type NaturalKey struct {
	Company string
	Role    string
	Date    time.Time
}

func (a *Application) NaturalKey() NaturalKey {
	return NaturalKey{Company: a.Company, Role: a.Role, Date: a.Date}
}

// ApplicationWithStages pairs an application with its visible stages,
// ordered by sort order.
type ApplicationWithStages struct {
	Application *Application
	Stages      []*Stage
}

// Remote document field names for applications.
const (
	FieldRole      = "role"
	FieldCompany   = "company"
	FieldDate      = "date"
	FieldStatus    = "status"
	FieldStarred   = "starred"
	FieldNote      = "note"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// ToDocument converts the application to its remote document shape.
// The local ID is deliberately not part of the document.
func (a *Application) ToDocument() map[string]any {
	return map[string]any{
		FieldRole:      a.Role,
		FieldCompany:   a.Company,
		FieldDate:      a.Date,
		FieldStatus:    string(a.Status),
		FieldStarred:   a.Starred,
		FieldNote:      a.Note,
		FieldCreatedAt: a.CreatedAt,
		FieldUpdatedAt: a.UpdatedAt,
	}
}

// ApplicationFromDoc builds a local application from a remote document.
// The result is clean (not dirty) and stamped as just synced, since it
// arrived from the source of truth. The caller assigns the local ID.
func ApplicationFromDoc(remoteID string, data map[string]any, now time.Time) *Application {
	return &Application{
		RemoteID:     remoteID,
		Role:         docString(data, FieldRole),
		Company:      docString(data, FieldCompany),
		Status:       ApplicationStatus(docString(data, FieldStatus)),
		Date:         docTime(data, FieldDate),
		Starred:      docBool(data, FieldStarred),
		Note:         docString(data, FieldNote),
		CreatedAt:    docTime(data, FieldCreatedAt),
		UpdatedAt:    docTime(data, FieldUpdatedAt),
		Lifecycle:    LifecycleActive,
		Dirty:        false,
		LastSyncedAt: now,
	}
}

// AbsorbRemote overwrites the payload fields of a with the remote copy's,
// keeping local identity. Used when the remote side wins a conflict.
func (a *Application) AbsorbRemote(remote *Application, now time.Time) {
	a.Role = remote.Role
	a.Company = remote.Company
	a.Status = remote.Status
	a.Date = remote.Date
	a.Starred = remote.Starred
	a.Note = remote.Note
	a.CreatedAt = remote.CreatedAt
	a.UpdatedAt = remote.UpdatedAt
	a.Lifecycle = LifecycleActive
	a.Dirty = false
	a.LastSyncedAt = now
}
