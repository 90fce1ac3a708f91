package models

// Lifecycle is the deletion state of a synchronized record. A record starts
// active, moves to pending deletion when the user removes it, becomes a
// tombstone once the deletion has reached the remote store (or trivially,
// when no user is bound), and is then hard-deleted. A purged record has no
// row at all, so "purged but still awaiting sync" cannot be represented.
type Lifecycle string

const (
	// LifecycleActive is a live record visible to the user.
	LifecycleActive Lifecycle = "active"

	// LifecyclePendingDeletion is a locally deleted record whose deletion
	// has not yet been pushed. It is hidden from user-facing reads but must
	// not be physically removed.
	LifecyclePendingDeletion Lifecycle = "pending_deletion"

	// LifecycleTombstone is a deleted record whose deletion is confirmed
	// on the remote side. It only awaits purge.
	LifecycleTombstone Lifecycle = "tombstone"
)

// Deleted reports whether the record is hidden from user-facing reads.
func (l Lifecycle) Deleted() bool { return l != LifecycleActive }

// Purgeable reports whether the record may be hard-deleted from the local
// store without losing an un-pushed deletion.
func (l Lifecycle) Purgeable() bool { return l == LifecycleTombstone }
