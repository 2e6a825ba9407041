package domain

// KeyState reports whether a key exists for an alias.
type KeyState string

const (
	KeyStateAbsent  KeyState = "absent"
	KeyStatePresent KeyState = "present"
)

// KeyStatus describes the key stored under an alias.
type KeyStatus struct {
	Alias     string
	State     KeyState
	Algorithm Algorithm
}

// DeleteOutcome is the result of a key deletion.
type DeleteOutcome string

const (
	// DeleteOutcomeAbsent means no key existed, so no deletion was attempted.
	DeleteOutcomeAbsent DeleteOutcome = "absent"
	// DeleteOutcomeDeleted means the key was removed.
	DeleteOutcomeDeleted DeleteOutcome = "deleted"
	// DeleteOutcomeFailed means the store rejected the deletion; Err holds the cause.
	DeleteOutcomeFailed DeleteOutcome = "failed"
)

// DeleteResult reports what a deletion did. Deletion never returns an error to
// callers; failures are carried here instead.
type DeleteResult struct {
	Alias   string
	Outcome DeleteOutcome
	Err     error
}

// Failed reports whether the store rejected the deletion.
func (r DeleteResult) Failed() bool {
	return r.Outcome == DeleteOutcomeFailed
}
