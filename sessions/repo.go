package sessions

// Store holds the session record of one tab or profile.
type Store interface {
	// Get returns the value of a field. ok is false when the field is absent;
	// absence is never an error.
	Get(field Field) (value string, ok bool, err error)

	// Set writes a single field.
	Set(field Field, value string) error

	// Clear removes every field in one step.
	Clear() error

	// ReplaceCredential swaps the credential only if the stored one still
	// equals old. It reports whether the swap happened.
	ReplaceCredential(old, new string) (bool, error)
}
