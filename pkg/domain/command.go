package domain

// Command is a reversible state change.
//
// Apply performs (or re-performs) the change; Revert restores the state that
// existed before Apply. Errors are returned to the caller of the history
// operation that triggered them and are never recovered by the history.
type Command interface {
	Apply() error
	Revert() error
}
