package command

// Func adapts two functions into a domain.Command.
// A nil function is a no-op.
type Func struct {
	ApplyFn  func() error
	RevertFn func() error
}

// Apply calls ApplyFn.
func (f Func) Apply() error {
	if f.ApplyFn == nil {
		return nil
	}
	return f.ApplyFn()
}

// Revert calls RevertFn.
func (f Func) Revert() error {
	if f.RevertFn == nil {
		return nil
	}
	return f.RevertFn()
}
