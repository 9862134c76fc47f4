package domain

import "fmt"

// Group is an ordered batch of commands that is undone and redone as a unit.
// A Group is itself a Command, so groups may be nested.
type Group []Command

// Apply applies every command in insertion order.
// It stops at the first failure; commands already applied stay applied.
func (g Group) Apply() error {
	for i, cmd := range g {
		if err := cmd.Apply(); err != nil {
			return fmt.Errorf("apply step %d of %d: %w", i+1, len(g), err)
		}
	}
	return nil
}

// Revert reverts every command in insertion order, not in reverse.
// It stops at the first failure; commands already reverted stay reverted.
func (g Group) Revert() error {
	for i, cmd := range g {
		if err := cmd.Revert(); err != nil {
			return fmt.Errorf("revert step %d of %d: %w", i+1, len(g), err)
		}
	}
	return nil
}

// Len returns the number of commands in the group.
func (g Group) Len() int {
	return len(g)
}
