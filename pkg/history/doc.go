// Package history provides grouped undo/redo over reversible commands.
//
// A Manager keeps two stacks of command groups. Push records a group, applies
// it and invalidates the redo stack; Undo and Redo move the most recent group
// from one stack to the other, reverting or re-applying every command in the
// order it was pushed:
//
//	h := history.New(history.WithLimit(100))
//
//	cmd, _ := command.NewFieldSet[int](obj, 20000)
//	_ = h.Push(cmd)    // obj["value"] == 20000
//	_, _ = h.Undo()    // obj["value"] == 15000
//	_, _ = h.Redo()    // obj["value"] == 20000
//
// # Capacity
//
// The undo stack holds at most Limit groups. The two ways of enforcing it
// differ:
//
//   - Push evicts the OLDEST group when the stack is exactly at the limit.
//   - SetLimit discards the NEWEST groups when the limit shrinks.
//
// Redo does not enforce the limit, so a redo right after a shrink can leave
// the stack over it. Push only evicts at exactly the limit, so such a stack
// keeps growing; SetLimit brings it back. With a limit of 0 the pushed group
// is still kept.
//
// # Failures
//
// A command error stops the group where it happened and is returned to the
// caller. The group is recorded on the destination stack anyway; there is no
// rollback of the commands that already ran.
//
// A Manager is not safe for concurrent use. Hosts that share one between
// goroutines must serialise access themselves (see package session).
package history
