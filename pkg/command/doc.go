// Package command provides ready-made implementations of domain.Command.
//
// FieldSet writes one named field of any ports.FieldTarget and restores the
// value it found there on Revert. Func turns a pair of closures into a
// command for hosts that do not want a dedicated type.
package command
