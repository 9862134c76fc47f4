/*
Package domain contains the core contracts of the undokit history engine.

It defines what a reversible command is, how commands are batched into
groups, and the events emitted while a history moves groups between its undo
and redo stacks. The package is free of I/O and persistence so that every
other layer (history, adapters, hosts) can depend on it.

# Key Entities

  - Command: anything that can Apply (redo) and Revert (undo) itself.
  - Group: an ordered batch of commands treated as one undo/redo step.
  - HistoryEvent: what happened to a group (push, undo, redo, drop, clear).
  - LifecycleHooks: optional callbacks a host registers for observability.
*/
package domain
