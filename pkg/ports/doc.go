/*
Package ports defines the driven ports (interfaces) of undokit.

These interfaces decouple commands and hosts from concrete storage, so the same
field-setting command works on a plain map, a Go struct or a Redis hash.

# Key Interfaces

  - FieldTarget: an object whose named fields can be read and written.
  - FieldDeleter: a target that can remove a field again.
  - Document / DocumentStore: editable documents served by the session layer.
  - DistributedLocker: serialises access to a document across processes.
*/
package ports
