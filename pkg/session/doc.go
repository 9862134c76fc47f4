/*
Package session hosts editable documents together with their undo history.

A history.Manager is not safe for concurrent use, so the Manager here hands
out one Session per document ID and serialises every access to it with a
per-document mutex (and, across processes, an optional distributed lock).
Sessions also coalesce rapid edits of the same field into a single undo step
through FieldSet.Merge.
*/
package session
