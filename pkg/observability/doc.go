/*
Package observability turns history lifecycle events into metrics and logs.

Metrics registers Prometheus collectors and exposes them as
domain.LifecycleHooks; LogHooks does the same for a slog logger; Combine
fans one event out to several hook sets so a host can install both.
*/
package observability
