/*
Package observability turns triage lifecycle hooks into operational signals.

Metrics registers Prometheus collectors for classification outcomes,
classification latency, answered questions and reached diagnoses. LogHooks
emits one structured log line per event. Both return domain.LifecycleHooks
that can be combined with domain.ChainHooks.
*/
package observability
