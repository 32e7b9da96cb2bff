/*
Package observability instruments the session layer with Prometheus metrics.

StoreMetrics decorates a ports.SessionStore and counts and times every load,
save and clear, labelled by outcome.
*/
package observability
