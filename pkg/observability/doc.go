/*
Package observability provides Prometheus collectors for the route tooling.

A Metrics value groups the counters and histograms updated by the workspace:
decoded and encoded records, diagram builds and their node counts, diagram
cache hits and misses, and source reloads. Collectors are registered on a
caller-supplied registry so tests and embedders can keep them isolated from
prometheus.DefaultRegisterer.
*/
package observability
