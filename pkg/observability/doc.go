/*
Package observability turns interpreter lifecycle events into Prometheus
metrics.

Metrics owns its collectors and registry; wire its Hooks into an interpreter
and mount its Handler wherever the process serves HTTP. Nothing is registered
globally, so multiple instances can coexist in one process.
*/
package observability
