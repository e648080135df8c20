/*
Package ports defines the driven ports (interfaces) for the flux engine.

These interfaces decouple the interpreter from external implementations,
allowing it to run against various persistence backends and host surfaces.

# Key Interfaces

  - DocumentStore: per-user field persistence behind the store/load commands.
  - Surface: the host-side mount points (output, dynamic region, frame view)
    the interpreter renders into.
  - ChartRenderer: optional collaborator turning chart specs into nodes.
  - Sleeper: the wait command's clock, replaceable in tests.
  - DistributedLocker: cross-replica coordination for document access.
*/
package ports
