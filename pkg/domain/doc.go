/*
Package domain contains the core domain models for the flux interpreter.

It defines the wire-level Command descriptor, the rendered Node tree, the
shared State bag, and the container abstraction that stands in for a host
surface. This package is kept pure and free of external dependencies like I/O
or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Command: One declarative instruction ({type, props, commands?}); the JSON
    field names are the compatibility surface for hosts and remote generators.
  - Node: An opaque rendered element. Interactive nodes carry closures that
    the host invokes through Activate and SetValue.
  - Container: An ordered, named list of nodes standing in for a host mount
    point (main output, dynamic output, overlays).
  - State: The shared key/value bag read by interpolation and written by
    widget listeners, loop expansion, and the load command.
*/
package domain
