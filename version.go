package flux

// Version is the library version reported by the CLI and the HTTP API.
const Version = "0.3.0"
