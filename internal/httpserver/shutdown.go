package httpserver

import "time"

// ShutdownTimeout controls how long Run waits for in-flight requests, uploads
// included, after the context is cancelled.
var ShutdownTimeout = 30 * time.Second
