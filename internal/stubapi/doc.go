// Package stubapi implements a local development backend for the console:
// the campaign REST surface plus the requirement/lead source. It enforces
// the same lifecycle transition rules as the client-side store, because the
// backend is the final arbiter and the console's guards are only a
// front-line check.
//
// Reads and writes go through the Repository interface; memory.go holds the
// default in-memory implementation and postgres.go a PostgreSQL one for a
// longer-lived dev environment.
package stubapi
