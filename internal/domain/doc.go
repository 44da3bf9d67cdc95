// Package domain defines the core business types for the campaign console.
//
// Types in this package are pure value objects with no behavior beyond
// validation, no database dependencies, and no HTTP concerns. They are the
// shared language between the store, the poller, the API client, and the
// stub backend.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Pure functions on the types are allowed; transition legality for the
//     campaign lifecycle lives in transitions.go so the client store and the
//     stub backend enforce identical rules
//   - Constants and enums belong here
package domain
