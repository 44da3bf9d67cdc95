// Package store holds the authoritative client-side view of campaigns and
// the focused campaign's recipients.
//
// All mutation goes through Store methods, never through direct writes, so
// the transition guards and id normalization are enforced at one choke
// point. The store defines the Client interface it needs from the campaign
// backend; the HTTP implementation lives in internal/apiclient.
package store
