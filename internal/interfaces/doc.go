// Package interfaces lists the seams between the packages of the catalog.
//
//   - library.Store: author and book persistence (database/catalog)
//   - library.Recorder: audit trail of mutations (audit)
//   - http.CatalogService: catalog operations behind the pages (library)
//   - http.Flasher: one-shot messages across redirects (session)
//   - http.AuditReader: audit history API (audit)
//   - http.Pinger: database health (database)
//   - http.CatalogStats: record counts on /health (database/catalog)
//   - tasks.OrphanAuthorsCleaner: reconcile sweep (database/catalog)
//   - tasks.ReconcileRecorder, tasks.AuditEventCleaner: maintenance jobs (audit)
//
// checks.go asserts each implementation at compile time.
package interfaces
