package http

import "github.com/mrlokans/library/internal/session"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  CatalogService
	Database Pinger
	Stats    CatalogStats

	// Audit history API; nil disables it
	AuditService AuditReader

	// Sessions carry flash messages; nil disables them
	SessionManager *session.Manager

	// CSRF protection is enabled when a secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
