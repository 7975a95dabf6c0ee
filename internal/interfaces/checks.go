package interfaces

// Compile-time checks that the concrete types satisfy the interfaces their
// consumers declare.

import (
	auditService "github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/catalog"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/session"
	"github.com/mrlokans/library/internal/tasks"
)

// =============================================================================
// Catalog
// =============================================================================

var _ library.Store = (*catalog.Repository)(nil)
var _ library.Recorder = (*auditService.Service)(nil)

// =============================================================================
// HTTP
// =============================================================================

var _ http.CatalogService = (*library.Service)(nil)
var _ http.Flasher = (*session.Manager)(nil)
var _ http.AuditReader = (*auditService.Service)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ http.CatalogStats = (*catalog.Repository)(nil)

// =============================================================================
// Maintenance
// =============================================================================

var _ tasks.OrphanAuthorsCleaner = (*catalog.Repository)(nil)
var _ tasks.ReconcileRecorder = (*auditService.Service)(nil)
var _ tasks.AuditEventCleaner = (*auditService.Service)(nil)
