package http

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/security"
)

func formatDate(t time.Time) string {
	return t.Format(config.DateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(security.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(security.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(security.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	var flashes Flasher
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSave())
		flashes = cfg.SessionManager
	}

	funcMap := template.FuncMap{
		"formatDate":         formatDate,
		"formatOptionalDate": formatOptionalDate,
	}

	tmpl := template.Must(template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	health := NewHealthController(cfg.Database, cfg.Stats, cfg.Version)
	catalogController := NewCatalogController(cfg.Catalog, flashes)

	router.GET("/", catalogController.HomePage)
	router.GET("/add_author", catalogController.AddAuthorPage)
	router.POST("/add_author", catalogController.AddAuthor)
	router.GET("/add_book", catalogController.AddBookPage)
	router.POST("/add_book", catalogController.AddBook)
	router.POST("/book/:book_id/delete", catalogController.DeleteBook)

	router.GET("/api/books", catalogController.ListBooksJSON)
	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		router.GET("/api/audit", auditController.GetAuditEvents)
		router.GET("/api/audit/:entity_type/:id", auditController.GetEntityHistory)
	}

	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	return router
}
