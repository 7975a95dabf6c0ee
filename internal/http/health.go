package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports database connectivity.
type Pinger interface {
	Ping() error
}

// CatalogStats counts the catalog's records.
type CatalogStats interface {
	Stats(ctx context.Context) (books int64, authors int64, err error)
}

type CatalogCounts struct {
	Books   int64 `json:"books"`
	Authors int64 `json:"authors"`
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Catalog *CatalogCounts    `json:"catalog,omitempty"`
}

type HealthController struct {
	db      Pinger
	stats   CatalogStats
	version string
}

// NewHealthController builds the health endpoints. Both db and stats may be nil.
func NewHealthController(db Pinger, stats CatalogStats, version string) *HealthController {
	return &HealthController{db: db, stats: stats, version: version}
}

// Status pings the database and, when it answers, counts the catalog.
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{"database": "not configured"},
	}

	if h.db != nil {
		resp.Checks["database"] = "ok"
		if err := h.db.Ping(); err != nil {
			resp.Checks["database"] = "error: " + err.Error()
			resp.Status = "unhealthy"
		}
	}

	if h.stats != nil && resp.Status == "healthy" {
		books, authors, err := h.stats.Stats(c.Request.Context())
		if err != nil {
			resp.Checks["catalog"] = "error: " + err.Error()
			resp.Status = "unhealthy"
		} else {
			resp.Checks["catalog"] = "ok"
			resp.Catalog = &CatalogCounts{Books: books, Authors: authors}
		}
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

func (h *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
