package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

// AuditReader exposes the recorded history of catalog changes.
type AuditReader interface {
	GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsForEntity(entityType string, entityID uint, limit, offset int) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	auditService AuditReader
}

func NewAuditController(auditService AuditReader) *AuditController {
	return &AuditController{auditService: auditService}
}

// AuditEventsResponse is one page of audit events.
type AuditEventsResponse struct {
	Events      []entities.AuditEvent `json:"events"`
	Page        int                   `json:"page"`
	Limit       int                   `json:"limit"`
	TotalPages  int                   `json:"total_pages"`
	TotalEvents int64                 `json:"total_events"`
}

// GetAuditEvents returns paginated audit events, newest first.
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit := pagination(c)

	events, total, err := ac.auditService.GetEvents(limit, (page-1)*limit)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}
	c.JSON(http.StatusOK, auditPage(events, total, page, limit))
}

// GetEntityHistory returns the audit events of one author or book.
func (ac *AuditController) GetEntityHistory(c *gin.Context) {
	entityType := c.Param("entity_type")
	if entityType != "author" && entityType != "book" {
		respondBadRequest(c, "entity type must be author or book")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, limit := pagination(c)
	events, total, err := ac.auditService.GetEventsForEntity(entityType, id, limit, (page-1)*limit)
	if err != nil {
		respondInternalError(c, err, "load audit history")
		return
	}
	c.JSON(http.StatusOK, auditPage(events, total, page, limit))
}

func pagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAuditLimit)))
	if err != nil || limit < 1 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	return page, limit
}

func auditPage(events []entities.AuditEvent, total int64, page, limit int) AuditEventsResponse {
	if events == nil {
		events = []entities.AuditEvent{}
	}
	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return AuditEventsResponse{
		Events:      events,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		TotalEvents: total,
	}
}
