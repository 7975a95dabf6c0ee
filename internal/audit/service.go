package audit

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

// Service records catalog mutations as audit events.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every pending asynchronous event has been written.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogCreate records the creation of an author or book.
func (s *Service) LogCreate(entityType string, entityID uint, entityName string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventCreate,
		Action:      entityType + "_create",
		Description: "Created " + entityType + ": " + truncate(entityName, 400),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogDelete records a deletion. cascade marks authors removed together with
// their last book.
func (s *Service) LogDelete(entityType string, entityID uint, entityName string, cascade bool) {
	action := entityType + "_delete"
	if cascade {
		action = entityType + "_delete_cascade"
	}

	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      action,
		Description: "Deleted " + entityType + ": " + truncate(entityName, 400),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogReconcile records a sweep of orphan authors.
func (s *Service) LogReconcile(removed int64, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventReconcile,
		Action:      "reconcile_orphan_authors",
		Description: "Removed orphan authors",
		EntityType:  "author",
		Status:      entities.AuditStatusSuccess,
	}

	if mdBytes, e := json.Marshal(map[string]any{"removed": removed}); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsForEntity retrieves the paginated history of one author or book.
func (s *Service) GetEventsForEntity(entityType string, entityID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsForEntity(entityType, entityID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
