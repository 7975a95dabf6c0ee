package session

import (
	"context"
	"encoding/gob"
)

const flashKey = "flashes"

// Flash categories understood by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-time message carried to the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register([]Flash{})
}

// AddFlash queues a message for the next page the visitor sees.
func (sm *Manager) AddFlash(ctx context.Context, category, message string) {
	flashes, _ := sm.Get(ctx, flashKey).([]Flash)
	sm.Put(ctx, flashKey, append(flashes, Flash{Category: category, Message: message}))
}

// PopFlashes returns queued messages in the order they were added and clears them.
func (sm *Manager) PopFlashes(ctx context.Context) []Flash {
	flashes, _ := sm.Pop(ctx, flashKey).([]Flash)
	return flashes
}
