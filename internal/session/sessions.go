// Package session stores per-visitor state between requests: the scs session
// manager backed by the application database, its Gin adapter, and the flash
// messages shown once after a redirect.
package session

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/library/internal/config"
)

// Manager wraps scs.SessionManager with application-specific methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM. When nil,
// sessions are kept in memory.
func NewManager(sqlDB *sql.DB, cfg config.Session) (*Manager, error) {
	sm := scs.New()

	if sqlDB != nil {
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, err
		}
		sm.Store = sqlite3store.New(sqlDB)
	}

	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}
