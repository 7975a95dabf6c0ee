// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, foreign keys, migrations
//	├── catalog/         # Author and book queries and commands
//	└── audit/           # Audit event persistence
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type wrapping the shared *gorm.DB:
//
//	db, err := database.NewDatabase("./data/library.sqlite")
//
//	catalogRepo := catalog.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
//	books, err := catalogRepo.ListBooks(ctx, catalog.ListQuery{Sort: catalog.SortByAuthor})
//
// Repositories take no global state: every operation receives its context and runs
// against the handle injected at construction time. Multi-step writes use
// (*gorm.DB).Transaction so they commit or roll back as a unit.
package database
