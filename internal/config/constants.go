package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./data/library.sqlite"

	// DefaultReconcileSchedule runs the orphan author sweep hourly at :00
	DefaultReconcileSchedule = "0 * * * *"

	// DefaultAuditCleanupSchedule prunes the audit log daily at 03:00
	DefaultAuditCleanupSchedule = "0 3 * * *"

	// DateLayout is the only accepted format for form dates
	DateLayout = "2006-01-02"
)
