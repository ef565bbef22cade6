package config

// Default paths and values
const (
	// DefaultDatabasePath is the default path for the catalogue database
	DefaultDatabasePath = "./books.db"

	// DefaultAuditCleanupSchedule runs audit retention daily at 03:00
	DefaultAuditCleanupSchedule = "0 3 * * *"
)

// DotEnvFiles are loaded, when present, before the environment is read.
// Variables already set in the environment win.
var DotEnvFiles = []string{".env", ".env.local"}
