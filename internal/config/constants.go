package config

const (
	// DefaultDatabasePath is the default path for the inventory database
	DefaultDatabasePath = "./bookstore.db"

	// DefaultDatabaseLogLevel only surfaces slow queries and failures
	DefaultDatabaseLogLevel = "warn"

	// DefaultMaintenanceSchedule runs housekeeping daily at 03:00
	DefaultMaintenanceSchedule = "0 3 * * *"
)
