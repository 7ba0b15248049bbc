package store

import "github.com/roach88/pinlog/internal/pin"

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open dispatches to the backend named by driver. The DSN is a file
// path for sqlite and a connection string for postgres.
func Open(driver, dsn string) (TabularStore, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(dsn)
	case DriverPostgres:
		return OpenPostgres(dsn)
	default:
		return nil, pin.NewConfigurationError("unknown store driver " + driver)
	}
}
