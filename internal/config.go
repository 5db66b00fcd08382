package internal

import "fmt"

// Config is the environment-driven configuration shared by the
// binaries. The kernel packages never read it; backends receive plain
// paths and loggers instead.
type Config struct {
	StorageBackend string `env:"STORAGE_BACKEND,default=json"`
	StorageDir     string `env:"STORAGE_DIR,default=storage"`
	SQLiteFilepath string `env:"SQLITE_FILEPATH,default=storage.sqlite3"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=storage.badger"`
	SchemaFilepath string `env:"SCHEMA_FILEPATH,default=core_schema.json"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
}

// Backend names accepted in STORAGE_BACKEND.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

func (c Config) ValidateBackend() error {
	switch c.StorageBackend {
	case BackendJSON, BackendSQLite, BackendBadger:
		return nil
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of %s, %s, %s, got %q",
			BackendJSON, BackendSQLite, BackendBadger, c.StorageBackend)
	}
}
