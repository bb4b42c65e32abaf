package storage

import (
	"humanlayer/hlyr/pkg/config"
	"humanlayer/hlyr/pkg/history"
)

// Open returns the SQLite journal described by cfg. It opens the database
// whether or not cfg.Enabled is set, so history commands can read a journal
// that chat no longer writes to.
func Open(cfg config.HistoryConfig) (history.Storage, error) {
	sqliteConfig := DefaultSQLiteConfig(cfg.Path)
	if cfg.Driver != "" {
		sqliteConfig.Driver = cfg.Driver
	}
	return NewSQLiteStorage(sqliteConfig)
}
