// Package mock provides in-process stand-ins for the database and Redis used by the
// integration suite.
package mock

import (
	"fmt"
	"sort"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	dbOnce sync.Once
	db     *Db
)

// Db is a shared SQLite database holding the rule engine tables.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
	tables []string
}

// NewDb opens the suite database once and migrates the given models.
// models maps table names to model pointers; name becomes the shared-cache file name so
// every connection in the pool sees the same tables.
func NewDb(name string, models map[string]any) *Db {
	dbOnce.Do(func() {
		var err error
		db, err = open(name, models)
		if err != nil {
			panic(fmt.Sprintf("failed to open integration database: %s", err))
		}
	})

	return db
}

func open(name string, models map[string]any) (*Db, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// Rule outcome writes and scenario cleanup must not interleave.
	sqlDB.SetMaxOpenConns(1)

	tables := make([]string, 0, len(models))
	migrate := make([]any, 0, len(models))
	for table, model := range models {
		tables = append(tables, table)
		migrate = append(migrate, model)
	}
	sort.Strings(tables)

	if err := conn.AutoMigrate(migrate...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	for table, model := range models {
		if !conn.Migrator().HasTable(model) {
			return nil, fmt.Errorf("table %s was not created", table)
		}
	}

	return &Db{DbConn: conn, models: models, tables: tables}, nil
}

// ClearDB empties every registered table in one transaction.
func (d *Db) ClearDB() error {
	return d.DbConn.Transaction(func(tx *gorm.DB) error {
		for _, table := range d.tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// GetModel returns the model registered for table.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
