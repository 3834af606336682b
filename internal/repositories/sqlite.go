package repositories

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is go-sqlite3 with unicode_lower registered on every
// connection. SQLite's own LOWER only folds ASCII.
const sqliteDriverName = "sqlite3_producthub"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
		},
	})
}

func sqliteDialector(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}

// lowerFunc names the SQL function that folds case the way strings.ToLower does.
func lowerFunc(db *gorm.DB) string {
	if d, ok := db.Dialector.(*sqlite.Dialector); ok && d.DriverName == sqliteDriverName {
		return "unicode_lower"
	}
	return "LOWER"
}
