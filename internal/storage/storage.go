package storage

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLite opens path with foreign keys on; transactions take the write lock up front.
func NewSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, err
	}
	return db, db.Ping()
}
