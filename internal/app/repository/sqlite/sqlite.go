package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/model"
	"mom-generator/internal/app/repository"
	"mom-generator/internal/app/repository/migrations"
)

const driverName = "sqlite3"

// SQLiteDB stores meetings in a local sqlite file
type SQLiteDB struct {
	*repository.CommonDB
	db *sql.DB
}

// NewSQLiteDB opens (creating when needed) the database at dbFilePath and
// applies migrations
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbFilePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := migrations.Up(db, driverName); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteDB{CommonDB: repository.NewCommonDB(db, driverName), db: db}, nil
}

// Create inserts meeting and sets its ID
func (sdb *SQLiteDB) Create(ctx context.Context, meeting *model.Meeting) (int, error) {
	args, err := repository.InsertArgs(meeting)
	if err != nil {
		return 0, err
	}
	res, err := sdb.db.ExecContext(ctx, sdb.InsertQuery(), args...)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrInsertFailed.Error())
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrInsertFailed.Error())
	}
	meeting.ID = int(id)
	return meeting.ID, nil
}
