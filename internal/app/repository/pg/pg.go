package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/model"
	"mom-generator/internal/app/repository"
	"mom-generator/internal/app/repository/migrations"
)

const driverName = "postgres"

// PostgresDB stores meetings in postgres
type PostgresDB struct {
	*repository.CommonDB
	db *sql.DB
}

// NewPostgresDB connects with connectionString and applies migrations
func NewPostgresDB(ctx context.Context, connectionString string) (*PostgresDB, error) {
	db, err := sql.Open(driverName, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := migrations.Up(db, driverName); err != nil {
		db.Close()
		return nil, err
	}
	return NewPostgresDBWithDB(db), nil
}

// NewPostgresDBWithDB wraps an existing connection without migrating it
func NewPostgresDBWithDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{CommonDB: repository.NewCommonDB(db, driverName), db: db}
}

// Create inserts meeting and sets its ID
func (pdb *PostgresDB) Create(ctx context.Context, meeting *model.Meeting) (int, error) {
	args, err := repository.InsertArgs(meeting)
	if err != nil {
		return 0, err
	}
	var id int
	if err := pdb.db.QueryRowContext(ctx, pdb.InsertQuery()+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrInsertFailed.Error())
	}
	meeting.ID = id
	return id, nil
}
