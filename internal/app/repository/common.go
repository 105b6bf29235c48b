package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/model"
)

// CommonDB provides the queries shared by the sqlite and postgres DAOs
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
	}
}

// MeetingColumns in insert order
var MeetingColumns = []string{
	"user_name", "created_at", "file_name", "audio_key", "audio_duration",
	"language", "speech_language", "provider", "transcript", "translated",
	"minutes", "steps", "has_error", "error_message",
}

const selectColumns = `id, user_name, created_at, file_name, audio_key, audio_duration,
	language, speech_language, provider, transcript, translated, minutes, steps, error_message`

// InsertQuery builds the INSERT statement for meetings
func (c *CommonDB) InsertQuery() string {
	params := make([]string, len(MeetingColumns))
	for i := range params {
		params[i] = c.placeholders(i + 1)
	}
	return fmt.Sprintf("INSERT INTO meetings (%s) VALUES (%s)",
		strings.Join(MeetingColumns, ", "), strings.Join(params, ", "))
}

// InsertArgs returns the values for InsertQuery
func InsertArgs(m *model.Meeting) ([]interface{}, error) {
	steps, err := json.Marshal(m.Steps)
	if err != nil {
		return nil, fmt.Errorf("encode steps: %w", err)
	}
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	hasError := 0
	if m.HasError() {
		hasError = 1
	}
	return []interface{}{
		m.User, createdAt.UTC(), m.FileName, m.AudioKey, m.AudioDuration,
		m.Language, m.SpeechLanguage, m.Provider, m.Transcript, m.Translated,
		m.Minutes, string(steps), hasError, m.ErrorMessage,
	}, nil
}

// Get returns a meeting that has not been deleted
func (c *CommonDB) Get(ctx context.Context, id int) (*model.Meeting, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM meetings WHERE id = %s AND deleted_at IS NULL",
		selectColumns, c.placeholders(1),
	)

	m, err := scanMeeting(c.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.Mark(apperrors.ErrNotFound, fmt.Sprintf("meeting %d", id))
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrQueryFailed.Error())
	}
	return m, nil
}

// List returns meetings newest first
func (c *CommonDB) List(ctx context.Context, filter ListFilter) ([]model.Meeting, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	where, args := c.whereClause(filter)
	args = append(args, limit)
	limitParam := c.placeholders(len(args))
	args = append(args, filter.Offset)
	offsetParam := c.placeholders(len(args))

	query := fmt.Sprintf(
		"SELECT %s FROM meetings WHERE %s ORDER BY created_at DESC, id DESC LIMIT %s OFFSET %s",
		selectColumns, where, limitParam, offsetParam,
	)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	meetings := make([]model.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		meetings = append(meetings, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return meetings, nil
}

// Count returns how many meetings match filter, ignoring its Limit and Offset
func (c *CommonDB) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := c.whereClause(filter)
	var n int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM meetings WHERE "+where, args...).Scan(&n)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrQueryFailed.Error())
	}
	return n, nil
}

func (c *CommonDB) whereClause(filter ListFilter) (string, []interface{}) {
	where := []string{"deleted_at IS NULL"}
	var args []interface{}
	if filter.User != "" {
		args = append(args, filter.User)
		where = append(where, "user_name = "+c.placeholders(len(args)))
	}
	return strings.Join(where, " AND "), args
}

// SoftDelete marks a meeting deleted
func (c *CommonDB) SoftDelete(ctx context.Context, id int) error {
	query := fmt.Sprintf(
		"UPDATE meetings SET deleted_at = %s WHERE id = %s AND deleted_at IS NULL",
		c.placeholders(1), c.placeholders(2),
	)
	res, err := c.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if n == 0 {
		return apperrors.Mark(apperrors.ErrNotFound, fmt.Sprintf("meeting %d", id))
	}
	return nil
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMeeting(row rowScanner) (*model.Meeting, error) {
	var (
		m     model.Meeting
		steps sql.NullString
	)
	err := row.Scan(
		&m.ID,
		&m.User,
		&m.CreatedAt,
		&m.FileName,
		&m.AudioKey,
		&m.AudioDuration,
		&m.Language,
		&m.SpeechLanguage,
		&m.Provider,
		&m.Transcript,
		&m.Translated,
		&m.Minutes,
		&steps,
		&m.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	if steps.Valid && steps.String != "" {
		if err := json.Unmarshal([]byte(steps.String), &m.Steps); err != nil {
			return nil, fmt.Errorf("decode steps: %w", err)
		}
	}
	return &m, nil
}
