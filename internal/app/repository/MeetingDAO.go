package repository

import (
	"context"

	"mom-generator/internal/app/model"
)

// MeetingDAO persists processed meetings
type MeetingDAO interface {
	Close() error

	Create(ctx context.Context, meeting *model.Meeting) (int, error)

	Get(ctx context.Context, id int) (*model.Meeting, error)

	List(ctx context.Context, filter ListFilter) ([]model.Meeting, error)

	// Count ignores the filter's Limit and Offset
	Count(ctx context.Context, filter ListFilter) (int, error)

	// SoftDelete hides a meeting from Get and List
	SoftDelete(ctx context.Context, id int) error
}

// ListFilter narrows List. Zero values mean no restriction.
type ListFilter struct {
	User   string
	Limit  int
	Offset int
}

// DefaultListLimit applies when ListFilter.Limit is zero
const DefaultListLimit = 50
