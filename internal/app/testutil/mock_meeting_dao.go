package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/model"
	"mom-generator/internal/app/repository"
)

// MockMeetingDAO is a testify mock of repository.MeetingDAO. Close is not
// recorded.
type MockMeetingDAO struct {
	mock.Mock
}

var _ repository.MeetingDAO = (*MockMeetingDAO)(nil)

func (m *MockMeetingDAO) Close() error { return nil }

func (m *MockMeetingDAO) Create(ctx context.Context, meeting *model.Meeting) (int, error) {
	args := m.Called(ctx, meeting)
	return args.Int(0), args.Error(1)
}

func (m *MockMeetingDAO) Get(ctx context.Context, id int) (*model.Meeting, error) {
	args := m.Called(ctx, id)
	meeting, _ := args.Get(0).(*model.Meeting)
	return meeting, args.Error(1)
}

func (m *MockMeetingDAO) List(ctx context.Context, filter repository.ListFilter) ([]model.Meeting, error) {
	args := m.Called(ctx, filter)
	meetings, _ := args.Get(0).([]model.Meeting)
	return meetings, args.Error(1)
}

func (m *MockMeetingDAO) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockMeetingDAO) SoftDelete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

// MemoryMeetingDAO keeps meetings in a map and follows the same filtering,
// ordering and soft-delete rules as the SQL implementations.
type MemoryMeetingDAO struct {
	mu       sync.RWMutex
	meetings map[int]model.Meeting
	deleted  map[int]bool
	nextID   int

	// CreateErr is returned by Create when set
	CreateErr error
}

var _ repository.MeetingDAO = (*MemoryMeetingDAO)(nil)

// NewMemoryMeetingDAO returns a DAO preloaded with seed, keeping their IDs
func NewMemoryMeetingDAO(seed ...model.Meeting) *MemoryMeetingDAO {
	d := &MemoryMeetingDAO{
		meetings: make(map[int]model.Meeting),
		deleted:  make(map[int]bool),
		nextID:   1,
	}
	for _, m := range seed {
		d.meetings[m.ID] = m
		if m.ID >= d.nextID {
			d.nextID = m.ID + 1
		}
	}
	return d
}

func (d *MemoryMeetingDAO) Close() error { return nil }

func (d *MemoryMeetingDAO) Create(ctx context.Context, meeting *model.Meeting) (int, error) {
	if d.CreateErr != nil {
		return 0, d.CreateErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.meetings == nil {
		d.meetings = make(map[int]model.Meeting)
		d.deleted = make(map[int]bool)
		d.nextID = 1
	}
	meeting.ID = d.nextID
	d.nextID++
	d.meetings[meeting.ID] = *meeting
	return meeting.ID, nil
}

func (d *MemoryMeetingDAO) Get(ctx context.Context, id int) (*model.Meeting, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.meetings[id]
	if !ok || d.deleted[id] {
		return nil, apperrors.ErrNotFound
	}
	return &m, nil
}

// List returns the newest meetings first
func (d *MemoryMeetingDAO) List(ctx context.Context, filter repository.ListFilter) ([]model.Meeting, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := d.matching(filter)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultListLimit
	}
	if filter.Offset >= len(out) {
		return []model.Meeting{}, nil
	}
	out = out[filter.Offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *MemoryMeetingDAO) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.matching(filter)), nil
}

func (d *MemoryMeetingDAO) matching(filter repository.ListFilter) []model.Meeting {
	var out []model.Meeting
	for id, m := range d.meetings {
		if d.deleted[id] || (filter.User != "" && m.User != filter.User) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (d *MemoryMeetingDAO) SoftDelete(ctx context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.meetings[id]; !ok || d.deleted[id] {
		return apperrors.ErrNotFound
	}
	d.deleted[id] = true
	return nil
}

// Stored returns every meeting ever created, deleted ones included, in ID order
func (d *MemoryMeetingDAO) Stored() []model.Meeting {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Meeting, 0, len(d.meetings))
	for _, m := range d.meetings {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
