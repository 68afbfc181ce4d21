package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is the longest title accepted, counted in characters.
const MaxTitleLength = 255

// Title validation errors.
var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrTitleTooLong  = errors.New("title too long")
	ErrEmptyTaskUser = errors.New("task owner cannot be empty")
)

// Task is a user-owned to-do item.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates a pending task owned by userID. The title is normalized
// and validated; the ID and timestamps are assigned here, never by clients.
func NewTask(userID uuid.UUID, title string, now time.Time) (*Task, error) {
	if userID == uuid.Nil {
		return nil, NewValidationError("user_id", "Task owner is required", ErrEmptyTaskUser)
	}

	normalized, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	return &Task{
		ID:        uuid.New(),
		Title:     normalized,
		Completed: false,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeTitle trims surrounding whitespace and checks the result is
// non-empty and at most MaxTitleLength characters.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", NewValidationError("title", "Task title cannot be empty", ErrEmptyTitle)
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", NewValidationError("title", "Task title cannot exceed 255 characters", ErrTitleTooLong)
	}
	return trimmed, nil
}

// TaskPatch carries the fields of a partial update. Nil means "not supplied".
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// IsEmpty reports whether no field was supplied.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Normalize validates the patch and returns a copy with a normalized title.
// An empty patch fails with ErrNoFieldsToUpdate.
func (p TaskPatch) Normalize() (TaskPatch, error) {
	if p.IsEmpty() {
		return TaskPatch{}, ErrNoFieldsToUpdate
	}

	out := TaskPatch{Completed: p.Completed}
	if p.Title != nil {
		title, err := NormalizeTitle(*p.Title)
		if err != nil {
			return TaskPatch{}, err
		}
		out.Title = &title
	}
	return out, nil
}

// Apply merges the supplied fields over t, leaving the rest untouched.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// NextUpdatedAt returns the timestamp to record for a mutation at now. It is
// never earlier than previous plus one microsecond, so updated_at strictly
// increases at the storage precision even when the clock has not advanced.
func NextUpdatedAt(previous, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	floor := previous.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	if now.Before(floor) {
		return floor
	}
	return now
}
