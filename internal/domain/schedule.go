package domain

import (
	"context"
	"encoding/json"
	"errors"
)

// Sentinel errors for schedule fetches.
var (
	// ErrInvalidIdentifier is returned before any request is made when a student schedule is requested without a student ID.
	ErrInvalidIdentifier = errors.New("student identifier is required")
	// ErrEmptyResponse is returned when the backend answered but the body carries no payload.
	ErrEmptyResponse = errors.New("empty schedule response")
)

// SchedulesByUserPath is the backend resource serving schedules for the signed-in user and their sub-users.
const SchedulesByUserPath = "/api/schedules/by-user"

// DateKey is a calendar date in M/D/YYYY form (e.g. 10/10/2025). It is forwarded to the backend as-is.
type DateKey string

// SchedulePayload is the schedule body returned by the backend. Its shape is owned by the backend.
type SchedulePayload = json.RawMessage

// ScheduleFetcher loads schedules for the current user or one of their students.
type ScheduleFetcher interface {
	FetchOwnSchedule(ctx context.Context, date DateKey) (SchedulePayload, error)
	FetchStudentSchedule(ctx context.Context, date DateKey, studentID *string) (SchedulePayload, error)
}

// APIResponse is a completed backend response. Data holds the raw body and may be empty.
type APIResponse struct {
	StatusCode int
	Data       json.RawMessage
}

// APIClient issues requests against the backend. Base URL and authentication are the client's concern;
// callers pass a request target made of a path and an optional query.
type APIClient interface {
	Get(ctx context.Context, target string) (*APIResponse, error)
}
