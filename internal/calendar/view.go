// Package calendar binds schedule fetches to calendar screens. A View keeps the
// result of the latest fetch and re-fetches whenever its inputs change.
package calendar

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"
)

// Status is the phase of the latest fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// State is a snapshot of a View. Payload is set only on success, Err only on failure.
type State struct {
	Status    Status
	Date      domain.DateKey
	StudentID string
	Payload   domain.SchedulePayload
	Err       error
}

type fetchFunc func(ctx context.Context, date domain.DateKey, studentID *string) (domain.SchedulePayload, error)

// View runs one fetch at a time. Changing an input cancels the in-flight fetch;
// results of a cancelled fetch are dropped.
type View struct {
	fetch  fetchFunc
	logger *slog.Logger

	mu        sync.Mutex
	date      domain.DateKey
	hasDate   bool
	studentID *string
	state     State
	seq       uint64
	cancel    context.CancelFunc
	subs      []chan State
	closed    bool
	wg        sync.WaitGroup
}

// StudentView is a View over a selected student's schedule.
type StudentView struct {
	*View
}

// NewOwnScheduleView returns a View over the signed-in user's schedule. Nothing is fetched until SetDate.
func NewOwnScheduleView(fetcher domain.ScheduleFetcher, logger *slog.Logger) *View {
	return newView(func(ctx context.Context, date domain.DateKey, _ *string) (domain.SchedulePayload, error) {
		return fetcher.FetchOwnSchedule(ctx, date)
	}, nil, logger)
}

// NewStudentScheduleView returns a View over studentID's schedule. Nothing is fetched until SetDate.
func NewStudentScheduleView(fetcher domain.ScheduleFetcher, studentID *string, logger *slog.Logger) *StudentView {
	return &StudentView{View: newView(fetcher.FetchStudentSchedule, copyID(studentID), logger)}
}

func newView(fetch fetchFunc, studentID *string, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{fetch: fetch, logger: logger, studentID: studentID}
}

// SetDate selects the date to show and fetches it unless it is already selected.
func (v *View) SetDate(date domain.DateKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || (v.hasDate && v.date == date) {
		return
	}
	v.date = date
	v.hasDate = true
	v.startLocked()
}

// Refresh fetches the current date again. It does nothing before the first SetDate.
func (v *View) Refresh() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || !v.hasDate {
		return
	}
	v.startLocked()
}

// State returns the current snapshot.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Subscribe returns a channel that receives the current state and then every change.
// A slow reader misses intermediate states but always gets the latest one.
// The channel is closed by Close.
func (v *View) Subscribe() <-chan State {
	ch := make(chan State, 1)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		close(ch)
		return ch
	}
	ch <- v.state
	v.subs = append(v.subs, ch)
	return ch
}

// Close cancels the in-flight fetch, closes subscriber channels and waits for the fetch goroutine to exit.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	for _, ch := range v.subs {
		close(ch)
	}
	v.subs = nil
	v.mu.Unlock()

	v.wg.Wait()
}

// SetStudent selects another student and fetches the current date for them.
// An empty or nil ID is passed through and surfaces as a failure state.
func (v *StudentView) SetStudent(studentID *string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || sameID(v.studentID, studentID) {
		return
	}
	v.studentID = copyID(studentID)
	if v.hasDate {
		v.startLocked()
	}
}

func (v *View) startLocked() {
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.seq++
	seq := v.seq
	date, studentID := v.date, copyID(v.studentID)

	v.publishLocked(State{Status: StatusPending, Date: date, StudentID: idValue(studentID)})

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		defer cancel()
		payload, err := v.fetch(ctx, date, studentID)

		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed || seq != v.seq {
			v.logger.Debug("schedule fetch superseded", "date", string(date))
			return
		}
		v.cancel = nil
		next := State{Date: date, StudentID: idValue(studentID)}
		if err != nil {
			next.Status = StatusFailure
			next.Err = err
		} else {
			next.Status = StatusSuccess
			next.Payload = payload
		}
		v.publishLocked(next)
	}()
}

// publishLocked stores s and hands it to every subscriber, replacing any unread state.
func (v *View) publishLocked(s State) {
	v.state = s
	for _, ch := range v.subs {
		select {
		case ch <- s:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func idValue(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
