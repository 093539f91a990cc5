package services

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"
)

type scheduleFetcher struct {
	client domain.APIClient
	logger *slog.Logger
}

// NewScheduleFetcher returns a ScheduleFetcher that reads schedules through client.
// Failures are logged and then returned to the caller as they were received.
func NewScheduleFetcher(client domain.APIClient, logger *slog.Logger) domain.ScheduleFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &scheduleFetcher{
		client: client,
		logger: logger,
	}
}

func (f *scheduleFetcher) FetchOwnSchedule(ctx context.Context, date domain.DateKey) (domain.SchedulePayload, error) {
	target := domain.SchedulesByUserPath + "?currentDate=" + string(date)
	return f.fetch(ctx, target)
}

func (f *scheduleFetcher) FetchStudentSchedule(ctx context.Context, date domain.DateKey, studentID *string) (domain.SchedulePayload, error) {
	if studentID == nil || *studentID == "" {
		f.logger.ErrorContext(ctx, "fetch student schedule failed", "date", string(date), "err", domain.ErrInvalidIdentifier)
		return nil, domain.ErrInvalidIdentifier
	}
	target := domain.SchedulesByUserPath + "?currentDate=" + string(date) + "&subUserID=" + *studentID
	return f.fetch(ctx, target)
}

// fetch performs the GET and enforces that a payload came back. Client errors are not wrapped.
func (f *scheduleFetcher) fetch(ctx context.Context, target string) (domain.SchedulePayload, error) {
	resp, err := f.client.Get(ctx, target)
	if err != nil {
		f.logger.ErrorContext(ctx, "fetch schedule failed", "target", target, "err", err)
		return nil, err
	}
	if resp == nil || isEmptyPayload(resp.Data) {
		f.logger.ErrorContext(ctx, "fetch schedule failed", "target", target, "err", domain.ErrEmptyResponse)
		return nil, domain.ErrEmptyResponse
	}
	return resp.Data, nil
}

// isEmptyPayload reports whether body is blank, JSON null or an empty JSON string.
func isEmptyPayload(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`))
}
