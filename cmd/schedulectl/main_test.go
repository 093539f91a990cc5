package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type stubFetcher struct{}

func (stubFetcher) FetchOwnSchedule(ctx context.Context, date domain.DateKey) (domain.SchedulePayload, error) {
	if date == "bad" {
		return nil, domain.ErrEmptyResponse
	}
	return json.RawMessage(`{ "date": "` + string(date) + `" }`), nil
}

func (stubFetcher) FetchStudentSchedule(ctx context.Context, date domain.DateKey, studentID *string) (domain.SchedulePayload, error) {
	if studentID == nil {
		return nil, domain.ErrInvalidIdentifier
	}
	return json.RawMessage(`{"student":"` + *studentID + `"}`), nil
}

func TestRunWatch_Own(t *testing.T) {
	var out bytes.Buffer
	err := runWatch(context.Background(), stubFetcher{}, nil, strings.NewReader("10/10/2025\n"), &out, testLogger)
	require.NoError(t, err)

	assert.Contains(t, out.String(), `success 10/10/2025 {"date":"10/10/2025"}`)
}

func TestRunWatch_Failure(t *testing.T) {
	var out bytes.Buffer
	err := runWatch(context.Background(), stubFetcher{}, nil, strings.NewReader("\nbad\n"), &out, testLogger)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "failure bad empty schedule response")
}

func TestRunWatch_Student(t *testing.T) {
	var out bytes.Buffer
	id := "SV2100001"
	err := runWatch(context.Background(), stubFetcher{}, &id, strings.NewReader("1/11/2025\n"), &out, testLogger)
	require.NoError(t, err)

	assert.Contains(t, out.String(), `success 1/11/2025 {"student":"SV2100001"}`)
}

func TestWritePayload(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writePayload(&out, json.RawMessage(`{"events":[]}`)))
	assert.Equal(t, "{\n  \"events\": []\n}\n", out.String())

	out.Reset()
	require.NoError(t, writePayload(&out, json.RawMessage(`not json`)))
	assert.Equal(t, "not json\n", out.String())
}

func TestScanLines_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() { errs <- scanLines(ctx, strings.NewReader("10/10/2025\n10/11/2025\n"), lines) }()

	select {
	case err := <-errs:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scanLines kept blocking after the context was cancelled")
	}
}

func TestScanLines_Trims(t *testing.T) {
	lines := make(chan string, 4)
	err := scanLines(context.Background(), strings.NewReader(" 1/11/2025 \n\n"), lines)
	require.NoError(t, err)
	close(lines)

	var got []string
	for l := range lines {
		got = append(got, l)
	}
	assert.Equal(t, []string{"1/11/2025", ""}, got)
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("subUserID") == "SV0000000" {
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = w.Write([]byte(`{"events":[]}`))
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"own schedule", []string{"-date", "10/10/2025"}, 0, "{\n  \"events\": []\n}\n"},
		{"student schedule", []string{"-date", "1/11/2025", "-student", "SV2100001"}, 0, "{\n  \"events\": []\n}\n"},
		{"empty response returns failure code", []string{"-date", "1/11/2025", "-student", "SV0000000"}, 1, ""},
		{"bad flag", []string{"-nope"}, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "production")
			t.Setenv("LOG_LEVEL", "error")
			t.Setenv("KV_BACKEND", "memory")
			t.Setenv("API_BASE_URL", srv.URL)
			t.Setenv("ACCESS_TOKEN", "tok-1")

			var out bytes.Buffer
			code := run(tt.args, strings.NewReader(""), &out)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("KV_BACKEND", "sqlite")

	var out bytes.Buffer
	assert.Equal(t, 1, run(nil, strings.NewReader(""), &out))
	assert.Empty(t, out.String())
}
