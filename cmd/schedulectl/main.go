package main

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/config"
	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/adapters/apiclient"
	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/calendar"
	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"
	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/repository/memory"
	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/repository/postgres"
	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/repository/redisstore"
	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/services"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// run executes the command and returns the process exit code. Deferred cleanup
// always runs before the caller exits.
func run(args []string, in io.Reader, out io.Writer) int {
	fs := flag.NewFlagSet("schedulectl", flag.ContinueOnError)
	date := fs.String("date", "", "date to fetch as M/D/YYYY (default: today)")
	student := fs.String("student", "", "student ID; fetch that student's schedule instead of your own")
	watch := fs.Bool("watch", false, "read dates from stdin, one per line, and print every state change")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open token store", "backend", cfg.KVBackend, "err", err)
		return 1
	}
	defer closeStore()

	if cfg.AccessToken != "" {
		if err := store.Set(ctx, domain.AccessTokenKey, cfg.AccessToken); err != nil {
			logger.Error("failed to store access token", "err", err)
			return 1
		}
	}

	client := apiclient.New(
		apiclient.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout},
		apiclient.WithTokenSource(apiclient.NewStoreTokenSource(store)),
		apiclient.WithLogger(logger),
	)
	fetcher := services.NewScheduleFetcher(client, logger)

	var studentID *string
	if *student != "" {
		studentID = student
	}

	if *watch {
		if err := runWatch(ctx, fetcher, studentID, in, out, logger); err != nil {
			logger.Error("watch stopped", "err", err)
			return 1
		}
		return 0
	}

	key := domain.DateKey(*date)
	if key == "" {
		key = calendar.Today(nil)
	}

	var payload domain.SchedulePayload
	if studentID != nil {
		payload, err = fetcher.FetchStudentSchedule(ctx, key, studentID)
	} else {
		payload, err = fetcher.FetchOwnSchedule(ctx, key)
	}
	if err != nil {
		// the fetcher has already logged it
		return 1
	}
	if err := writePayload(out, payload); err != nil {
		logger.Error("failed to write payload", "err", err)
		return 1
	}
	return 0
}

// openStore builds the token store selected by KV_BACKEND. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (domain.KeyValueStore, func(), error) {
	switch cfg.KVBackend {
	case config.KVBackendPostgres:
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		return postgres.NewKVStore(db, cfg.KVTable), func() { _ = db.Close() }, nil
	case config.KVBackendRedis:
		rdb, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		s := redisstore.NewKVStore(rdb, cfg.RedisPrefix)
		return s, func() { _ = s.Close() }, nil
	default:
		return memory.NewKVStore(), func() {}, nil
	}
}

// runWatch drives a calendar view from stdin: every line selects a date and every
// state the view reaches is printed as one line.
func runWatch(ctx context.Context, fetcher domain.ScheduleFetcher, studentID *string, in io.Reader, out io.Writer, logger *slog.Logger) error {
	var view *calendar.View
	if studentID != nil {
		view = calendar.NewStudentScheduleView(fetcher, studentID, logger).View
	} else {
		view = calendar.NewOwnScheduleView(fetcher, logger)
	}
	defer view.Close()

	done := make(chan struct{})
	states := view.Subscribe()
	go func() {
		defer close(done)
		for st := range states {
			printState(out, st)
		}
	}()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanErr <- scanLines(ctx, in, lines)
	}()

	for {
		select {
		case <-ctx.Done():
			view.Close()
			<-done
			return nil
		case line := <-lines:
			if line != "" {
				view.SetDate(domain.DateKey(line))
			}
		case err := <-scanErr:
			if err == nil {
				waitSettled(ctx, view)
			}
			view.Close()
			<-done
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// scanLines sends each trimmed line of in to lines until in is exhausted or ctx is done.
func scanLines(ctx context.Context, in io.Reader, lines chan<- string) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- strings.TrimSpace(scanner.Text()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}

// waitSettled blocks until the view is no longer pending.
func waitSettled(ctx context.Context, view *calendar.View) {
	states := view.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok || st.Status != calendar.StatusPending {
				return
			}
		}
	}
}

func printState(w io.Writer, st calendar.State) {
	switch st.Status {
	case calendar.StatusSuccess:
		fmt.Fprintf(w, "%s %s %s\n", st.Status, st.Date, compact(st.Payload))
	case calendar.StatusFailure:
		fmt.Fprintf(w, "%s %s %v\n", st.Status, st.Date, st.Err)
	default:
		fmt.Fprintf(w, "%s %s\n", st.Status, st.Date)
	}
}

func compact(payload domain.SchedulePayload) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return string(payload)
	}
	return buf.String()
}

func writePayload(w io.Writer, payload domain.SchedulePayload) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		// not JSON; print it as received
		buf.Reset()
		buf.Write(payload)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
