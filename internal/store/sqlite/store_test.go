package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corpsboard/corpsboard-server/internal/domain"
)

// tickClock returns a fixed start time that advances one second per call,
// so every write in a test gets a distinct, increasing timestamp.
type tickClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickClock() *tickClock {
	return &tickClock{now: time.Date(2024, 8, 10, 20, 0, 0, 0, time.UTC)}
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger, WithClock(newTickClock().Now))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustCreateUser creates a user with a throwaway password hash.
func mustCreateUser(t *testing.T, s *Store, username string) *domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), username, "hash-"+username)
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return u
}

// mustAddShow inserts a show and returns its id.
func mustAddShow(t *testing.T, s *Store, year int, corps, title string) int64 {
	t.Helper()
	res, err := s.AddShow(context.Background(), domain.ShowInput{Year: year, Corps: corps, Title: title})
	if err != nil {
		t.Fatalf("AddShow(%d, %q, %q): %v", year, corps, title, err)
	}
	if !res.Created {
		t.Fatalf("AddShow(%d, %q, %q): expected insert, got %s", year, corps, title, res.Status)
	}
	return res.ShowID
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify tables exist.
	tables := []string{"users", "shows", "ratings", "reviews", "review_votes", "roles", "user_roles"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_ForeignKeysOnEveryConnection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Hold several connections at once so the pool cannot reuse the first one.
	var conns []interface{ Close() error }
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()
	for i := 0; i < 3; i++ {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			t.Fatalf("conn: %v", err)
		}
		conns = append(conns, conn)

		var fk int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("query foreign_keys: %v", err)
		}
		if fk != 1 {
			t.Errorf("connection %d: expected foreign_keys=1, got %d", i, fk)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := s.AddShow(context.Background(), domain.ShowInput{Year: 2017, Corps: "Blue Devils", Title: "Metamorph"}); err != nil {
		t.Fatalf("AddShow: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent) and keep data.
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()

	shows, err := s2.ListShows(context.Background(), domain.SortYearDesc, domain.ShowFilter{})
	if err != nil {
		t.Fatalf("ListShows: %v", err)
	}
	if len(shows) != 1 {
		t.Errorf("expected 1 show after re-open, got %d", len(shows))
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.withTx(ctx, func(q querier) error {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO shows (title, corps, year, norm_key, created_ts) VALUES ('t', 'c', 2000, 'k', 0)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM shows`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rollback, found %d shows", n)
	}
}

func TestConstraintDetection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shows (title, corps, year, norm_key, created_ts) VALUES ('a', 'b', 2000, 'dup', 0)`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO shows (title, corps, year, norm_key, created_ts) VALUES ('c', 'd', 2001, 'dup', 0)`)
	if !isUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
	if isForeignKeyViolation(err) {
		t.Error("unique violation misreported as foreign key violation")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ratings (show_id, user_id, rating_half, ts) VALUES (999, 999, 5, 0)`)
	if !isForeignKeyViolation(err) {
		t.Errorf("expected foreign key violation, got %v", err)
	}

	if isUniqueViolation(nil) || isForeignKeyViolation(nil) || isCheckViolation(nil) {
		t.Error("nil error reported as constraint violation")
	}
}
