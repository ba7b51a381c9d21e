package sqlite

import (
	"context"
	"errors"
	"testing"

	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
)

func TestUpsertRating_Overwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "alice")
	show := mustAddShow(t, s, 2017, "Blue Devils", "Metamorph")

	if err := s.UpsertRating(ctx, show, u.ID, 4); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	if err := s.UpsertRating(ctx, show, u.ID, 9); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ratings`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected one rating row, got %d", n)
	}

	got, err := s.RatingFor(ctx, show, u.ID)
	if err != nil {
		t.Fatalf("RatingFor: %v", err)
	}
	if got == nil || *got != 9 {
		t.Errorf("RatingFor: got %v, want 9", got)
	}
}

func TestUpsertRating_Clamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "alice")
	show := mustAddShow(t, s, 2017, "Blue Devils", "Metamorph")

	tests := []struct {
		input int
		want  int
	}{
		{-5, 0},
		{0, 0},
		{10, 10},
		{14, 10},
	}
	for _, tt := range tests {
		if err := s.UpsertRating(ctx, show, u.ID, tt.input); err != nil {
			t.Fatalf("UpsertRating(%d): %v", tt.input, err)
		}
		got, err := s.RatingFor(ctx, show, u.ID)
		if err != nil {
			t.Fatalf("RatingFor: %v", err)
		}
		if got == nil || *got != tt.want {
			t.Errorf("UpsertRating(%d): stored %v, want %d", tt.input, got, tt.want)
		}
	}
}

func TestDeleteRating(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "alice")
	show := mustAddShow(t, s, 2017, "Blue Devils", "Metamorph")

	if err := s.UpsertRating(ctx, show, u.ID, 7); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	if err := s.DeleteRating(ctx, show, u.ID); err != nil {
		t.Fatalf("DeleteRating: %v", err)
	}
	got, err := s.RatingFor(ctx, show, u.ID)
	if err != nil {
		t.Fatalf("RatingFor: %v", err)
	}
	if got != nil {
		t.Errorf("expected no rating after delete, got %d", *got)
	}

	// Deleting again is a no-op.
	if err := s.DeleteRating(ctx, show, u.ID); err != nil {
		t.Errorf("DeleteRating on missing row: %v", err)
	}
}

func TestUpsertRating_UnknownShow(t *testing.T) {
	s := newTestStore(t)
	u := mustCreateUser(t, s, "alice")

	err := s.UpsertRating(context.Background(), 404, u.ID, 6)
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRatingAverage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustCreateUser(t, s, "alice")
	b := mustCreateUser(t, s, "bob")
	show := mustAddShow(t, s, 2017, "Blue Devils", "Metamorph")

	if err := s.UpsertRating(ctx, show, a.ID, 8); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	if err := s.UpsertRating(ctx, show, b.ID, 10); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	got, err := s.ShowDetail(ctx, show)
	if err != nil {
		t.Fatalf("ShowDetail: %v", err)
	}
	if got.AvgRating != 4.5 || got.Count != 2 {
		t.Errorf("got avg %v count %d, want 4.5 and 2", got.AvgRating, got.Count)
	}
}

func TestRecentRatingsForUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "alice")
	first := mustAddShow(t, s, 2016, "Bluecoats", "Downside Up")
	second := mustAddShow(t, s, 2017, "Blue Devils", "Metamorph")
	third := mustAddShow(t, s, 2018, "Santa Clara Vanguard", "Babylon")

	for _, id := range []int64{first, second, third} {
		if err := s.UpsertRating(ctx, id, u.ID, 8); err != nil {
			t.Fatalf("UpsertRating: %v", err)
		}
	}
	// Re-rating moves the show to the front.
	if err := s.UpsertRating(ctx, first, u.ID, 10); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	got, err := s.RecentRatingsForUser(ctx, u.ID, 2)
	if err != nil {
		t.Fatalf("RecentRatingsForUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(got))
	}
	if got[0].ShowID != first || got[0].RatingHalf != 10 || got[0].Title != "Downside Up" {
		t.Errorf("first entry: %+v", got[0])
	}
	if got[1].ShowID != third {
		t.Errorf("second entry: got show %d, want %d", got[1].ShowID, third)
	}
}
