package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/types"
)

func ptr(v float64) *float64 { return &v }

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open(context.Background(), WithDriver(DriverSQLite), WithDSN(":memory:"), WithConnectTimeout(time.Second))
	if err != nil {
		t.Fatalf("opening sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// stores returns every Store implementation under test.
func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

func sample(id, subject, store string, grade types.Grade, at time.Time) model.Record {
	return model.Record{
		ID:         id,
		SubjectID:  subject,
		StoreID:    store,
		Grade:      grade,
		Gender:     types.Male,
		Height:     ptr(128.5),
		GripRight:  ptr(12),
		GripLeft:   ptr(11),
		Dash:       ptr(9.4),
		DashDist:   50,
		Throw:      ptr(10),
		BallWeight: 150,
		MeasuredAt: at,
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			at := time.Date(2024, 5, 3, 10, 30, 0, 0, time.UTC)
			saved, err := s.SaveRecord(ctx, sample("", "sub-1", "s1", types.Grade3, at))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if saved.ID == "" {
				t.Fatal("expected an assigned ID")
			}

			got, err := s.GetRecord(ctx, saved.ID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.MeasuredAt.Equal(at) {
				t.Errorf("expected measured_at %v, got %v", at, got.MeasuredAt)
			}
			if got.Jump != nil {
				t.Errorf("expected jump to stay missing, got %v", *got.Jump)
			}
			if got.GripRight == nil || *got.GripRight != 12 {
				t.Errorf("expected grip_right 12, got %v", got.GripRight)
			}
			if got.DashDist != 50 || got.BallWeight != 150 || got.Grade != types.Grade3 {
				t.Errorf("unexpected record round trip: %+v", got)
			}

			if _, err := s.SaveRecord(ctx, saved); !errors.Is(err, ErrDuplicateID) {
				t.Errorf("expected ErrDuplicateID, got %v", err)
			}

			if _, err := s.GetRecord(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}

			n, err := s.Count(ctx)
			if err != nil || n != 1 {
				t.Errorf("expected count 1, got %d (%v)", n, err)
			}
		})
	}
}

func TestStore_ListRecordsFilters(t *testing.T) {
	ctx := context.Background()
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 12, 0, 0, 0, time.UTC) }

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed := []model.Record{
				sample("c", "sub-1", "s1", types.Grade3, day(time.April, 30)),
				sample("a", "sub-1", "s1", types.Grade3, day(time.March, 1)),
				sample("b", "sub-2", "s2", types.Grade4, day(time.April, 1)),
				sample("d", "sub-3", "s1", types.Grade3, day(time.May, 1)),
			}
			for _, r := range seed {
				if _, err := s.SaveRecord(ctx, r); err != nil {
					t.Fatalf("seeding: %v", err)
				}
			}

			all, err := s.ListRecords(ctx, model.Filter{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ids(all) != "abcd" {
				t.Errorf("expected chronological order abcd, got %s", ids(all))
			}

			cases := []struct {
				name   string
				filter model.Filter
				want   string
			}{
				{"grade", model.Filter{Grade: types.Grade3}, "acd"},
				{"store", model.Filter{StoreID: "s2"}, "b"},
				{"gender", model.Filter{Gender: types.Female}, ""},
				{"inclusive end", model.Filter{Start: day(time.April, 1).Truncate(24 * time.Hour), End: day(time.April, 30).Truncate(24 * time.Hour)}, "bc"},
				{"combined", model.Filter{Grade: types.Grade3, StoreID: "s1", Start: day(time.April, 1).Truncate(24 * time.Hour)}, "cd"},
			}
			for _, tc := range cases {
				got, err := s.ListRecords(ctx, tc.filter)
				if err != nil {
					t.Fatalf("%s: unexpected error: %v", tc.name, err)
				}
				if ids(got) != tc.want {
					t.Errorf("%s: expected %q, got %q", tc.name, tc.want, ids(got))
				}
			}
		})
	}
}

func ids(rs []model.Record) string {
	out := ""
	for _, r := range rs {
		out += r.ID
	}
	return out
}

func TestStore_Trainings(t *testing.T) {
	ctx := context.Background()
	catalog := []model.Training{
		{AbilityKey: types.Jump, AgeGroup: model.AgeOld, Name: "Box jumps", SortOrder: 2},
		{AbilityKey: types.Dash, AgeGroup: model.AgeYoung, Name: "Tag games", SortOrder: 1},
		{AbilityKey: types.Jump, AgeGroup: model.AgeOld, Name: "Broad jump drill", SortOrder: 1},
	}

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := s.ListTrainings(ctx)
			if err != nil || len(empty) != 0 {
				t.Fatalf("expected an empty catalog, got %d (%v)", len(empty), err)
			}

			if err := s.ReplaceTrainings(ctx, catalog); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := s.ReplaceTrainings(ctx, catalog); err != nil {
				t.Fatalf("unexpected error on second replace: %v", err)
			}

			got, err := s.ListTrainings(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("expected 3 trainings after replace, got %d", len(got))
			}
			want := []string{"Tag games", "Broad jump drill", "Box jumps"}
			for i, name := range want {
				if got[i].Name != name {
					t.Errorf("position %d: expected %q, got %q", i, name, got[i].Name)
				}
			}
			if got[0].AbilityKey != types.Dash {
				t.Errorf("expected dash ability, got %v", got[0].AbilityKey)
			}
		})
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), WithDriver("mysql"))
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{driver: DriverPostgres}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("unexpected postgres rebind: %q", got)
	}
	lite := &SQLStore{driver: DriverSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite query should be unchanged, got %q", got)
	}
}

func TestWhere(t *testing.T) {
	clause, args := where(model.Filter{})
	if clause != "" || args != nil {
		t.Errorf("expected empty clause, got %q %v", clause, args)
	}

	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	clause, args = where(model.Filter{Grade: types.Grade1, End: end})
	if clause != " WHERE grade = ? AND measured_at < ?" {
		t.Errorf("unexpected clause %q", clause)
	}
	if len(args) != 2 || args[1] != "2024-07-01T00:00:00.000000000Z" {
		t.Errorf("unexpected args %v", args)
	}
}
