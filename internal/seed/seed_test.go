package seed_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fitscore/internal/adapters/repository"
	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/seed"
	"github.com/okian/fitscore/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var start = time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)

func TestGenerate(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		cfg := seed.Config{Subjects: 40, Visits: 3, Stores: 2, Seed: 7, Start: start, Span: 12}
		records := seed.Generate(cfg)

		Convey("Then it should produce one record per subject visit", func() {
			So(len(records), ShouldEqual, 120)
		})

		Convey("Then every record should be valid", func() {
			for _, r := range records {
				So(r.Validate(), ShouldBeNil)
			}
		})

		Convey("Then visits should share subject, store and grade and move forward in time", func() {
			bySubject := map[string][]model.Record{}
			for _, r := range records {
				bySubject[r.SubjectID] = append(bySubject[r.SubjectID], r)
			}
			So(len(bySubject), ShouldEqual, 40)
			for _, visits := range bySubject {
				So(len(visits), ShouldEqual, 3)
				for i := 1; i < len(visits); i++ {
					So(visits[i].StoreID, ShouldEqual, visits[0].StoreID)
					So(visits[i].Grade, ShouldEqual, visits[0].Grade)
					So(visits[i].MeasuredAt.After(visits[i-1].MeasuredAt), ShouldBeTrue)
				}
			}
		})

		Convey("Then the same seed should reproduce the same records", func() {
			So(seed.Generate(cfg), ShouldResemble, records)
			cfg.Seed = 8
			So(seed.Generate(cfg)[0].ID, ShouldNotEqual, records[0].ID)
		})
	})
}

func TestStore(t *testing.T) {
	Convey("Given generated records and a memory store", t, func() {
		ctx := context.Background()
		cfg := seed.Config{Subjects: 10, Visits: 2, Seed: 1, Start: start, Workers: 4}
		records := seed.Generate(cfg)
		store := repository.NewMemoryStore()

		Convey("When storing them", func() {
			stats, err := seed.Store(ctx, cfg, store, records)

			Convey("Then every record should be saved", func() {
				So(err, ShouldBeNil)
				So(stats.Successful, ShouldEqual, 20)
				n, _ := store.Count(ctx)
				So(n, ShouldEqual, 20)
			})

			Convey("Then storing them again should fail on duplicate IDs", func() {
				_, err := seed.Store(ctx, cfg, store, records)
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestPost(t *testing.T) {
	Convey("Given a fake fitscore server", t, func() {
		var posted atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/healthz":
				w.WriteHeader(http.StatusOK)
			case "/diagnosis":
				var rec model.Record
				if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec.Grade == "k5" {
					w.WriteHeader(http.StatusUnprocessableEntity)
					return
				}
				posted.Add(1)
				w.WriteHeader(http.StatusCreated)
			}
		}))
		defer srv.Close()

		records := seed.Generate(seed.Config{Subjects: 30, Visits: 1, Seed: 3, Start: start})
		rejected := 0
		for _, r := range records {
			if r.Grade == "k5" {
				rejected++
			}
		}

		Convey("When posting the records", func() {
			stats, err := seed.Post(context.Background(), seed.Config{BaseURL: srv.URL, Workers: 3}, records)

			Convey("Then accepted and rejected records should be counted", func() {
				So(err, ShouldBeNil)
				So(stats.Submitted, ShouldEqual, 30)
				So(stats.Failed, ShouldEqual, rejected)
				So(stats.Successful, ShouldEqual, int(posted.Load()))
			})
		})

		Convey("When the server is unhealthy", func() {
			bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer bad.Close()

			_, err := seed.Post(context.Background(), seed.Config{BaseURL: bad.URL}, records)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSaveToFile(t *testing.T) {
	Convey("Given generated records", t, func() {
		records := seed.Generate(seed.Config{Subjects: 2, Visits: 2, Seed: 5, Start: start})
		path := filepath.Join(t.TempDir(), "out", "records.json")

		So(seed.SaveToFile(context.Background(), path, records), ShouldBeNil)

		data, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		var back []model.Record
		So(json.Unmarshal(data, &back), ShouldBeNil)
		So(len(back), ShouldEqual, 4)
		So(back[0].ID, ShouldEqual, records[0].ID)
	})
}
