package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fitscore/internal/adapters/http/api"
	"github.com/okian/fitscore/internal/adapters/repository"
	service "github.com/okian/fitscore/internal/app"
	"github.com/okian/fitscore/internal/domain/analytics"
	"github.com/okian/fitscore/internal/domain/diagnosis"
	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/reference"
	"github.com/okian/fitscore/internal/domain/types"
)

type mockDependencies struct {
	diagnoseErr error
	storedErr   error
	analyticErr error

	gotRecord model.Record
	gotQuery  analytics.Query
}

func (m *mockDependencies) Diagnose(_ context.Context, r model.Record) (diagnosis.Result, error) {
	m.gotRecord = r
	if m.diagnoseErr != nil {
		return diagnosis.Result{}, m.diagnoseErr
	}
	return diagnosis.Result{ID: "d-1", RecordID: "r-1", Grade: r.Grade, Gender: r.Gender}, nil
}

func (m *mockDependencies) DiagnoseStored(_ context.Context, id string) (diagnosis.Result, error) {
	if m.storedErr != nil {
		return diagnosis.Result{}, m.storedErr
	}
	return diagnosis.Result{ID: "d-2", RecordID: id}, nil
}

func (m *mockDependencies) Analytics(_ context.Context, q analytics.Query) (service.AnalyticsResult, error) {
	m.gotQuery = q
	if m.analyticErr != nil {
		return service.AnalyticsResult{}, m.analyticErr
	}
	return service.AnalyticsResult{Type: q.Type, Filter: q.Filter, SampleSize: 3}, nil
}

type mockStatsProvider struct {
	stats service.Stats
}

func (m *mockStatsProvider) GetStats() service.Stats {
	return m.stats
}

func newMux(deps *mockDependencies, opts ...api.Option) *http.ServeMux {
	stats := &mockStatsProvider{stats: service.Stats{Started: true, Records: 7}}
	mux := http.NewServeMux()
	api.NewServer(deps, stats, opts...).Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("Then the health endpoint should expose metrics", func() {
			w := serve(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "fitscore_")
		})

		Convey("Then the stats endpoint should return JSON", func() {
			w := serve(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)

			var body struct {
				Status  string `json:"status"`
				Records int    `json:"records"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Status, ShouldEqual, "running")
			So(body.Records, ShouldEqual, 7)
		})

		Convey("Then wrong methods should not match", func() {
			So(serve(mux, http.MethodPost, "/stats", "").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, http.MethodGet, "/diagnosis", "").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, http.MethodPost, "/analytics?type=benchmark", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_Stopped(t *testing.T) {
	Convey("Given an API server over a stopped service", t, func() {
		mux := http.NewServeMux()
		api.NewServer(&mockDependencies{}, &mockStatsProvider{}).Register(context.Background(), mux)

		Convey("Then the health endpoint should report it unavailable", func() {
			w := serve(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(errorCode(w), ShouldEqual, "unavailable")
		})

		Convey("Then the stats endpoint should label it stopped", func() {
			w := serve(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"stopped"`)
		})
	})
}

func TestDiagnosisHandlers(t *testing.T) {
	Convey("Given the diagnosis endpoints", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When posting a valid record", func() {
			w := serve(mux, http.MethodPost, "/diagnosis",
				`{"subject_id":"s","store_id":"st","grade":"4","gender":"male","grip_right":21,"dash":9.1,"dash_distance":50}`)

			Convey("Then it should be diagnosed", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(deps.gotRecord.Grade, ShouldEqual, types.Grade4)
				So(deps.gotRecord.DashDist, ShouldEqual, 50)
				So(*deps.gotRecord.GripRight, ShouldEqual, 21)

				var res diagnosis.Result
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(res.ID, ShouldEqual, "d-1")
			})
		})

		Convey("When posting malformed JSON", func() {
			w := serve(mux, http.MethodPost, "/diagnosis", `{"grade":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "bad_request")
		})

		Convey("When posting an unknown field", func() {
			w := serve(mux, http.MethodPost, "/diagnosis", `{"grade":"4","gender":"male","swim":3}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service rejects the record", func() {
			deps.diagnoseErr = fmt.Errorf("%w: unknown gender", model.ErrInvalidRecord)
			w := serve(mux, http.MethodPost, "/diagnosis", `{"grade":"4","gender":"x"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When no baseline exists", func() {
			deps.diagnoseErr = fmt.Errorf("%w: grade=k5 gender=female", reference.ErrMissingReference)
			w := serve(mux, http.MethodPost, "/diagnosis", `{"grade":"k5","gender":"female"}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(errorCode(w), ShouldEqual, "missing_reference")
		})

		Convey("When the record ID already exists", func() {
			deps.diagnoseErr = fmt.Errorf("%w: r-1", repository.ErrDuplicateID)
			w := serve(mux, http.MethodPost, "/diagnosis", `{"id":"r-1","grade":"4","gender":"male"}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("When getting a stored diagnosis", func() {
			w := serve(mux, http.MethodGet, "/diagnosis/r-9", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"record_id":"r-9"`)
		})

		Convey("When the stored record is missing", func() {
			deps.storedErr = fmt.Errorf("%w: r-9", repository.ErrNotFound)
			w := serve(mux, http.MethodGet, "/diagnosis/r-9", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the store fails", func() {
			deps.storedErr = fmt.Errorf("%w: %w", service.ErrProcessing, errors.New("connection refused"))
			w := serve(mux, http.MethodGet, "/diagnosis/r-9", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "connection refused")
		})

		Convey("When the path has extra segments", func() {
			So(serve(mux, http.MethodGet, "/diagnosis/a/b", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAnalyticsHandler(t *testing.T) {
	Convey("Given the analytics endpoint", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps, api.WithAnalyticsLimit(0, 0))

		Convey("When every filter is given", func() {
			w := serve(mux, http.MethodGet,
				"/analytics?type=trend&grade=3&gender=female&store_id=s1&start_date=2024-01-01&end_date=2024-06-30&period=quarter&metric=dash", "")

			Convey("Then the query should be parsed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				q := deps.gotQuery
				So(q.Type, ShouldEqual, analytics.TypeTrend)
				So(q.Filter.Grade, ShouldEqual, types.Grade3)
				So(q.Filter.Gender, ShouldEqual, types.Female)
				So(q.Filter.StoreID, ShouldEqual, "s1")
				So(q.Filter.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(q.Filter.End.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(q.Period, ShouldEqual, analytics.PeriodQuarter)
				So(*q.Metric, ShouldEqual, types.Dash)
				So(w.Body.String(), ShouldContainSubstring, `"sample_size":3`)
			})
		})

		Convey("When the type is unknown", func() {
			w := serve(mux, http.MethodGet, "/analytics?type=leaderboard", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "unknown analytics type")
		})

		Convey("When the type is missing", func() {
			So(serve(mux, http.MethodGet, "/analytics", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service fails", func() {
			deps.analyticErr = fmt.Errorf("%w: %w", service.ErrProcessing, errors.New("timeout"))
			w := serve(mux, http.MethodGet, "/analytics?type=benchmark", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(errorCode(w), ShouldEqual, "processing_error")
		})
	})

	Convey("Given a tight analytics limit", t, func() {
		mux := newMux(&mockDependencies{}, api.WithAnalyticsLimit(0.001, 1))

		Convey("Then the second request should be throttled", func() {
			So(serve(mux, http.MethodGet, "/analytics?type=benchmark", "").Code, ShouldEqual, http.StatusOK)
			w := serve(mux, http.MethodGet, "/analytics?type=benchmark", "")
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(w.Header().Get("Retry-After"), ShouldEqual, "1")
		})
	})
}

func TestParseQuery(t *testing.T) {
	Convey("Given analytics URL parameters", t, func() {
		parse := func(raw string) (analytics.Query, error) {
			v, err := url.ParseQuery(raw)
			So(err, ShouldBeNil)
			return api.ParseQuery(v)
		}

		Convey("Then defaults should apply", func() {
			q, err := parse("type=scatter&metric=grip")
			So(err, ShouldBeNil)
			So(q.Period, ShouldEqual, analytics.PeriodMonth)
			So(q.BodyMetric, ShouldEqual, types.BodyMetric(""))
			So(q.Filter, ShouldResemble, model.Filter{})
		})

		Convey("Then malformed values should be rejected", func() {
			for _, raw := range []string{
				"type=benchmark&grade=7",
				"type=benchmark&gender=x",
				"type=benchmark&start_date=2024/01/01",
				"type=benchmark&start_date=2024-02-01&end_date=2024-01-01",
				"type=trend&period=week",
				"type=scatter&metric=swim",
				"type=scatter&metric=grip&body_metric=shoe",
			} {
				_, err := parse(raw)
				So(errors.Is(err, analytics.ErrInvalidQuery), ShouldBeTrue)
			}
		})

		Convey("Then an unknown type should be reported as such", func() {
			_, err := parse("type=ranking")
			So(errors.Is(err, analytics.ErrUnknownType), ShouldBeTrue)
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given API error helpers", t, func() {
		cause := errors.New("boom")

		So(api.Wrap("op", nil), ShouldBeNil)
		So(api.Wrap("op", cause).Error(), ShouldEqual, "op: boom")
		So(api.NewKind("op", api.ErrBadRequest).Error(), ShouldEqual, "op: bad request")

		err := api.WrapKind("op", api.ErrBadRequest, cause)
		So(err.Error(), ShouldEqual, "op: bad request: boom")
		So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
		So(errors.Is(err, cause), ShouldBeTrue)
	})
}
