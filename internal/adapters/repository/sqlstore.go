package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/types"
	"github.com/okian/fitscore/pkg/metrics"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const defaultConnectTimeout = 10 * time.Second

const recordColumns = `id, subject_id, store_id, grade, gender, height, weight,
	grip_right, grip_left, jump, dash, dash_distance, doublejump, squat,
	sidestep, throw, ball_diameter, ball_weight, measured_at`

// SQLStore implements Store on database/sql. It speaks sqlite (modernc, pure
// Go) and postgres (lib/pq); queries are written with ? placeholders and
// rebound for postgres.
type SQLStore struct {
	db             *sql.DB
	driver         string
	dsn            string
	connectTimeout time.Duration
}

// Open connects to the database, retrying the first ping with exponential
// backoff until the connect timeout, and runs the migrations.
func Open(ctx context.Context, opts ...Option) (*SQLStore, error) {
	s := &SQLStore{
		driver:         DriverSQLite,
		dsn:            "file:fitscore.db?_pragma=busy_timeout(5000)",
		connectTimeout: defaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.driver != DriverSQLite && s.driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, s.driver)
	}

	if s.db == nil {
		db, err := sql.Open(s.driver, s.dsn)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.db = db
	}
	if s.driver == DriverSQLite {
		// One connection keeps an in-memory database alive and serializes
		// sqlite writers.
		s.db.SetMaxOpenConns(1)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = s.connectTimeout
	ping := func() error { return s.db.PingContext(ctx) }
	if err := backoff.Retry(ping, backoff.WithContext(policy, ctx)); err != nil {
		_ = s.db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := migrate(ctx, s.db); err != nil {
		_ = s.db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Driver returns the driver name in use.
func (s *SQLStore) Driver() string { return s.driver }

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func observe(op string, start time.Time, err error) {
	metrics.RecordRepositoryQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordRepositoryError(op)
	}
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// SaveRecord implements Store.
func (s *SQLStore) SaveRecord(ctx context.Context, r model.Record) (rec model.Record, err error) {
	defer func(start time.Time) { observe("save_record", start, err) }(time.Now())

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.MeasuredAt.IsZero() {
		r.MeasuredAt = time.Now()
	}
	r.MeasuredAt = r.MeasuredAt.UTC()

	q := s.rebind(`INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = s.db.ExecContext(ctx, q,
		r.ID, r.SubjectID, r.StoreID, string(r.Grade), string(r.Gender),
		nullable(r.Height), nullable(r.Weight),
		nullable(r.GripRight), nullable(r.GripLeft), nullable(r.Jump), nullable(r.Dash), r.DashDist,
		nullable(r.DoubleJump), nullable(r.Squat), nullable(r.Sidestep), nullable(r.Throw),
		r.BallDiameter, r.BallWeight, r.MeasuredAt.Format(timeLayout),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(err.Error(), "duplicate key") {
			return model.Record{}, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		return model.Record{}, fmt.Errorf("inserting record: %w", err)
	}
	return r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (model.Record, error) {
	var (
		r                                        model.Record
		grade, gender, measuredAt                string
		height, weight, gripR, gripL, jump, dash sql.NullFloat64
		doubleJump, squat, sidestep, throw       sql.NullFloat64
	)
	err := sc.Scan(&r.ID, &r.SubjectID, &r.StoreID, &grade, &gender, &height, &weight,
		&gripR, &gripL, &jump, &dash, &r.DashDist, &doubleJump, &squat,
		&sidestep, &throw, &r.BallDiameter, &r.BallWeight, &measuredAt)
	if err != nil {
		return model.Record{}, err
	}
	r.Grade = types.Grade(grade)
	r.Gender = types.Gender(gender)
	r.Height, r.Weight = fromNullable(height), fromNullable(weight)
	r.GripRight, r.GripLeft = fromNullable(gripR), fromNullable(gripL)
	r.Jump, r.Dash = fromNullable(jump), fromNullable(dash)
	r.DoubleJump, r.Squat = fromNullable(doubleJump), fromNullable(squat)
	r.Sidestep, r.Throw = fromNullable(sidestep), fromNullable(throw)
	r.MeasuredAt, err = time.Parse(timeLayout, measuredAt)
	if err != nil {
		return model.Record{}, fmt.Errorf("parsing measured_at %q: %w", measuredAt, err)
	}
	return r, nil
}

// GetRecord implements Store.
func (s *SQLStore) GetRecord(ctx context.Context, id string) (rec model.Record, err error) {
	defer func(start time.Time) { observe("get_record", start, err) }(time.Now())

	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+recordColumns+` FROM records WHERE id = ?`), id)
	rec, err = scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("querying record: %w", err)
	}
	return rec, nil
}

// where builds the WHERE clause for a filter.
func where(f model.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Grade != "" {
		conds = append(conds, "grade = ?")
		args = append(args, string(f.Grade))
	}
	if f.Gender != "" {
		conds = append(conds, "gender = ?")
		args = append(args, string(f.Gender))
	}
	if f.StoreID != "" {
		conds = append(conds, "store_id = ?")
		args = append(args, f.StoreID)
	}
	if !f.Start.IsZero() {
		conds = append(conds, "measured_at >= ?")
		args = append(args, f.Start.UTC().Format(timeLayout))
	}
	if !f.End.IsZero() {
		conds = append(conds, "measured_at < ?")
		args = append(args, f.Until().UTC().Format(timeLayout))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListRecords implements Store.
func (s *SQLStore) ListRecords(ctx context.Context, f model.Filter) (out []model.Record, err error) {
	defer func(start time.Time) { observe("list_records", start, err) }(time.Now())

	clause, args := where(f)
	q := s.rebind(`SELECT ` + recordColumns + ` FROM records` + clause + ` ORDER BY measured_at, id`)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	out = []model.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return out, nil
}

// ReplaceTrainings implements Store.
func (s *SQLStore) ReplaceTrainings(ctx context.Context, ts []model.Training) (err error) {
	defer func(start time.Time) { observe("replace_trainings", start, err) }(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM trainings`); err != nil {
		return fmt.Errorf("clearing trainings: %w", err)
	}
	q := s.rebind(`INSERT INTO trainings (ability_key, age_group, name, description, reps, effect, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for _, t := range ts {
		if _, err = tx.ExecContext(ctx, q, t.AbilityKey.String(), t.AgeGroup, t.Name, t.Description, t.Reps, t.Effect, t.SortOrder); err != nil {
			return fmt.Errorf("inserting training %q: %w", t.Name, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing trainings: %w", err)
	}
	metrics.UpdateTrainingCatalogSize(len(ts))
	return nil
}

// ListTrainings implements Store.
func (s *SQLStore) ListTrainings(ctx context.Context) (out []model.Training, err error) {
	defer func(start time.Time) { observe("list_trainings", start, err) }(time.Now())

	rows, err := s.db.QueryContext(ctx, `SELECT ability_key, age_group, name, description, reps, effect, sort_order
		FROM trainings ORDER BY ability_key, age_group, sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("querying trainings: %w", err)
	}
	defer rows.Close()

	out = []model.Training{}
	for rows.Next() {
		var (
			t       model.Training
			ability string
		)
		if err := rows.Scan(&ability, &t.AgeGroup, &t.Name, &t.Description, &t.Reps, &t.Effect, &t.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning training: %w", err)
		}
		if t.AbilityKey, err = types.ParseMetric(ability); err != nil {
			return nil, fmt.Errorf("scanning training: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trainings: %w", err)
	}
	return out, nil
}

// Count implements Store.
func (s *SQLStore) Count(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { observe("count", start, err) }(time.Now())

	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	metrics.UpdateStoredRecords(n)
	return n, nil
}
