package cdr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"cdrbot/internal/config"
	"cdrbot/internal/metrics"
	"cdrbot/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Bounds are sent as wall-clock strings so the driver never shifts them to UTC.
const boundLayout = "2006-01-02 15:04:05"

var (
	ErrNegativeDaysAgo = errors.New("daysAgo must not be negative")

	tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Store reads call detail records from the PBX accounting table.
type Store struct {
	db    *sqlx.DB
	table string
	loc   *time.Location
	now   func() time.Time
}

type row struct {
	ID            sql.NullString `db:"uniqueid"`
	CallDate      sql.NullTime   `db:"calldate"`
	Src           sql.NullString `db:"src"`
	Dst           sql.NullString `db:"dst"`
	Duration      sql.NullInt64  `db:"duration"`
	Disposition   sql.NullString `db:"disposition"`
	RecordingFile sql.NullString `db:"recordingfile"`
}

// Open connects to the CDR database and checks that it answers.
func Open(cfg config.CDRConfig) (*Store, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load cdr timezone: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = "cdr"
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid cdr table name %q", table)
	}

	dsn, err := normalizeDSN(cfg.Driver, cfg.DSN, loc)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cdr database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cdr database: %w", err)
	}

	return New(db, table, loc), nil
}

// New wraps an already opened connection.
func New(db *sqlx.DB, table string, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{db: db, table: table, loc: loc, now: time.Now}
}

func normalizeDSN(driver, dsn string, loc *time.Location) (string, error) {
	if driver != "mysql" {
		return dsn, nil
	}
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	parsed.ParseTime = true
	parsed.Loc = loc
	return parsed.FormatDSN(), nil
}

func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// FindByID returns the rows with the given unique id, normally zero or one.
func (s *Store) FindByID(ctx context.Context, id string) ([]models.CallRecord, error) {
	query := fmt.Sprintf(`
		SELECT uniqueid, calldate, src, dst, duration, disposition, recordingfile
		FROM %s
		WHERE uniqueid = ?
		ORDER BY calldate`, s.table)
	return s.selectCalls(ctx, "find_by_id", query, id)
}

// GetAllCalls returns every call of the day daysAgo days before today, oldest first.
func (s *Store) GetAllCalls(ctx context.Context, daysAgo int) ([]models.CallRecord, error) {
	if daysAgo < 0 {
		return nil, ErrNegativeDaysAgo
	}
	day := s.now().In(s.loc).AddDate(0, 0, -daysAgo)
	return s.callsBetween(ctx, "all_calls", day, false)
}

// GetMissedCalls returns today's calls that were not answered.
func (s *Store) GetMissedCalls(ctx context.Context) ([]models.CallRecord, error) {
	return s.callsBetween(ctx, "missed_calls", s.now().In(s.loc), true)
}

// GetCallsOn returns every call of the calendar day containing day.
func (s *Store) GetCallsOn(ctx context.Context, day time.Time) ([]models.CallRecord, error) {
	return s.callsBetween(ctx, "calls_on", day.In(s.loc), false)
}

// DayBounds returns [midnight, next midnight) of day in the store's timezone.
func (s *Store) DayBounds(day time.Time) (time.Time, time.Time) {
	d := day.In(s.loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *Store) callsBetween(ctx context.Context, kind string, day time.Time, missedOnly bool) ([]models.CallRecord, error) {
	start, end := s.DayBounds(day)

	filter := ""
	if missedOnly {
		filter = fmt.Sprintf(" AND disposition <> '%s'", models.DispositionAnswered)
	}

	query := fmt.Sprintf(`
		SELECT uniqueid, calldate, src, dst, duration, disposition, recordingfile
		FROM %s
		WHERE calldate >= ? AND calldate < ?%s
		ORDER BY calldate`, s.table, filter)

	return s.selectCalls(ctx, kind, query, start.Format(boundLayout), end.Format(boundLayout))
}

func (s *Store) selectCalls(ctx context.Context, kind, query string, args ...any) ([]models.CallRecord, error) {
	started := time.Now()
	defer func() {
		metrics.ObserveQuery(kind, time.Since(started).Seconds())
	}()

	var rows []row
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("cdr %s query: %w", kind, err)
	}

	calls := make([]models.CallRecord, 0, len(rows))
	for _, r := range rows {
		calls = append(calls, s.toModel(r))
	}
	return calls, nil
}

func (s *Store) toModel(r row) models.CallRecord {
	call := models.CallRecord{
		ID:            r.ID.String,
		Src:           r.Src.String,
		Dst:           r.Dst.String,
		Duration:      int(r.Duration.Int64),
		Disposition:   r.Disposition.String,
		RecordingFile: r.RecordingFile.String,
	}
	if r.CallDate.Valid {
		// calldate holds PBX wall-clock time; keep the fields, fix the zone.
		t := r.CallDate.Time
		call.CallDate = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), s.loc)
	}
	return call
}
