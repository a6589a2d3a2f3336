// File: database/repository/schedule/postgres.go
package scheduleRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"beautypage/models"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
)

// sqlExecutor is satisfied by both *sql.DB and *sql.Tx.
type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type postgresScheduleRepo struct {
	db      *sql.DB
	exec    sqlExecutor
	inTx    bool
	dialect goqu.DialectWrapper
}

// NewPostgresScheduleRepo constructs a PostgreSQL ScheduleRepository on db.
func NewPostgresScheduleRepo(db *sql.DB) ScheduleRepository {
	return &postgresScheduleRepo{
		db:      db,
		exec:    db,
		dialect: goqu.Dialect("postgres"),
	}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS working_days (
	id            UUID PRIMARY KEY,
	specialist_id TEXT NOT NULL,
	date          DATE NOT NULL,
	start_time    TIME NOT NULL,
	end_time      TIME NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT working_days_specialist_date_key UNIQUE (specialist_id, date)
);
CREATE TABLE IF NOT EXISTS breaks (
	id             UUID PRIMARY KEY,
	working_day_id UUID NOT NULL REFERENCES working_days(id) ON DELETE CASCADE,
	start_time     TIME NOT NULL,
	end_time       TIME NOT NULL
);
CREATE INDEX IF NOT EXISTS breaks_working_day_idx ON breaks (working_day_id, start_time);
CREATE TABLE IF NOT EXISTS appointments (
	id            UUID PRIMARY KEY,
	specialist_id TEXT NOT NULL,
	date          DATE NOT NULL,
	start_time    TIME NOT NULL,
	end_time      TIME NOT NULL,
	status        TEXT NOT NULL,
	client_name   TEXT NOT NULL DEFAULT '',
	service_name  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS appointments_specialist_date_idx ON appointments (specialist_id, date, start_time);
CREATE TABLE IF NOT EXISTS schedule_configs (
	specialist_id         TEXT PRIMARY KEY,
	timezone              TEXT NOT NULL,
	default_slot_duration INTEGER NOT NULL
);`

// EnsureIndexes creates the schedule tables and indexes when missing.
func (r *postgresScheduleRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.exec.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to apply schedule schema: %w", err)
	}
	return nil
}

// RunInTx binds fn to one sql.Tx. Nested calls reuse the open transaction.
func (r *postgresScheduleRepo) RunInTx(ctx context.Context, fn func(ctx context.Context, repo ScheduleRepository) error) error {
	if r.inTx {
		return fn(ctx, r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	txRepo := &postgresScheduleRepo{db: r.db, exec: tx, inTx: true, dialect: r.dialect}

	if err := fn(ctx, txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *postgresScheduleRepo) UpsertWorkingDays(ctx context.Context, rows []models.WorkingDay) ([]models.WorkingDayRef, error) {
	if len(rows) == 0 {
		return []models.WorkingDayRef{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	records := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		records = append(records, goqu.Record{
			"id":            uuid.New().String(),
			"specialist_id": row.SpecialistID,
			"date":          row.Date,
			"start_time":    row.Start.Stored(),
			"end_time":      row.End.Stored(),
			"updated_at":    now,
		})
	}

	query, args, err := r.dialect.Insert("working_days").
		Prepared(true).
		Rows(records...).
		OnConflict(goqu.DoUpdate("specialist_id, date", goqu.Record{
			"start_time": goqu.L("EXCLUDED.start_time"),
			"end_time":   goqu.L("EXCLUDED.end_time"),
			"updated_at": goqu.L("EXCLUDED.updated_at"),
		})).
		Returning("id", "date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build upsert query: %w", err)
	}

	result, err := r.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert working days: %w", err)
	}
	defer result.Close()

	refs := make([]models.WorkingDayRef, 0, len(rows))
	for result.Next() {
		var ref models.WorkingDayRef
		var date time.Time
		if err := result.Scan(&ref.ID, &date); err != nil {
			return nil, fmt.Errorf("error scanning working day id: %w", err)
		}
		ref.Date = date.Format(models.DateLayout)
		refs = append(refs, ref)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("error reading upsert result: %w", err)
	}
	if len(refs) != len(rows) {
		return nil, fmt.Errorf("upsert returned %d ids for %d working days", len(refs), len(rows))
	}
	return refs, nil
}

func (r *postgresScheduleRepo) DeleteBreaks(ctx context.Context, workingDayIDs []string) error {
	if len(workingDayIDs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args, err := r.dialect.Delete("breaks").
		Prepared(true).
		Where(goqu.C("working_day_id").In(workingDayIDs)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	if _, err := r.exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete breaks: %w", err)
	}
	return nil
}

func (r *postgresScheduleRepo) InsertBreaks(ctx context.Context, rows []models.Break) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	records := make([]interface{}, 0, len(rows))
	for _, b := range rows {
		id := b.ID
		if id == "" {
			id = uuid.New().String()
		}
		records = append(records, goqu.Record{
			"id":             id,
			"working_day_id": b.WorkingDayID,
			"start_time":     b.Start.Stored(),
			"end_time":       b.End.Stored(),
		})
	}
	query, args, err := r.dialect.Insert("breaks").Prepared(true).Rows(records...).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}
	if _, err := r.exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert breaks: %w", err)
	}
	return nil
}

// DeleteWorkingDays relies on the breaks FK cascade.
func (r *postgresScheduleRepo) DeleteWorkingDays(ctx context.Context, specialistID string, dates []string) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args, err := r.dialect.Delete("working_days").
		Prepared(true).
		Where(goqu.Ex{"specialist_id": specialistID}, goqu.C("date").In(dates)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}
	res, err := r.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete working days: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *postgresScheduleRepo) UpsertScheduleConfig(ctx context.Context, cfg models.ScheduleConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args, err := r.dialect.Insert("schedule_configs").
		Prepared(true).
		Rows(goqu.Record{
			"specialist_id":         cfg.SpecialistID,
			"timezone":              cfg.Timezone,
			"default_slot_duration": cfg.DefaultSlotDuration,
		}).
		OnConflict(goqu.DoUpdate("specialist_id", goqu.Record{
			"timezone":              goqu.L("EXCLUDED.timezone"),
			"default_slot_duration": goqu.L("EXCLUDED.default_slot_duration"),
		})).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build config upsert: %w", err)
	}
	if _, err := r.exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save schedule config: %w", err)
	}
	return nil
}
