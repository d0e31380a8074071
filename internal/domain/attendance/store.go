package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, employeeID string, clockIn time.Time, location string, mode WorkMode) (ClockRecord, error) {
	var rec ClockRecord
	// The partial unique index on (employee_id) WHERE clock_out IS NULL turns
	// a second open insert into a unique violation.
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, clock_in, location, work_mode)
    VALUES ($1, $2, $3, $4)
    RETURNING id, employee_id::text, clock_in, clock_out, location, work_mode, created_at, updated_at
  `, employeeID, clockIn, location, string(mode)).
		Scan(&rec.ID, &rec.EmployeeID, &rec.ClockIn, &rec.ClockOut, &rec.Location, &rec.WorkMode, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ClockRecord{}, ErrAlreadyClockedIn
		}
		return ClockRecord{}, err
	}
	return rec, nil
}

func (s *Store) CloseOpen(ctx context.Context, employeeID string, at time.Time) (ClockRecord, error) {
	var rec ClockRecord
	err := s.DB.QueryRow(ctx, `
    UPDATE attendance_records
    SET clock_out = $1, updated_at = now()
    WHERE id = (
      SELECT id FROM attendance_records
      WHERE employee_id = $2 AND clock_out IS NULL
      ORDER BY clock_in
      LIMIT 1
    )
    RETURNING id, employee_id::text, clock_in, clock_out, location, work_mode, created_at, updated_at
  `, at, employeeID).
		Scan(&rec.ID, &rec.EmployeeID, &rec.ClockIn, &rec.ClockOut, &rec.Location, &rec.WorkMode, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ClockRecord{}, ErrNoOpenSession
		}
		return ClockRecord{}, err
	}
	return rec, nil
}

func (s *Store) HasOpen(ctx context.Context, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM attendance_records
    WHERE employee_id = $1 AND clock_out IS NULL
  `, employeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]ClockRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id::text, clock_in, clock_out, location, work_mode, created_at, updated_at
    FROM attendance_records
    WHERE employee_id = $1
    ORDER BY clock_in DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ClockRecord
	for rows.Next() {
		var rec ClockRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.ClockIn, &rec.ClockOut, &rec.Location, &rec.WorkMode, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) CloseOlderThan(ctx context.Context, cutoff, at time.Time) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET clock_out = $1, updated_at = now()
    WHERE clock_out IS NULL AND clock_in < $2
  `, at, cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
