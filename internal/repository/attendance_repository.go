package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/attendance-portal/internal/model"
)

const attendanceColumns = `id, student_id, subject, marked_by, recorded_at, to_char(attendance_date, 'YYYY-MM-DD')`

// PostgresAttendanceRepository handles attendance data access. The dedup
// guarantee comes from the attendance_student_subject_day_key unique index.
type PostgresAttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAttendanceRepository creates a new PostgresAttendanceRepository.
func NewPostgresAttendanceRepository(pool *pgxpool.Pool) *PostgresAttendanceRepository {
	return &PostgresAttendanceRepository{pool: pool}
}

// Insert writes rec in a single statement. A concurrent insert for the same
// key loses on the unique index and gets ErrDuplicateAttendance.
func (r *PostgresAttendanceRepository) Insert(ctx context.Context, rec *model.AttendanceRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attendance (id, student_id, subject, marked_by, recorded_at, attendance_date)
		 VALUES ($1, $2, $3, $4, $5, $6::date)`,
		rec.ID, rec.StudentID, rec.Subject, rec.MarkedBy, rec.RecordedAt, rec.Day,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return ErrDuplicateAttendance
			case pgForeignKeyViolation:
				return ErrUnknownStudent
			}
		}
		return err
	}
	return nil
}

// ListByDay returns all records for a calendar day, newest first.
func (r *PostgresAttendanceRepository) ListByDay(ctx context.Context, day string) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendance
		 WHERE attendance_date = $1::date
		 ORDER BY recorded_at DESC`, day)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

// ListByStudent returns a student's history, newest first.
func (r *PostgresAttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendance
		 WHERE student_id = $1
		 ORDER BY recorded_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

func (r *PostgresAttendanceRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendance WHERE student_id = $1`, studentID).Scan(&n)
	return n, err
}

func (r *PostgresAttendanceRepository) CountSessionsSince(ctx context.Context, day string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM (
			SELECT DISTINCT subject, attendance_date FROM attendance WHERE attendance_date >= $1::date
		 ) sessions`, day).Scan(&n)
	return n, err
}

func collectAttendance(rows pgx.Rows) ([]model.AttendanceRecord, error) {
	defer rows.Close()

	records := []model.AttendanceRecord{}
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Subject, &rec.MarkedBy, &rec.RecordedAt, &rec.Day); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
