package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/zenithhr/payroll-backend-go/internal/domain/attendance"
	"github.com/zenithhr/payroll-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	id, staff_id, month, year, actual_working_days, total_expected_days,
	calculation_method, ready_for_calculation, created_at, updated_at
`

// GetByStaffPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByStaffPeriod(ctx context.Context, staffID string, month, year int) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE staff_id = $1 AND month = $2 AND year = $3
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, staffID, month, year).Scan(
		&rec.ID, &rec.StaffID, &rec.Month, &rec.Year,
		&rec.ActualWorkingDays, &rec.TotalExpectedDays,
		&rec.CalculationMethod, &rec.ReadyForCalculation,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, err
	}
	return rec, nil
}

// ListReadyForPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListReadyForPeriod(ctx context.Context, clientID string, month, year int) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ar.id, ar.staff_id, ar.month, ar.year,
			   ar.actual_working_days, ar.total_expected_days,
			   ar.calculation_method, ar.ready_for_calculation,
			   ar.created_at, ar.updated_at
		FROM attendance_records ar
		JOIN staff s ON s.id = ar.staff_id
		WHERE s.client_id = $1 AND ar.month = $2 AND ar.year = $3
		  AND ar.ready_for_calculation = true
		ORDER BY ar.staff_id
	`

	rows, err := q.Query(ctx, query, clientID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.StaffID, &rec.Month, &rec.Year,
			&rec.ActualWorkingDays, &rec.TotalExpectedDays,
			&rec.CalculationMethod, &rec.ReadyForCalculation,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
