package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/zenithhr/payroll-backend-go/internal/domain/staff"
	"github.com/zenithhr/payroll-backend-go/internal/pkg/database"
)

type staffRepositoryImpl struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepositoryImpl{db: db}
}

const staffColumns = `
	id, client_id, first_name, last_name, employee_code,
	bank_name, account_number, pfa_code, annual_rent_paid,
	is_active, created_at, updated_at
`

// GetByID implements staff.StaffRepository.
func (r *staffRepositoryImpl) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE id = $1
	`

	s, err := scanStaff(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, err
	}
	return s, nil
}

// ListActiveByClientID implements staff.StaffRepository.
func (r *staffRepositoryImpl) ListActiveByClientID(ctx context.Context, clientID string) ([]staff.Staff, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE client_id = $1 AND is_active = true
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []staff.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanStaff(row pgx.Row) (staff.Staff, error) {
	var s staff.Staff
	err := row.Scan(
		&s.ID, &s.ClientID, &s.FirstName, &s.LastName, &s.EmployeeCode,
		&s.BankName, &s.AccountNumber, &s.PFACode, &s.AnnualRentPaid,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}
