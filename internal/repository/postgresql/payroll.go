package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/zenithhr/payroll-backend-go/internal/domain/payroll"
	"github.com/zenithhr/payroll-backend-go/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const runColumns = `
	id, client_id, month, year, status, notes,
	staff_count, total_gross_pay, total_deductions, total_net_pay, total_credit_to_bank,
	created_by, calculated_at, approved_by, approved_at, exported_at, cancelled_at,
	created_at, updated_at
`

// ========== RUNS ==========

// CreateRun implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreateRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO payroll_runs (
			id, client_id, month, year, status, notes, created_by,
			staff_count, total_gross_pay, total_deductions, total_net_pay, total_credit_to_bank,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, 0, 0, 0, 0, 0, NOW(), NOW()
		) RETURNING ` + runColumns + `
	`

	created, err := scanRun(q.QueryRow(ctx, query,
		run.ClientID, run.Month, run.Year, run.Status, run.Notes, run.CreatedBy,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.Run{}, payroll.ErrDuplicatePeriod
		}
		return payroll.Run{}, err
	}
	return created, nil
}

// GetRunByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetRunByID(ctx context.Context, id string) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE id = $1
	`

	run, err := scanRun(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Run{}, payroll.ErrRunNotFound
		}
		return payroll.Run{}, err
	}
	return run, nil
}

// ListRuns implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.Run, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []any{}
	argPos := 1

	if filter.ClientID != nil {
		where += fmt.Sprintf(" AND client_id = $%d", argPos)
		args = append(args, *filter.ClientID)
		argPos++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Month != nil {
		where += fmt.Sprintf(" AND month = $%d", argPos)
		args = append(args, *filter.Month)
		argPos++
	}
	if filter.Year != nil {
		where += fmt.Sprintf(" AND year = $%d", argPos)
		args = append(args, *filter.Year)
		argPos++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM payroll_runs" + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	listQuery := "SELECT " + runColumns + " FROM payroll_runs" + where +
		fmt.Sprintf(" ORDER BY year DESC, month DESC, created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []payroll.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, totalCount, rows.Err()
}

// MarkCalculated implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) MarkCalculated(ctx context.Context, runID string, totals payroll.RunTotals, at time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE payroll_runs
		SET status = $1, staff_count = $2,
			total_gross_pay = $3, total_deductions = $4,
			total_net_pay = $5, total_credit_to_bank = $6,
			calculated_at = $7, updated_at = NOW()
		WHERE id = $8 AND status = $9
	`

	tag, err := q.Exec(ctx, query,
		payroll.RunStatusCalculated, totals.StaffCount,
		totals.TotalGrossPay, totals.TotalDeductions,
		totals.TotalNetPay, totals.TotalCreditToBank,
		at, runID, payroll.RunStatusDraft,
	)
	if err != nil {
		return err
	}
	return r.checkTransition(ctx, runID, tag.RowsAffected())
}

// MarkApproved implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) MarkApproved(ctx context.Context, runID string, approverID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE payroll_runs
		SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`

	tag, err := q.Exec(ctx, query, payroll.RunStatusApproved, approverID, at, runID, payroll.RunStatusCalculated)
	if err != nil {
		return err
	}
	return r.checkTransition(ctx, runID, tag.RowsAffected())
}

// MarkExported implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) MarkExported(ctx context.Context, runID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE payroll_runs
		SET status = $1, exported_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	tag, err := q.Exec(ctx, query, payroll.RunStatusExported, at, runID, payroll.RunStatusApproved)
	if err != nil {
		return err
	}
	return r.checkTransition(ctx, runID, tag.RowsAffected())
}

// MarkCancelled implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) MarkCancelled(ctx context.Context, runID string, at time.Time) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		update := `
			UPDATE payroll_runs
			SET status = $1, cancelled_at = $2, updated_at = NOW()
			WHERE id = $3 AND status IN ($4, $5)
		`
		tag, err := tx.Exec(ctx, update,
			payroll.RunStatusCancelled, at, runID,
			payroll.RunStatusDraft, payroll.RunStatusCalculated,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return r.transitionFailure(ctx, tx, runID)
		}

		// Items survive cancellation for audit; superseded excludes them from
		// reports and bank files.
		supersede := `
			UPDATE payroll_items
			SET superseded = true, updated_at = NOW()
			WHERE run_id = $1
		`
		_, err = tx.Exec(ctx, supersede, runID)
		return err
	})
}

// ReopenRun implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ReopenRun(ctx context.Context, runID string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		update := `
			UPDATE payroll_runs
			SET status = $1, calculated_at = NULL,
				staff_count = 0, total_gross_pay = 0, total_deductions = 0,
				total_net_pay = 0, total_credit_to_bank = 0,
				updated_at = NOW()
			WHERE id = $2 AND status = $3
		`
		tag, err := tx.Exec(ctx, update, payroll.RunStatusDraft, runID, payroll.RunStatusCalculated)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return r.transitionFailure(ctx, tx, runID)
		}

		_, err = tx.Exec(ctx, `DELETE FROM payroll_items WHERE run_id = $1`, runID)
		return err
	})
}

// checkTransition resolves a zero-row status-guarded update into the right
// domain error: the run is either missing or in a status the guard rejected.
func (r *payrollRepositoryImpl) checkTransition(ctx context.Context, runID string, rowsAffected int64) error {
	if rowsAffected > 0 {
		return nil
	}
	return r.transitionFailure(ctx, GetQuerier(ctx, r.db), runID)
}

func (r *payrollRepositoryImpl) transitionFailure(ctx context.Context, q database.Querier, runID string) error {
	var status payroll.RunStatus
	err := q.QueryRow(ctx, `SELECT status FROM payroll_runs WHERE id = $1`, runID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return payroll.ErrRunNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: run is %s", payroll.ErrInvalidStateTransition, status)
}

func scanRun(row pgx.Row) (payroll.Run, error) {
	var run payroll.Run
	err := row.Scan(
		&run.ID, &run.ClientID, &run.Month, &run.Year, &run.Status, &run.Notes,
		&run.StaffCount, &run.TotalGrossPay, &run.TotalDeductions, &run.TotalNetPay, &run.TotalCreditToBank,
		&run.CreatedBy, &run.CalculatedAt, &run.ApprovedBy, &run.ApprovedAt, &run.ExportedAt, &run.CancelledAt,
		&run.CreatedAt, &run.UpdatedAt,
	)
	return run, err
}

// ========== ITEMS ==========

const itemColumns = `
	id, run_id, staff_id, client_id,
	staff_name, staff_code, bank_name, account_number, pfa_code,
	days_present, days_absent, total_days, proration_factor,
	annual_gross_salary, annual_reimbursables, pensionable_amount,
	monthly_gross, monthly_reimbursables, prorated_monthly_gross, prorated_monthly_reimbursables,
	pension_relief, nhis_relief, rent_relief,
	taxable_income, annual_paye_tax, monthly_paye,
	pension_deduction, leave_allowance_deduction, thirteenth_month_deduction,
	other_deductions, total_deductions,
	net_pay, credit_to_bank, emoluments_snapshot,
	superseded, calculation_date, created_at
`

// CreateItem implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreateItem(ctx context.Context, item payroll.Item) (payroll.Item, error) {
	q := GetQuerier(ctx, r.db)

	snapshotJSON, err := json.Marshal(item.EmolumentsSnapshot)
	if err != nil {
		return payroll.Item{}, fmt.Errorf("encode emoluments snapshot: %w", err)
	}

	query := `
		INSERT INTO payroll_items (
			id, run_id, staff_id, client_id,
			staff_name, staff_code, bank_name, account_number, pfa_code,
			days_present, days_absent, total_days, proration_factor,
			annual_gross_salary, annual_reimbursables, pensionable_amount,
			monthly_gross, monthly_reimbursables, prorated_monthly_gross, prorated_monthly_reimbursables,
			pension_relief, nhis_relief, rent_relief,
			taxable_income, annual_paye_tax, monthly_paye,
			pension_deduction, leave_allowance_deduction, thirteenth_month_deduction,
			other_deductions, total_deductions,
			net_pay, credit_to_bank, emoluments_snapshot,
			superseded, calculation_date, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22,
			$23, $24, $25,
			$26, $27, $28,
			$29, $30,
			$31, $32, $33,
			false, $34, NOW(), NOW()
		) RETURNING id, created_at
	`

	err = q.QueryRow(ctx, query,
		item.RunID, item.StaffID, item.ClientID,
		item.StaffName, item.StaffCode, item.BankName, item.AccountNumber, item.PFACode,
		item.DaysPresent, item.DaysAbsent, item.TotalDays, item.ProrationFactor,
		item.AnnualGrossSalary, item.AnnualReimbursables, item.PensionableAmount,
		item.MonthlyGross, item.MonthlyReimbursables, item.ProratedMonthlyGross, item.ProratedMonthlyReimbursables,
		item.PensionRelief, item.NHISRelief, item.RentRelief,
		item.TaxableIncome, item.AnnualPayeTax, item.MonthlyPaye,
		item.PensionDeduction, item.LeaveAllowanceDeduction, item.ThirteenthMonthDeduction,
		item.OtherDeductions, item.TotalDeductions,
		item.NetPay, item.CreditToBank, snapshotJSON,
		item.CalculationDate,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.Item{}, payroll.ErrItemAlreadyExists
		}
		return payroll.Item{}, err
	}
	return item, nil
}

// ListItemsByRunID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListItemsByRunID(ctx context.Context, runID string) ([]payroll.Item, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + itemColumns + `
		FROM payroll_items
		WHERE run_id = $1
		ORDER BY staff_code
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []payroll.Item
	for rows.Next() {
		var item payroll.Item
		var snapshotJSON []byte

		if err := rows.Scan(
			&item.ID, &item.RunID, &item.StaffID, &item.ClientID,
			&item.StaffName, &item.StaffCode, &item.BankName, &item.AccountNumber, &item.PFACode,
			&item.DaysPresent, &item.DaysAbsent, &item.TotalDays, &item.ProrationFactor,
			&item.AnnualGrossSalary, &item.AnnualReimbursables, &item.PensionableAmount,
			&item.MonthlyGross, &item.MonthlyReimbursables, &item.ProratedMonthlyGross, &item.ProratedMonthlyReimbursables,
			&item.PensionRelief, &item.NHISRelief, &item.RentRelief,
			&item.TaxableIncome, &item.AnnualPayeTax, &item.MonthlyPaye,
			&item.PensionDeduction, &item.LeaveAllowanceDeduction, &item.ThirteenthMonthDeduction,
			&item.OtherDeductions, &item.TotalDeductions,
			&item.NetPay, &item.CreditToBank, &snapshotJSON,
			&item.Superseded, &item.CalculationDate, &item.CreatedAt,
		); err != nil {
			return nil, err
		}

		item.EmolumentsSnapshot = make(map[string]decimal.Decimal)
		if snapshotJSON != nil {
			if err := json.Unmarshal(snapshotJSON, &item.EmolumentsSnapshot); err != nil {
				return nil, fmt.Errorf("decode emoluments snapshot for item %s: %w", item.ID, err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteItemsByRunID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeleteItemsByRunID(ctx context.Context, runID string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `DELETE FROM payroll_items WHERE run_id = $1`, runID)
	return err
}
