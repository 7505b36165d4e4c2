package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
	"github.com/zenithhr/payroll-backend-go/internal/pkg/database"
)

type settingRepositoryImpl struct {
	db *database.DB
}

func NewSettingRepository(db *database.DB) settings.SettingRepository {
	return &settingRepositoryImpl{db: db}
}

const settingColumns = `
	id, setting_key, setting_type, setting_value, description,
	is_active, effective_from, created_at, updated_at
`

// GetActiveByKey implements settings.SettingRepository.
func (r *settingRepositoryImpl) GetActiveByKey(ctx context.Context, key string) (settings.PayrollSetting, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + settingColumns + `
		FROM payroll_settings
		WHERE setting_key = $1 AND is_active = true
	`

	s, err := scanSetting(q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.PayrollSetting{}, settings.ErrSettingNotFound
		}
		return settings.PayrollSetting{}, err
	}
	return s, nil
}

// ListActive implements settings.SettingRepository.
func (r *settingRepositoryImpl) ListActive(ctx context.Context) ([]settings.PayrollSetting, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + settingColumns + `
		FROM payroll_settings
		WHERE is_active = true
		ORDER BY setting_key
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSettings(rows)
}

// ListHistory implements settings.SettingRepository.
func (r *settingRepositoryImpl) ListHistory(ctx context.Context, key string) ([]settings.PayrollSetting, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + settingColumns + `
		FROM payroll_settings
		WHERE setting_key = $1
		ORDER BY effective_from DESC, created_at DESC
	`

	rows, err := q.Query(ctx, query, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result, err := collectSettings(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, settings.ErrSettingNotFound
	}
	return result, nil
}

// ReplaceSetting implements settings.SettingRepository.
func (r *settingRepositoryImpl) ReplaceSetting(ctx context.Context, setting settings.PayrollSetting) (settings.PayrollSetting, error) {
	var created settings.PayrollSetting

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		deactivate := `
			UPDATE payroll_settings
			SET is_active = false, updated_at = NOW()
			WHERE setting_key = $1 AND is_active = true
		`
		if _, err := tx.Exec(ctx, deactivate, setting.SettingKey); err != nil {
			return err
		}

		insert := `
			INSERT INTO payroll_settings (
				id, setting_key, setting_type, setting_value, description,
				is_active, effective_from, created_at, updated_at
			) VALUES (
				uuidv7(), $1, $2, $3, $4, true, $5, NOW(), NOW()
			) RETURNING ` + settingColumns + `
		`
		effectiveFrom := setting.EffectiveFrom
		if effectiveFrom.IsZero() {
			effectiveFrom = time.Now().UTC()
		}

		var err error
		created, err = scanSetting(tx.QueryRow(ctx, insert,
			setting.SettingKey, setting.SettingType, setting.RawValue,
			setting.Description, effectiveFrom,
		))
		return err
	})
	if err != nil {
		return settings.PayrollSetting{}, err
	}
	return created, nil
}

// ListBrackets implements settings.SettingRepository.
func (r *settingRepositoryImpl) ListBrackets(ctx context.Context, asOf time.Time) ([]settings.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, tier_number, income_from, income_to, tax_rate,
			   effective_from, effective_to, created_at
		FROM tax_brackets
		WHERE effective_from <= $1
		  AND (effective_to IS NULL OR effective_to >= $1)
		ORDER BY tier_number
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brackets []settings.TaxBracket
	for rows.Next() {
		var b settings.TaxBracket
		if err := rows.Scan(
			&b.ID, &b.TierNumber, &b.IncomeFrom, &b.IncomeTo, &b.TaxRate,
			&b.EffectiveFrom, &b.EffectiveTo, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		brackets = append(brackets, b)
	}
	return brackets, rows.Err()
}

// CreateBracket implements settings.SettingRepository.
func (r *settingRepositoryImpl) CreateBracket(ctx context.Context, bracket settings.TaxBracket) (settings.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO tax_brackets (
			id, tier_number, income_from, income_to, tax_rate,
			effective_from, effective_to, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		bracket.TierNumber, bracket.IncomeFrom, bracket.IncomeTo, bracket.TaxRate,
		bracket.EffectiveFrom, bracket.EffectiveTo,
	).Scan(&bracket.ID, &bracket.CreatedAt)
	if err != nil {
		return settings.TaxBracket{}, err
	}
	return bracket, nil
}

func scanSetting(row pgx.Row) (settings.PayrollSetting, error) {
	var s settings.PayrollSetting
	err := row.Scan(
		&s.ID, &s.SettingKey, &s.SettingType, &s.RawValue, &s.Description,
		&s.IsActive, &s.EffectiveFrom, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func collectSettings(rows pgx.Rows) ([]settings.PayrollSetting, error) {
	var result []settings.PayrollSetting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
