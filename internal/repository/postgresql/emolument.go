package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/zenithhr/payroll-backend-go/internal/domain/emolument"
	"github.com/zenithhr/payroll-backend-go/internal/pkg/database"
)

type componentRepositoryImpl struct {
	db *database.DB
}

func NewComponentRepository(db *database.DB) emolument.ComponentRepository {
	return &componentRepositoryImpl{db: db}
}

const componentColumns = `
	id, code, name, payroll_category, is_pensionable,
	is_universal_template, client_id, is_active, display_order,
	created_at, updated_at
`

// ListActiveForClient implements emolument.ComponentRepository.
func (r *componentRepositoryImpl) ListActiveForClient(ctx context.Context, clientID string) ([]emolument.Component, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + componentColumns + `
		FROM payroll_components
		WHERE is_active = true
		  AND (client_id IS NULL OR client_id = $1)
		ORDER BY display_order, code
	`

	rows, err := q.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []emolument.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

// GetByCode implements emolument.ComponentRepository.
func (r *componentRepositoryImpl) GetByCode(ctx context.Context, code string, clientID *string) (emolument.Component, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + componentColumns + `
		FROM payroll_components
		WHERE code = $1
		  AND (client_id IS NULL OR client_id = $2)
		ORDER BY client_id NULLS LAST
		LIMIT 1
	`

	c, err := scanComponent(q.QueryRow(ctx, query, code, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emolument.Component{}, fmt.Errorf("%w: %s", emolument.ErrUnknownComponent, code)
		}
		return emolument.Component{}, err
	}
	return c, nil
}

// Create implements emolument.ComponentRepository.
func (r *componentRepositoryImpl) Create(ctx context.Context, component emolument.Component) (emolument.Component, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO payroll_components (
			id, code, name, payroll_category, is_pensionable,
			is_universal_template, client_id, is_active, display_order,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		component.Code, component.Name, component.PayrollCategory, component.IsPensionable,
		component.IsUniversalTemplate, component.ClientID, component.IsActive, component.DisplayOrder,
	).Scan(&component.ID, &component.CreatedAt, &component.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return emolument.Component{}, emolument.ErrComponentCodeExists
		}
		return emolument.Component{}, err
	}
	return component, nil
}

func scanComponent(row pgx.Row) (emolument.Component, error) {
	var c emolument.Component
	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.PayrollCategory, &c.IsPensionable,
		&c.IsUniversalTemplate, &c.ClientID, &c.IsActive, &c.DisplayOrder,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// ========== PAY GRADE STRUCTURES ==========

type payGradeRepositoryImpl struct {
	db *database.DB
}

func NewPayGradeRepository(db *database.DB) emolument.PayGradeRepository {
	return &payGradeRepositoryImpl{db: db}
}

// GetActiveByStaffID implements emolument.PayGradeRepository.
func (r *payGradeRepositoryImpl) GetActiveByStaffID(ctx context.Context, staffID string) (emolument.PayGradeStructure, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT pg.id, pg.job_structure_id, pg.name, pg.emoluments,
			   pg.created_at, pg.updated_at
		FROM pay_grade_structures pg
		JOIN staff s ON s.job_structure_id = pg.job_structure_id
		WHERE s.id = $1 AND pg.is_active = true
	`

	var grade emolument.PayGradeStructure
	var emolumentsJSON []byte

	err := q.QueryRow(ctx, query, staffID).Scan(
		&grade.ID, &grade.JobStructureID, &grade.Name, &emolumentsJSON,
		&grade.CreatedAt, &grade.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emolument.PayGradeStructure{}, emolument.ErrPayGradeNotFound
		}
		return emolument.PayGradeStructure{}, err
	}

	grade.Emoluments = make(map[string]decimal.Decimal)
	if emolumentsJSON != nil {
		if err := json.Unmarshal(emolumentsJSON, &grade.Emoluments); err != nil {
			return emolument.PayGradeStructure{}, fmt.Errorf("decode emoluments for grade %s: %w", grade.ID, err)
		}
	}
	return grade, nil
}
