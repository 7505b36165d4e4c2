package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
	"github.com/zenithhr/payroll-backend-go/internal/fixtures"
)

// Service covers the admin surface of the registry: listing, history, and
// versioned writes. Writes never update a value in place; the old row is
// deactivated and a new active row inserted so historical runs stay
// reproducible after a rate change.
type Service struct {
	repo settings.SettingRepository
}

func NewService(repo settings.SettingRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListSettings(ctx context.Context) ([]settings.SettingResponse, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]settings.SettingResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, mapToSettingResponse(row))
	}
	return result, nil
}

func (s *Service) GetSetting(ctx context.Context, key string) (settings.SettingResponse, error) {
	row, err := s.repo.GetActiveByKey(ctx, key)
	if err != nil {
		return settings.SettingResponse{}, err
	}
	return mapToSettingResponse(row), nil
}

func (s *Service) GetSettingHistory(ctx context.Context, key string) ([]settings.SettingResponse, error) {
	rows, err := s.repo.ListHistory(ctx, key)
	if err != nil {
		return nil, err
	}

	result := make([]settings.SettingResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, mapToSettingResponse(row))
	}
	return result, nil
}

func (s *Service) UpdateSetting(ctx context.Context, req settings.UpdateSettingRequest) (settings.SettingResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingResponse{}, err
	}

	effectiveFrom := time.Now().UTC()
	if req.EffectiveFrom != nil {
		effectiveFrom = *req.EffectiveFrom
	}

	row := settings.PayrollSetting{
		SettingKey:    req.SettingKey,
		SettingType:   settings.SettingType(req.SettingType),
		RawValue:      req.Value,
		Description:   req.Description,
		IsActive:      true,
		EffectiveFrom: effectiveFrom,
	}

	// Reject malformed payloads before they reach the table; a bad row would
	// block every calculation that depends on the key.
	parsed, err := settings.ParseValue(row)
	if err != nil {
		return settings.SettingResponse{}, err
	}
	// Bracket schedules live in the tax_brackets table, not in a setting
	// payload. The marker row stays as seeded.
	if parsed.Kind == settings.ValueKindProgressiveBracket {
		return settings.SettingResponse{}, fmt.Errorf("%w: %s resolves through the tax bracket schedule", settings.ErrSettingReadOnly, req.SettingKey)
	}

	created, err := s.repo.ReplaceSetting(ctx, row)
	if err != nil {
		return settings.SettingResponse{}, err
	}
	return mapToSettingResponse(created), nil
}

// SeedDefaults loads the statutory defaults (rates, caps, division factor,
// bracket schedule) on an empty registry. A registry with any active row is
// left alone; seeding never overrides an admin's edits.
func (s *Service) SeedDefaults(ctx context.Context, effectiveFrom time.Time) error {
	existing, err := s.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, row := range fixtures.GetDefaultSettings(effectiveFrom) {
		if _, err := s.repo.ReplaceSetting(ctx, row); err != nil {
			return fmt.Errorf("seed setting %s: %w", row.SettingKey, err)
		}
	}
	for _, bracket := range fixtures.GetDefaultTaxBrackets(effectiveFrom) {
		if _, err := s.repo.CreateBracket(ctx, bracket); err != nil {
			return fmt.Errorf("seed tax bracket tier %d: %w", bracket.TierNumber, err)
		}
	}
	return nil
}

func mapToSettingResponse(row settings.PayrollSetting) settings.SettingResponse {
	return settings.SettingResponse{
		ID:            row.ID,
		SettingKey:    row.SettingKey,
		SettingType:   string(row.SettingType),
		Value:         json.RawMessage(row.RawValue),
		Description:   row.Description,
		IsActive:      row.IsActive,
		EffectiveFrom: row.EffectiveFrom,
		CreatedAt:     row.CreatedAt,
	}
}
