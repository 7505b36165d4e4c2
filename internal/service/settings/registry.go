package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
)

// Registry is the read side of the settings table: typed lookups over the
// active rows. It holds no cache beyond read-after-write consistency of the
// is_active flag; run-scoped immutability comes from Snapshot.
type Registry struct {
	repo settings.SettingRepository
}

func NewRegistry(repo settings.SettingRepository) *Registry {
	return &Registry{repo: repo}
}

// GetValue returns the decoded active value for key.
func (r *Registry) GetValue(ctx context.Context, key string) (settings.Value, error) {
	row, err := r.repo.GetActiveByKey(ctx, key)
	if err != nil {
		return settings.Value{}, err
	}
	return settings.ParseValue(row)
}

// Snapshot reads every active setting plus the bracket schedule for asOf in
// one pass. The orchestrator takes one snapshot per run so a concurrent admin
// edit mid-run cannot produce items calculated under mixed rates.
func (r *Registry) Snapshot(ctx context.Context, asOf time.Time) (*Snapshot, error) {
	rows, err := r.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot settings: %w", err)
	}

	values := make(map[string]settings.Value, len(rows))
	for _, row := range rows {
		v, err := settings.ParseValue(row)
		if err != nil {
			return nil, err
		}
		values[row.SettingKey] = v
	}

	brackets, err := r.repo.ListBrackets(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("snapshot tax brackets: %w", err)
	}

	return &Snapshot{asOf: asOf, values: values, brackets: brackets}, nil
}

// Snapshot is a frozen read of the settings registry. Safe for concurrent use
// by calculation workers; nothing in it mutates after construction.
type Snapshot struct {
	asOf     time.Time
	values   map[string]settings.Value
	brackets []settings.TaxBracket
}

func (s *Snapshot) AsOf() time.Time { return s.asOf }

func (s *Snapshot) Value(key string) (settings.Value, error) {
	v, ok := s.values[key]
	if !ok {
		return settings.Value{}, fmt.Errorf("%w: %s", settings.ErrSettingNotFound, key)
	}
	return v, nil
}

// Rate returns the percentage rate stored under key.
func (s *Snapshot) Rate(key string) (decimal.Decimal, error) {
	v, err := s.Value(key)
	if err != nil {
		return decimal.Zero, err
	}
	if v.Kind != settings.ValueKindPercentageOfBase {
		return decimal.Zero, fmt.Errorf("%w: %s: expected percentage_of_base, got %s", settings.ErrSettingMalformed, key, v.Kind)
	}
	return v.Rate, nil
}

// Amount returns the fixed amount stored under key.
func (s *Snapshot) Amount(key string) (decimal.Decimal, error) {
	v, err := s.Value(key)
	if err != nil {
		return decimal.Zero, err
	}
	if v.Kind != settings.ValueKindFixedAmount {
		return decimal.Zero, fmt.Errorf("%w: %s: expected fixed_amount, got %s", settings.ErrSettingMalformed, key, v.Kind)
	}
	return v.Amount, nil
}

// AmountOrDefault is Amount with a fallback for keys that have a documented
// default (the annual division factor, the attendance floor). A malformed row
// is still an error; only absence falls back.
func (s *Snapshot) AmountOrDefault(key string, def decimal.Decimal) (decimal.Decimal, error) {
	amt, err := s.Amount(key)
	if errors.Is(err, settings.ErrSettingNotFound) {
		return def, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return amt, nil
}

// Brackets returns the tax schedule frozen into the snapshot.
func (s *Snapshot) Brackets() []settings.TaxBracket { return s.brackets }
