package settings

import (
	"context"
	"time"
)

// SettingRepository defines data access for versioned payroll settings and
// tax brackets. At most one row per key is active; the writer enforces this
// by deactivating the old row inside the same transaction as the insert.
type SettingRepository interface {
	GetActiveByKey(ctx context.Context, key string) (PayrollSetting, error)
	ListActive(ctx context.Context) ([]PayrollSetting, error)
	ListHistory(ctx context.Context, key string) ([]PayrollSetting, error)

	// ReplaceSetting deactivates the current active row for the key (if any)
	// and inserts the new row as active. Append-only: no row is ever updated
	// beyond its is_active flag.
	ReplaceSetting(ctx context.Context, setting PayrollSetting) (PayrollSetting, error)

	// ListBrackets returns the brackets active on asOf, ordered by tier number.
	ListBrackets(ctx context.Context, asOf time.Time) ([]TaxBracket, error)

	// CreateBracket inserts one schedule tier. Used by first-run seeding;
	// schedule changes in production land as new rows with a later
	// EffectiveFrom, old tiers get EffectiveTo set.
	CreateBracket(ctx context.Context, bracket TaxBracket) (TaxBracket, error)
}
