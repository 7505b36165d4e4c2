package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
	"github.com/zenithhr/payroll-backend-go/internal/fixtures"
	settingsvc "github.com/zenithhr/payroll-backend-go/internal/service/settings"
)

var (
	fixtureEffective = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snapshotAsOf     = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
)

// fakeSettingRepo serves the default fixture rows from memory.
type fakeSettingRepo struct {
	rows     []settings.PayrollSetting
	brackets []settings.TaxBracket
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{
		rows:     fixtures.GetDefaultSettings(fixtureEffective),
		brackets: fixtures.GetDefaultTaxBrackets(fixtureEffective),
	}
}

func (f *fakeSettingRepo) removeKey(key string) {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.SettingKey != key {
			kept = append(kept, row)
		}
	}
	f.rows = kept
}

func (f *fakeSettingRepo) GetActiveByKey(ctx context.Context, key string) (settings.PayrollSetting, error) {
	for _, row := range f.rows {
		if row.SettingKey == key && row.IsActive {
			return row, nil
		}
	}
	return settings.PayrollSetting{}, settings.ErrSettingNotFound
}

func (f *fakeSettingRepo) ListActive(ctx context.Context) ([]settings.PayrollSetting, error) {
	var active []settings.PayrollSetting
	for _, row := range f.rows {
		if row.IsActive {
			active = append(active, row)
		}
	}
	return active, nil
}

func (f *fakeSettingRepo) ListHistory(ctx context.Context, key string) ([]settings.PayrollSetting, error) {
	var history []settings.PayrollSetting
	for _, row := range f.rows {
		if row.SettingKey == key {
			history = append(history, row)
		}
	}
	if len(history) == 0 {
		return nil, settings.ErrSettingNotFound
	}
	return history, nil
}

func (f *fakeSettingRepo) ReplaceSetting(ctx context.Context, setting settings.PayrollSetting) (settings.PayrollSetting, error) {
	for i := range f.rows {
		if f.rows[i].SettingKey == setting.SettingKey {
			f.rows[i].IsActive = false
		}
	}
	setting.IsActive = true
	f.rows = append(f.rows, setting)
	return setting, nil
}

func (f *fakeSettingRepo) CreateBracket(ctx context.Context, bracket settings.TaxBracket) (settings.TaxBracket, error) {
	f.brackets = append(f.brackets, bracket)
	return bracket, nil
}

func (f *fakeSettingRepo) ListBrackets(ctx context.Context, asOf time.Time) ([]settings.TaxBracket, error) {
	var active []settings.TaxBracket
	for _, b := range f.brackets {
		if b.ActiveAt(asOf) {
			active = append(active, b)
		}
	}
	return active, nil
}

func newTestSnapshot(t *testing.T, repo *fakeSettingRepo) *settingsvc.Snapshot {
	t.Helper()
	snap, err := settingsvc.NewRegistry(repo).Snapshot(context.Background(), snapshotAsOf)
	require.NoError(t, err)
	return snap
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
