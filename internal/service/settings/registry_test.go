package settings

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
	"github.com/zenithhr/payroll-backend-go/internal/fixtures"
)

var (
	testEffective = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	testAsOf      = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
)

// memSettingRepo serves the default fixture rows from memory.
type memSettingRepo struct {
	rows     []settings.PayrollSetting
	brackets []settings.TaxBracket
}

func newMemSettingRepo() *memSettingRepo {
	return &memSettingRepo{
		rows:     fixtures.GetDefaultSettings(testEffective),
		brackets: fixtures.GetDefaultTaxBrackets(testEffective),
	}
}

func (m *memSettingRepo) setRaw(key string, raw []byte) {
	for i := range m.rows {
		if m.rows[i].SettingKey == key {
			m.rows[i].RawValue = raw
		}
	}
}

func (m *memSettingRepo) removeKey(key string) {
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.SettingKey != key {
			kept = append(kept, row)
		}
	}
	m.rows = kept
}

func (m *memSettingRepo) GetActiveByKey(ctx context.Context, key string) (settings.PayrollSetting, error) {
	for _, row := range m.rows {
		if row.SettingKey == key && row.IsActive {
			return row, nil
		}
	}
	return settings.PayrollSetting{}, settings.ErrSettingNotFound
}

func (m *memSettingRepo) ListActive(ctx context.Context) ([]settings.PayrollSetting, error) {
	var active []settings.PayrollSetting
	for _, row := range m.rows {
		if row.IsActive {
			active = append(active, row)
		}
	}
	return active, nil
}

func (m *memSettingRepo) ListHistory(ctx context.Context, key string) ([]settings.PayrollSetting, error) {
	var history []settings.PayrollSetting
	for _, row := range m.rows {
		if row.SettingKey == key {
			history = append(history, row)
		}
	}
	if len(history) == 0 {
		return nil, settings.ErrSettingNotFound
	}
	return history, nil
}

func (m *memSettingRepo) ReplaceSetting(ctx context.Context, setting settings.PayrollSetting) (settings.PayrollSetting, error) {
	for i := range m.rows {
		if m.rows[i].SettingKey == setting.SettingKey {
			m.rows[i].IsActive = false
		}
	}
	setting.IsActive = true
	m.rows = append(m.rows, setting)
	return setting, nil
}

func (m *memSettingRepo) CreateBracket(ctx context.Context, bracket settings.TaxBracket) (settings.TaxBracket, error) {
	m.brackets = append(m.brackets, bracket)
	return bracket, nil
}

func (m *memSettingRepo) ListBrackets(ctx context.Context, asOf time.Time) ([]settings.TaxBracket, error) {
	var active []settings.TaxBracket
	for _, b := range m.brackets {
		if b.ActiveAt(asOf) {
			active = append(active, b)
		}
	}
	return active, nil
}

func snapshotOf(t *testing.T, repo *memSettingRepo) *Snapshot {
	t.Helper()
	snap, err := NewRegistry(repo).Snapshot(context.Background(), testAsOf)
	require.NoError(t, err)
	return snap
}

func TestSnapshot_Rates(t *testing.T) {
	snap := snapshotOf(t, newMemSettingRepo())

	rate, err := snap.Rate(settings.KeyPensionRate)
	require.NoError(t, err)
	assert.Equal(t, "8", rate.String())

	rate, err = snap.Rate(settings.KeyNHISRate)
	require.NoError(t, err)
	assert.Equal(t, "5", rate.String())

	rate, err = snap.Rate(settings.KeyRentReliefRate)
	require.NoError(t, err)
	assert.Equal(t, "20", rate.String())
}

func TestSnapshot_Amount(t *testing.T) {
	snap := snapshotOf(t, newMemSettingRepo())

	amount, err := snap.Amount(settings.KeyRentReliefCap)
	require.NoError(t, err)
	assert.Equal(t, "500000", amount.String())
}

func TestSnapshot_AmountOrDefault(t *testing.T) {
	repo := newMemSettingRepo()
	snap := snapshotOf(t, repo)

	// Present: the stored value wins over the fallback.
	factor, err := snap.AmountOrDefault(settings.KeyAnnualDivisionFactor, decimal.NewFromInt(13))
	require.NoError(t, err)
	assert.Equal(t, "12", factor.String())

	// Absent: the fallback applies.
	repo.removeKey(settings.KeyAnnualDivisionFactor)
	snap = snapshotOf(t, repo)
	factor, err = snap.AmountOrDefault(settings.KeyAnnualDivisionFactor, decimal.NewFromInt(12))
	require.NoError(t, err)
	assert.Equal(t, "12", factor.String())
}

func TestSnapshot_AmountOrDefault_MalformedIsNotAbsent(t *testing.T) {
	repo := newMemSettingRepo()
	repo.setRaw(settings.KeyRentReliefCap, []byte(`{"kind":"fixed_amount"}`))

	_, err := NewRegistry(repo).Snapshot(context.Background(), testAsOf)
	assert.ErrorIs(t, err, settings.ErrSettingMalformed)
}

func TestSnapshot_RateKindMismatch(t *testing.T) {
	snap := snapshotOf(t, newMemSettingRepo())

	// RENT_RELIEF_CAP is a fixed amount, not a rate.
	_, err := snap.Rate(settings.KeyRentReliefCap)
	assert.ErrorIs(t, err, settings.ErrSettingMalformed)

	_, err = snap.Amount(settings.KeyPensionRate)
	assert.ErrorIs(t, err, settings.ErrSettingMalformed)
}

func TestSnapshot_UnknownKey(t *testing.T) {
	snap := snapshotOf(t, newMemSettingRepo())

	_, err := snap.Value("NO_SUCH_KEY")
	assert.ErrorIs(t, err, settings.ErrSettingNotFound)
}

func TestSnapshot_Brackets(t *testing.T) {
	snap := snapshotOf(t, newMemSettingRepo())

	brackets := snap.Brackets()
	require.Len(t, brackets, 6)
	assert.Equal(t, 1, brackets[0].TierNumber)
	assert.Nil(t, brackets[5].IncomeTo)
	assert.Equal(t, testAsOf, snap.AsOf())
}

func TestSnapshot_BracketsRespectAsOf(t *testing.T) {
	repo := newMemSettingRepo()

	snap, err := NewRegistry(repo).Snapshot(context.Background(), time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, snap.Brackets())
}

func TestSnapshot_FrozenAgainstLaterEdits(t *testing.T) {
	repo := newMemSettingRepo()
	snap := snapshotOf(t, repo)

	_, err := repo.ReplaceSetting(context.Background(), settings.PayrollSetting{
		SettingKey:    settings.KeyPensionRate,
		SettingType:   settings.SettingTypeStatutoryRate,
		RawValue:      []byte(`{"kind":"percentage_of_base","rate":"10","base":"pensionable_amount"}`),
		EffectiveFrom: testAsOf,
	})
	require.NoError(t, err)

	rate, err := snap.Rate(settings.KeyPensionRate)
	require.NoError(t, err)
	assert.Equal(t, "8", rate.String())
}

func TestRegistry_GetValue(t *testing.T) {
	registry := NewRegistry(newMemSettingRepo())

	v, err := registry.GetValue(context.Background(), settings.KeyNHISRate)
	require.NoError(t, err)
	assert.Equal(t, settings.ValueKindPercentageOfBase, v.Kind)
	assert.Equal(t, settings.BaseBasicSalary, v.Base)
	assert.Equal(t, "5", v.Rate.String())

	_, err = registry.GetValue(context.Background(), "NO_SUCH_KEY")
	assert.ErrorIs(t, err, settings.ErrSettingNotFound)
}
