package tax

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
)

var oneHundred = decimal.NewFromInt(100)

// Compute runs the progressive schedule over an annual taxable income.
//
// Each tier taxes the slice min(taxableIncome, incomeTo) - incomeFrom, clamped
// at zero; the unbounded top tier has no upper clamp. Zero-rate tiers
// contribute nothing but still consume income from the tiers above them.
// An empty bracket set is a blocking configuration error: calculating at 0%
// because nobody configured brackets would silently underwithhold.
func Compute(brackets []settings.TaxBracket, taxableIncome decimal.Decimal) (decimal.Decimal, error) {
	if len(brackets) == 0 {
		return decimal.Zero, settings.ErrNoBracketsActive
	}

	sorted := make([]settings.TaxBracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TierNumber < sorted[j].TierNumber
	})

	total := decimal.Zero
	for _, b := range sorted {
		upper := taxableIncome
		if b.IncomeTo != nil && b.IncomeTo.LessThan(upper) {
			upper = *b.IncomeTo
		}
		slice := upper.Sub(b.IncomeFrom)
		if slice.IsNegative() {
			continue
		}
		total = total.Add(slice.Mul(b.TaxRate).Div(oneHundred))
	}

	return total.Round(2), nil
}

// Resolver answers progressive tax queries against the stored bracket
// schedule, selecting the tiers active on the as-of date.
type Resolver struct {
	repo settings.SettingRepository
}

func NewResolver(repo settings.SettingRepository) *Resolver {
	return &Resolver{repo: repo}
}

// ComputeProgressiveTax returns the annual PAYE owed on taxableIncome using
// the brackets active on asOf. Fails with ErrNoBracketsActive when no bracket
// configuration matches the date.
func (r *Resolver) ComputeProgressiveTax(ctx context.Context, taxableIncome decimal.Decimal, asOf time.Time) (decimal.Decimal, error) {
	brackets, err := r.repo.ListBrackets(ctx, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return Compute(brackets, taxableIncome)
}

// ListBrackets exposes the active schedule for read-only reporting.
func (r *Resolver) ListBrackets(ctx context.Context, asOf time.Time) ([]settings.TaxBracket, error) {
	brackets, err := r.repo.ListBrackets(ctx, asOf)
	if err != nil {
		return nil, err
	}
	if len(brackets) == 0 {
		return nil, settings.ErrNoBracketsActive
	}
	return brackets, nil
}
