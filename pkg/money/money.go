// Package money holds the milliunit arithmetic: rate conversion and the
// multi-currency summation.
package money

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var thousand = decimal.NewFromInt(1000)

// RateLookup returns the spot rate from the source to the target currency.
// Implementations must short-circuit to 1 when the currencies are equal.
type RateLookup interface {
	GetRate(ctx context.Context, source, target string) (float64, error)
}

// Convert multiplies a milliunit balance by a spot rate and rounds to the
// nearest milliunit.
func Convert(milliunits int64, rate float64) int64 {
	return decimal.NewFromFloat(rate).
		Mul(decimal.NewFromInt(milliunits)).
		Round(0).
		IntPart()
}

// ToMilliunits converts a currency amount to milliunits.
func ToMilliunits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(thousand).Round(0).IntPart()
}

// FromMilliunits renders milliunits as a currency amount.
func FromMilliunits(milliunits int64) decimal.Decimal {
	return decimal.NewFromInt(milliunits).Div(thousand)
}

// Sum converts every balance to the target currency and adds them up.
// Each balance is rounded right after conversion, before summing, so the
// cumulative rounding error is bounded by one milliunit per currency.
//
// Rate lookups are independent and run concurrently; the first failure
// cancels the rest and no partial total is ever returned.
func Sum(ctx context.Context, balances map[string]int64, targetCurrency string, rates RateLookup) (int64, error) {
	currencies := make([]string, 0, len(balances))
	for currency := range balances {
		currencies = append(currencies, currency)
	}

	converted := make([]int64, len(currencies))
	g, ctx := errgroup.WithContext(ctx)
	for i, currency := range currencies {
		i, currency := i, currency
		g.Go(func() error {
			rate, err := rates.GetRate(ctx, currency, targetCurrency)
			if err != nil {
				return fmt.Errorf("rate %s->%s: %w", currency, targetCurrency, err)
			}
			converted[i] = Convert(balances[currency], rate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var sum int64
	for _, v := range converted {
		sum += v
	}
	return sum, nil
}
