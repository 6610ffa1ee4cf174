package money

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rateTable map[string]float64

func (r rateTable) GetRate(_ context.Context, source, target string) (float64, error) {
	if source == target {
		return 1, nil
	}
	rate, ok := r[source+"->"+target]
	if !ok {
		return 0, fmt.Errorf("no rate for %s->%s", source, target)
	}
	return rate, nil
}

func TestConvert(t *testing.T) {
	assert.Equal(t, int64(3905000), Convert(10000, 390.5))
	assert.Equal(t, int64(1751000), Convert(5000, 350.2))
	assert.Equal(t, int64(0), Convert(0, 390.5))

	// Half milliunits round away from zero.
	assert.Equal(t, int64(5858), Convert(15, 390.5))
	assert.Equal(t, int64(-5858), Convert(-15, 390.5))
}

func TestSum(t *testing.T) {
	rates := rateTable{"EUR->HUF": 390.5, "USD->HUF": 350.2}
	balances := map[string]int64{"EUR": 10000, "USD": 5000}

	total, err := Sum(context.Background(), balances, "HUF", rates)
	require.NoError(t, err)
	assert.Equal(t, int64(3905000+1751000), total)
}

// Rounding happens per currency before summing, not once on the grand total:
// 1 * 390.5 -> 391 and 1 * 350.5 -> 351 give 742, while rounding the
// unrounded sum (741.0) would give 741.
func TestSumRoundsPerCurrency(t *testing.T) {
	rates := rateTable{"EUR->HUF": 390.5, "USD->HUF": 350.5}
	balances := map[string]int64{"EUR": 1, "USD": 1}

	total, err := Sum(context.Background(), balances, "HUF", rates)
	require.NoError(t, err)
	assert.Equal(t, int64(742), total)
}

func TestSumIdentityCurrency(t *testing.T) {
	total, err := Sum(context.Background(), map[string]int64{"HUF": 123456}, "HUF", rateTable{})
	require.NoError(t, err)
	assert.Equal(t, int64(123456), total)
}

func TestSumEmpty(t *testing.T) {
	total, err := Sum(context.Background(), nil, "HUF", rateTable{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSumFailsOnAnyMissingRate(t *testing.T) {
	rates := rateTable{"EUR->HUF": 390.5}
	balances := map[string]int64{"EUR": 10000, "USD": 5000}

	_, err := Sum(context.Background(), balances, "HUF", rates)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USD->HUF")
}

type failingLookup struct{ err error }

func (f failingLookup) GetRate(context.Context, string, string) (float64, error) {
	return 0, f.err
}

func TestSumWrapsLookupError(t *testing.T) {
	sentinel := errors.New("rate backend down")

	_, err := Sum(context.Background(), map[string]int64{"EUR": 1}, "HUF", failingLookup{err: sentinel})
	require.ErrorIs(t, err, sentinel)
}

func TestMilliunitRoundTrip(t *testing.T) {
	assert.Equal(t, int64(2500), ToMilliunits(2.5))
	assert.Equal(t, int64(-1001), ToMilliunits(-1.0005))
	assert.Equal(t, "5656", FromMilliunits(5656000).String())
	assert.Equal(t, "1.5", FromMilliunits(1500).String())
}
