package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txs(amounts ...string) []Transaction {
	list := make([]Transaction, 0, len(amounts))
	for _, a := range amounts {
		list = append(list, Transaction{To: "X", Token: "USDC", Amount: decimal.RequireFromString(a)})
	}
	return list
}

func defaultEngine(t *testing.T) *PolicyEngine {
	engine, err := NewPolicyEngine(DefaultPolicyTiers())
	require.NoError(t, err)
	return engine
}

func TestDeriveTierBoundaries(t *testing.T) {
	engine := defaultEngine(t)
	now := time.Unix(1700000000, 0)

	testcases := []struct {
		name    string
		amounts []string
		ratio   string
	}{
		{name: "small", amounts: []string{"500"}, ratio: "0.4"},
		{name: "exactly first boundary", amounts: []string{"1000"}, ratio: "0.4"},
		{name: "just above first boundary", amounts: []string{"1000.01"}, ratio: "0.6"},
		{name: "exactly second boundary", amounts: []string{"10000"}, ratio: "0.6"},
		{name: "just above second boundary", amounts: []string{"10000.01"}, ratio: "0.8"},
		{name: "huge", amounts: []string{"123456789"}, ratio: "0.8"},
		{name: "summed across transactions", amounts: []string{"600", "400.01"}, ratio: "0.6"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			policy, err := engine.Derive(CategoryOperations, txs(tc.amounts...), now)
			require.NoError(t, err)
			assert.True(t, policy.RequiredSignerRatio.Equal(decimal.RequireFromString(tc.ratio)),
				"expected %v, got %v", tc.ratio, policy.RequiredSignerRatio)
		})
	}
}

func TestDeriveDefaultTimeLockIsElapsed(t *testing.T) {
	engine := defaultEngine(t)
	now := time.Unix(1700000000, 0)

	policy, err := engine.Derive(CategoryMarketing, txs("50000"), now)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), policy.TimeLock)
	assert.True(t, policy.TimeLockReadyAt.Equal(now))
}

func TestDeriveConfiguredTimeLock(t *testing.T) {
	tiers := DefaultPolicyTiers()
	tiers[0].TimeLock = time.Hour
	tiers[2].TimeLock = 48 * time.Hour
	engine, err := NewPolicyEngine(tiers)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	policy, err := engine.Derive(CategoryDevelopment, txs("10"), now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), policy.TimeLockReadyAt)

	policy, err = engine.Derive(CategoryDevelopment, txs("20000"), now)
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, policy.TimeLock)
}

func TestDeriveInvalidCategory(t *testing.T) {
	engine := defaultEngine(t)

	for _, category := range []string{"", "operations", "Payroll"} {
		_, err := engine.Derive(category, txs("1"), time.Now())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrorInvalidCategory), "category %q", category)
	}

	for _, category := range Categories {
		_, err := engine.Derive(category, txs("1"), time.Now())
		assert.NoError(t, err)
	}
}

func TestNewPolicyEngineValidation(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	fifty := decimal.NewFromInt(50)

	testcases := []struct {
		name  string
		tiers []PolicyTier
	}{
		{name: "empty", tiers: nil},
		{name: "bounded last tier", tiers: []PolicyTier{{Max: &hundred, Ratio: decimal.RequireFromString("0.5")}}},
		{name: "zero ratio", tiers: []PolicyTier{{Ratio: decimal.Zero}}},
		{name: "ratio above one", tiers: []PolicyTier{{Ratio: decimal.RequireFromString("1.1")}}},
		{name: "descending maxima", tiers: []PolicyTier{
			{Max: &hundred, Ratio: decimal.RequireFromString("0.5")},
			{Max: &fifty, Ratio: decimal.RequireFromString("0.6")},
			{Ratio: decimal.RequireFromString("0.7")},
		}},
		{name: "unbounded middle tier", tiers: []PolicyTier{
			{Ratio: decimal.RequireFromString("0.5")},
			{Ratio: decimal.RequireFromString("0.7")},
		}},
		{name: "negative time-lock", tiers: []PolicyTier{{Ratio: decimal.RequireFromString("0.5"), TimeLock: -time.Second}}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPolicyEngine(tc.tiers)
			assert.ErrorIs(t, err, ErrorInvalidPolicyTiers)
		})
	}

	_, err := NewPolicyEngine([]PolicyTier{{Ratio: decimal.NewFromInt(1)}})
	assert.NoError(t, err)
}
