package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func signerNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("S%d", i)
	}
	return names
}

func TestQuorumProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	ratios := gen.OneConstOf("0.4", "0.6", "0.8", "1")

	properties.Property("required signatures is ceil(ratio * signers) and never exceeds signers", prop.ForAll(
		func(n int, ratio string) bool {
			p := &Proposal{RequiredSignerRatio: decimal.RequireFromString(ratio)}
			required := p.RequiredSignatures(n)
			exact := decimal.NewFromInt(int64(n)).Mul(p.RequiredSignerRatio)
			return required <= n &&
				decimal.NewFromInt(int64(required)).GreaterThanOrEqual(exact) &&
				decimal.NewFromInt(int64(required-1)).LessThan(exact)
		},
		gen.IntRange(1, 64),
		ratios,
	))

	properties.Property("quorum is met exactly when enough distinct signers signed", prop.ForAll(
		func(n int, signed int, ratio string) bool {
			if signed > n {
				signed = n
			}
			signers := signerNames(n)
			treasury, err := NewTreasury("t", "T", signers, time.Unix(0, 0))
			if err != nil {
				return false
			}
			p := &Proposal{RequiredSignerRatio: decimal.RequireFromString(ratio)}
			for i := 0; i < signed; i++ {
				// signing twice must not count twice
				if p.AddSignature(treasury, signers[i]) != nil || p.AddSignature(treasury, signers[i]) != nil {
					return false
				}
			}
			return len(p.Signatures) == signed && p.QuorumMet(treasury) == (signed >= p.RequiredSignatures(n))
		},
		gen.IntRange(1, 32),
		gen.IntRange(0, 32),
		ratios,
	))

	properties.TestingRun(t)
}

func TestBalanceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("balances never go negative and a failed batch changes nothing", prop.ForAll(
		func(deposit int64, debits []int64) bool {
			treasury, err := NewTreasury("t", "T", []string{"A"}, time.Unix(0, 0))
			if err != nil {
				return false
			}
			if treasury.Deposit("USDC", decimal.NewFromInt(deposit)) != nil {
				return false
			}

			batch := make([]Transaction, 0, len(debits))
			sum := decimal.Zero
			for _, amount := range debits {
				batch = append(batch, Transaction{To: "X", Token: "USDC", Amount: decimal.NewFromInt(amount)})
				sum = sum.Add(decimal.NewFromInt(amount))
			}

			before := treasury.Balance("USDC")
			err = treasury.DebitAll(batch)
			after := treasury.Balance("USDC")
			if after.IsNegative() {
				return false
			}
			if sum.GreaterThan(before) {
				return err != nil && after.Equal(before)
			}
			return err == nil && after.Equal(before.Sub(sum))
		},
		gen.Int64Range(1, 100000),
		gen.SliceOf(gen.Int64Range(1, 20000)),
	))

	properties.Property("tier ratio never decreases as the total grows", prop.ForAll(
		func(a int64, b int64) bool {
			engine, err := NewPolicyEngine(DefaultPolicyTiers())
			if err != nil {
				return false
			}
			if a > b {
				a, b = b, a
			}
			now := time.Unix(0, 0)
			low, err1 := engine.Derive(CategoryOperations, []Transaction{{To: "X", Token: "USDC", Amount: decimal.NewFromInt(a)}}, now)
			high, err2 := engine.Derive(CategoryOperations, []Transaction{{To: "X", Token: "USDC", Amount: decimal.NewFromInt(b)}}, now)
			return err1 == nil && err2 == nil && low.RequiredSignerRatio.LessThanOrEqual(high.RequiredSignerRatio)
		},
		gen.Int64Range(1, 50000),
		gen.Int64Range(1, 50000),
	))

	properties.TestingRun(t)
}
