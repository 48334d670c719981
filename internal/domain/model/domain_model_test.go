//go:build !integration

package model_test

import (
	"math"
	"testing"
	"time"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
)

const eps = 1e-9

func almostEqual(a, b float64) bool { return math.Abs(a-b) < eps }

func TestCalculateProfit_ChocolateCake(t *testing.T) {
	in := model.ProductInput{
		Name:             "Bolo de Chocolate",
		ProductionCost:   10,
		SalePrice:        25,
		FixedCostPercent: 20,
	}
	got := model.CalculateProfit(in)
	if !almostEqual(got.FixedCostAmount, 5) {
		t.Fatalf("FixedCostAmount: got %v want 5", got.FixedCostAmount)
	}
	if !almostEqual(got.NetProfit, 10) {
		t.Fatalf("NetProfit: got %v want 10", got.NetProfit)
	}
	if !almostEqual(got.MarginPercent, 40) {
		t.Fatalf("MarginPercent: got %v want 40", got.MarginPercent)
	}
	if got.IsLoss {
		t.Fatalf("IsLoss: got true, want false")
	}
}

func TestCalculateProfit_ZeroPriceMarginIsZero(t *testing.T) {
	got := model.CalculateProfit(model.ProductInput{ProductionCost: 10, SalePrice: 0, FixedCostPercent: 50})
	if got.MarginPercent != 0 {
		t.Fatalf("MarginPercent: got %v want 0", got.MarginPercent)
	}
	if !got.IsLoss {
		t.Fatalf("expected loss when price is zero and cost positive")
	}
}

func TestCalculateProfit_LossIffNegativeProfit(t *testing.T) {
	cases := []struct {
		cost, price, fixed float64
	}{
		{10, 25, 20},
		{25, 25, 0},
		{30, 25, 0},
		{0, 100, 100},
		{1, 100, 100},
	}
	for _, c := range cases {
		got := model.CalculateProfit(model.ProductInput{ProductionCost: c.cost, SalePrice: c.price, FixedCostPercent: c.fixed})
		if got.IsLoss != (got.NetProfit < 0) {
			t.Fatalf("cost=%v price=%v fixed=%v: IsLoss=%v NetProfit=%v", c.cost, c.price, c.fixed, got.IsLoss, got.NetProfit)
		}
		want := c.price - c.cost - c.price*c.fixed/100
		if !almostEqual(got.NetProfit, want) {
			t.Fatalf("NetProfit: got %v want %v", got.NetProfit, want)
		}
	}
}

func TestParseProvider(t *testing.T) {
	p, err := model.ParseProvider("  GPT-4o-Mini ")
	if err != nil || p != model.ProviderGPT4oMini {
		t.Fatalf("ParseProvider: got %v, %v", p, err)
	}
	if _, err := model.ParseProvider("gpt-5-ultra"); err != domain.ErrUnknownProvider {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestEstimateScanCost_NonNegativeAndLinear(t *testing.T) {
	for _, p := range model.AllProviders() {
		pr := model.DefaultPricing(p)
		if cost := model.EstimateScanCostUSD(pr); cost < 0 {
			t.Fatalf("%s: negative cost %v", p, cost)
		}
	}

	base := model.DefaultPricing(model.ProviderGPT4oMini)
	doubledIn := base
	doubledIn.InputPriceMicrosPer1M *= 2

	// Doubling the input price doubles only the input component.
	inComponent := float64(model.ScanInputTokens) / 1e6 * float64(base.InputPriceMicrosPer1M) / 1e6
	diff := model.EstimateScanCostUSD(doubledIn) - model.EstimateScanCostUSD(base)
	if !almostEqual(diff, inComponent) {
		t.Fatalf("linearity: diff %v want %v", diff, inComponent)
	}
}

func TestEstimateScanCost_KnownValue(t *testing.T) {
	// gpt-4o-mini: $0.15/1M in, $0.60/1M out, 1500 in + 500 out tokens.
	got := model.EstimateScanCostUSD(model.DefaultPricing(model.ProviderGPT4oMini))
	want := 1500.0/1e6*0.15 + 500.0/1e6*0.60
	if !almostEqual(got, want) {
		t.Fatalf("estimate: got %v want %v", got, want)
	}
}

func TestScanUsage_ResetDue(t *testing.T) {
	now := time.Now()
	u := &model.ScanUsage{AccountID: "a", ScansUsed: 12, ResetAt: now.Add(-31 * 24 * time.Hour)}
	if !u.ResetDue(now) {
		t.Fatalf("31 days since reset: expected reset due")
	}
	u.ResetAt = now.Add(-5 * 24 * time.Hour)
	if u.ResetDue(now) {
		t.Fatalf("5 days since reset: expected no reset")
	}
}

func TestScanUsage_EffectiveResetAtFallsBackToCreatedAt(t *testing.T) {
	created := time.Now().Add(-40 * 24 * time.Hour)
	u := &model.ScanUsage{AccountID: "a", CreatedAt: created}
	if !u.EffectiveResetAt().Equal(created) {
		t.Fatalf("EffectiveResetAt: got %v want %v", u.EffectiveResetAt(), created)
	}
	if !u.ResetDue(time.Now()) {
		t.Fatalf("record created 40 days ago with no reset: expected reset due")
	}
}

func TestScanUsage_Projection(t *testing.T) {
	now := time.Now()
	u := &model.ScanUsage{AccountID: "a", ScansUsed: 12, ResetAt: now.Add(-5 * 24 * time.Hour)}
	st := u.Project(now)
	if st.ScansUsed != 12 || st.ScansLimit != 50 || st.ScansRemaining != 38 {
		t.Fatalf("projection: %+v", st)
	}
	if st.DaysUntilReset != 25 {
		t.Fatalf("DaysUntilReset: got %d want 25", st.DaysUntilReset)
	}
	if st.LimitReached {
		t.Fatalf("LimitReached: got true")
	}
}

func TestScanUsage_LimitReached(t *testing.T) {
	now := time.Now()
	u := &model.ScanUsage{AccountID: "a", ScansUsed: 50, ResetAt: now}
	st := u.Project(now)
	if !st.LimitReached || st.ScansRemaining != 0 {
		t.Fatalf("projection at limit: %+v", st)
	}

	u.ScansUsed = 53 // over-consumed via race; remaining clamps at zero
	st = u.Project(now)
	if st.ScansRemaining != 0 {
		t.Fatalf("ScansRemaining: got %d want 0", st.ScansRemaining)
	}
}

func TestEvaluateEntitlement_Table(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	in10 := now.Add(10 * 24 * time.Hour)

	cases := []struct {
		name       string
		rec        *model.AccessRecord
		hasAccess  bool
		reason     string
		wantDays   int
		checkDays  bool
		noDaysLeft bool
	}{
		{name: "not found", rec: nil, hasAccess: false, reason: model.ReasonNotFound},
		{name: "inactive", rec: &model.AccessRecord{IsActive: false, ExpiresAt: &in10}, hasAccess: false, reason: model.ReasonInactive},
		{name: "expired", rec: &model.AccessRecord{IsActive: true, ExpiresAt: &yesterday}, hasAccess: false, reason: model.ReasonExpired},
		{name: "active future expiry", rec: &model.AccessRecord{IsActive: true, ExpiresAt: &in10}, hasAccess: true, wantDays: 10, checkDays: true},
		{name: "perpetual", rec: &model.AccessRecord{IsActive: true}, hasAccess: true, noDaysLeft: true},
	}
	for _, c := range cases {
		got := model.EvaluateEntitlement(c.rec, now)
		if got.HasAccess != c.hasAccess {
			t.Fatalf("%s: HasAccess=%v want %v", c.name, got.HasAccess, c.hasAccess)
		}
		if got.Reason != c.reason {
			t.Fatalf("%s: Reason=%q want %q", c.name, got.Reason, c.reason)
		}
		if c.checkDays {
			if got.DaysLeft == nil || *got.DaysLeft != c.wantDays {
				t.Fatalf("%s: DaysLeft=%v want %d", c.name, got.DaysLeft, c.wantDays)
			}
		}
		if c.noDaysLeft && got.DaysLeft != nil {
			t.Fatalf("%s: expected no DaysLeft, got %d", c.name, *got.DaysLeft)
		}
	}
}

func TestCostMicrosForUsage(t *testing.T) {
	pr := model.ProviderPricing{Provider: model.ProviderGPT4o, InputPriceMicrosPer1M: 2_500_000, OutputPriceMicrosPer1M: 10_000_000}
	got := model.CostMicrosForUsage(pr, 1_000_000, 500_000)
	if got != 2_500_000+5_000_000 {
		t.Fatalf("CostMicrosForUsage: got %d", got)
	}
}
