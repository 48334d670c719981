package model

// ProductInput carries the per-request numbers for one product margin
// calculation. Field names on the wire keep the original Portuguese API
// contract used by the frontend.
type ProductInput struct {
	Name             string  `json:"produto"`
	ProductionCost   float64 `json:"custoProducao"`
	SalePrice        float64 `json:"precoVenda"`
	FixedCostPercent float64 `json:"custosFixos"` // 0..100
}

// CalculationResult is the derived margin breakdown. Recomputed on
// demand, never persisted.
type CalculationResult struct {
	NetProfit       float64 `json:"lucroLiquido"`
	MarginPercent   float64 `json:"margem"`
	FixedCostAmount float64 `json:"custosFixosValor"`
	IsLoss          bool    `json:"isPrejuizo"`
}

// CalculateProfit converts cost, price and a fixed-cost percentage into
// net profit and margin. Inputs are assumed already validated; margin is
// defined as 0 when the sale price is non-positive.
func CalculateProfit(in ProductInput) CalculationResult {
	fixedCost := in.SalePrice * in.FixedCostPercent / 100
	net := in.SalePrice - in.ProductionCost - fixedCost

	margin := 0.0
	if in.SalePrice > 0 {
		margin = net / in.SalePrice * 100
	}

	return CalculationResult{
		NetProfit:       net,
		MarginPercent:   margin,
		FixedCostAmount: fixedCost,
		IsLoss:          net < 0,
	}
}
