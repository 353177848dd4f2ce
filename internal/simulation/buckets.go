package simulation

import (
	"github.com/shopspring/decimal"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// portfolio tracks the four bucket balances plus the taxable bucket's cost
// basis through a scenario. Basis is carried as a dollar amount so that
// untaxed growth dilutes it and withdrawals consume it pro rata.
type portfolio struct {
	taxDeferred decimal.Decimal
	taxFree     decimal.Decimal
	taxable     decimal.Decimal
	cash        decimal.Decimal
	basis       decimal.Decimal
}

func newPortfolio(assets domain.AssetBuckets, costBasisFraction decimal.Decimal) *portfolio {
	return &portfolio{
		taxDeferred: assets.TaxDeferred,
		taxFree:     assets.TaxFree,
		taxable:     assets.CapitalGains,
		cash:        assets.CashEquivalents,
		basis:       assets.CapitalGains.Mul(costBasisFraction),
	}
}

func (p *portfolio) total() decimal.Decimal {
	return p.taxDeferred.Add(p.taxFree).Add(p.taxable).Add(p.cash)
}

// allocationWeights returns the target asset-class weights for the given age.
// The glide path holds stock exposure at (offset - age)% clamped to the
// configured floor and ceiling, keeps the policy's cash weight, and gives
// bonds the remainder.
func allocationWeights(policy *domain.AllocationPolicy, age int) [domain.NumAssetClasses]float64 {
	if policy.Mode == domain.AllocationGlidePath {
		stocks := float64(policy.GlidePathOffset-age) / 100
		if stocks < policy.GlidePathFloor {
			stocks = policy.GlidePathFloor
		}
		if stocks > policy.GlidePathCeiling {
			stocks = policy.GlidePathCeiling
		}
		cash := policy.Cash
		bonds := 1 - stocks - cash
		if bonds < 0 {
			bonds = 0
			cash = 1 - stocks
		}
		return [domain.NumAssetClasses]float64{stocks, bonds, cash}
	}
	return [domain.NumAssetClasses]float64{policy.Stocks, policy.Bonds, policy.Cash}
}

// grow applies one year's returns. The investment buckets earn the
// allocation-blended return, implicitly rebalancing to target weights each
// year; the cash bucket earns the cash return. Returns the blended portfolio
// return used by the control-variate accumulator.
func (p *portfolio) grow(draw ReturnDraw, weights [domain.NumAssetClasses]float64) float64 {
	var blended float64
	for a := domain.AssetClass(0); a < domain.NumAssetClasses; a++ {
		blended += weights[a] * draw.ByClass[a]
	}
	growth := decimal.NewFromFloat(1 + blended)
	p.taxDeferred = p.taxDeferred.Mul(growth)
	p.taxFree = p.taxFree.Mul(growth)
	p.taxable = p.taxable.Mul(growth)
	p.cash = p.cash.Mul(decimal.NewFromFloat(1 + draw.ByClass[domain.AssetCash]))
	return blended
}

// withdrawalPlan is one year's sequenced withdrawal, per source bucket, with
// the long-term gain the taxable sale realizes.
type withdrawalPlan struct {
	FromCash        decimal.Decimal
	FromTaxable     decimal.Decimal
	FromTaxDeferred decimal.Decimal
	FromTaxFree     decimal.Decimal
	RealizedGains   decimal.Decimal
	RMD             decimal.Decimal
}

func (w withdrawalPlan) Total() decimal.Decimal {
	return w.FromCash.Add(w.FromTaxable).Add(w.FromTaxDeferred).Add(w.FromTaxFree)
}

// planWithdrawal sequences a gross withdrawal across buckets without mutating
// balances, so the tax gross-up loop can iterate on it. The required minimum
// distribution comes out of the tax-deferred bucket first regardless of need;
// the remainder drains cash, then taxable holdings (realizing gains), then
// tax-deferred, then tax-free.
func (p *portfolio) planWithdrawal(gross, rmd decimal.Decimal) withdrawalPlan {
	var plan withdrawalPlan

	plan.RMD = decimal.Min(rmd, p.taxDeferred)
	plan.FromTaxDeferred = plan.RMD

	remaining := gross.Sub(plan.FromTaxDeferred)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	take := decimal.Min(remaining, p.cash)
	plan.FromCash = take
	remaining = remaining.Sub(take)

	take = decimal.Min(remaining, p.taxable)
	plan.FromTaxable = take
	remaining = remaining.Sub(take)
	if take.IsPositive() && p.taxable.IsPositive() {
		gainFraction := decimal.NewFromInt(1).Sub(p.basis.Div(p.taxable))
		if gainFraction.IsNegative() {
			gainFraction = decimal.Zero
		}
		plan.RealizedGains = take.Mul(gainFraction)
	}

	take = decimal.Min(remaining, p.taxDeferred.Sub(plan.FromTaxDeferred))
	plan.FromTaxDeferred = plan.FromTaxDeferred.Add(take)
	remaining = remaining.Sub(take)

	take = decimal.Min(remaining, p.taxFree)
	plan.FromTaxFree = take

	return plan
}

// apply commits a planned withdrawal, consuming cost basis pro rata with the
// taxable sale.
func (p *portfolio) apply(plan withdrawalPlan) {
	if plan.FromTaxable.IsPositive() && p.taxable.IsPositive() {
		p.basis = p.basis.Sub(plan.FromTaxable.Mul(p.basis.Div(p.taxable)))
		if p.basis.IsNegative() {
			p.basis = decimal.Zero
		}
	}
	p.cash = p.cash.Sub(plan.FromCash)
	p.taxable = p.taxable.Sub(plan.FromTaxable)
	p.taxDeferred = p.taxDeferred.Sub(plan.FromTaxDeferred)
	p.taxFree = p.taxFree.Sub(plan.FromTaxFree)
}

// depositCash adds surplus income to the cash bucket.
func (p *portfolio) depositCash(amount decimal.Decimal) {
	p.cash = p.cash.Add(amount)
}

// contribute adds pre-retirement savings to the tax-deferred bucket.
func (p *portfolio) contribute(amount decimal.Decimal) {
	p.taxDeferred = p.taxDeferred.Add(amount)
}
