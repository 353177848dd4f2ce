package simulation

import (
	"github.com/shopspring/decimal"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// medicareEligibilityAge is when Part B premiums start.
const medicareEligibilityAge = 65

// Part B base premium, monthly.
var basePremiumMonthly = decimal.NewFromFloat(185.00)

// irmaaTier is one income-related monthly adjustment tier. Thresholds are
// MAGI from two years prior.
type irmaaTier struct {
	singleMin decimal.Decimal
	jointMin  decimal.Decimal
	surcharge decimal.Decimal // monthly, per enrollee, on top of the base premium
}

var irmaaTiers = []irmaaTier{
	{singleMin: decimal.NewFromInt(103000), jointMin: decimal.NewFromInt(206000), surcharge: decimal.NewFromFloat(69.90)},
	{singleMin: decimal.NewFromInt(129000), jointMin: decimal.NewFromInt(258000), surcharge: decimal.NewFromFloat(174.70)},
	{singleMin: decimal.NewFromInt(161000), jointMin: decimal.NewFromInt(322000), surcharge: decimal.NewFromFloat(279.50)},
	{singleMin: decimal.NewFromInt(193000), jointMin: decimal.NewFromInt(386000), surcharge: decimal.NewFromFloat(384.30)},
	{singleMin: decimal.NewFromInt(500000), jointMin: decimal.NewFromInt(750000), surcharge: decimal.NewFromFloat(489.10)},
}

// medicareModel computes annual Part B premiums including IRMAA surcharges.
// IRMAA keys off MAGI with a two-year lag, so the model keeps a per-scenario
// MAGI history indexed by scenario year.
type medicareModel struct {
	joint bool
}

func newMedicareModel(policy domain.TaxPolicy) *medicareModel {
	return &medicareModel{joint: policy.FilingStatus == domain.FilingMarriedJointly}
}

// monthlySurcharge returns the IRMAA addition for the given lookback MAGI.
func (m *medicareModel) monthlySurcharge(magi decimal.Decimal) decimal.Decimal {
	surcharge := decimal.Zero
	for _, tier := range irmaaTiers {
		min := tier.singleMin
		if m.joint {
			min = tier.jointMin
		}
		if magi.GreaterThanOrEqual(min) {
			surcharge = tier.surcharge
		}
	}
	return surcharge
}

// annualPremium returns the household's Part B cost for one scenario year.
// magiHistory is indexed by scenario year; years before the simulation
// started use the year-zero MAGI as a proxy. enrollees is the number of
// household members at or past the eligibility age.
func (m *medicareModel) annualPremium(yearIdx int, magiHistory []decimal.Decimal, enrollees int) decimal.Decimal {
	if enrollees == 0 {
		return decimal.Zero
	}
	lookback := yearIdx - 2
	if lookback < 0 {
		lookback = 0
	}
	magi := decimal.Zero
	if lookback < len(magiHistory) {
		magi = magiHistory[lookback]
	}
	monthly := basePremiumMonthly.Add(m.monthlySurcharge(magi))
	return monthly.Mul(decimal.NewFromInt(12)).Mul(decimal.NewFromInt(int64(enrollees)))
}
