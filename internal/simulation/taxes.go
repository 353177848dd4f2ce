package simulation

import (
	"github.com/shopspring/decimal"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// TaxBracket represents a single marginal bracket.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// 2025 federal ordinary-income brackets.
var federalBracketsMFJ = []TaxBracket{
	{Min: decimal.Zero, Max: decimal.NewFromInt(23200), Rate: decimal.NewFromFloat(0.10)},
	{Min: decimal.NewFromInt(23200), Max: decimal.NewFromInt(94300), Rate: decimal.NewFromFloat(0.12)},
	{Min: decimal.NewFromInt(94300), Max: decimal.NewFromInt(201050), Rate: decimal.NewFromFloat(0.22)},
	{Min: decimal.NewFromInt(201050), Max: decimal.NewFromInt(383900), Rate: decimal.NewFromFloat(0.24)},
	{Min: decimal.NewFromInt(383900), Max: decimal.NewFromInt(487450), Rate: decimal.NewFromFloat(0.32)},
	{Min: decimal.NewFromInt(487450), Max: decimal.NewFromInt(731200), Rate: decimal.NewFromFloat(0.35)},
	{Min: decimal.NewFromInt(731200), Max: decimal.NewFromInt(999999999), Rate: decimal.NewFromFloat(0.37)},
}

var federalBracketsSingle = []TaxBracket{
	{Min: decimal.Zero, Max: decimal.NewFromInt(11600), Rate: decimal.NewFromFloat(0.10)},
	{Min: decimal.NewFromInt(11600), Max: decimal.NewFromInt(47150), Rate: decimal.NewFromFloat(0.12)},
	{Min: decimal.NewFromInt(47150), Max: decimal.NewFromInt(100525), Rate: decimal.NewFromFloat(0.22)},
	{Min: decimal.NewFromInt(100525), Max: decimal.NewFromInt(191950), Rate: decimal.NewFromFloat(0.24)},
	{Min: decimal.NewFromInt(191950), Max: decimal.NewFromInt(243725), Rate: decimal.NewFromFloat(0.32)},
	{Min: decimal.NewFromInt(243725), Max: decimal.NewFromInt(609350), Rate: decimal.NewFromFloat(0.35)},
	{Min: decimal.NewFromInt(609350), Max: decimal.NewFromInt(999999999), Rate: decimal.NewFromFloat(0.37)},
}

// Standard deductions and the extra deduction per person age 65 or older.
var (
	standardDeductionMFJ    = decimal.NewFromInt(30000)
	standardDeductionSingle = decimal.NewFromInt(15000)
	extraDeduction65MFJ     = decimal.NewFromInt(1550)
	extraDeduction65Single  = decimal.NewFromInt(1950)
)

// Long-term capital gains rate breakpoints. Gains stack on top of ordinary
// taxable income when locating the breakpoint.
var (
	cgZeroRateCapMFJ       = decimal.NewFromInt(94050)
	cgFifteenRateCapMFJ    = decimal.NewFromInt(583750)
	cgZeroRateCapSingle    = decimal.NewFromInt(47025)
	cgFifteenRateCapSingle = decimal.NewFromInt(518900)

	cgRate15 = decimal.NewFromFloat(0.15)
	cgRate20 = decimal.NewFromFloat(0.20)
)

// Social Security provisional-income thresholds.
var (
	ssBase1MFJ    = decimal.NewFromInt(32000)
	ssBase2MFJ    = decimal.NewFromInt(44000)
	ssBase1Single = decimal.NewFromInt(25000)
	ssBase2Single = decimal.NewFromInt(34000)

	ssHalf    = decimal.NewFromFloat(0.5)
	ssEightyF = decimal.NewFromFloat(0.85)
)

// taxInput is everything the tax computation needs for one household year.
// OrdinaryIncome includes pension, part-time earnings and tax-deferred
// withdrawals; RealizedGains is the long-term gain realized from the taxable
// bucket.
type taxInput struct {
	OrdinaryIncome        decimal.Decimal
	SocialSecurity        decimal.Decimal
	RealizedGains         decimal.Decimal
	TaxDeferredWithdrawal decimal.Decimal
	PensionIncome         decimal.Decimal
	PartTimeIncome        decimal.Decimal
	Age65Count            int
}

type taxResult struct {
	Federal   decimal.Decimal
	State     decimal.Decimal
	TaxableSS decimal.Decimal
	MAGI      decimal.Decimal
}

// taxModel computes federal and state liability for a fixed policy.
type taxModel struct {
	policy domain.TaxPolicy
}

func newTaxModel(policy domain.TaxPolicy) *taxModel {
	return &taxModel{policy: policy}
}

func (t *taxModel) joint() bool {
	return t.policy.FilingStatus == domain.FilingMarriedJointly
}

func (t *taxModel) brackets() []TaxBracket {
	if t.joint() {
		return federalBracketsMFJ
	}
	return federalBracketsSingle
}

func (t *taxModel) standardDeduction(age65Count int) decimal.Decimal {
	if t.joint() {
		return standardDeductionMFJ.Add(extraDeduction65MFJ.Mul(decimal.NewFromInt(int64(age65Count))))
	}
	d := standardDeductionSingle
	if age65Count > 0 {
		d = d.Add(extraDeduction65Single)
	}
	return d
}

// taxableSocialSecurity applies the provisional-income test: none of the
// benefit is taxable below the first threshold, up to 50% between the
// thresholds and up to 85% above the second.
func (t *taxModel) taxableSocialSecurity(ssBenefit, otherIncome decimal.Decimal) decimal.Decimal {
	if ssBenefit.IsZero() {
		return decimal.Zero
	}
	base1, base2 := ssBase1Single, ssBase2Single
	if t.joint() {
		base1, base2 = ssBase1MFJ, ssBase2MFJ
	}
	provisional := otherIncome.Add(ssBenefit.Mul(ssHalf))
	switch {
	case provisional.LessThanOrEqual(base1):
		return decimal.Zero
	case provisional.LessThanOrEqual(base2):
		return decimal.Min(ssBenefit.Mul(ssHalf), provisional.Sub(base1).Mul(ssHalf))
	default:
		tier1 := decimal.Min(ssBenefit.Mul(ssHalf), base2.Sub(base1).Mul(ssHalf))
		taxable := provisional.Sub(base2).Mul(ssEightyF).Add(tier1)
		return decimal.Min(ssBenefit.Mul(ssEightyF), taxable)
	}
}

// ordinaryTax applies the progressive brackets to taxable ordinary income.
func (t *taxModel) ordinaryTax(taxable decimal.Decimal) decimal.Decimal {
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	tax := decimal.Zero
	for _, b := range t.brackets() {
		if taxable.LessThanOrEqual(b.Min) {
			break
		}
		span := decimal.Min(taxable, b.Max).Sub(b.Min)
		if span.IsPositive() {
			tax = tax.Add(span.Mul(b.Rate))
		}
	}
	return tax
}

// capitalGainsTax taxes long-term gains at 0/15/20% depending on where they
// land stacked on top of ordinary taxable income.
func (t *taxModel) capitalGainsTax(gains, ordinaryTaxable decimal.Decimal) decimal.Decimal {
	if gains.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	zeroCap, fifteenCap := cgZeroRateCapSingle, cgFifteenRateCapSingle
	if t.joint() {
		zeroCap, fifteenCap = cgZeroRateCapMFJ, cgFifteenRateCapMFJ
	}
	// Standard deduction not used up by ordinary income offsets gains before
	// they stack.
	if ordinaryTaxable.IsNegative() {
		gains = gains.Add(ordinaryTaxable)
		ordinaryTaxable = decimal.Zero
		if gains.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero
		}
	}
	stackTop := ordinaryTaxable.Add(gains)

	// Gains filling the zero band owe nothing; only the 15% and 20% bands pay.
	inFifteen := decimal.Min(stackTop, fifteenCap).Sub(decimal.Max(ordinaryTaxable, zeroCap))
	if inFifteen.IsNegative() {
		inFifteen = decimal.Zero
	}
	inTwenty := stackTop.Sub(decimal.Max(ordinaryTaxable, fifteenCap))
	if inTwenty.IsNegative() {
		inTwenty = decimal.Zero
	}
	return inFifteen.Mul(cgRate15).Add(inTwenty.Mul(cgRate20))
}

// stateTax applies the flat state rate. States that exempt retirement income
// tax only earned income and realized gains; Social Security is exempt either
// way.
func (t *taxModel) stateTax(in taxInput) decimal.Decimal {
	if t.policy.StateRate.IsZero() {
		return decimal.Zero
	}
	taxable := in.PartTimeIncome.Add(in.RealizedGains)
	if t.policy.StateTaxesRetirement {
		taxable = taxable.Add(in.PensionIncome).Add(in.TaxDeferredWithdrawal)
	}
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return taxable.Mul(t.policy.StateRate)
}

// compute produces the full-year liability for one household year.
func (t *taxModel) compute(in taxInput) taxResult {
	otherIncome := in.OrdinaryIncome.Add(in.RealizedGains)
	taxableSS := t.taxableSocialSecurity(in.SocialSecurity, otherIncome)

	agi := in.OrdinaryIncome.Add(in.RealizedGains).Add(taxableSS)
	deduction := t.standardDeduction(in.Age65Count)
	ordinaryTaxable := in.OrdinaryIncome.Add(taxableSS).Sub(deduction)

	federal := t.ordinaryTax(ordinaryTaxable).Add(t.capitalGainsTax(in.RealizedGains, ordinaryTaxable))
	return taxResult{
		Federal:   federal,
		State:     t.stateTax(in),
		TaxableSS: taxableSS,
		MAGI:      agi,
	}
}
