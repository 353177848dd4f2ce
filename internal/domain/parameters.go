package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Gender is used for mortality and long-term-care probability adjustments.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// HealthStatus conditions the annual mortality hazard and LTC probability.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthFair      HealthStatus = "fair"
	HealthPoor      HealthStatus = "poor"
)

// HazardMultiplier returns the mortality hazard multiplier for a health status.
// Unknown statuses are treated as "good" (1.0x).
func (h HealthStatus) HazardMultiplier() float64 {
	switch h {
	case HealthExcellent:
		return 0.7
	case HealthFair:
		return 1.3
	case HealthPoor:
		return 1.6
	default:
		return 1.0
	}
}

// FilingStatus selects federal tax brackets and SS taxability thresholds.
type FilingStatus string

const (
	FilingSingle         FilingStatus = "single"
	FilingMarriedJointly FilingStatus = "mfj"
)

// Pension is a guaranteed annual benefit starting at a fixed age.
type Pension struct {
	AnnualBenefit decimal.Decimal `yaml:"annual_benefit" json:"annual_benefit"`
	StartAge      int             `yaml:"start_age" json:"start_age"`
	COLARate      decimal.Decimal `yaml:"cola_rate" json:"cola_rate"`
}

// PartTimeWork is earned income in early retirement that phases out at a
// configured age.
type PartTimeWork struct {
	AnnualIncome decimal.Decimal `yaml:"annual_income" json:"annual_income"`
	PhaseOutAge  int             `yaml:"phase_out_age" json:"phase_out_age"`
}

// Person holds the simulation inputs for one member of the household.
// Pension and PartTime are nil when the person has neither.
type Person struct {
	CurrentAge     int             `yaml:"current_age" json:"current_age"`
	RetirementAge  int             `yaml:"retirement_age" json:"retirement_age"`
	Gender         Gender          `yaml:"gender" json:"gender"`
	Health         HealthStatus    `yaml:"health" json:"health"`
	SSMonthlyAtFRA decimal.Decimal `yaml:"ss_monthly_at_fra" json:"ss_monthly_at_fra"`
	SSClaimAge     int             `yaml:"ss_claim_age" json:"ss_claim_age"`
	Pension        *Pension        `yaml:"pension,omitempty" json:"pension,omitempty"`
	PartTime       *PartTimeWork   `yaml:"part_time,omitempty" json:"part_time,omitempty"`
}

// Household is the tagged single/couple variant: Spouse is nil for a single
// filer. Survivor spending applies after the first death in a couple.
type Household struct {
	Primary                Person          `yaml:"primary" json:"primary"`
	Spouse                 *Person         `yaml:"spouse,omitempty" json:"spouse,omitempty"`
	SurvivorSpendingFactor decimal.Decimal `yaml:"survivor_spending_factor" json:"survivor_spending_factor"`
}

// IsCouple reports whether the household has two members.
func (h *Household) IsCouple() bool { return h.Spouse != nil }

// AssetBuckets splits retirement assets by tax treatment.
// Invariant: the four parts sum to TotalAssets.
type AssetBuckets struct {
	TaxDeferred     decimal.Decimal `yaml:"tax_deferred" json:"tax_deferred"`
	TaxFree         decimal.Decimal `yaml:"tax_free" json:"tax_free"`
	CapitalGains    decimal.Decimal `yaml:"capital_gains" json:"capital_gains"`
	CashEquivalents decimal.Decimal `yaml:"cash_equivalents" json:"cash_equivalents"`
	TotalAssets     decimal.Decimal `yaml:"total_assets" json:"total_assets"`
}

// Sum returns the total of the four bucket balances.
func (b AssetBuckets) Sum() decimal.Decimal {
	return b.TaxDeferred.Add(b.TaxFree).Add(b.CapitalGains).Add(b.CashEquivalents)
}

// AnnualExpenses is the baseline spending split the guardrail policy operates
// on: only the discretionary portion is ever cut or raised.
type AnnualExpenses struct {
	Essential     decimal.Decimal `yaml:"essential" json:"essential"`
	Discretionary decimal.Decimal `yaml:"discretionary" json:"discretionary"`
	Healthcare    decimal.Decimal `yaml:"healthcare" json:"healthcare"`
}

// InflationRates carries the three independent inflation assumptions.
type InflationRates struct {
	General    decimal.Decimal `yaml:"general" json:"general"`
	Healthcare decimal.Decimal `yaml:"healthcare" json:"healthcare"`
	SSCOLA     decimal.Decimal `yaml:"ss_cola" json:"ss_cola"`
}

// AssetClass indexes the three-class return model.
type AssetClass int

const (
	AssetStocks AssetClass = iota
	AssetBonds
	AssetCash
	NumAssetClasses
)

func (a AssetClass) String() string {
	switch a {
	case AssetStocks:
		return "stocks"
	case AssetBonds:
		return "bonds"
	case AssetCash:
		return "cash"
	}
	return "unknown"
}

// ReturnAssumption holds the long-run compound growth rate and annual
// volatility for one asset class. These live in float space because they
// parameterize the normal sampler, not money arithmetic.
type ReturnAssumption struct {
	CAGR       float64 `yaml:"cagr" json:"cagr"`
	Volatility float64 `yaml:"volatility" json:"volatility"`
}

// VarianceReduction toggles the composable variance-reduction modes.
type VarianceReduction struct {
	Antithetic     bool `yaml:"antithetic" json:"antithetic"`
	Stratified     bool `yaml:"stratified" json:"stratified"`
	ControlVariate bool `yaml:"control_variate" json:"control_variate"`
}

// RegimeModel configures optional two-state (normal/stress) regime switching.
// The same regime applies to every asset class in a scenario-year.
type RegimeModel struct {
	StressProbability   float64 `yaml:"stress_probability" json:"stress_probability"`
	RecoveryProbability float64 `yaml:"recovery_probability" json:"recovery_probability"`
	StressMeanShift     float64 `yaml:"stress_mean_shift" json:"stress_mean_shift"`
	StressVolMultiplier float64 `yaml:"stress_vol_multiplier" json:"stress_vol_multiplier"`
}

// ReturnModel is the full return-generator configuration.
type ReturnModel struct {
	Stocks            ReturnAssumption  `yaml:"stocks" json:"stocks"`
	Bonds             ReturnAssumption  `yaml:"bonds" json:"bonds"`
	Cash              ReturnAssumption  `yaml:"cash" json:"cash"`
	StockBondCorr     float64           `yaml:"stock_bond_corr" json:"stock_bond_corr"`
	VarianceReduction VarianceReduction `yaml:"variance_reduction" json:"variance_reduction"`
	Regime            *RegimeModel      `yaml:"regime,omitempty" json:"regime,omitempty"`
}

// Assumption returns the assumption for an asset class.
func (rm *ReturnModel) Assumption(a AssetClass) ReturnAssumption {
	switch a {
	case AssetStocks:
		return rm.Stocks
	case AssetBonds:
		return rm.Bonds
	default:
		return rm.Cash
	}
}

// AllocationPolicy sets the target allocation: either fixed weights or an
// age-based glide path that de-risks over time.
type AllocationPolicy struct {
	Mode             string  `yaml:"mode" json:"mode"` // "fixed" or "glidepath"
	Stocks           float64 `yaml:"stocks" json:"stocks"`
	Bonds            float64 `yaml:"bonds" json:"bonds"`
	Cash             float64 `yaml:"cash" json:"cash"`
	GlidePathOffset  int     `yaml:"glide_path_offset" json:"glide_path_offset"`
	GlidePathFloor   float64 `yaml:"glide_path_floor" json:"glide_path_floor"`
	GlidePathCeiling float64 `yaml:"glide_path_ceiling" json:"glide_path_ceiling"`
}

const (
	AllocationFixed     = "fixed"
	AllocationGlidePath = "glidepath"
)

// WithdrawalPolicy configures the Guyton-Klinger guardrail controller.
// Guardrails compare the current withdrawal rate against the upper and lower
// thresholds; adjustments move the discretionary spending factor, bounded by
// the floor and ceiling.
type WithdrawalPolicy struct {
	GuardrailsEnabled bool            `yaml:"guardrails_enabled" json:"guardrails_enabled"`
	UpperGuardrail    decimal.Decimal `yaml:"upper_guardrail" json:"upper_guardrail"`
	LowerGuardrail    decimal.Decimal `yaml:"lower_guardrail" json:"lower_guardrail"`
	CutPercent        decimal.Decimal `yaml:"cut_percent" json:"cut_percent"`
	RaisePercent      decimal.Decimal `yaml:"raise_percent" json:"raise_percent"`
	SpendingFloor     decimal.Decimal `yaml:"spending_floor" json:"spending_floor"`
	SpendingCeiling   decimal.Decimal `yaml:"spending_ceiling" json:"spending_ceiling"`
}

// TaxPolicy selects jurisdiction and filing status. A zero StateRate with an
// empty State means no state income tax.
type TaxPolicy struct {
	FilingStatus         FilingStatus    `yaml:"filing_status" json:"filing_status"`
	State                string          `yaml:"state" json:"state"`
	StateRate            decimal.Decimal `yaml:"state_rate" json:"state_rate"`
	StateTaxesRetirement bool            `yaml:"state_taxes_retirement" json:"state_taxes_retirement"`
}

// MortalityAssumptions picks dynamic hazard-based sampling or a fixed horizon.
type MortalityAssumptions struct {
	Dynamic            bool `yaml:"dynamic" json:"dynamic"`
	PlanningHorizonAge int  `yaml:"planning_horizon_age" json:"planning_horizon_age"`
}

// CareType is one long-term-care setting with its base annual cost and the
// probability weight used when a scenario draws an episode.
type CareType struct {
	Name       string          `yaml:"name" json:"name"`
	AnnualCost decimal.Decimal `yaml:"annual_cost" json:"annual_cost"`
	Weight     float64         `yaml:"weight" json:"weight"`
}

// LTCInsurance offsets episode costs with an annual benefit.
type LTCInsurance struct {
	AnnualBenefit decimal.Decimal `yaml:"annual_benefit" json:"annual_benefit"`
}

// LTCModel configures long-term-care episode generation.
type LTCModel struct {
	Enabled             bool            `yaml:"enabled" json:"enabled"`
	LifetimeProbability float64         `yaml:"lifetime_probability" json:"lifetime_probability"`
	OnsetMeanAge        float64         `yaml:"onset_mean_age" json:"onset_mean_age"`
	OnsetStdDev         float64         `yaml:"onset_std_dev" json:"onset_std_dev"`
	MeanDurationYears   float64         `yaml:"mean_duration_years" json:"mean_duration_years"`
	CareTypes           []CareType      `yaml:"care_types" json:"care_types"`
	RegionMultiplier    decimal.Decimal `yaml:"region_multiplier" json:"region_multiplier"`
	InflationRate       decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	Insurance           *LTCInsurance   `yaml:"insurance,omitempty" json:"insurance,omitempty"`
}

// SimulationParameters is the immutable canonical input to a run. All
// coercion and validation happens at this boundary, never inside the
// simulation loop.
type SimulationParameters struct {
	BaseYear          int                  `yaml:"base_year" json:"base_year"`
	Household         Household            `yaml:"household" json:"household"`
	Assets            AssetBuckets         `yaml:"assets" json:"assets"`
	CostBasisFraction decimal.Decimal      `yaml:"cost_basis_fraction" json:"cost_basis_fraction"`
	Expenses          AnnualExpenses       `yaml:"expenses" json:"expenses"`
	Inflation         InflationRates       `yaml:"inflation" json:"inflation"`
	Returns           ReturnModel          `yaml:"returns" json:"returns"`
	Allocation        AllocationPolicy     `yaml:"allocation" json:"allocation"`
	Withdrawal        WithdrawalPolicy     `yaml:"withdrawal" json:"withdrawal"`
	Taxes             TaxPolicy            `yaml:"taxes" json:"taxes"`
	Mortality         MortalityAssumptions `yaml:"mortality" json:"mortality"`
	LTC               LTCModel             `yaml:"ltc" json:"ltc"`
	AnnualSavings     decimal.Decimal      `yaml:"annual_savings" json:"annual_savings"`
	LegacyGoal        decimal.Decimal      `yaml:"legacy_goal" json:"legacy_goal"`
	Iterations        int                  `yaml:"iterations" json:"iterations"`
	Seed              int64                `yaml:"seed" json:"seed"`
}

// ApplyDefaults fills unset optional fields with engine defaults. It is safe
// to call more than once.
func (p *SimulationParameters) ApplyDefaults() {
	if p.BaseYear == 0 {
		p.BaseYear = 2025
	}
	if p.Iterations == 0 {
		p.Iterations = 1000
	}
	if p.CostBasisFraction.IsZero() {
		p.CostBasisFraction = decimal.NewFromFloat(0.5)
	}
	if p.Household.SurvivorSpendingFactor.IsZero() {
		p.Household.SurvivorSpendingFactor = decimal.NewFromFloat(0.75)
	}
	if p.Mortality.PlanningHorizonAge == 0 {
		p.Mortality.PlanningHorizonAge = 95
	}
	if p.Taxes.FilingStatus == "" {
		if p.Household.IsCouple() {
			p.Taxes.FilingStatus = FilingMarriedJointly
		} else {
			p.Taxes.FilingStatus = FilingSingle
		}
	}
	if p.Allocation.Mode == "" {
		p.Allocation.Mode = AllocationFixed
	}
	if p.Allocation.Mode == AllocationGlidePath {
		if p.Allocation.GlidePathOffset == 0 {
			p.Allocation.GlidePathOffset = 110
		}
		if p.Allocation.GlidePathFloor == 0 {
			p.Allocation.GlidePathFloor = 0.20
		}
		if p.Allocation.GlidePathCeiling == 0 {
			p.Allocation.GlidePathCeiling = 0.90
		}
	}
	if p.Withdrawal.GuardrailsEnabled {
		if p.Withdrawal.UpperGuardrail.IsZero() {
			p.Withdrawal.UpperGuardrail = decimal.NewFromFloat(0.06)
		}
		if p.Withdrawal.LowerGuardrail.IsZero() {
			p.Withdrawal.LowerGuardrail = decimal.NewFromFloat(0.03)
		}
		if p.Withdrawal.CutPercent.IsZero() {
			p.Withdrawal.CutPercent = decimal.NewFromFloat(0.10)
		}
		if p.Withdrawal.RaisePercent.IsZero() {
			p.Withdrawal.RaisePercent = decimal.NewFromFloat(0.10)
		}
		if p.Withdrawal.SpendingFloor.IsZero() {
			p.Withdrawal.SpendingFloor = decimal.NewFromFloat(0.75)
		}
		if p.Withdrawal.SpendingCeiling.IsZero() {
			p.Withdrawal.SpendingCeiling = decimal.NewFromFloat(1.25)
		}
	}
	if p.LTC.Enabled {
		if p.LTC.LifetimeProbability == 0 {
			p.LTC.LifetimeProbability = 0.50
		}
		if p.LTC.OnsetMeanAge == 0 {
			p.LTC.OnsetMeanAge = 82
		}
		if p.LTC.OnsetStdDev == 0 {
			p.LTC.OnsetStdDev = 5
		}
		if p.LTC.MeanDurationYears == 0 {
			p.LTC.MeanDurationYears = 2.5
		}
		if p.LTC.RegionMultiplier.IsZero() {
			p.LTC.RegionMultiplier = decimal.NewFromInt(1)
		}
		if p.LTC.InflationRate.IsZero() {
			p.LTC.InflationRate = decimal.NewFromFloat(0.045)
		}
		if len(p.LTC.CareTypes) == 0 {
			p.LTC.CareTypes = DefaultCareTypes()
		}
	}
}

// DefaultCareTypes returns the standard four care settings with national base
// annual costs and occurrence weights.
func DefaultCareTypes() []CareType {
	return []CareType{
		{Name: "home", AnnualCost: decimal.NewFromInt(65000), Weight: 0.40},
		{Name: "assisted", AnnualCost: decimal.NewFromInt(70000), Weight: 0.30},
		{Name: "nursing", AnnualCost: decimal.NewFromInt(115000), Weight: 0.22},
		{Name: "memory", AnnualCost: decimal.NewFromInt(140000), Weight: 0.08},
	}
}

// Validate rejects malformed input before any scenario runs. Every failure
// identifies the offending field.
func (p *SimulationParameters) Validate() error {
	if p.Iterations <= 0 {
		return &InvalidParameterError{Field: "iterations", Reason: "must be positive"}
	}
	if err := validatePerson("household.primary", &p.Household.Primary); err != nil {
		return err
	}
	if p.Household.Spouse != nil {
		if err := validatePerson("household.spouse", p.Household.Spouse); err != nil {
			return err
		}
	}
	if f := p.Household.SurvivorSpendingFactor; f.LessThan(decimal.NewFromFloat(0.4)) || f.GreaterThan(decimal.NewFromInt(1)) {
		return &InvalidParameterError{Field: "household.survivor_spending_factor", Reason: "must be between 0.4 and 1.0"}
	}
	if err := validateBuckets(&p.Assets); err != nil {
		return err
	}
	if p.CostBasisFraction.LessThan(decimal.Zero) || p.CostBasisFraction.GreaterThan(decimal.NewFromInt(1)) {
		return &InvalidParameterError{Field: "cost_basis_fraction", Reason: "must be between 0 and 1"}
	}
	if p.Expenses.Essential.LessThan(decimal.Zero) {
		return &InvalidParameterError{Field: "expenses.essential", Reason: "cannot be negative"}
	}
	if p.Expenses.Discretionary.LessThan(decimal.Zero) {
		return &InvalidParameterError{Field: "expenses.discretionary", Reason: "cannot be negative"}
	}
	if p.Expenses.Healthcare.LessThan(decimal.Zero) {
		return &InvalidParameterError{Field: "expenses.healthcare", Reason: "cannot be negative"}
	}
	if p.Inflation.General.LessThan(decimal.NewFromFloat(-0.10)) || p.Inflation.General.GreaterThan(decimal.NewFromFloat(0.20)) {
		return &InvalidParameterError{Field: "inflation.general", Reason: "must be between -10% and 20%"}
	}
	if err := validateReturns(&p.Returns); err != nil {
		return err
	}
	if err := validateAllocation(&p.Allocation); err != nil {
		return err
	}
	if p.Withdrawal.GuardrailsEnabled {
		if p.Withdrawal.LowerGuardrail.GreaterThanOrEqual(p.Withdrawal.UpperGuardrail) {
			return &InvalidParameterError{Field: "withdrawal.lower_guardrail", Reason: "must be below upper_guardrail"}
		}
		if p.Withdrawal.SpendingFloor.GreaterThan(p.Withdrawal.SpendingCeiling) {
			return &InvalidParameterError{Field: "withdrawal.spending_floor", Reason: "must not exceed spending_ceiling"}
		}
	}
	if p.Taxes.StateRate.LessThan(decimal.Zero) || p.Taxes.StateRate.GreaterThan(decimal.NewFromFloat(0.15)) {
		return &InvalidParameterError{Field: "taxes.state_rate", Reason: "must be between 0 and 15%"}
	}
	if fs := p.Taxes.FilingStatus; fs != FilingSingle && fs != FilingMarriedJointly {
		return &InvalidParameterError{Field: "taxes.filing_status", Reason: fmt.Sprintf("unknown filing status %q", fs)}
	}
	if p.LTC.Enabled {
		if p.LTC.LifetimeProbability < 0 || p.LTC.LifetimeProbability > 1 {
			return &InvalidParameterError{Field: "ltc.lifetime_probability", Reason: "must be between 0 and 1"}
		}
		for i, ct := range p.LTC.CareTypes {
			if ct.AnnualCost.LessThan(decimal.Zero) {
				return &InvalidParameterError{Field: fmt.Sprintf("ltc.care_types[%d].annual_cost", i), Reason: "cannot be negative"}
			}
			if ct.Weight < 0 {
				return &InvalidParameterError{Field: fmt.Sprintf("ltc.care_types[%d].weight", i), Reason: "cannot be negative"}
			}
		}
	}
	if p.AnnualSavings.LessThan(decimal.Zero) {
		return &InvalidParameterError{Field: "annual_savings", Reason: "cannot be negative"}
	}
	if p.LegacyGoal.LessThan(decimal.Zero) {
		return &InvalidParameterError{Field: "legacy_goal", Reason: "cannot be negative"}
	}
	return nil
}

func validatePerson(prefix string, person *Person) error {
	if person.CurrentAge < 0 || person.CurrentAge > 110 {
		return &InvalidParameterError{Field: prefix + ".current_age", Reason: "must be between 0 and 110"}
	}
	if person.RetirementAge < person.CurrentAge {
		return &InvalidParameterError{Field: prefix + ".retirement_age", Reason: "cannot be before current age"}
	}
	if person.SSMonthlyAtFRA.LessThan(decimal.Zero) {
		return &InvalidParameterError{Field: prefix + ".ss_monthly_at_fra", Reason: "cannot be negative"}
	}
	if person.SSMonthlyAtFRA.IsPositive() && (person.SSClaimAge < 62 || person.SSClaimAge > 70) {
		return &InvalidParameterError{Field: prefix + ".ss_claim_age", Reason: "must be between 62 and 70"}
	}
	if person.Pension != nil && person.Pension.AnnualBenefit.LessThan(decimal.Zero) {
		return &InvalidParameterError{Field: prefix + ".pension.annual_benefit", Reason: "cannot be negative"}
	}
	if person.PartTime != nil && person.PartTime.AnnualIncome.LessThan(decimal.Zero) {
		return &InvalidParameterError{Field: prefix + ".part_time.annual_income", Reason: "cannot be negative"}
	}
	return nil
}

func validateBuckets(b *AssetBuckets) error {
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"assets.tax_deferred", b.TaxDeferred},
		{"assets.tax_free", b.TaxFree},
		{"assets.capital_gains", b.CapitalGains},
		{"assets.cash_equivalents", b.CashEquivalents},
		{"assets.total_assets", b.TotalAssets},
	} {
		if f.value.LessThan(decimal.Zero) {
			return &InvalidParameterError{Field: f.name, Reason: "cannot be negative"}
		}
	}
	// Tolerate sub-cent drift from upstream normalization.
	if b.Sum().Sub(b.TotalAssets).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		return &InvalidParameterError{Field: "assets.total_assets", Reason: "bucket balances do not sum to total"}
	}
	return nil
}

func validateReturns(rm *ReturnModel) error {
	for _, a := range []struct {
		name string
		ra   ReturnAssumption
	}{
		{"returns.stocks", rm.Stocks},
		{"returns.bonds", rm.Bonds},
		{"returns.cash", rm.Cash},
	} {
		if a.ra.Volatility < 0 {
			return &InvalidParameterError{Field: a.name + ".volatility", Reason: "cannot be negative"}
		}
		if a.ra.CAGR < -0.5 || a.ra.CAGR > 0.5 {
			return &InvalidParameterError{Field: a.name + ".cagr", Reason: "must be between -50% and 50%"}
		}
	}
	if rm.StockBondCorr < -1 || rm.StockBondCorr > 1 {
		return &InvalidParameterError{Field: "returns.stock_bond_corr", Reason: "must be between -1 and 1"}
	}
	if r := rm.Regime; r != nil {
		if r.StressProbability < 0 || r.StressProbability > 1 {
			return &InvalidParameterError{Field: "returns.regime.stress_probability", Reason: "must be between 0 and 1"}
		}
		if r.RecoveryProbability < 0 || r.RecoveryProbability > 1 {
			return &InvalidParameterError{Field: "returns.regime.recovery_probability", Reason: "must be between 0 and 1"}
		}
	}
	return nil
}

func validateAllocation(a *AllocationPolicy) error {
	switch a.Mode {
	case AllocationFixed:
		sum := a.Stocks + a.Bonds + a.Cash
		if sum < 0.999 || sum > 1.001 {
			return &InvalidParameterError{Field: "allocation", Reason: "weights must sum to 1"}
		}
		if a.Stocks < 0 || a.Bonds < 0 || a.Cash < 0 {
			return &InvalidParameterError{Field: "allocation", Reason: "weights cannot be negative"}
		}
	case AllocationGlidePath:
		if a.GlidePathFloor < 0 || a.GlidePathCeiling > 1 || a.GlidePathFloor > a.GlidePathCeiling {
			return &InvalidParameterError{Field: "allocation.glide_path_floor", Reason: "floor/ceiling must satisfy 0 <= floor <= ceiling <= 1"}
		}
	default:
		return &InvalidParameterError{Field: "allocation.mode", Reason: fmt.Sprintf("unknown mode %q", a.Mode)}
	}
	return nil
}
