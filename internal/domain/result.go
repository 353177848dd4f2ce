package domain

import (
	"github.com/shopspring/decimal"
)

// YearlyCashFlow is one simulated year's record. Immutable once written.
type YearlyCashFlow struct {
	Year       int    `json:"year"`
	AgePrimary int    `json:"age_primary"`
	AgeSpouse  int    `json:"age_spouse,omitempty"`
	Regime     string `json:"regime"`

	// End-of-year balances
	BalanceTaxDeferred  decimal.Decimal `json:"balance_tax_deferred"`
	BalanceTaxFree      decimal.Decimal `json:"balance_tax_free"`
	BalanceCapitalGains decimal.Decimal `json:"balance_capital_gains"`
	BalanceCash         decimal.Decimal `json:"balance_cash"`
	BalanceTotal        decimal.Decimal `json:"balance_total"`

	// Guaranteed income by source
	SocialSecurity        decimal.Decimal `json:"social_security"`
	PensionIncome         decimal.Decimal `json:"pension_income"`
	PartTimeIncome        decimal.Decimal `json:"part_time_income"`
	TotalGuaranteedIncome decimal.Decimal `json:"total_guaranteed_income"`

	// Withdrawals by bucket
	WithdrawalTaxDeferred  decimal.Decimal `json:"withdrawal_tax_deferred"`
	WithdrawalTaxFree      decimal.Decimal `json:"withdrawal_tax_free"`
	WithdrawalCapitalGains decimal.Decimal `json:"withdrawal_capital_gains"`
	WithdrawalCash         decimal.Decimal `json:"withdrawal_cash"`
	TotalWithdrawal        decimal.Decimal `json:"total_withdrawal"`

	// Taxes and costs
	FederalTax      decimal.Decimal `json:"federal_tax"`
	StateTax        decimal.Decimal `json:"state_tax"`
	MedicarePremium decimal.Decimal `json:"medicare_premium"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	Expenses        decimal.Decimal `json:"expenses"`
	LTCCost         decimal.Decimal `json:"ltc_cost"`
	NetCashFlow     decimal.Decimal `json:"net_cash_flow"`
	RMDAmount       decimal.Decimal `json:"rmd_amount"`

	GuardrailAction string `json:"guardrail_action,omitempty"` // "cut" or "raise"
	PrimaryAlive    bool   `json:"primary_alive"`
	SpouseAlive     bool   `json:"spouse_alive,omitempty"`
}

// ScenarioCounts breaks the run down by outcome class. Excluded scenarios hit
// numeric instability and are reported separately from ordinary depletion.
type ScenarioCounts struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Excluded  int `json:"excluded"`
	Total     int `json:"total"`
}

// GuardrailStats summarizes spending-control activity across scenarios.
type GuardrailStats struct {
	AverageAdjustments decimal.Decimal `json:"average_adjustments"`
	TotalCuts          int             `json:"total_cuts"`
	TotalRaises        int             `json:"total_raises"`
}

// LTCImpact isolates the effect of long-term-care risk by comparing against a
// no-LTC counterfactual run with the same seed.
type LTCImpact struct {
	OccurrenceProbability   decimal.Decimal `json:"occurrence_probability"`
	AverageEpisodeCost      decimal.Decimal `json:"average_episode_cost"`
	SuccessProbabilityDelta decimal.Decimal `json:"success_probability_delta"`
}

// SimulationResult is the aggregate over all scenarios. Produced once at run
// end; immutable.
type SimulationResult struct {
	SuccessProbability decimal.Decimal `json:"success_probability"`

	EndingBalanceP10  decimal.Decimal `json:"ending_balance_p10"`
	EndingBalanceP50  decimal.Decimal `json:"ending_balance_p50"`
	EndingBalanceP90  decimal.Decimal `json:"ending_balance_p90"`
	MeanEndingBalance decimal.Decimal `json:"mean_ending_balance"`
	// Mean ending balance after the control-variate bias adjustment; equals
	// MeanEndingBalance when the mode is off.
	AdjustedMeanEndingBalance decimal.Decimal `json:"adjusted_mean_ending_balance"`

	SafeWithdrawalRate    decimal.Decimal `json:"safe_withdrawal_rate"`
	SWRLowConfidence      bool            `json:"swr_low_confidence"`
	MeanYearsToDepletion  decimal.Decimal `json:"mean_years_to_depletion"`
	LegacyGoalProbability decimal.Decimal `json:"legacy_goal_probability"`

	Counts     ScenarioCounts   `json:"counts"`
	Guardrails GuardrailStats   `json:"guardrails"`
	Yearly     []YearlyCashFlow `json:"yearly"` // median-outcome scenario
	LTC        *LTCImpact       `json:"ltc,omitempty"`

	Iterations int   `json:"iterations"`
	Seed       int64 `json:"seed"`
}
