package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() *SimulationParameters {
	p := &SimulationParameters{
		Household: Household{
			Primary: Person{
				CurrentAge:     60,
				RetirementAge:  65,
				Gender:         GenderMale,
				Health:         HealthGood,
				SSMonthlyAtFRA: decimal.NewFromInt(2500),
				SSClaimAge:     67,
			},
		},
		Assets: AssetBuckets{
			TaxDeferred: decimal.NewFromInt(800000),
			TotalAssets: decimal.NewFromInt(800000),
		},
		Expenses: AnnualExpenses{Essential: decimal.NewFromInt(50000)},
		Returns: ReturnModel{
			Stocks: ReturnAssumption{CAGR: 0.07, Volatility: 0.16},
			Bonds:  ReturnAssumption{CAGR: 0.035, Volatility: 0.055},
			Cash:   ReturnAssumption{CAGR: 0.02, Volatility: 0.01},
		},
		Allocation: AllocationPolicy{Mode: AllocationFixed, Stocks: 0.6, Bonds: 0.4},
	}
	p.ApplyDefaults()
	return p
}

func TestValidParamsPass(t *testing.T) {
	assert.NoError(t, validParams().Validate())
}

func TestApplyDefaults(t *testing.T) {
	p := validParams()
	assert.Equal(t, 2025, p.BaseYear)
	assert.Equal(t, 1000, p.Iterations)
	assert.Equal(t, 95, p.Mortality.PlanningHorizonAge)
	assert.Equal(t, FilingSingle, p.Taxes.FilingStatus)
	assert.True(t, p.CostBasisFraction.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, p.Household.SurvivorSpendingFactor.Equal(decimal.NewFromFloat(0.75)))
}

func TestApplyDefaultsCoupleFilesJointly(t *testing.T) {
	p := validParams()
	p.Household.Spouse = &Person{
		CurrentAge:    58,
		RetirementAge: 62,
		Gender:        GenderFemale,
		Health:        HealthGood,
	}
	p.Taxes.FilingStatus = ""
	p.ApplyDefaults()
	assert.Equal(t, FilingMarriedJointly, p.Taxes.FilingStatus)
}

func TestApplyDefaultsGuardrails(t *testing.T) {
	p := validParams()
	p.Withdrawal.GuardrailsEnabled = true
	p.ApplyDefaults()
	assert.True(t, p.Withdrawal.UpperGuardrail.Equal(decimal.NewFromFloat(0.06)))
	assert.True(t, p.Withdrawal.LowerGuardrail.Equal(decimal.NewFromFloat(0.03)))
	assert.True(t, p.Withdrawal.SpendingFloor.Equal(decimal.NewFromFloat(0.75)))
	assert.True(t, p.Withdrawal.SpendingCeiling.Equal(decimal.NewFromFloat(1.25)))
}

func TestApplyDefaultsLTC(t *testing.T) {
	p := validParams()
	p.LTC.Enabled = true
	p.ApplyDefaults()
	assert.Equal(t, 0.50, p.LTC.LifetimeProbability)
	assert.Equal(t, 82.0, p.LTC.OnsetMeanAge)
	assert.Len(t, p.LTC.CareTypes, 4)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SimulationParameters)
		field  string
	}{
		{
			"negative iterations",
			func(p *SimulationParameters) { p.Iterations = -1 },
			"iterations",
		},
		{
			"retirement before current age",
			func(p *SimulationParameters) { p.Household.Primary.RetirementAge = 50 },
			"retirement_age",
		},
		{
			"claim age out of range",
			func(p *SimulationParameters) { p.Household.Primary.SSClaimAge = 75 },
			"ss_claim_age",
		},
		{
			"negative bucket",
			func(p *SimulationParameters) { p.Assets.TaxFree = decimal.NewFromInt(-1) },
			"assets.tax_free",
		},
		{
			"buckets do not sum",
			func(p *SimulationParameters) { p.Assets.TotalAssets = decimal.NewFromInt(1) },
			"assets.total_assets",
		},
		{
			"cost basis above one",
			func(p *SimulationParameters) { p.CostBasisFraction = decimal.NewFromInt(2) },
			"cost_basis_fraction",
		},
		{
			"correlation out of range",
			func(p *SimulationParameters) { p.Returns.StockBondCorr = 1.5 },
			"stock_bond_corr",
		},
		{
			"allocation does not sum",
			func(p *SimulationParameters) { p.Allocation.Stocks = 0.9 },
			"allocation",
		},
		{
			"unknown allocation mode",
			func(p *SimulationParameters) { p.Allocation.Mode = "martingale" },
			"allocation.mode",
		},
		{
			"state rate too high",
			func(p *SimulationParameters) { p.Taxes.StateRate = decimal.NewFromFloat(0.5) },
			"state_rate",
		},
		{
			"survivor factor too low",
			func(p *SimulationParameters) { p.Household.SurvivorSpendingFactor = decimal.NewFromFloat(0.1) },
			"survivor_spending_factor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, IsInvalidParameter(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestHazardMultiplierOrdering(t *testing.T) {
	assert.Less(t, HealthExcellent.HazardMultiplier(), HealthGood.HazardMultiplier())
	assert.Less(t, HealthGood.HazardMultiplier(), HealthFair.HazardMultiplier())
	assert.Less(t, HealthFair.HazardMultiplier(), HealthPoor.HazardMultiplier())
}

func TestAssetBucketsSum(t *testing.T) {
	b := AssetBuckets{
		TaxDeferred:     decimal.NewFromInt(1),
		TaxFree:         decimal.NewFromInt(2),
		CapitalGains:    decimal.NewFromInt(3),
		CashEquivalents: decimal.NewFromInt(4),
	}
	assert.True(t, b.Sum().Equal(decimal.NewFromInt(10)))
}

func TestReturnModelAssumption(t *testing.T) {
	rm := ReturnModel{
		Stocks: ReturnAssumption{CAGR: 0.07},
		Bonds:  ReturnAssumption{CAGR: 0.035},
		Cash:   ReturnAssumption{CAGR: 0.02},
	}
	assert.Equal(t, 0.07, rm.Assumption(AssetStocks).CAGR)
	assert.Equal(t, 0.035, rm.Assumption(AssetBonds).CAGR)
	assert.Equal(t, 0.02, rm.Assumption(AssetCash).CAGR)
}
