package simulation

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifecast/retirement-engine/internal/domain"
)

func baseEngineParams() *domain.SimulationParameters {
	return &domain.SimulationParameters{
		BaseYear:   2025,
		Iterations: 200,
		Seed:       42,
		Household: domain.Household{
			Primary: domain.Person{
				CurrentAge:     65,
				RetirementAge:  65,
				Gender:         domain.GenderMale,
				Health:         domain.HealthGood,
				SSMonthlyAtFRA: decimal.NewFromInt(2400),
				SSClaimAge:     67,
			},
		},
		Assets: domain.AssetBuckets{
			TaxDeferred:     decimal.NewFromInt(500000),
			TaxFree:         decimal.NewFromInt(100000),
			CapitalGains:    decimal.NewFromInt(200000),
			CashEquivalents: decimal.NewFromInt(50000),
			TotalAssets:     decimal.NewFromInt(850000),
		},
		Expenses: domain.AnnualExpenses{
			Essential:     decimal.NewFromInt(40000),
			Discretionary: decimal.NewFromInt(15000),
			Healthcare:    decimal.NewFromInt(6000),
		},
		Inflation: domain.InflationRates{
			General:    decimal.NewFromFloat(0.025),
			Healthcare: decimal.NewFromFloat(0.05),
			SSCOLA:     decimal.NewFromFloat(0.02),
		},
		Returns: domain.ReturnModel{
			Stocks:        domain.ReturnAssumption{CAGR: 0.07, Volatility: 0.16},
			Bonds:         domain.ReturnAssumption{CAGR: 0.035, Volatility: 0.055},
			Cash:          domain.ReturnAssumption{CAGR: 0.02, Volatility: 0.01},
			StockBondCorr: -0.1,
		},
		Allocation: domain.AllocationPolicy{
			Mode:   domain.AllocationFixed,
			Stocks: 0.6,
			Bonds:  0.35,
			Cash:   0.05,
		},
		Mortality: domain.MortalityAssumptions{Dynamic: false, PlanningHorizonAge: 90},
	}
}

func TestRunIsReproducible(t *testing.T) {
	engine := NewEngine(nil)

	first, err := engine.Run(context.Background(), baseEngineParams())
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), baseEngineParams())
	require.NoError(t, err)

	assert.True(t, first.SuccessProbability.Equal(second.SuccessProbability))
	assert.True(t, first.MeanEndingBalance.Equal(second.MeanEndingBalance))
	assert.True(t, first.EndingBalanceP50.Equal(second.EndingBalanceP50))
	assert.True(t, first.SafeWithdrawalRate.Equal(second.SafeWithdrawalRate))
	assert.Equal(t, first.Counts, second.Counts)
}

func TestRunCountsAddUp(t *testing.T) {
	engine := NewEngine(nil)
	result, err := engine.Run(context.Background(), baseEngineParams())
	require.NoError(t, err)

	c := result.Counts
	assert.Equal(t, 200, c.Total)
	assert.Equal(t, c.Total, c.Succeeded+c.Failed+c.Excluded)

	one := decimal.NewFromInt(1)
	assert.True(t, result.SuccessProbability.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, result.SuccessProbability.LessThanOrEqual(one))
	assert.True(t, result.LegacyGoalProbability.LessThanOrEqual(result.SuccessProbability),
		"legacy goal requires success first")
}

func TestRunPercentilesOrdered(t *testing.T) {
	engine := NewEngine(nil)
	result, err := engine.Run(context.Background(), baseEngineParams())
	require.NoError(t, err)

	assert.True(t, result.EndingBalanceP10.LessThanOrEqual(result.EndingBalanceP50))
	assert.True(t, result.EndingBalanceP50.LessThanOrEqual(result.EndingBalanceP90))
	assert.NotEmpty(t, result.Yearly, "median scenario path should be recorded")
}

func TestZeroAssetsWithCoveringIncomeAlwaysSucceeds(t *testing.T) {
	params := baseEngineParams()
	params.Assets = domain.AssetBuckets{}
	params.Household.Primary.SSMonthlyAtFRA = decimal.NewFromInt(5200)
	params.Household.Primary.SSClaimAge = 65
	params.Expenses = domain.AnnualExpenses{Essential: decimal.NewFromInt(15000)}
	params.Inflation = domain.InflationRates{
		General: decimal.NewFromFloat(0.02),
		SSCOLA:  decimal.NewFromFloat(0.02),
	}

	engine := NewEngine(nil)
	result, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	// Guaranteed income covers spending in every scenario, so this must be
	// exact, not approximate.
	assert.True(t, result.SuccessProbability.Equal(decimal.NewFromInt(1)),
		"got %s", result.SuccessProbability)
	assert.Equal(t, 0, result.Counts.Failed)
}

func TestZeroAssetsIncomeExactlyMatchingSpendingSucceeds(t *testing.T) {
	params := baseEngineParams()
	params.Assets = domain.AssetBuckets{}
	params.Household.Primary.SSMonthlyAtFRA = decimal.NewFromFloat(4807.69)
	params.Household.Primary.SSClaimAge = 65
	// Part B premiums add 2220 a year, bringing total outlay to the benefit.
	params.Expenses = domain.AnnualExpenses{Essential: decimal.NewFromInt(47780)}
	params.Inflation = domain.InflationRates{}
	params.Mortality = domain.MortalityAssumptions{Dynamic: false, PlanningHorizonAge: 85}

	engine := NewEngine(nil)
	result, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	assert.True(t, result.SuccessProbability.Equal(decimal.NewFromInt(1)),
		"got %s", result.SuccessProbability)
	assert.Equal(t, 0, result.Counts.Failed)

	// Nothing to withdraw from and nothing needed: every year breaks even.
	require.Len(t, result.Yearly, 20)
	for _, y := range result.Yearly {
		assert.True(t, y.TotalWithdrawal.IsZero(), "year %d withdrew %s", y.Year, y.TotalWithdrawal)
	}
}

func TestZeroAssetsWithoutIncomeAlwaysFails(t *testing.T) {
	params := baseEngineParams()
	params.Assets = domain.AssetBuckets{}
	params.Household.Primary.SSMonthlyAtFRA = decimal.Zero
	params.Expenses = domain.AnnualExpenses{Essential: decimal.NewFromInt(15000)}

	engine := NewEngine(nil)
	result, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	assert.True(t, result.SuccessProbability.IsZero(), "got %s", result.SuccessProbability)
	assert.Equal(t, 200, result.Counts.Failed)
}

func TestMoreAssetsNeverHurt(t *testing.T) {
	poor := baseEngineParams()
	poor.Assets = domain.AssetBuckets{
		CashEquivalents: decimal.NewFromInt(10000),
		TotalAssets:     decimal.NewFromInt(10000),
	}

	rich := baseEngineParams()
	rich.Assets = domain.AssetBuckets{
		TaxDeferred:     decimal.NewFromInt(1500000),
		TaxFree:         decimal.NewFromInt(250000),
		CapitalGains:    decimal.NewFromInt(200000),
		CashEquivalents: decimal.NewFromInt(50000),
		TotalAssets:     decimal.NewFromInt(2000000),
	}

	engine := NewEngine(nil)
	poorResult, err := engine.Run(context.Background(), poor)
	require.NoError(t, err)
	richResult, err := engine.Run(context.Background(), rich)
	require.NoError(t, err)

	assert.True(t, richResult.SuccessProbability.GreaterThanOrEqual(poorResult.SuccessProbability),
		"rich %s vs poor %s", richResult.SuccessProbability, poorResult.SuccessProbability)
}

func TestLTCInsuranceNeverDecreasesSuccess(t *testing.T) {
	uninsured := baseEngineParams()
	uninsured.LTC = domain.LTCModel{Enabled: true, LifetimeProbability: 1.0}

	insured := baseEngineParams()
	insured.LTC = domain.LTCModel{
		Enabled:             true,
		LifetimeProbability: 1.0,
		Insurance:           &domain.LTCInsurance{AnnualBenefit: decimal.NewFromInt(150000)},
	}

	engine := NewEngine(nil)
	without, err := engine.Run(context.Background(), uninsured)
	require.NoError(t, err)
	with, err := engine.Run(context.Background(), insured)
	require.NoError(t, err)

	assert.True(t, with.SuccessProbability.GreaterThanOrEqual(without.SuccessProbability),
		"insured %s vs uninsured %s", with.SuccessProbability, without.SuccessProbability)

	require.NotNil(t, without.LTC)
	assert.True(t, without.LTC.OccurrenceProbability.GreaterThan(decimal.NewFromFloat(0.5)),
		"near-certain lifetime probability should show up in occurrence stats")
}

func TestVarianceReductionModesRunAndReproduce(t *testing.T) {
	params := baseEngineParams()
	params.Returns.VarianceReduction = domain.VarianceReduction{
		Antithetic:     true,
		Stratified:     true,
		ControlVariate: true,
	}

	engine := NewEngine(nil)
	first, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	params2 := baseEngineParams()
	params2.Returns.VarianceReduction = domain.VarianceReduction{
		Antithetic:     true,
		Stratified:     true,
		ControlVariate: true,
	}
	second, err := engine.Run(context.Background(), params2)
	require.NoError(t, err)

	assert.True(t, first.SuccessProbability.Equal(second.SuccessProbability))
	assert.True(t, first.AdjustedMeanEndingBalance.Equal(second.AdjustedMeanEndingBalance))
	assert.True(t, first.AdjustedMeanEndingBalance.GreaterThan(decimal.Zero))
}

func TestGuardrailsReduceFailures(t *testing.T) {
	params := baseEngineParams()
	params.Withdrawal.GuardrailsEnabled = true

	engine := NewEngine(nil)
	result, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	total := result.Guardrails.TotalCuts + result.Guardrails.TotalRaises
	assert.GreaterOrEqual(t, total, 0)
	assert.True(t, result.Guardrails.AverageAdjustments.GreaterThanOrEqual(decimal.Zero))
}

// warnCaptureLogger records Warnf output for assertions.
type warnCaptureLogger struct {
	warnings []string
}

func (l *warnCaptureLogger) Debugf(format string, args ...any) {}
func (l *warnCaptureLogger) Infof(format string, args ...any)  {}
func (l *warnCaptureLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}
func (l *warnCaptureLogger) Errorf(format string, args ...any) {}

func TestNonFiniteDrawsExcludeAndLogScenarios(t *testing.T) {
	params := baseEngineParams()
	// A stress regime with an unbounded mean shift drives every sampled
	// return non-finite in the first year.
	params.Returns.Regime = &domain.RegimeModel{
		StressProbability:   1.0,
		RecoveryProbability: 0,
		StressMeanShift:     math.Inf(1),
		StressVolMultiplier: 1,
	}

	logger := &warnCaptureLogger{}
	engine := NewEngine(logger)
	result, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 200, result.Counts.Excluded)
	assert.Equal(t, 0, result.Counts.Succeeded)
	assert.Equal(t, 0, result.Counts.Failed)
	assert.True(t, result.SuccessProbability.IsZero())

	assert.Contains(t, logger.warnings, "scenario 0 excluded for numeric instability in year 0")
	assert.Contains(t, logger.warnings, "scenario 199 excluded for numeric instability in year 0")
}

func TestRunLeavesCallerParametersUntouched(t *testing.T) {
	params := baseEngineParams()

	_, err := NewEngine(nil).Run(context.Background(), params)
	require.NoError(t, err)

	// Defaults apply to a private copy, never the caller's struct.
	assert.Empty(t, params.Taxes.FilingStatus)
	assert.True(t, params.CostBasisFraction.IsZero())
	assert.True(t, params.Household.SurvivorSpendingFactor.IsZero())
}

func TestCancelledRunReturnsNoPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(nil)
	result, err := engine.Run(ctx, baseEngineParams())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrRunAborted)
	assert.True(t, IsRetryable(err))
}

func TestInvalidParametersRejected(t *testing.T) {
	params := baseEngineParams()
	params.Allocation.Stocks = 0.9 // weights no longer sum to 1

	engine := NewEngine(nil)
	result, err := engine.Run(context.Background(), params)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidParameter(err))
	assert.False(t, IsRetryable(err))
}

func TestDynamicMortalityRunsAndReproduces(t *testing.T) {
	dynamic := baseEngineParams()
	dynamic.Mortality = domain.MortalityAssumptions{Dynamic: true, PlanningHorizonAge: 90}

	engine := NewEngine(nil)
	first, err := engine.Run(context.Background(), dynamic)
	require.NoError(t, err)

	dynamic2 := baseEngineParams()
	dynamic2.Mortality = domain.MortalityAssumptions{Dynamic: true, PlanningHorizonAge: 90}
	second, err := engine.Run(context.Background(), dynamic2)
	require.NoError(t, err)

	assert.True(t, first.SuccessProbability.Equal(second.SuccessProbability))
	assert.True(t, first.SuccessProbability.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, first.SuccessProbability.LessThanOrEqual(decimal.NewFromInt(1)))
}

func TestSafeWithdrawalRateBounds(t *testing.T) {
	engine := NewEngine(nil)
	result, err := engine.Run(context.Background(), baseEngineParams())
	require.NoError(t, err)

	assert.True(t, result.SafeWithdrawalRate.GreaterThanOrEqual(decimal.Zero))
	// A 3x spending cap on an ordinary plan keeps the rate well under 100%.
	assert.True(t, result.SafeWithdrawalRate.LessThan(decimal.NewFromInt(1)))
}
