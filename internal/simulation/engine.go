package simulation

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/lifecast/retirement-engine/internal/domain"
	"github.com/lifecast/retirement-engine/pkg/stats"
)

// Engine runs Monte Carlo retirement simulations. Safe for concurrent use;
// each Run derives all of its state from the parameters and seed it is given.
type Engine struct {
	logger  Logger
	workers int
}

// NewEngine creates an engine sized to the machine's CPU count.
func NewEngine(logger Logger) *Engine {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Engine{logger: logger, workers: runtime.NumCPU()}
}

// Run validates the parameters, simulates every scenario and aggregates the
// outcome. Results are bit-identical for identical (parameters, seed) pairs
// regardless of worker count or scheduling. Cancellation is all-or-nothing:
// a cancelled run returns ErrRunAborted and no partial result. The caller's
// parameters are never mutated; defaults are applied to a private copy.
func (e *Engine) Run(ctx context.Context, params *domain.SimulationParameters) (*domain.SimulationResult, error) {
	p := *params
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	params = &p

	runner := e.newRunner(params)
	outcomes, err := e.runScenarios(ctx, runner, params.Iterations)
	if err != nil {
		return nil, err
	}

	result := e.aggregate(params, runner, outcomes)

	if params.LTC.Enabled {
		impact, err := e.ltcImpact(ctx, params, result.SuccessProbability, outcomes)
		if err != nil {
			return nil, err
		}
		result.LTC = impact
	}

	swr, lowConfidence, err := e.safeWithdrawalRate(ctx, params)
	if err != nil {
		return nil, err
	}
	result.SafeWithdrawalRate = swr
	result.SWRLowConfidence = lowConfidence

	e.logger.Infof("run complete: %d scenarios, success probability %s",
		params.Iterations, result.SuccessProbability.StringFixed(4))
	return result, nil
}

func (e *Engine) newRunner(params *domain.SimulationParameters) *scenarioRunner {
	youngest := params.Household.Primary.CurrentAge
	if params.Household.Spouse != nil && params.Household.Spouse.CurrentAge < youngest {
		youngest = params.Household.Spouse.CurrentAge
	}
	maxYears := maxAttainableAge - youngest
	if maxYears < 1 {
		maxYears = 1
	}
	return newScenarioRunner(params, newRNGContext(params.Seed), maxYears)
}

// runScenarios fans scenario indices out to the worker pool and collects
// outcomes in index order so aggregation never depends on scheduling.
func (e *Engine) runScenarios(ctx context.Context, runner *scenarioRunner, iterations int) ([]scenarioOutcome, error) {
	outcomes := make([]scenarioOutcome, iterations)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = runner.run(i, false)
			}
		}()
	}

	aborted := false
feed:
	for i := 0; i < iterations; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			aborted = true
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if aborted || ctx.Err() != nil {
		return nil, ErrRunAborted
	}
	return outcomes, nil
}

func (e *Engine) aggregate(params *domain.SimulationParameters, runner *scenarioRunner, outcomes []scenarioOutcome) *domain.SimulationResult {
	result := &domain.SimulationResult{
		Iterations: params.Iterations,
		Seed:       params.Seed,
	}

	var endingBalances []decimal.Decimal
	var depletionYears []decimal.Decimal
	succeeded, failed, excluded, metLegacy := 0, 0, 0, 0
	totalCuts, totalRaises := 0, 0

	for i, o := range outcomes {
		if o.excluded {
			excluded++
			e.logger.Warnf("scenario %d excluded for numeric instability in year %d", i, o.excludedYear)
			continue
		}
		if o.succeeded {
			succeeded++
		} else {
			failed++
		}
		if o.metLegacyGoal {
			metLegacy++
		}
		if o.yearsToDepletion >= 0 {
			depletionYears = append(depletionYears, decimal.NewFromInt(int64(o.yearsToDepletion)))
		}
		endingBalances = append(endingBalances, o.endingBalance)
		totalCuts += o.cuts
		totalRaises += o.raises
	}

	counted := succeeded + failed
	result.Counts = domain.ScenarioCounts{
		Succeeded: succeeded,
		Failed:    failed,
		Excluded:  excluded,
		Total:     len(outcomes),
	}
	if counted > 0 {
		n := decimal.NewFromInt(int64(counted))
		result.SuccessProbability = decimal.NewFromInt(int64(succeeded)).Div(n)
		result.LegacyGoalProbability = decimal.NewFromInt(int64(metLegacy)).Div(n)
		result.Guardrails = domain.GuardrailStats{
			AverageAdjustments: decimal.NewFromInt(int64(totalCuts + totalRaises)).Div(n),
			TotalCuts:          totalCuts,
			TotalRaises:        totalRaises,
		}
	}

	result.EndingBalanceP10 = stats.Percentile(endingBalances, 0.10)
	result.EndingBalanceP50 = stats.Percentile(endingBalances, 0.50)
	result.EndingBalanceP90 = stats.Percentile(endingBalances, 0.90)
	result.MeanEndingBalance = stats.Mean(endingBalances)
	result.AdjustedMeanEndingBalance = e.controlVariateAdjust(params, runner, outcomes, result.MeanEndingBalance)
	result.MeanYearsToDepletion = stats.Mean(depletionYears)

	result.Yearly = e.medianScenarioYearly(runner, outcomes, result.EndingBalanceP50)
	return result
}

// controlVariateAdjust corrects the mean ending balance using the known
// expectation of cumulative portfolio growth. The control for scenario i is
// the product of its yearly growth factors, whose analytic expectation is
// (1+aagr)^years; dividing the simulated control mean into the analytic one
// yields a multiplicative correction for sampling luck.
func (e *Engine) controlVariateAdjust(params *domain.SimulationParameters, runner *scenarioRunner, outcomes []scenarioOutcome, mean decimal.Decimal) decimal.Decimal {
	if !params.Returns.VarianceReduction.ControlVariate {
		return mean
	}
	weights := allocationWeights(&params.Allocation, params.Household.Primary.RetirementAge)
	aagr := runner.returns.PortfolioAAGR(weights)

	var simulated, analytic float64
	var n int
	for _, o := range outcomes {
		if o.excluded || o.controlYears == 0 {
			continue
		}
		simulated += o.controlVariate
		analytic += math.Pow(1+aagr, float64(o.controlYears))
		n++
	}
	if n == 0 || simulated <= 0 {
		return mean
	}
	ratio := analytic / simulated
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return mean
	}
	return mean.Mul(decimal.NewFromFloat(ratio))
}

// medianScenarioYearly replays the scenario whose ending balance sits at the
// median and returns its yearly detail. Replay is cheap and exact because
// scenario i is a pure function of (parameters, seed, i).
func (e *Engine) medianScenarioYearly(runner *scenarioRunner, outcomes []scenarioOutcome, median decimal.Decimal) []domain.YearlyCashFlow {
	best := -1
	var bestDist decimal.Decimal
	for i, o := range outcomes {
		if o.excluded {
			continue
		}
		dist := o.endingBalance.Sub(median).Abs()
		if best == -1 || dist.LessThan(bestDist) {
			best, bestDist = i, dist
		}
	}
	if best == -1 {
		return nil
	}
	replay := runner.run(best, true)
	return replay.yearly
}

// ltcImpact isolates the long-term-care effect by running a counterfactual
// with care risk disabled and the same seed, so the two runs differ only in
// care episodes.
func (e *Engine) ltcImpact(ctx context.Context, params *domain.SimulationParameters, withLTC decimal.Decimal, outcomes []scenarioOutcome) (*domain.LTCImpact, error) {
	occurred := 0
	counted := 0
	costSum := decimal.Zero
	for _, o := range outcomes {
		if o.excluded {
			continue
		}
		counted++
		if o.ltcOccurred {
			occurred++
			costSum = costSum.Add(o.ltcCost)
		}
	}
	impact := &domain.LTCImpact{}
	if counted > 0 {
		impact.OccurrenceProbability = decimal.NewFromInt(int64(occurred)).Div(decimal.NewFromInt(int64(counted)))
	}
	if occurred > 0 {
		impact.AverageEpisodeCost = costSum.Div(decimal.NewFromInt(int64(occurred)))
	}

	baseline := *params
	baseline.LTC.Enabled = false
	runner := e.newRunner(&baseline)
	baseOutcomes, err := e.runScenarios(ctx, runner, baseline.Iterations)
	if err != nil {
		return nil, err
	}
	baseSucceeded, baseCounted := 0, 0
	for _, o := range baseOutcomes {
		if o.excluded {
			continue
		}
		baseCounted++
		if o.succeeded {
			baseSucceeded++
		}
	}
	if baseCounted > 0 {
		without := decimal.NewFromInt(int64(baseSucceeded)).Div(decimal.NewFromInt(int64(baseCounted)))
		impact.SuccessProbabilityDelta = withLTC.Sub(without)
	}
	return impact, nil
}
