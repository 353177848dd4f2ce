package simulation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// Safe-withdrawal-rate search controls. The search runs many full
// simulations, so it uses a reduced trial count and a bounded bisection.
const (
	swrTargetSuccess = 0.90
	swrMaxTrials     = 300
	swrBisectSteps   = 12
	swrMinScale      = 0.10
	swrMaxScale      = 3.00
)

// safeWithdrawalRate finds the highest first-year withdrawal rate that still
// meets the target success probability, by bisecting a scale factor on the
// household's spending. Returns a low-confidence flag when the search budget
// runs out before the bracket closes or when no scale in range brackets the
// target.
func (e *Engine) safeWithdrawalRate(ctx context.Context, params *domain.SimulationParameters) (decimal.Decimal, bool, error) {
	totalAssets := params.Assets.Sum()
	if totalAssets.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false, nil
	}
	baseSpending := params.Expenses.Essential.
		Add(params.Expenses.Discretionary).
		Add(params.Expenses.Healthcare)
	if baseSpending.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false, nil
	}

	trials := params.Iterations
	if trials > swrMaxTrials {
		trials = swrMaxTrials
	}

	probe := func(scale float64) (bool, error) {
		p, err := e.successAtScale(ctx, params, scale, trials)
		if err != nil {
			return false, err
		}
		return p >= swrTargetSuccess, nil
	}

	lo, hi := swrMinScale, swrMaxScale
	okLo, err := probe(lo)
	if err != nil {
		return decimal.Zero, false, err
	}
	if !okLo {
		// Even a tenth of planned spending fails; report it with low
		// confidence rather than searching below the floor.
		return e.scaleToRate(params, baseSpending, totalAssets, lo), true, nil
	}
	okHi, err := probe(hi)
	if err != nil {
		return decimal.Zero, false, err
	}
	if okHi {
		// Triple spending still succeeds; the true rate lies above the cap.
		return e.scaleToRate(params, baseSpending, totalAssets, hi), true, nil
	}

	for step := 0; step < swrBisectSteps; step++ {
		mid := (lo + hi) / 2
		ok, err := probe(mid)
		if err != nil {
			return decimal.Zero, false, err
		}
		if ok {
			lo = mid
		} else {
			hi = mid
		}
	}
	return e.scaleToRate(params, baseSpending, totalAssets, lo), false, nil
}

func (e *Engine) scaleToRate(params *domain.SimulationParameters, baseSpending, totalAssets decimal.Decimal, scale float64) decimal.Decimal {
	spending := baseSpending.Mul(decimal.NewFromFloat(scale))
	return spending.Div(totalAssets)
}

// successAtScale runs a reduced simulation with all spending scaled and
// returns the success probability. The same seed is reused so successive
// probes differ only in spending.
func (e *Engine) successAtScale(ctx context.Context, params *domain.SimulationParameters, scale float64, trials int) (float64, error) {
	scaled := *params
	s := decimal.NewFromFloat(scale)
	scaled.Expenses = domain.AnnualExpenses{
		Essential:     params.Expenses.Essential.Mul(s),
		Discretionary: params.Expenses.Discretionary.Mul(s),
		Healthcare:    params.Expenses.Healthcare.Mul(s),
	}
	scaled.Iterations = trials
	scaled.LTC.Enabled = false // care shocks are reported separately, not in the rate

	runner := e.newRunner(&scaled)
	outcomes, err := e.runScenarios(ctx, runner, trials)
	if err != nil {
		return 0, err
	}
	succeeded, counted := 0, 0
	for _, o := range outcomes {
		if o.excluded {
			continue
		}
		counted++
		if o.succeeded {
			succeeded++
		}
	}
	if counted == 0 {
		return 0, nil
	}
	return float64(succeeded) / float64(counted), nil
}
