package simulation

import (
	"github.com/shopspring/decimal"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// Gross-up convergence controls. The withdrawal amount and the tax it
// triggers depend on each other, so the scenario iterates to a fixed point.
const (
	grossUpMaxIterations = 40
)

var grossUpTolerance = decimal.NewFromFloat(0.50)

// scenarioOutcome is one scenario's contribution to the aggregate.
type scenarioOutcome struct {
	succeeded        bool
	excluded         bool
	excludedYear     int // scenario year of the non-finite draw or unstable gross-up
	endingBalance    decimal.Decimal
	yearsToDepletion int // -1 when funds never ran out
	metLegacyGoal    bool

	// control-variate accumulator: product of (1+portfolio return) over the
	// scenario's years
	controlVariate float64
	controlYears   int

	cuts   int
	raises int

	ltcOccurred bool
	ltcCost     decimal.Decimal

	yearly []domain.YearlyCashFlow // populated only when recording is requested
}

// scenarioRunner holds the immutable models shared by every scenario of a
// run. Safe for concurrent use; per-scenario state is created inside run.
type scenarioRunner struct {
	params   *domain.SimulationParameters
	returns  *ReturnGenerator
	life     *lifeModel
	ltc      *ltcModel
	income   *incomeModel
	taxes    *taxModel
	medicare *medicareModel
	ctx      *rngContext
}

func newScenarioRunner(params *domain.SimulationParameters, ctx *rngContext, maxYears int) *scenarioRunner {
	strataN := params.Iterations
	if params.Returns.VarianceReduction.Antithetic {
		strataN = (params.Iterations + 1) / 2
	}
	return &scenarioRunner{
		params:   params,
		returns:  NewReturnGenerator(&params.Returns, strataN, maxYears, ctx),
		life:     newLifeModel(params.Mortality),
		ltc:      newLTCModel(params.LTC),
		income:   newIncomeModel(&params.Household, params.Inflation),
		taxes:    newTaxModel(params.Taxes),
		medicare: newMedicareModel(params.Taxes),
		ctx:      ctx,
	}
}

// run simulates scenario i. Antithetic pair members share every stream seed
// and a stratum; the odd member mirrors the return normals.
func (r *scenarioRunner) run(i int, recordYearly bool) scenarioOutcome {
	pair, mirror := i, false
	if r.params.Returns.VarianceReduction.Antithetic {
		pair, mirror = i/2, i%2 == 1
	}

	h := &r.params.Household
	hz := r.life.sampleHorizon(h, r.ctx.source(pair, streamLife))

	ltcRNG := r.ctx.source(pair, streamLTC)
	primaryEpisode := r.ltc.sampleEpisode(&h.Primary, hz.primaryDeathAge, ltcRNG)
	var spouseEpisode *LTCEpisode
	if h.Spouse != nil {
		spouseEpisode = r.ltc.sampleEpisode(h.Spouse, hz.spouseDeathAge, ltcRNG)
	}

	stream := r.returns.Stream(pair, r.ctx.source(pair, streamReturns), r.ctx.source(pair, streamRegime), mirror)
	guardrails := newGuardrailController(r.params.Withdrawal)
	port := newPortfolio(r.params.Assets, r.params.CostBasisFraction)
	birthYear := r.params.BaseYear - h.Primary.CurrentAge

	out := scenarioOutcome{
		succeeded:        true,
		yearsToDepletion: -1,
		controlVariate:   1,
		ltcOccurred:      primaryEpisode != nil || spouseEpisode != nil,
	}
	magiHistory := make([]decimal.Decimal, 0, hz.years)

	for yearIdx := 0; yearIdx < hz.years; yearIdx++ {
		primaryAlive, spouseAlive := hz.aliveAt(h, yearIdx)
		primaryAge := h.Primary.CurrentAge + yearIdx
		spouseAge := 0
		if h.Spouse != nil {
			spouseAge = h.Spouse.CurrentAge + yearIdx
		}
		weights := allocationWeights(&r.params.Allocation, primaryAge)

		draw, err := stream.Draw(yearIdx)
		if err != nil {
			out.excluded = true
			out.excludedYear = yearIdx
			out.succeeded = false
			return out
		}
		blended := port.grow(draw, weights)
		out.controlVariate *= 1 + blended
		out.controlYears++

		record := domain.YearlyCashFlow{
			Year:         r.params.BaseYear + yearIdx,
			AgePrimary:   primaryAge,
			AgeSpouse:    spouseAge,
			Regime:       draw.Regime,
			PrimaryAlive: primaryAlive,
			SpouseAlive:  spouseAlive,
		}

		if primaryAlive && primaryAge < h.Primary.RetirementAge {
			// Accumulation: salary covers spending, savings flow in, nothing
			// comes out.
			port.contribute(r.params.AnnualSavings)
			magiHistory = append(magiHistory, decimal.Zero)
			if recordYearly {
				r.fillBalances(&record, port)
				out.yearly = append(out.yearly, record)
			}
			continue
		}

		gi := r.income.year(yearIdx, primaryAlive, spouseAlive)
		essential, discretionary, healthcare := r.income.expenses(r.params.Expenses, yearIdx, primaryAlive, spouseAlive)
		discretionary = guardrails.adjustedDiscretionary(discretionary)

		ltcCost := decimal.Zero
		if primaryAlive {
			ltcCost = ltcCost.Add(r.ltc.cost(primaryEpisode, &h.Primary, yearIdx))
		}
		if spouseAlive {
			ltcCost = ltcCost.Add(r.ltc.cost(spouseEpisode, h.Spouse, yearIdx))
		}
		out.ltcCost = out.ltcCost.Add(ltcCost)

		enrollees := 0
		if primaryAlive && primaryAge >= medicareEligibilityAge {
			enrollees++
		}
		if spouseAlive && spouseAge >= medicareEligibilityAge {
			enrollees++
		}
		medicarePremium := r.medicare.annualPremium(yearIdx, magiHistory, enrollees)

		spending := essential.Add(discretionary).Add(healthcare).Add(ltcCost).Add(medicarePremium)

		rmdAge := primaryAge
		if !primaryAlive && spouseAlive {
			rmdAge = spouseAge
			birthYear = r.params.BaseYear - h.Spouse.CurrentAge
		}
		rmd := requiredMinimumDistribution(rmdAge, birthYear, port.taxDeferred)

		age65Count := 0
		if primaryAlive && primaryAge >= 65 {
			age65Count++
		}
		if spouseAlive && spouseAge >= 65 {
			age65Count++
		}

		plan, tax, converged := r.grossUp(port, gi, spending, rmd, age65Count)
		if !converged {
			out.excluded = true
			out.excludedYear = yearIdx
			out.succeeded = false
			return out
		}

		balanceBeforeWithdrawal := port.total()
		port.apply(plan)

		net := gi.Total().Add(plan.Total()).Sub(tax.Federal).Sub(tax.State).Sub(spending)
		if net.IsPositive() {
			port.depositCash(net)
		}

		action := guardrails.observe(plan.Total(), balanceBeforeWithdrawal)
		magiHistory = append(magiHistory, tax.MAGI)

		if recordYearly {
			r.fillBalances(&record, port)
			record.SocialSecurity = gi.SocialSecurity
			record.PensionIncome = gi.Pension
			record.PartTimeIncome = gi.PartTime
			record.TotalGuaranteedIncome = gi.Total()
			record.WithdrawalTaxDeferred = plan.FromTaxDeferred
			record.WithdrawalTaxFree = plan.FromTaxFree
			record.WithdrawalCapitalGains = plan.FromTaxable
			record.WithdrawalCash = plan.FromCash
			record.TotalWithdrawal = plan.Total()
			record.FederalTax = tax.Federal
			record.StateTax = tax.State
			record.MedicarePremium = medicarePremium
			record.TotalTax = tax.Federal.Add(tax.State)
			record.Expenses = spending
			record.LTCCost = ltcCost
			record.NetCashFlow = net
			record.RMDAmount = plan.RMD
			record.GuardrailAction = action
			out.yearly = append(out.yearly, record)
		}

		// Failure the year resources cannot cover spending and taxes.
		shortfall := spending.Add(tax.Federal).Add(tax.State).Sub(gi.Total()).Sub(plan.Total())
		if shortfall.GreaterThan(grossUpTolerance) {
			out.succeeded = false
			out.yearsToDepletion = yearIdx + 1
			break
		}
	}

	out.cuts, out.raises = guardrails.adjustments()
	out.endingBalance = port.total()
	if out.succeeded {
		out.metLegacyGoal = out.endingBalance.GreaterThanOrEqual(r.params.LegacyGoal)
	}
	return out
}

func (r *scenarioRunner) fillBalances(record *domain.YearlyCashFlow, port *portfolio) {
	record.BalanceTaxDeferred = port.taxDeferred
	record.BalanceTaxFree = port.taxFree
	record.BalanceCapitalGains = port.taxable
	record.BalanceCash = port.cash
	record.BalanceTotal = port.total()
}

// grossUp finds the gross withdrawal whose after-tax proceeds, together with
// guaranteed income, cover the year's spending. The withdrawal changes the
// tax bill, which changes the withdrawal, so it iterates to a fixed point.
// When the portfolio cannot cover the need the withdrawal caps at the full
// balance; the caller detects the remaining shortfall as depletion. A loop
// that never settles while funds remain is numeric instability and reported
// as not converged.
func (r *scenarioRunner) grossUp(port *portfolio, gi guaranteedIncome, spending, rmd decimal.Decimal, age65Count int) (withdrawalPlan, taxResult, bool) {
	available := port.total()
	gross := rmd
	capped := false

	var plan withdrawalPlan
	var tax taxResult
	for iter := 0; iter < grossUpMaxIterations; iter++ {
		plan = port.planWithdrawal(gross, rmd)
		tax = r.taxes.compute(taxInput{
			OrdinaryIncome:        gi.Pension.Add(gi.PartTime).Add(plan.FromTaxDeferred),
			SocialSecurity:        gi.SocialSecurity,
			RealizedGains:         plan.RealizedGains,
			TaxDeferredWithdrawal: plan.FromTaxDeferred,
			PensionIncome:         gi.Pension,
			PartTimeIncome:        gi.PartTime,
			Age65Count:            age65Count,
		})
		need := spending.Add(tax.Federal).Add(tax.State).Sub(gi.Total())
		target := decimal.Max(rmd, need)
		if target.GreaterThan(available) {
			target = available
			capped = true
		}
		if target.Sub(gross).Abs().LessThanOrEqual(grossUpTolerance) {
			return plan, tax, true
		}
		gross = target
	}
	// A capped withdrawal that still oscillates is depletion, not
	// instability; let the caller classify it.
	return plan, tax, capped
}
