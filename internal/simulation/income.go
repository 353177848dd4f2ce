package simulation

import (
	"github.com/shopspring/decimal"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// Full retirement age for the claim-adjustment formula. Cohorts born 1960 or
// later all share FRA 67, which covers every plausible input today.
const fullRetirementAge = 67

// Earliest and latest meaningful claim ages.
const (
	earliestClaimAge = 62
	latestClaimAge   = 70
)

// SSClaimFactor returns the benefit multiplier for claiming at the given age
// relative to the full-retirement-age benefit. Claims before FRA are reduced
// 5/9 of 1% per month for the first 36 months and 5/12 of 1% for each month
// beyond that. Claims after FRA earn delayed credits of 2/3 of 1% per month,
// capped at age 70.
func SSClaimFactor(claimAge int) decimal.Decimal {
	if claimAge < earliestClaimAge {
		claimAge = earliestClaimAge
	}
	if claimAge > latestClaimAge {
		claimAge = latestClaimAge
	}
	months := (claimAge - fullRetirementAge) * 12
	switch {
	case months < 0:
		early := -months
		first := early
		if first > 36 {
			first = 36
		}
		rest := early - first
		reduction := decimal.NewFromInt(int64(first)).Mul(decimal.NewFromFloat(5.0 / 9.0 / 100.0)).
			Add(decimal.NewFromInt(int64(rest)).Mul(decimal.NewFromFloat(5.0 / 12.0 / 100.0)))
		return decimal.NewFromInt(1).Sub(reduction)
	case months > 0:
		credit := decimal.NewFromInt(int64(months)).Mul(decimal.NewFromFloat(2.0 / 3.0 / 100.0))
		return decimal.NewFromInt(1).Add(credit)
	default:
		return decimal.NewFromInt(1)
	}
}

// incomeModel projects the guaranteed income streams for a household. It is
// stateless per scenario; everything is a function of (household, year).
type incomeModel struct {
	household *domain.Household
	inflation domain.InflationRates
}

func newIncomeModel(h *domain.Household, inflation domain.InflationRates) *incomeModel {
	return &incomeModel{household: h, inflation: inflation}
}

// compound returns (1+rate)^years.
func compound(rate decimal.Decimal, years int) decimal.Decimal {
	return decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(years)))
}

// ssBenefit returns one person's Social Security benefit for the given
// scenario year, zero before the claim age. COLA compounds from the base
// year so that real spending erosion stays comparable across streams.
func (m *incomeModel) ssBenefit(p *domain.Person, yearIdx int) decimal.Decimal {
	age := p.CurrentAge + yearIdx
	if age < p.SSClaimAge {
		return decimal.Zero
	}
	annual := p.SSMonthlyAtFRA.Mul(SSClaimFactor(p.SSClaimAge)).Mul(decimal.NewFromInt(12))
	return annual.Mul(compound(m.inflation.SSCOLA, yearIdx))
}

// pensionIncome returns one person's pension payment for the given scenario
// year. The pension's own COLA compounds from its start year.
func (m *incomeModel) pensionIncome(p *domain.Person, yearIdx int) decimal.Decimal {
	if p.Pension == nil {
		return decimal.Zero
	}
	age := p.CurrentAge + yearIdx
	if age < p.Pension.StartAge {
		return decimal.Zero
	}
	yearsPaying := age - p.Pension.StartAge
	return p.Pension.AnnualBenefit.Mul(compound(p.Pension.COLARate, yearsPaying))
}

// partTimeIncome returns one person's part-time earnings for the given
// scenario year, inflated at the general rate and ending at the phase-out
// age.
func (m *incomeModel) partTimeIncome(p *domain.Person, yearIdx int) decimal.Decimal {
	if p.PartTime == nil {
		return decimal.Zero
	}
	age := p.CurrentAge + yearIdx
	if age < p.RetirementAge || age >= p.PartTime.PhaseOutAge {
		return decimal.Zero
	}
	return p.PartTime.AnnualIncome.Mul(compound(m.inflation.General, yearIdx))
}

// guaranteedIncome is the household income picture for one scenario year.
type guaranteedIncome struct {
	SocialSecurity decimal.Decimal
	Pension        decimal.Decimal
	PartTime       decimal.Decimal
}

func (gi guaranteedIncome) Total() decimal.Decimal {
	return gi.SocialSecurity.Add(gi.Pension).Add(gi.PartTime)
}

// year computes the household's guaranteed income given who is alive. When
// one member of a couple has died the survivor keeps the larger of the two
// Social Security benefits; the smaller stops. Pensions and part-time work
// stop with their owner.
func (m *incomeModel) year(yearIdx int, primaryAlive, spouseAlive bool) guaranteedIncome {
	var gi guaranteedIncome
	h := m.household

	primarySS := decimal.Zero
	spouseSS := decimal.Zero
	if primaryAlive {
		primarySS = m.ssBenefit(&h.Primary, yearIdx)
		gi.Pension = gi.Pension.Add(m.pensionIncome(&h.Primary, yearIdx))
		gi.PartTime = gi.PartTime.Add(m.partTimeIncome(&h.Primary, yearIdx))
	}
	if h.Spouse != nil && spouseAlive {
		spouseSS = m.ssBenefit(h.Spouse, yearIdx)
		gi.Pension = gi.Pension.Add(m.pensionIncome(h.Spouse, yearIdx))
		gi.PartTime = gi.PartTime.Add(m.partTimeIncome(h.Spouse, yearIdx))
	}

	switch {
	case primaryAlive && (h.Spouse == nil || spouseAlive):
		gi.SocialSecurity = primarySS.Add(spouseSS)
	case primaryAlive && h.Spouse != nil && !spouseAlive:
		// Survivor benefit: step up to the deceased spouse's benefit if larger.
		deceased := m.ssBenefit(h.Spouse, yearIdx)
		gi.SocialSecurity = decimal.Max(primarySS, deceased)
	case !primaryAlive && h.Spouse != nil && spouseAlive:
		deceased := m.ssBenefit(&h.Primary, yearIdx)
		gi.SocialSecurity = decimal.Max(spouseSS, deceased)
	}
	return gi
}

// expenses projects baseline household spending for one scenario year.
// Essential and discretionary inflate at the general rate, healthcare at its
// own rate. With one member of a couple deceased the survivor factor scales
// the whole baseline.
func (m *incomeModel) expenses(base domain.AnnualExpenses, yearIdx int, primaryAlive, spouseAlive bool) (essential, discretionary, healthcare decimal.Decimal) {
	general := compound(m.inflation.General, yearIdx)
	essential = base.Essential.Mul(general)
	discretionary = base.Discretionary.Mul(general)
	healthcare = base.Healthcare.Mul(compound(m.inflation.Healthcare, yearIdx))

	if m.household.IsCouple() && (primaryAlive != spouseAlive) {
		f := m.household.SurvivorSpendingFactor
		essential = essential.Mul(f)
		discretionary = discretionary.Mul(f)
		healthcare = healthcare.Mul(f)
	}
	return essential, discretionary, healthcare
}
