package simulation

import (
	"math"
	"math/rand"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// Gompertz-Makeham parameters calibrated against US period life tables.
// Hazard at age x is A + B*exp(G*x), scaled by health and gender multipliers.
const (
	makehamA  = 0.0002
	gompertzB = 0.0000353
	gompertzG = 0.093

	// Female mortality runs below male at every adult age.
	femaleHazardScale = 0.55

	maxAttainableAge = 120
)

// lifeModel precomputes annual death probabilities per gender so scenario
// sampling is a table walk, not repeated exponentials.
type lifeModel struct {
	assumptions domain.MortalityAssumptions
	qx          map[domain.Gender][]float64 // annual death probability by age
}

func newLifeModel(assumptions domain.MortalityAssumptions) *lifeModel {
	return &lifeModel{
		assumptions: assumptions,
		qx: map[domain.Gender][]float64{
			domain.GenderMale:   buildQx(1.0),
			domain.GenderFemale: buildQx(femaleHazardScale),
		},
	}
}

func buildQx(scale float64) []float64 {
	table := make([]float64, maxAttainableAge+1)
	for age := 0; age <= maxAttainableAge; age++ {
		hazard := scale * (makehamA + gompertzB*math.Exp(gompertzG*float64(age)))
		table[age] = 1 - math.Exp(-hazard)
	}
	return table
}

// sampleDeathAge draws the age at which the person dies, at or after their
// current age. With dynamic mortality off, everyone lives exactly to the
// planning horizon. Health status scales the hazard multiplicatively.
func (m *lifeModel) sampleDeathAge(p *domain.Person, rng *rand.Rand) int {
	if !m.assumptions.Dynamic {
		if p.CurrentAge >= m.assumptions.PlanningHorizonAge {
			return p.CurrentAge
		}
		return m.assumptions.PlanningHorizonAge
	}
	table := m.qx[p.Gender]
	mult := p.Health.HazardMultiplier()
	for age := p.CurrentAge; age < maxAttainableAge; age++ {
		q := table[age] * mult
		if q > 1 {
			q = 1
		}
		if rng.Float64() < q {
			return age
		}
	}
	return maxAttainableAge
}

// horizon is the per-scenario survival outcome. Years counts from the base
// year to the last year anyone in the household is alive.
type horizon struct {
	primaryDeathAge int
	spouseDeathAge  int // zero when single
	years           int
}

// sampleHorizon draws death ages for everyone in the household and derives
// the scenario horizon. For couples the horizon runs to the later death.
func (m *lifeModel) sampleHorizon(h *domain.Household, rng *rand.Rand) horizon {
	out := horizon{primaryDeathAge: m.sampleDeathAge(&h.Primary, rng)}
	out.years = out.primaryDeathAge - h.Primary.CurrentAge
	if h.Spouse != nil {
		out.spouseDeathAge = m.sampleDeathAge(h.Spouse, rng)
		if spouseYears := out.spouseDeathAge - h.Spouse.CurrentAge; spouseYears > out.years {
			out.years = spouseYears
		}
	}
	if out.years < 0 {
		out.years = 0
	}
	return out
}

// aliveAt reports whether each household member is alive during the given
// scenario year (zero-based from the base year).
func (hz horizon) aliveAt(h *domain.Household, yearIdx int) (primary, spouse bool) {
	primary = h.Primary.CurrentAge+yearIdx < hz.primaryDeathAge
	if h.Spouse != nil {
		spouse = h.Spouse.CurrentAge+yearIdx < hz.spouseDeathAge
	}
	return primary, spouse
}
