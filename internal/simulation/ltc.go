package simulation

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// Gender and health shift long-term-care incidence: women face materially
// higher lifetime risk, and poor health both raises the odds and pulls
// onset earlier.
const (
	ltcFemaleProbScale = 1.2
	ltcMaleProbScale   = 0.85
	ltcMaxDurationYrs  = 10
)

// LTCEpisode is one sampled care episode for one person.
type LTCEpisode struct {
	OnsetAge      int
	DurationYears int
	CareType      string
	AnnualCost    decimal.Decimal // in base-year dollars, before inflation
}

// ltcModel samples long-term-care episodes and prices them year by year.
type ltcModel struct {
	cfg domain.LTCModel
}

func newLTCModel(cfg domain.LTCModel) *ltcModel {
	return &ltcModel{cfg: cfg}
}

// sampleEpisode draws whether the person experiences a care episode and, if
// so, its onset, duration and care setting. Returns nil when no episode
// occurs or the model is disabled.
func (m *ltcModel) sampleEpisode(p *domain.Person, deathAge int, rng *rand.Rand) *LTCEpisode {
	if !m.cfg.Enabled {
		return nil
	}
	prob := m.cfg.LifetimeProbability
	if p.Gender == domain.GenderFemale {
		prob *= ltcFemaleProbScale
	} else {
		prob *= ltcMaleProbScale
	}
	switch p.Health {
	case domain.HealthPoor:
		prob *= 1.25
	case domain.HealthExcellent:
		prob *= 0.85
	}
	if prob > 1 {
		prob = 1
	}
	if rng.Float64() >= prob {
		return nil
	}

	onset := int(math.Round(m.cfg.OnsetMeanAge + m.cfg.OnsetStdDev*boxMuller(rng.Float64(), rng.Float64())))
	if onset < p.CurrentAge {
		onset = p.CurrentAge
	}
	if onset >= deathAge {
		// Care need arrives at the end of life; model it as the final year.
		onset = deathAge - 1
		if onset < p.CurrentAge {
			return nil
		}
	}

	duration := int(math.Ceil(-m.cfg.MeanDurationYears * math.Log(1-rng.Float64())))
	if duration < 1 {
		duration = 1
	}
	if duration > ltcMaxDurationYrs {
		duration = ltcMaxDurationYrs
	}
	if onset+duration > deathAge {
		duration = deathAge - onset
		if duration < 1 {
			duration = 1
		}
	}

	care := m.sampleCareType(rng)
	return &LTCEpisode{
		OnsetAge:      onset,
		DurationYears: duration,
		CareType:      care.Name,
		AnnualCost:    care.AnnualCost,
	}
}

// sampleCareType picks a care setting by weight.
func (m *ltcModel) sampleCareType(rng *rand.Rand) domain.CareType {
	types := m.cfg.CareTypes
	if len(types) == 0 {
		types = domain.DefaultCareTypes()
	}
	var total float64
	for _, ct := range types {
		total += ct.Weight
	}
	u := rng.Float64() * total
	for _, ct := range types {
		u -= ct.Weight
		if u < 0 {
			return ct
		}
	}
	return types[len(types)-1]
}

// cost returns the out-of-pocket care cost a person's episode imposes in the
// given scenario year, after regional adjustment, care-cost inflation and any
// insurance benefit. Zero outside the episode window.
func (m *ltcModel) cost(ep *LTCEpisode, p *domain.Person, yearIdx int) decimal.Decimal {
	if ep == nil {
		return decimal.Zero
	}
	age := p.CurrentAge + yearIdx
	if age < ep.OnsetAge || age >= ep.OnsetAge+ep.DurationYears {
		return decimal.Zero
	}
	gross := ep.AnnualCost.
		Mul(m.cfg.RegionMultiplier).
		Mul(compound(m.cfg.InflationRate, yearIdx))
	if m.cfg.Insurance != nil {
		gross = gross.Sub(m.cfg.Insurance.AnnualBenefit)
		if gross.IsNegative() {
			gross = decimal.Zero
		}
	}
	return gross
}
