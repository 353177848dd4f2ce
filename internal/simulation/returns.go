package simulation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// Market regime labels recorded on each yearly cash flow.
const (
	RegimeNormal = "normal"
	RegimeStress = "stress"
)

// Cagr2Aagr converts a compound annual growth rate to the arithmetic mean
// used as the sampling mean. Sampling with the compound rate directly would
// double-count volatility drag and bias outcomes downward.
func Cagr2Aagr(cagr, volatility float64) float64 {
	return cagr + volatility*volatility/2
}

// Aagr2Cagr is the inverse of Cagr2Aagr:
// Aagr2Cagr(Cagr2Aagr(x, v), v) == x.
func Aagr2Cagr(aagr, volatility float64) float64 {
	return aagr - volatility*volatility/2
}

// ReturnDraw is one year's sampled return per asset class for one scenario.
type ReturnDraw struct {
	ByClass [domain.NumAssetClasses]float64
	Regime  string
}

// ReturnGenerator produces correlated annual returns with the configured
// variance-reduction modes. It is immutable after construction and shared
// read-only across workers; all mutable sampling state lives in the
// per-scenario ReturnStream.
type ReturnGenerator struct {
	model    *domain.ReturnModel
	strataN  int
	maxYears int
	strata   [][]int // dim = yearIdx*NumAssetClasses + class
}

// NewReturnGenerator builds the generator. strataN is the number of strata
// (scenarios, or antithetic pairs) for Latin-hypercube sampling; it is
// ignored unless stratification is enabled.
func NewReturnGenerator(model *domain.ReturnModel, strataN, maxYears int, ctx *rngContext) *ReturnGenerator {
	g := &ReturnGenerator{
		model:    model,
		strataN:  strataN,
		maxYears: maxYears,
	}
	if model.VarianceReduction.Stratified && strataN > 1 {
		dims := maxYears * int(domain.NumAssetClasses)
		g.strata = make([][]int, dims)
		for d := 0; d < dims; d++ {
			g.strata[d] = ctx.permutation(d, strataN)
		}
	}
	return g
}

// PortfolioAAGR returns the allocation-weighted arithmetic mean return, the
// analytic expectation of a single year's portfolio growth minus one. Used by
// the control-variate adjustment.
func (g *ReturnGenerator) PortfolioAAGR(weights [domain.NumAssetClasses]float64) float64 {
	var sum float64
	for a := domain.AssetClass(0); a < domain.NumAssetClasses; a++ {
		ra := g.model.Assumption(a)
		sum += weights[a] * Cagr2Aagr(ra.CAGR, ra.Volatility)
	}
	return sum
}

// ReturnStream is the per-scenario sampling state. Not safe for concurrent
// use; each scenario owns exactly one.
type ReturnStream struct {
	gen       *ReturnGenerator
	stratum   int
	rng       *rand.Rand
	regimeRNG *rand.Rand
	mirror    bool
	inStress  bool
}

// Stream creates the sampling stream for one scenario. stratum selects the
// Latin-hypercube stratum; mirror flags the antithetic pair member that
// negates every sampled normal.
func (g *ReturnGenerator) Stream(stratum int, rng, regimeRNG *rand.Rand, mirror bool) *ReturnStream {
	return &ReturnStream{gen: g, stratum: stratum, rng: rng, regimeRNG: regimeRNG, mirror: mirror}
}

// uniform draws the primary uniform for one (year, class) dimension,
// stratified across scenarios when Latin-hypercube sampling is on.
func (s *ReturnStream) uniform(yearIdx int, class domain.AssetClass) float64 {
	u := s.rng.Float64()
	if s.gen.strata == nil {
		return u
	}
	dim := yearIdx*int(domain.NumAssetClasses) + int(class)
	if dim >= len(s.gen.strata) {
		return u // beyond the precomputed horizon; fall back to plain sampling
	}
	slot := s.gen.strata[dim][s.stratum%s.gen.strataN]
	return (float64(slot) + u) / float64(s.gen.strataN)
}

// boxMuller converts two uniforms to a standard normal.
func boxMuller(u1, u2 float64) float64 {
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Draw samples one year's returns for every asset class. The same regime
// applies to all classes, preserving cross-class correlation under stress.
// A non-finite sample is reported as an error so the scenario can be excluded
// rather than poisoning the aggregate.
func (s *ReturnStream) Draw(yearIdx int) (ReturnDraw, error) {
	regime := RegimeNormal
	if rm := s.gen.model.Regime; rm != nil {
		if s.inStress {
			if s.regimeRNG.Float64() < rm.RecoveryProbability {
				s.inStress = false
			}
		} else {
			if s.regimeRNG.Float64() < rm.StressProbability {
				s.inStress = true
			}
		}
		if s.inStress {
			regime = RegimeStress
		}
	}

	var z [domain.NumAssetClasses]float64
	for a := domain.AssetClass(0); a < domain.NumAssetClasses; a++ {
		u1 := s.uniform(yearIdx, a)
		u2 := s.rng.Float64()
		z[a] = boxMuller(u1, u2)
		if math.IsNaN(z[a]) || math.IsInf(z[a], 0) {
			return ReturnDraw{}, fmt.Errorf("non-finite normal draw in year %d", yearIdx)
		}
	}
	if s.mirror {
		for a := range z {
			z[a] = -z[a]
		}
	}

	// Correlate stocks and bonds; cash stays independent.
	corr := s.gen.model.StockBondCorr
	zs := z[domain.AssetStocks]
	zb := corr*z[domain.AssetStocks] + math.Sqrt(1-corr*corr)*z[domain.AssetBonds]
	zc := z[domain.AssetCash]
	correlated := [domain.NumAssetClasses]float64{zs, zb, zc}

	draw := ReturnDraw{Regime: regime}
	for a := domain.AssetClass(0); a < domain.NumAssetClasses; a++ {
		ra := s.gen.model.Assumption(a)
		mean := Cagr2Aagr(ra.CAGR, ra.Volatility)
		vol := ra.Volatility
		if regime == RegimeStress {
			mean += s.gen.model.Regime.StressMeanShift
			vol *= s.gen.model.Regime.StressVolMultiplier
		}
		r := mean + vol*correlated[a]
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return ReturnDraw{}, fmt.Errorf("non-finite return for %s in year %d", a, yearIdx)
		}
		// A single year cannot lose more than the position itself.
		if r < -0.95 {
			r = -0.95
		}
		draw.ByClass[a] = r
	}
	return draw, nil
}
