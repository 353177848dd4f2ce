package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifecast/retirement-engine/internal/domain"
)

func testReturnModel() *domain.ReturnModel {
	return &domain.ReturnModel{
		Stocks:        domain.ReturnAssumption{CAGR: 0.07, Volatility: 0.16},
		Bonds:         domain.ReturnAssumption{CAGR: 0.035, Volatility: 0.055},
		Cash:          domain.ReturnAssumption{CAGR: 0.02, Volatility: 0.01},
		StockBondCorr: -0.1,
	}
}

func TestCagrAagrRoundTrip(t *testing.T) {
	cases := []struct {
		cagr float64
		vol  float64
	}{
		{0.07, 0.16},
		{0.035, 0.055},
		{0.0, 0.20},
		{-0.02, 0.10},
		{0.07, 0.0},
	}
	for _, tc := range cases {
		aagr := Cagr2Aagr(tc.cagr, tc.vol)
		back := Aagr2Cagr(aagr, tc.vol)
		assert.InDelta(t, tc.cagr, back, 1e-12)
	}
}

func TestCagr2AagrAddsVolatilityDrag(t *testing.T) {
	// aagr = cagr + vol^2/2
	assert.InDelta(t, 0.0828, Cagr2Aagr(0.07, 0.16), 1e-9)
	assert.Equal(t, 0.07, Cagr2Aagr(0.07, 0))
}

func TestReturnStreamReproducible(t *testing.T) {
	model := testReturnModel()
	ctx := newRNGContext(12345)
	gen := NewReturnGenerator(model, 100, 40, ctx)

	draws := func() []ReturnDraw {
		s := gen.Stream(7, ctx.source(7, streamReturns), ctx.source(7, streamRegime), false)
		out := make([]ReturnDraw, 0, 30)
		for y := 0; y < 30; y++ {
			d, err := s.Draw(y)
			require.NoError(t, err)
			out = append(out, d)
		}
		return out
	}

	first := draws()
	second := draws()
	assert.Equal(t, first, second)
}

func TestReturnStreamsDifferAcrossScenarios(t *testing.T) {
	model := testReturnModel()
	ctx := newRNGContext(12345)
	gen := NewReturnGenerator(model, 100, 40, ctx)

	a := gen.Stream(0, ctx.source(0, streamReturns), ctx.source(0, streamRegime), false)
	b := gen.Stream(1, ctx.source(1, streamReturns), ctx.source(1, streamRegime), false)

	da, err := a.Draw(0)
	require.NoError(t, err)
	db, err := b.Draw(0)
	require.NoError(t, err)
	assert.NotEqual(t, da.ByClass, db.ByClass)
}

func TestAntitheticPairMirrorsAroundMean(t *testing.T) {
	model := testReturnModel()
	ctx := newRNGContext(99)
	gen := NewReturnGenerator(model, 100, 40, ctx)

	pair := 3
	even := gen.Stream(pair, ctx.source(pair, streamReturns), ctx.source(pair, streamRegime), false)
	odd := gen.Stream(pair, ctx.source(pair, streamReturns), ctx.source(pair, streamRegime), true)

	for y := 0; y < 10; y++ {
		de, err := even.Draw(y)
		require.NoError(t, err)
		do, err := odd.Draw(y)
		require.NoError(t, err)
		for a := domain.AssetClass(0); a < domain.NumAssetClasses; a++ {
			ra := model.Assumption(a)
			mean := Cagr2Aagr(ra.CAGR, ra.Volatility)
			// Mirrored normals place the pair symmetrically around the mean.
			assert.InDelta(t, 2*mean, de.ByClass[a]+do.ByClass[a], 1e-9)
		}
	}
}

func TestStratifiedSamplingIsDeterministic(t *testing.T) {
	model := testReturnModel()
	model.VarianceReduction.Stratified = true
	ctx := newRNGContext(7)

	genA := NewReturnGenerator(model, 50, 40, ctx)
	genB := NewReturnGenerator(model, 50, 40, ctx)

	sa := genA.Stream(11, ctx.source(11, streamReturns), ctx.source(11, streamRegime), false)
	sb := genB.Stream(11, ctx.source(11, streamReturns), ctx.source(11, streamRegime), false)

	da, err := sa.Draw(5)
	require.NoError(t, err)
	db, err := sb.Draw(5)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestRegimeSwitchingAppliesStress(t *testing.T) {
	model := testReturnModel()
	model.Regime = &domain.RegimeModel{
		StressProbability:   1.0, // enter stress immediately and stay
		RecoveryProbability: 0.0,
		StressMeanShift:     -0.05,
		StressVolMultiplier: 1.5,
	}
	ctx := newRNGContext(1)
	gen := NewReturnGenerator(model, 10, 40, ctx)
	s := gen.Stream(0, ctx.source(0, streamReturns), ctx.source(0, streamRegime), false)

	d, err := s.Draw(0)
	require.NoError(t, err)
	assert.Equal(t, RegimeStress, d.Regime)
}

func TestDrawNeverBelowFloor(t *testing.T) {
	model := testReturnModel()
	model.Stocks.Volatility = 0.40
	ctx := newRNGContext(5)
	gen := NewReturnGenerator(model, 10, 60, ctx)
	s := gen.Stream(0, ctx.source(0, streamReturns), ctx.source(0, streamRegime), false)

	for y := 0; y < 60; y++ {
		d, err := s.Draw(y)
		require.NoError(t, err)
		for a := domain.AssetClass(0); a < domain.NumAssetClasses; a++ {
			assert.GreaterOrEqual(t, d.ByClass[a], -0.95)
			assert.False(t, math.IsNaN(d.ByClass[a]))
		}
	}
}

func TestPortfolioAAGRWeightsClasses(t *testing.T) {
	model := testReturnModel()
	ctx := newRNGContext(1)
	gen := NewReturnGenerator(model, 10, 40, ctx)

	allStocks := gen.PortfolioAAGR([domain.NumAssetClasses]float64{1, 0, 0})
	assert.InDelta(t, Cagr2Aagr(0.07, 0.16), allStocks, 1e-12)

	blended := gen.PortfolioAAGR([domain.NumAssetClasses]float64{0.5, 0.5, 0})
	expected := 0.5*Cagr2Aagr(0.07, 0.16) + 0.5*Cagr2Aagr(0.035, 0.055)
	assert.InDelta(t, expected, blended, 1e-12)
}
