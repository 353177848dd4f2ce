package simulation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lifecast/retirement-engine/internal/domain"
)

func TestSSClaimFactor(t *testing.T) {
	tests := []struct {
		name     string
		claimAge int
		expected float64
	}{
		{"full retirement age", 67, 1.0},
		// 36 months at 5/9% plus 24 months at 5/12% = 30% reduction
		{"earliest claim", 62, 0.70},
		// 12 months at 5/9% = 6.667% reduction
		{"one year early", 66, 0.9333333},
		// 36 months of delayed credits at 2/3% = 24% increase
		{"maximum delay", 70, 1.24},
		// 12 months of delayed credits = 8% increase
		{"one year late", 68, 1.08},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor, _ := SSClaimFactor(tt.claimAge).Float64()
			assert.InDelta(t, tt.expected, factor, 1e-4)
		})
	}
}

func TestSSClaimFactorClampsOutOfRange(t *testing.T) {
	assert.True(t, SSClaimFactor(55).Equal(SSClaimFactor(62)))
	assert.True(t, SSClaimFactor(75).Equal(SSClaimFactor(70)))
}

func testHousehold() *domain.Household {
	return &domain.Household{
		Primary: domain.Person{
			CurrentAge:     65,
			RetirementAge:  65,
			Gender:         domain.GenderMale,
			Health:         domain.HealthGood,
			SSMonthlyAtFRA: decimal.NewFromInt(2000),
			SSClaimAge:     67,
		},
		Spouse: &domain.Person{
			CurrentAge:     63,
			RetirementAge:  63,
			Gender:         domain.GenderFemale,
			Health:         domain.HealthGood,
			SSMonthlyAtFRA: decimal.NewFromInt(1000),
			SSClaimAge:     67,
		},
		SurvivorSpendingFactor: decimal.NewFromFloat(0.75),
	}
}

func TestSSBenefitStartsAtClaimAge(t *testing.T) {
	h := testHousehold()
	m := newIncomeModel(h, domain.InflationRates{})

	// Primary is 65 at year 0 and claims at 67.
	assert.True(t, m.ssBenefit(&h.Primary, 0).IsZero())
	assert.True(t, m.ssBenefit(&h.Primary, 1).IsZero())

	// At 67 the full benefit arrives: 2000 * 12.
	assert.True(t, m.ssBenefit(&h.Primary, 2).Equal(decimal.NewFromInt(24000)))
}

func TestSSBenefitAppliesCOLA(t *testing.T) {
	h := testHousehold()
	m := newIncomeModel(h, domain.InflationRates{SSCOLA: decimal.NewFromFloat(0.02)})

	benefit := m.ssBenefit(&h.Primary, 2)
	expected := decimal.NewFromInt(24000).Mul(decimal.NewFromFloat(1.02).Pow(decimal.NewFromInt(2)))
	assert.True(t, benefit.Sub(expected).Abs().LessThan(decimal.NewFromFloat(0.01)),
		"got %s want %s", benefit, expected)
}

func TestSurvivorKeepsLargerBenefit(t *testing.T) {
	h := testHousehold()
	m := newIncomeModel(h, domain.InflationRates{})

	// Year 5: primary 70, spouse 68, both past claim age.
	both := m.year(5, true, true)
	assert.True(t, both.SocialSecurity.Equal(decimal.NewFromInt(36000)))

	// Spouse survives alone and steps up to the primary's larger benefit.
	survivor := m.year(5, false, true)
	assert.True(t, survivor.SocialSecurity.Equal(decimal.NewFromInt(24000)))

	// Primary survives alone and keeps their own larger benefit.
	survivor = m.year(5, true, false)
	assert.True(t, survivor.SocialSecurity.Equal(decimal.NewFromInt(24000)))
}

func TestPensionStartsAndCompounds(t *testing.T) {
	h := testHousehold()
	h.Primary.Pension = &domain.Pension{
		AnnualBenefit: decimal.NewFromInt(12000),
		StartAge:      70,
		COLARate:      decimal.NewFromFloat(0.01),
	}
	m := newIncomeModel(h, domain.InflationRates{})

	assert.True(t, m.pensionIncome(&h.Primary, 4).IsZero())
	assert.True(t, m.pensionIncome(&h.Primary, 5).Equal(decimal.NewFromInt(12000)))

	year7 := m.pensionIncome(&h.Primary, 7)
	expected := decimal.NewFromInt(12000).Mul(decimal.NewFromFloat(1.01).Pow(decimal.NewFromInt(2)))
	assert.True(t, year7.Sub(expected).Abs().LessThan(decimal.NewFromFloat(0.01)))
}

func TestPartTimeWorkPhasesOut(t *testing.T) {
	h := testHousehold()
	h.Primary.PartTime = &domain.PartTimeWork{
		AnnualIncome: decimal.NewFromInt(20000),
		PhaseOutAge:  68,
	}
	m := newIncomeModel(h, domain.InflationRates{})

	assert.True(t, m.partTimeIncome(&h.Primary, 0).Equal(decimal.NewFromInt(20000)))
	assert.True(t, m.partTimeIncome(&h.Primary, 2).Equal(decimal.NewFromInt(20000)))
	assert.True(t, m.partTimeIncome(&h.Primary, 3).IsZero(), "income stops at the phase-out age")
}

func TestExpensesSurvivorFactor(t *testing.T) {
	h := testHousehold()
	m := newIncomeModel(h, domain.InflationRates{})
	base := domain.AnnualExpenses{
		Essential:     decimal.NewFromInt(40000),
		Discretionary: decimal.NewFromInt(20000),
		Healthcare:    decimal.NewFromInt(8000),
	}

	essential, discretionary, healthcare := m.expenses(base, 0, true, true)
	assert.True(t, essential.Equal(decimal.NewFromInt(40000)))
	assert.True(t, discretionary.Equal(decimal.NewFromInt(20000)))
	assert.True(t, healthcare.Equal(decimal.NewFromInt(8000)))

	essential, discretionary, healthcare = m.expenses(base, 0, true, false)
	assert.True(t, essential.Equal(decimal.NewFromInt(30000)))
	assert.True(t, discretionary.Equal(decimal.NewFromInt(15000)))
	assert.True(t, healthcare.Equal(decimal.NewFromInt(6000)))
}

func TestExpensesUseSeparateHealthcareInflation(t *testing.T) {
	h := testHousehold()
	m := newIncomeModel(h, domain.InflationRates{
		General:    decimal.NewFromFloat(0.02),
		Healthcare: decimal.NewFromFloat(0.06),
	})
	base := domain.AnnualExpenses{
		Essential:  decimal.NewFromInt(10000),
		Healthcare: decimal.NewFromInt(10000),
	}

	essential, _, healthcare := m.expenses(base, 10, true, true)
	assert.True(t, healthcare.GreaterThan(essential),
		"healthcare inflates faster: %s vs %s", healthcare, essential)
}
