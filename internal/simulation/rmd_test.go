package simulation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRMDStartAge(t *testing.T) {
	assert.Equal(t, 73, rmdStartAge(1955))
	assert.Equal(t, 73, rmdStartAge(1959))
	assert.Equal(t, 75, rmdStartAge(1960))
	assert.Equal(t, 75, rmdStartAge(1970))
}

func TestNoRMDBeforeStartAge(t *testing.T) {
	balance := decimal.NewFromInt(500000)
	assert.True(t, requiredMinimumDistribution(70, 1955, balance).IsZero())
	assert.True(t, requiredMinimumDistribution(72, 1955, balance).IsZero())
	assert.True(t, requiredMinimumDistribution(74, 1962, balance).IsZero())
}

func TestRMDUsesUniformLifetimeTable(t *testing.T) {
	balance := decimal.NewFromInt(500000)

	// Age 80: 500000 / 20.2
	got := requiredMinimumDistribution(80, 1950, balance)
	expected := balance.Div(decimal.NewFromFloat(20.2))
	assert.True(t, got.Equal(expected), "got %s want %s", got, expected)

	// Age 73 for a pre-1960 cohort: 500000 / 26.5
	got = requiredMinimumDistribution(73, 1955, balance)
	expected = balance.Div(decimal.NewFromFloat(26.5))
	assert.True(t, got.Equal(expected))
}

func TestRMDBeyondTable(t *testing.T) {
	balance := decimal.NewFromInt(100000)
	got := requiredMinimumDistribution(105, 1940, balance)
	expected := balance.Div(decimal.NewFromFloat(6.0))
	assert.True(t, got.Equal(expected), "got %s want %s", got, expected)
}

func TestRMDZeroBalance(t *testing.T) {
	assert.True(t, requiredMinimumDistribution(80, 1950, decimal.Zero).IsZero())
	assert.True(t, requiredMinimumDistribution(80, 1950, decimal.NewFromInt(-100)).IsZero())
}
