package simulation

import (
	"github.com/shopspring/decimal"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// Guardrail actions recorded on yearly cash flows.
const (
	GuardrailNone  = ""
	GuardrailCut   = "cut"
	GuardrailRaise = "raise"
)

// guardrailController implements guardrails-style spending adjustment. Only
// discretionary spending moves; essential and healthcare spending are never
// cut. The cumulative adjustment multiplier is clamped between the spending
// floor and ceiling so a long bull or bear run cannot drift spending without
// bound.
type guardrailController struct {
	policy domain.WithdrawalPolicy

	// multiplier applies to baseline discretionary spending. Starts at 1.
	multiplier decimal.Decimal

	cuts   int
	raises int
}

func newGuardrailController(policy domain.WithdrawalPolicy) *guardrailController {
	return &guardrailController{
		policy:     policy,
		multiplier: decimal.NewFromInt(1),
	}
}

// adjustedDiscretionary returns discretionary spending after the current
// cumulative adjustment.
func (g *guardrailController) adjustedDiscretionary(baseline decimal.Decimal) decimal.Decimal {
	if !g.policy.GuardrailsEnabled {
		return baseline
	}
	return baseline.Mul(g.multiplier)
}

// observe updates the controller after a year's withdrawal is known and
// returns the action taken. withdrawal is the total portfolio withdrawal for
// the year and balance the portfolio value it was drawn from. The adjustment
// takes effect the following year.
func (g *guardrailController) observe(withdrawal, balance decimal.Decimal) string {
	if !g.policy.GuardrailsEnabled || balance.LessThanOrEqual(decimal.Zero) || withdrawal.LessThanOrEqual(decimal.Zero) {
		return GuardrailNone
	}
	rate := withdrawal.Div(balance)
	one := decimal.NewFromInt(1)
	switch {
	case rate.GreaterThan(g.policy.UpperGuardrail):
		next := g.multiplier.Mul(one.Sub(g.policy.CutPercent))
		if next.LessThan(g.policy.SpendingFloor) {
			next = g.policy.SpendingFloor
		}
		if next.LessThan(g.multiplier) {
			g.multiplier = next
			g.cuts++
			return GuardrailCut
		}
	case rate.LessThan(g.policy.LowerGuardrail):
		next := g.multiplier.Mul(one.Add(g.policy.RaisePercent))
		if next.GreaterThan(g.policy.SpendingCeiling) {
			next = g.policy.SpendingCeiling
		}
		if next.GreaterThan(g.multiplier) {
			g.multiplier = next
			g.raises++
			return GuardrailRaise
		}
	}
	return GuardrailNone
}

func (g *guardrailController) adjustments() (cuts, raises int) {
	return g.cuts, g.raises
}
