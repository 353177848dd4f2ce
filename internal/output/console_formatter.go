package output

import (
	"bytes"
	"fmt"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RETIREMENT OUTCOME SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Scenarios: %d (seed %d)\n", result.Iterations, result.Seed)
	fmt.Fprintf(&buf, "Success Probability: %s\n", FormatPercentage(result.SuccessProbability))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "Ending Balance")
	fmt.Fprintf(&buf, "  P10:  %s\n", FormatCurrency(result.EndingBalanceP10))
	fmt.Fprintf(&buf, "  P50:  %s\n", FormatCurrency(result.EndingBalanceP50))
	fmt.Fprintf(&buf, "  P90:  %s\n", FormatCurrency(result.EndingBalanceP90))
	fmt.Fprintf(&buf, "  Mean: %s", FormatCurrency(result.MeanEndingBalance))
	if !result.AdjustedMeanEndingBalance.Equal(result.MeanEndingBalance) {
		fmt.Fprintf(&buf, " (adjusted %s)", FormatCurrency(result.AdjustedMeanEndingBalance))
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf)

	swr := result.SafeWithdrawalRate
	fmt.Fprintf(&buf, "Safe Withdrawal Rate: %s", FormatPercentage(swr))
	if result.SWRLowConfidence {
		fmt.Fprintf(&buf, " (low confidence)")
	}
	fmt.Fprintln(&buf)
	if result.Counts.Failed > 0 {
		fmt.Fprintf(&buf, "Mean Years To Depletion (failed scenarios): %s\n", result.MeanYearsToDepletion.StringFixed(1))
	}
	fmt.Fprintf(&buf, "Legacy Goal Probability: %s\n", FormatPercentage(result.LegacyGoalProbability))
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "Outcomes: %d succeeded / %d failed / %d excluded of %d\n",
		result.Counts.Succeeded, result.Counts.Failed, result.Counts.Excluded, result.Counts.Total)
	if result.Guardrails.TotalCuts > 0 || result.Guardrails.TotalRaises > 0 {
		fmt.Fprintf(&buf, "Guardrails: %d cuts, %d raises (avg %s adjustments per scenario)\n",
			result.Guardrails.TotalCuts, result.Guardrails.TotalRaises,
			result.Guardrails.AverageAdjustments.StringFixed(2))
	}
	if result.LTC != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Long-Term Care")
		fmt.Fprintf(&buf, "  Occurrence Probability: %s\n", FormatPercentage(result.LTC.OccurrenceProbability))
		fmt.Fprintf(&buf, "  Average Episode Cost:   %s\n", FormatCurrency(result.LTC.AverageEpisodeCost))
		fmt.Fprintf(&buf, "  Success Impact:         %s\n", FormatPercentage(result.LTC.SuccessProbabilityDelta))
	}

	if len(result.Yearly) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Median Scenario Path")
		fmt.Fprintf(&buf, "%-6s %-4s %-8s %14s %14s %14s %12s %8s\n",
			"Year", "Age", "Regime", "Balance", "Income", "Withdrawal", "Taxes", "Action")
		for _, y := range result.Yearly {
			fmt.Fprintf(&buf, "%-6d %-4d %-8s %14s %14s %14s %12s %8s\n",
				y.Year, y.AgePrimary, y.Regime,
				FormatCurrency(y.BalanceTotal),
				FormatCurrency(y.TotalGuaranteedIncome),
				FormatCurrency(y.TotalWithdrawal),
				FormatCurrency(y.TotalTax),
				y.GuardrailAction)
		}
	}
	return buf.Bytes(), nil
}
