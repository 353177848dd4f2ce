package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/lifecast/retirement-engine/internal/domain"
)

// CSVFormatter exports the median scenario's yearly path, one row per year,
// for spreadsheet analysis.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Year", "AgePrimary", "AgeSpouse", "Regime",
		"BalanceTaxDeferred", "BalanceTaxFree", "BalanceCapitalGains", "BalanceCash", "BalanceTotal",
		"SocialSecurity", "PensionIncome", "PartTimeIncome",
		"TotalWithdrawal", "RMDAmount",
		"FederalTax", "StateTax", "MedicarePremium",
		"Expenses", "LTCCost", "NetCashFlow", "GuardrailAction",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, y := range result.Yearly {
		row := []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.AgePrimary),
			strconv.Itoa(y.AgeSpouse),
			y.Regime,
			y.BalanceTaxDeferred.StringFixed(2),
			y.BalanceTaxFree.StringFixed(2),
			y.BalanceCapitalGains.StringFixed(2),
			y.BalanceCash.StringFixed(2),
			y.BalanceTotal.StringFixed(2),
			y.SocialSecurity.StringFixed(2),
			y.PensionIncome.StringFixed(2),
			y.PartTimeIncome.StringFixed(2),
			y.TotalWithdrawal.StringFixed(2),
			y.RMDAmount.StringFixed(2),
			y.FederalTax.StringFixed(2),
			y.StateTax.StringFixed(2),
			y.MedicarePremium.StringFixed(2),
			y.Expenses.StringFixed(2),
			y.LTCCost.StringFixed(2),
			y.NetCashFlow.StringFixed(2),
			y.GuardrailAction,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
