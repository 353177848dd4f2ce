package config

// ExampleYAML is a complete, runnable plan file emitted by the example
// command. Values are illustrative, not advice.
const ExampleYAML = `# Retirement plan input for lifecast.
base_year: 2025
iterations: 1000
seed: 42

household:
  primary:
    current_age: 60
    retirement_age: 65
    gender: male
    health: good
    ss_monthly_at_fra: 2800
    ss_claim_age: 67
  spouse:
    current_age: 58
    retirement_age: 63
    gender: female
    health: good
    ss_monthly_at_fra: 1900
    ss_claim_age: 67
  survivor_spending_factor: 0.75

assets:
  tax_deferred: 900000
  tax_free: 150000
  capital_gains: 250000
  cash_equivalents: 50000
  total_assets: 1350000
cost_basis_fraction: 0.5

expenses:
  essential: 55000
  discretionary: 25000
  healthcare: 8000

inflation:
  general: 0.025
  healthcare: 0.05
  ss_cola: 0.02

returns:
  stocks:
    cagr: 0.07
    volatility: 0.16
  bonds:
    cagr: 0.035
    volatility: 0.055
  cash:
    cagr: 0.02
    volatility: 0.01
  stock_bond_corr: -0.1
  variance_reduction:
    antithetic: true
    stratified: true
    control_variate: true

allocation:
  mode: glidepath
  cash: 0.05

withdrawal:
  guardrails_enabled: true

taxes:
  filing_status: mfj
  state: PA
  state_rate: 0.0307
  state_taxes_retirement: false

mortality:
  dynamic: true
  planning_horizon_age: 95

ltc:
  enabled: true

annual_savings: 30000
legacy_goal: 250000
`
