package core

import "github.com/shopspring/decimal"

// Summary holds the totals over the whole ledger.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Chart colors and labels for the income/expense doughnut.
const (
	IncomeColor  = "#7FFF00"
	ExpenseColor = "#FF6F61"
	BorderColor  = "#333"
	ChartCutout  = "65%"
)

// ChartFeed is the dataset behind the income/expense doughnut.
type ChartFeed struct {
	Type            string    `json:"type"`
	Labels          []string  `json:"labels"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     []string  `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
	Cutout          string    `json:"cutout"`
}

// Chart builds the two-element [income, expense] series for s.
func (s Summary) Chart() ChartFeed {
	return ChartFeed{
		Type:            "doughnut",
		Labels:          []string{"Income", "Expense"},
		Data:            []float64{s.Income.InexactFloat64(), s.Expense.InexactFloat64()},
		BackgroundColor: []string{IncomeColor, ExpenseColor},
		BorderColor:     []string{BorderColor, BorderColor},
		BorderWidth:     1,
		Cutout:          ChartCutout,
	}
}
