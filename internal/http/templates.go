package http

import (
	"fmt"
	"html/template"
	"time"

	"lavish/internal/core"
	appweb "lavish/web"

	"github.com/shopspring/decimal"
)

var templateFuncs = template.FuncMap{
	"dollars": func(d decimal.Decimal) string { return core.FormatDollars(d) },
	"amount":  func(v float64) string { return core.FormatDollars(core.Decimal(v)) },
	"typeColor": func(t core.TxType) string {
		if t == core.Income {
			return core.IncomeColor
		}
		return core.ExpenseColor
	},
	"monthLabel": monthLabel,
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// monthLabel renders "2024-03" as "March 2024" and the all sentinel as "All".
func monthLabel(key string) string {
	if key == core.AllMonths {
		return "All"
	}
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("January 2006")
}
