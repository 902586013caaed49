package router

import (
	"net/http"

	"github.com/despesa-app/despesa/internal/service"
	"github.com/despesa-app/despesa/internal/storage"
	"github.com/despesa-app/despesa/internal/util"
)

type formValues struct {
	Description string
	Quantity    string
	Value       string
	Currency    string
}

func formFromRequest(r *http.Request) formValues {
	return formValues{
		Description: r.FormValue("description"),
		Quantity:    r.FormValue("quantity"),
		Value:       r.FormValue("value"),
		Currency:    r.FormValue("currency"),
	}
}

func formFromExpense(expense storage.Expense) formValues {
	return formValues{
		Description: expense.Description(),
		Quantity:    util.FormatQuantity(expense.Quantity()),
		Value:       util.FormatUnitValue(expense.UnitValue()),
		Currency:    expense.Currency(),
	}
}

func (f formValues) input() service.Input {
	return service.Input{
		Description: f.Description,
		Quantity:    f.Quantity,
		UnitValue:   f.Value,
		Currency:    f.Currency,
	}
}

// expenseRow is one rendered list entry. All money fields arrive formatted;
// a row without a conversion snapshot shows the literal N/A.
type expenseRow struct {
	ID                int64
	Description       string
	Quantity          string
	UnitValue         string
	Currency          string
	OriginalValue     string
	ConvertedValue    string
	ReferenceCurrency string
}

const notAvailable = "N/A"

func buildRows(expenses []storage.Expense) []expenseRow {
	rows := make([]expenseRow, len(expenses))
	for i, expense := range expenses {
		row := expenseRow{
			ID:                expense.ID(),
			Description:       expense.Description(),
			Quantity:          util.FormatQuantity(expense.Quantity()),
			UnitValue:         util.FormatUnitValue(expense.UnitValue()),
			Currency:          expense.Currency(),
			OriginalValue:     util.FormatMoney(expense.OriginalValue()),
			ConvertedValue:    notAvailable,
			ReferenceCurrency: expense.ReferenceCurrency(),
		}

		if converted := expense.ConvertedValue(); converted != nil {
			row.ConvertedValue = util.FormatMoney(*converted)
		}

		rows[i] = row
	}

	return rows
}

type totalsView struct {
	Original          string
	Converted         string
	ReferenceCurrency string
}

func buildTotals(expenses []storage.Expense, totals service.Totals) *totalsView {
	view := &totalsView{
		Original:  util.FormatMoney(totals.Original),
		Converted: util.FormatMoney(totals.Converted),
	}

	for _, expense := range expenses {
		if expense.ReferenceCurrency() != "" {
			view.ReferenceCurrency = expense.ReferenceCurrency()
			break
		}
	}

	return view
}

type indexData struct {
	Expenses []expenseRow
	Totals   *totalsView
	Form     formValues
	Error    string
}

type editData struct {
	ID    int64
	Form  formValues
	Error string
}
