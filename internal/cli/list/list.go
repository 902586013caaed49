package list

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/despesa-app/despesa/internal/cli"
	"github.com/despesa-app/despesa/internal/config"
	"github.com/despesa-app/despesa/internal/logger"
	"github.com/despesa-app/despesa/internal/storage"
	"github.com/despesa-app/despesa/internal/util"
)

type listCommand struct {
}

func NewCommand() cli.Command {
	return listCommand{}
}

func (c listCommand) Description() string {
	return "Prints the stored expenses and their totals"
}

func (c listCommand) SetFlags(_ *flag.FlagSet) {
}

func (c listCommand) Run(conf *config.Config, s storage.Storage, _ *logger.Logger) error {
	expenses, err := s.GetExpenses(context.Background())
	if err != nil {
		return fmt.Errorf("unable to fetch expenses: %w", err)
	}

	if len(expenses) == 0 {
		fmt.Fprintln(os.Stdout, "No expenses recorded")
		return nil
	}

	var totalOriginal, totalConverted int64
	referenceCurrency := conf.Exchange.Currency

	for _, expense := range expenses {
		converted := "N/A"
		if cv := expense.ConvertedValue(); cv != nil {
			converted = util.FormatMoney(*cv)
			totalConverted += *cv
		}

		rowReference := expense.ReferenceCurrency()
		if rowReference == "" {
			rowReference = conf.Exchange.Currency
		} else {
			referenceCurrency = rowReference
		}
		totalOriginal += expense.OriginalValue()

		fmt.Fprintf(os.Stdout, "%s - %s x %s %s = %s %s (%s %s)\n",
			util.ColorOutput(expense.Description(), "bold"),
			util.FormatQuantity(expense.Quantity()),
			util.FormatUnitValue(expense.UnitValue()),
			expense.Currency(),
			util.FormatMoney(expense.OriginalValue()),
			expense.Currency(),
			converted,
			rowReference,
		)
	}

	fmt.Fprintf(os.Stdout, "\n%s %s\n",
		util.ColorOutput("Total:", "bold", "underline"),
		util.FormatMoney(totalOriginal))
	fmt.Fprintf(os.Stdout, "%s %s\n",
		util.ColorOutput(fmt.Sprintf("Total (%s):", referenceCurrency), "bold", "underline"),
		util.ColorOutput(util.FormatMoney(totalConverted), "green"))

	return nil
}
