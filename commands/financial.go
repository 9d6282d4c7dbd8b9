package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
)

func newFinancialCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "financial",
		Aliases: []string{"money"},
		Short:   "Configure the cost model and project savings",
	}
	cmd.AddCommand(
		newFinancialSetCmd(o),
		&cobra.Command{
			Use:   "show",
			Short: "Show the cost model",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				o.discover(cmd, "financial_expanded")
				return o.print(cmd, o.financialView())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the cost model",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := o.app.SetFinancial(nil); err != nil {
					return err
				}
				return o.notice(cmd, nil, "Cost model removed.")
			},
		},
		&cobra.Command{
			Use:   "simulate <amount> <days|weeks|months|years>",
			Short: "Project savings over a period of abstinence",
			Example: `  go-breathfree financial simulate 6 months
  go-breathfree financial simulate 1 year`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.ParseFloat(args[0], 64)
				if err != nil || n <= 0 {
					return fmt.Errorf("amount must be a positive number, got %q", args[0])
				}
				p, err := model.ParsePeriod(args[1])
				if err != nil {
					return err
				}
				v, err := o.requireFinancial()
				if err != nil {
					return err
				}
				v.Projection = &formatter.Projection{Amount: n, Period: p, Savings: v.Model.Simulate(p, n)}
				return o.print(cmd, v)
			},
		},
		&cobra.Command{
			Use:   "goal <amount>",
			Short: "How many smoke-free days until you have saved amount",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				target, err := strconv.ParseFloat(args[0], 64)
				if err != nil || target <= 0 {
					return fmt.Errorf("goal must be a positive number, got %q", args[0])
				}
				v, err := o.requireFinancial()
				if err != nil {
					return err
				}
				days, ok := v.Model.DaysToGoal(target)
				v.Goal = &formatter.GoalEstimate{Target: target, Days: days, Reachable: ok}
				return o.print(cmd, v)
			},
		},
	)
	return cmd
}

func newFinancialSetCmd(o *rootOptions) *cobra.Command {
	var cost, days, currency string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the price of one unit and how many days it lasts",
		Example: `  go-breathfree financial set --cost 12.50 --days 2
  go-breathfree financial set --cost 9 --days 1 --currency €`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFinancialModel(cost, days, currency)
			if err != nil {
				return err
			}
			if err := o.app.SetFinancial(f); err != nil {
				return err
			}
			return o.print(cmd, o.financialView())
		},
	}
	cmd.Flags().StringVar(&cost, "cost", "", "Cost of one unit (pack, pod, tin)")
	cmd.Flags().StringVar(&days, "days", "1", "Days one unit lasts")
	cmd.Flags().StringVar(&currency, "currency", "$", "Currency symbol")
	_ = cmd.MarkFlagRequired("cost")
	return cmd
}

func (o *rootOptions) financialView() formatter.FinancialView {
	f := o.app.Financial()
	return formatter.FinancialView{Model: f, DailyCost: f.DailyCost()}
}

func (o *rootOptions) requireFinancial() (formatter.FinancialView, error) {
	v := o.financialView()
	if v.Model == nil {
		return v, fmt.Errorf("%w: run `financial set --cost N --days N` first", model.ErrInvalidFinancial)
	}
	return v, nil
}
