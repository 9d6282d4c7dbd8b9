package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/core/economy"
	"github.com/penwyp/go-breathfree/internal/core/inventory"
	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
	"github.com/penwyp/go-breathfree/internal/util"
)

func newShopCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Spend credits on companions and items",
	}

	var sortBy string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List items for sale",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := inventory.ParseSortOrder(sortBy)
			if err != nil {
				return err
			}
			o.discover(cmd, "tab_shop")
			items, balance := o.app.Shop(order)
			return o.print(cmd, formatter.ShopView{Items: items, Balance: balance})
		},
	}
	list.Flags().StringVar(&sortBy, "sort", string(inventory.SortPriceAsc), "Sort order (price_asc, price_desc, name)")

	buy := &cobra.Command{
		Use:   "buy <name>",
		Short: "Buy an item by id or (fuzzy) name",
		Example: `  go-breathfree shop buy clever_fox
  go-breathfree shop buy egg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := o.app.Catalog().Find(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if _, err := o.app.Purchase(item.ID); err != nil {
				switch {
				case errors.Is(err, economy.ErrInsufficientCredits):
					b := o.app.Balance()
					return fmt.Errorf("%s costs %s but you have %s: %w",
						item.Name, util.FormatCredits(item.Cost), util.FormatCredits(b.Available), err)
				case errors.Is(err, economy.ErrAlreadyOwned):
					return fmt.Errorf("you already own %s: %w", item.Name, err)
				default:
					return err
				}
			}
			return o.notice(cmd, item, "%s %s is yours. Balance: %s",
				item.Icon, item.Name, util.FormatCredits(o.app.Balance().Available))
		},
	}

	cmd.AddCommand(list, buy)
	return cmd
}

func newInventoryCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Show owned items; the mystery egg hatches after a week",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.discover(cmd, "tab_inventory")
			return o.print(cmd, formatter.InventoryView{Items: o.app.Inventory()})
		},
	}
}

func newDiscoverCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "discover <id>",
		Short: "Collect a first-visit reward",
		Long: "Collect a first-visit reward. Known ids: " + strings.Join(economy.KnownDiscoveries, ", ") +
			".\nEach id pays once, and only while gamification is on.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, paid, err := o.app.Discover(args[0])
			if err != nil {
				return err
			}
			if !paid {
				return o.notice(cmd, nil, "Already discovered %s.", args[0])
			}
			return o.notice(cmd, r, "Discovered %s: +%d credits, +%d XP", args[0], r.Credits, r.XP)
		},
	}
}

func newClaimCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "claim <cta_checkbox|cta_link>",
		Short:     "Claim a civic action reward",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{economy.ActionCTACheckbox, economy.ActionCTALink},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, paid, err := o.app.Claim(args[0])
			if err != nil {
				return err
			}
			if !paid {
				return o.notice(cmd, nil, "%s was already claimed.", args[0])
			}
			return o.notice(cmd, r, "Thank you for taking action: +%d credits, +%d XP", r.Credits, r.XP)
		},
	}
}
