package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "coinvault/internal/cli"
	"coinvault/internal/config"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	success = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	neutral = color.New(color.FgCyan)
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "cvctl",
		Short:        "Coinvault economy ops client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "API base URL")

	root.AddCommand(
		newRegisterCmd(&apiBase),
		newAccountCmd(&apiBase),
		newWalletCmd(&apiBase),
		newBankCmd(&apiBase),
		newTransferCmd(&apiBase),
		newSellCmd(&apiBase),
		newBuyCmd(&apiBase),
		newItemsCmd(&apiBase),
		newItemCmd(&apiBase),
		newPricesCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func cmdContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newRegisterCmd(apiBase *string) *cobra.Command {
	var playerUUID string
	c := &cobra.Command{
		Use:   "register <player-name>",
		Short: "Register a player account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerUUID == "" {
				playerUUID = uuid.NewString()
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Register(ctx, playerUUID, args[0])
			if err != nil {
				return err
			}
			if !out.Success {
				warn.Println(out.Message)
				return nil
			}
			success.Printf("registered %s (user_id=%d uuid=%s)\n", args[0], out.UserID, playerUUID)
			return nil
		},
	}
	c.Flags().StringVar(&playerUUID, "uuid", "", "player UUID (generated when omitted)")
	return c
}

func newAccountCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "account <player-uuid>",
		Short: "Show a player's account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			a, err := newClient(apiBase).Account(ctx, args[0])
			if err != nil {
				return err
			}
			neutral.Printf("%s (%s)\n", a.PlayerName, a.PlayerUUID)
			fmt.Printf("  wallet: %d\n  bank:   %d\n  bank open: %v\n", a.Wallet, a.Bank, a.IsBankOpen)
			return nil
		},
	}
}

func newWalletCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "wallet <player-uuid>",
		Short: "Show a player's wallet balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			v, err := newClient(apiBase).Wallet(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}

func newBankCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bank <player-uuid>",
		Short: "Show a player's bank balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			v, err := newClient(apiBase).Bank(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}

func newTransferCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <player-uuid> <from> <to> <amount>",
		Short: "Move funds between wallet and bank",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("amount must be an integer: %w", err)
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Transfer(ctx, args[0], args[1], args[2], amount)
			if err != nil {
				return err
			}
			if !out.Success {
				warn.Println(out.Message)
				return nil
			}
			success.Println(out.Message)
			fmt.Printf("  wallet: %d\n  bank:   %d\n", out.NewWallet, out.NewBank)
			return nil
		},
	}
}

func newSellCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <player-uuid> <item-key> <quantity>",
		Short: "Sell items to the market",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("quantity must be an integer: %w", err)
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Sell(ctx, args[0], args[1], qty)
			if err != nil {
				return err
			}
			if !out.Success {
				warn.Println(out.Message)
				return nil
			}
			success.Println(out.Message)
			fmt.Printf("  gross: %d  fee: %d  vat: %d  net: %d\n", out.GrossEarned, out.TransactionFee, out.VAT, out.NetEarned)
			fmt.Printf("  wallet: %d  new item price: %d\n", out.NewWallet, out.NewItemPrice)
			return nil
		},
	}
}

func newBuyCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <player-uuid> <item-key> <quantity>",
		Short: "Buy items from the market",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("quantity must be an integer: %w", err)
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Buy(ctx, args[0], args[1], qty)
			if err != nil {
				return err
			}
			if !out.Success {
				warn.Println(out.Message)
				return nil
			}
			success.Println(out.Message)
			fmt.Printf("  cost: %d  wallet: %d  new item price: %d\n", out.TotalCost, out.NewWallet, out.NewItemPrice)
			return nil
		},
	}
}

func newItemsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List the market catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			items, err := newClient(apiBase).Items(ctx)
			if err != nil {
				return err
			}
			for _, it := range items {
				fmt.Printf("%-18s sell=%-6d buy=%-6d mult=%.4f sold=%d bought=%d\n",
					it.ItemKey, it.CurrentSellPrice, it.CurrentBuyPrice, it.PriceMultiplier, it.TotalSold, it.TotalBought)
			}
			return nil
		},
	}
}

func newItemCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "item <item-key>",
		Short: "Show one market item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			it, err := newClient(apiBase).Item(ctx, args[0])
			if err != nil {
				return err
			}
			neutral.Printf("%s (%s)\n", it.ItemName, it.ItemKey)
			fmt.Printf("  base: %d  sell: %d  buy: %d  mult: %.4f\n", it.BasePrice, it.CurrentSellPrice, it.CurrentBuyPrice, it.PriceMultiplier)
			fmt.Printf("  total sold: %d  total bought: %d\n", it.TotalSold, it.TotalBought)
			return nil
		},
	}
}

func newPricesCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "List sell prices only",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			items, err := newClient(apiBase).Prices(ctx)
			if err != nil {
				return err
			}
			for _, it := range items {
				fmt.Printf("%-18s %d (x%.4f)\n", it.ItemKey, it.CurrentSellPrice, it.PriceMultiplier)
			}
			return nil
		},
	}
}
