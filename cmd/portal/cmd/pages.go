package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-game-portal/apimodel"
	"github.com/spf13/cobra"
)

func newProfileCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the character profile",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			p, err := a.portal.Profile(cmd.Context())
			if err != nil {
				return a.pageError(err)
			}
			a.row("auth_id", p.AuthID)
			a.row("gold", p.Gold)
			a.row("gems", p.Gems)
			a.row("power", p.Power)
			a.row("gold from web", p.GoldFromWeb)
			a.row("gems from web", p.GemsFromWeb)
			if p.CurrentMap != "" {
				a.row("map", fmt.Sprintf("%s (%d, %d)", p.CurrentMap, p.X, p.Y))
			}
			a.row("disciple", p.HasDisciple)
			return nil
		}),
	}
}

func newPayCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "pay",
		Short: "Show the top-up balance",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			pay, err := a.portal.PayInfo(cmd.Context())
			if err != nil {
				return a.pageError(err)
			}
			if pay.Message != "" {
				a.row("message", pay.Message)
			}
			a.row("balance", pay.Pay.Amount)
			a.row("status", pay.Pay.Status)
			if pay.Pay.UpdatedAt != "" {
				a.row("updated", pay.Pay.UpdatedAt)
			}
			return nil
		}),
	}
}

func newQRCmd(run appRunner) *cobra.Command {
	var amount int64
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Create a top-up QR code for an amount",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			qr, err := a.portal.TopUpQR(cmd.Context(), amount)
			if err != nil {
				return a.pageError(err)
			}
			if qr.Username != "" {
				a.row("username", qr.Username)
			}
			a.row("qr", qr.QR)
			return nil
		}),
	}
	cmd.Flags().Int64Var(&amount, "amount", 0, "top-up amount")
	return cmd
}

func newShopCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "shop [id]",
		Short: "List accounts for sale, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid account id %q", args[0])
				}
				acc, err := a.portal.AccountForSale(cmd.Context(), id)
				if err != nil {
					return a.pageError(err)
				}
				a.row("id", acc.ID)
				a.row("description", acc.Description)
				a.row("price", acc.Price)
				a.row("status", acc.Status)
				if acc.URL != "" {
					a.row("url", acc.URL)
				}
				return nil
			}

			accounts, err := a.portal.AccountsForSale(cmd.Context())
			if err != nil {
				return a.pageError(err)
			}
			rows := make([][]string, 0, len(accounts))
			for _, acc := range accounts {
				rows = append(rows, []string{
					strconv.FormatInt(acc.ID.Int64(), 10),
					acc.Description,
					strconv.FormatInt(acc.Price.Int64(), 10),
					acc.Status,
				})
			}
			a.table([]string{"ID", "DESCRIPTION", "PRICE", "STATUS"}, rows)
			return nil
		}),
	}
}

func newAskCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask the in-game assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			reply, err := a.portal.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return a.pageError(err)
			}
			fmt.Fprintln(a.out, reply)
			return nil
		}),
	}
}

func newLeaderboardCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top 10 by gold",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			entries, err := a.portal.Leaderboard(cmd.Context())
			if err != nil {
				return a.pageError(err)
			}
			a.table([]string{"#", "PLAYER", "GOLD", "POWER"}, leaderboardRows(entries))
			return nil
		}),
	}
}

func leaderboardRows(entries []apimodel.LeaderboardEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rank := e.Rank
		if rank == 0 {
			rank = i + 1
		}
		rows = append(rows, []string{
			strconv.Itoa(rank),
			e.Username,
			strconv.FormatInt(e.Gold.Int64(), 10),
			strconv.FormatInt(e.Power.Int64(), 10),
		})
	}
	return rows
}
