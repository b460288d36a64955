package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/afresh/internal/auth"
	"github.com/dukerupert/afresh/internal/handler"
	"github.com/dukerupert/afresh/internal/model"
	"github.com/dukerupert/afresh/internal/store"
)

var (
	goalQuit     string
	goalCost     int64
	goalCurrency string
	goalInactive bool
	tokenTTL     time.Duration
	eraseConfirm bool
)

func init() {
	addUserFlag(goalSetCmd)
	goalSetCmd.Flags().StringVar(&goalQuit, "quit-date", "", "Quit date YYYY-MM-DD or RFC 3339 instant")
	goalSetCmd.Flags().Int64Var(&goalCost, "daily-cost", 0, "Daily nicotine spend in cents")
	goalSetCmd.Flags().StringVar(&goalCurrency, "currency", "USD", "ISO 4217 currency code")
	goalSetCmd.Flags().BoolVar(&goalInactive, "inactive", false, "Store the goal without activating it")
	goalSetCmd.MarkFlagRequired("quit-date")

	addUserFlag(goalShowCmd)
	goalCmd.AddCommand(goalSetCmd, goalShowCmd)

	addUserFlag(tokenCmd)
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default auth.token_ttl)")

	addUserFlag(eraseCmd)
	eraseCmd.Flags().BoolVar(&eraseConfirm, "yes", false, "Confirm permanent deletion")

	rootCmd.AddCommand(goalCmd, tokenCmd, eraseCmd, versionCmd)
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Set or show a user's quit goal",
}

var goalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace the quit goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		quit, err := handler.ParseQuitDate(goalQuit)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.svc.Goals.Set(context.Background(), model.Goal{
			UserID:         userID,
			QuitDate:       quit,
			Active:         !goalInactive,
			DailyCostCents: goalCost,
			Currency:       strings.ToUpper(strings.TrimSpace(goalCurrency)),
		})
		if err != nil {
			return err
		}
		return printJSON(g)
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored quit goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.svc.Goals.Get(context.Background(), userID)
		if err != nil {
			return err
		}
		if g == nil {
			fmt.Println("No goal set. Run 'afresh goal set' to create one.")
			return nil
		}
		return printJSON(g)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ttl := tokenTTL
		if ttl == 0 {
			ttl = cfg.Auth.TokenTTL
		}

		tok, err := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer).Issue(userID, ttl)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

var eraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "Permanently delete all data for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !eraseConfirm {
			return errors.New("refusing to erase without --yes")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := store.EraseUser(context.Background(), a.db, userID); err != nil {
			return err
		}
		a.logger.Info("user data erased", "user_id", userID)
		fmt.Printf("Erased all data for %s\n", userID)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(rootCmd.Version)
	},
}
