package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/afresh/internal/model"
)

var (
	userID       string
	stepsDate    string
	stepsCount   int
	stepsFrom    string
	stepsTo      string
	rewardTitle  string
	rewardDesc   string
	rewardPoints int
	rewardOff    bool
	resolveTo    string
)

// addUserFlag registers the required --user flag on cmd.
func addUserFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&userID, "user", "", "User id")
	cmd.MarkFlagRequired("user")
}

func init() {
	addUserFlag(stepsRecordCmd)
	stepsRecordCmd.Flags().StringVar(&stepsDate, "date", "", "Calendar date YYYY-MM-DD (default today)")
	stepsRecordCmd.Flags().IntVar(&stepsCount, "steps", 0, "Step count for the day")
	stepsRecordCmd.MarkFlagRequired("steps")

	addUserFlag(stepsListCmd)
	stepsListCmd.Flags().StringVar(&stepsFrom, "from", "", "First date YYYY-MM-DD (default 30 days ago)")
	stepsListCmd.Flags().StringVar(&stepsTo, "to", "", "Last date YYYY-MM-DD (default today)")

	stepsCmd.AddCommand(stepsRecordCmd, stepsListCmd)

	rewardsAddCmd.Flags().StringVar(&rewardTitle, "title", "", "Reward title")
	rewardsAddCmd.Flags().StringVar(&rewardDesc, "description", "", "Reward description")
	rewardsAddCmd.Flags().IntVar(&rewardPoints, "points", 0, "Points required to claim")
	rewardsAddCmd.Flags().BoolVar(&rewardOff, "inactive", false, "Create the reward disabled")
	rewardsAddCmd.MarkFlagRequired("title")
	rewardsAddCmd.MarkFlagRequired("points")
	rewardsCmd.AddCommand(rewardsAddCmd, rewardsListCmd, rewardsEnableCmd, rewardsDisableCmd)

	addUserFlag(pointsCmd)
	addUserFlag(claimCmd)

	addUserFlag(claimsListCmd)
	claimsResolveCmd.Flags().StringVar(&resolveTo, "status", "fulfilled", "Resolution: fulfilled or rejected")
	claimsCmd.AddCommand(claimsListCmd, claimsResolveCmd)

	rootCmd.AddCommand(stepsCmd, rewardsCmd, pointsCmd, claimCmd, claimsCmd)
}

// ─── Steps ──────────────────────────────────────────────────────────────────

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Record and list daily step counts",
}

var stepsRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the step count for a day (replaces any earlier count)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		date, err := dateOrToday(stepsDate, a.svc.Progress.Today())
		if err != nil {
			return err
		}
		entry, err := a.svc.Ledger.RecordSteps(context.Background(), userID, date, stepsCount)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d steps, %d points\n", model.FormatDate(entry.Date), entry.Steps, entry.PointsEarned)
		return nil
	},
}

var stepsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded step counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		to, err := dateOrToday(stepsTo, a.svc.Progress.Today())
		if err != nil {
			return err
		}
		from, err := dateOrToday(stepsFrom, to.AddDate(0, 0, -29))
		if err != nil {
			return err
		}

		entries, err := a.svc.Ledger.StepHistory(context.Background(), userID, from, to)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tSTEPS\tPOINTS")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%d\n", model.FormatDate(e.Date), e.Steps, e.PointsEarned)
		}
		return w.Flush()
	},
}

// ─── Rewards ────────────────────────────────────────────────────────────────

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Manage the reward catalog",
}

var rewardsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reward to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.svc.Rewards.Create(context.Background(), rewardTitle, rewardDesc, rewardPoints, !rewardOff)
		if err != nil {
			return err
		}
		fmt.Printf("Created reward %d: %s (%d points)\n", r.ID, r.Title, r.PointsRequired)
		return nil
	},
}

var rewardsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all rewards",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rewards, err := a.svc.Rewards.List(context.Background())
		if err != nil {
			return err
		}
		if len(rewards) == 0 {
			fmt.Println("No rewards yet. Run 'afresh rewards add' to create one.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPOINTS\tACTIVE")
		for _, r := range rewards {
			fmt.Fprintf(w, "%d\t%s\t%d\t%t\n", r.ID, r.Title, r.PointsRequired, r.Active)
		}
		return w.Flush()
	},
}

var rewardsEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Make a reward claimable",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setRewardActive(args[0], true) },
}

var rewardsDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Withdraw a reward from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setRewardActive(args[0], false) },
}

func setRewardActive(arg string, active bool) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.svc.Rewards.SetActive(context.Background(), id, active)
	if err != nil {
		return err
	}
	fmt.Printf("Reward %d active=%t\n", r.ID, r.Active)
	return nil
}

// ─── Points and claims ──────────────────────────────────────────────────────

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Show a user's points balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		bal, err := a.svc.Ledger.Balance(context.Background(), userID)
		if err != nil {
			return err
		}
		return printJSON(bal)
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim <reward-id>",
	Short: "Claim a reward for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.svc.Ledger.Claim(context.Background(), userID, id)
		if err != nil {
			return err
		}
		fmt.Printf("Claim %d: %d points, %s\n", c.ID, c.PointsRedeemed, c.Status)
		return nil
	},
}

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "List and resolve reward claims",
}

var claimsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's claims, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		claims, err := a.svc.Ledger.Claims(context.Background(), userID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREWARD\tPOINTS\tSTATUS\tCLAIMED")
		for _, c := range claims {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", c.ID, c.RewardID, c.PointsRedeemed, c.Status, c.ClaimedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var claimsResolveCmd = &cobra.Command{
	Use:   "resolve <claim-id>",
	Short: "Settle a pending claim as fulfilled or rejected",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.svc.Ledger.ResolveClaim(context.Background(), id, model.ClaimStatus(resolveTo))
		if err != nil {
			return err
		}
		fmt.Printf("Claim %d is now %s\n", c.ID, c.Status)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// dateOrToday parses s as YYYY-MM-DD, returning def when s is empty.
func dateOrToday(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return model.ParseDate(s)
}
