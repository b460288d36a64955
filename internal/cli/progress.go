package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/afresh/internal/model"
	"github.com/dukerupert/afresh/internal/progress"
)

var (
	streakMode string
	windowDays int
	windowEnd  string
)

func init() {
	addUserFlag(streakCmd)
	streakCmd.Flags().StringVar(&streakMode, "mode", "", "Streak definition: goal or log (default both)")

	addUserFlag(achievementsCmd)
	addUserFlag(timelineCmd)

	addUserFlag(windowCmd)
	windowCmd.Flags().IntVar(&windowDays, "days", progress.DefaultWindowDays, "Window length in days")
	windowCmd.Flags().StringVar(&windowEnd, "end", "", "Last day of the window YYYY-MM-DD (default today)")

	addUserFlag(summaryCmd)

	rootCmd.AddCommand(streakCmd, achievementsCmd, timelineCmd, windowCmd, summaryCmd)
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show days afresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		if streakMode == "" {
			st, err := a.svc.Progress.Streaks(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Printf("Goal streak:        %d days\n", st.Goal)
			fmt.Printf("Log streak:         %d days\n", st.Log)
			fmt.Printf("Longest log streak: %d days\n", st.LongestLog)
			return nil
		}

		mode, err := model.ParseStreakMode(streakMode)
		if err != nil {
			return err
		}
		days, err := a.svc.Progress.DaysAfresh(ctx, userID, mode)
		if err != nil {
			return err
		}
		fmt.Printf("%d days afresh (%s)\n", days, mode)
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and whether each is unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.svc.Progress.Achievements(context.Background(), userID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tID\tTITLE\tDESCRIPTION")
		for _, ach := range list {
			mark := " "
			if ach.Unlocked {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, ach.ID, ach.Title, ach.Description)
		}
		return w.Flush()
	},
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the health recovery timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.svc.Progress.HealthTimeline(context.Background(), userID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tAFTER\tEFFECT")
		for _, m := range list {
			mark := " "
			if m.Achieved {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", mark, m.Label, m.Description)
		}
		return w.Flush()
	},
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Show per-day craving and wellness aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		var end time.Time
		if windowEnd != "" {
			var err error
			if end, err = model.ParseDate(windowEnd); err != nil {
				return err
			}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		series, err := a.svc.Progress.Window(context.Background(), userID, windowDays, end)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tCRAVINGS\tINTENSITY\tMOOD\tENERGY\tFOCUS")
		for _, d := range series {
			fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\n",
				model.FormatDate(d.Date), d.CravingCount, d.AvgCravingIntensity, d.AvgMood, d.AvgEnergy, d.AvgFocus)
		}
		return w.Flush()
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard summary as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.svc.Progress.Summary(context.Background(), userID)
		if err != nil {
			return err
		}
		return printJSON(sum)
	},
}
