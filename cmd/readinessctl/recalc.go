package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var recalcCmd = &cobra.Command{
	Use:   "recalc",
	Short: "Recalculate readiness against active target roles",
	Long:  "Recalculates readiness ignoring the cooldown and the skill-change check. A new snapshot is always appended with trigger admin_recalculate. Use --user for one account or --all for every user with an active target role.",
	RunE:  runRecalc,
}

var (
	recalcUser    string
	recalcAll     bool
	recalcWorkers int
	recalcRate    int
)

func init() {
	recalcCmd.Flags().StringVarP(&recalcUser, "user", "u", "", "User id")
	recalcCmd.Flags().BoolVar(&recalcAll, "all", false, "Recalculate every user with an active target role")
	recalcCmd.Flags().IntVar(&recalcWorkers, "workers", 4, "Concurrent recalculations with --all")
	recalcCmd.Flags().IntVar(&recalcRate, "rate", 0, "Max recalculations started per second with --all (0 = unlimited)")
	recalcCmd.MarkFlagsMutuallyExclusive("user", "all")
	recalcCmd.MarkFlagsOneRequired("user", "all")
	rootCmd.AddCommand(recalcCmd)
}

func runRecalc(cmd *cobra.Command, _ []string) error {
	var userID uuid.UUID
	if !recalcAll {
		id, err := uuid.Parse(recalcUser)
		if err != nil {
			return fmt.Errorf("invalid --user %q: %w", recalcUser, err)
		}
		userID = id
	}

	c, err := openContainer()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if recalcAll {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
		defer cancel()

		res, err := c.Readiness.RecalculateAll(ctx, recalcWorkers, recalcRate)
		if err != nil {
			return fmt.Errorf("recalculate all: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "total=%d succeeded=%d skipped=%d failed=%d\n",
			res.Total, res.Succeeded, res.Skipped, len(res.Failures))
		for _, f := range res.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "user=%s err=%v\n", f.UserID, f.Err)
		}
		if len(res.Failures) > 0 {
			return errors.New("some recalculations failed")
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	out, err := c.Readiness.AdminRecalculate(ctx, userID)
	if err != nil {
		return fmt.Errorf("recalculate: %w", err)
	}

	s := out.Snapshot
	fmt.Fprintf(cmd.OutOrStdout(), "role=%q percentage=%d score=%d/%d required=%d/%d snapshot=%s\n",
		out.Role.Name, s.Percentage, s.TotalScore, s.MaxPossibleScore, s.RequiredMet, s.RequiredTotal, s.ID)
	return nil
}
