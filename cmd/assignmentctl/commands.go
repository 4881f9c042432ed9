package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"cleaningmanager/services/assignment"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type opener func(ctx context.Context) (assignment.AssignmentService, func(), error)

func newRootCmd(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "assignmentctl",
		Short:        "Migrate legacy cleaning assignment ids to <date>_<bookingId>",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("store-backend", "", "Record store backend (firestore, mongo, memory)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	bindFlag(rootCmd, "STORE_BACKEND", "store-backend")
	bindFlag(rootCmd, "LOG_LEVEL", "log-level")

	rootCmd.AddCommand(
		newPlanCmd(open),
		newApplyCmd(open),
		newLegacyCmd(open),
		newCleanupCmd(open),
	)
	return rootCmd
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// withService opens the service for the duration of run.
func withService(open opener, run func(cmd *cobra.Command, svc assignment.AssignmentService) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		svc, closer, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()
		return run(cmd, svc)
	}
}

func newPlanCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the migration plan without writing anything",
		RunE: withService(open, func(cmd *cobra.Command, svc assignment.AssignmentService) error {
			plan, err := svc.PlanMigration(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), plan)
		}),
	}
}

func newApplyCmd(open opener) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create canonical records for every legacy record; legacy records are kept",
		RunE: withService(open, func(cmd *cobra.Command, svc assignment.AssignmentService) error {
			ctx := cmd.Context()
			plan, err := svc.PlanMigration(ctx)
			if err != nil {
				return err
			}
			if dryRun {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			result, err := svc.ApplyMigration(ctx, plan)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d entries failed; rerun apply to retry them", result.Failed)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan instead of applying it")
	return cmd
}

func newLegacyCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "legacy",
		Short: "List the ids of records still stored under a legacy id",
		RunE: withService(open, func(cmd *cobra.Command, svc assignment.AssignmentService) error {
			ids, err := svc.LegacyIDs(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ids)
		}),
	}
}

func newCleanupCmd(open opener) *cobra.Command {
	var (
		ids       []string
		allLegacy bool
		confirm   bool
	)
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete legacy records after apply has succeeded",
		RunE: withService(open, func(cmd *cobra.Command, svc assignment.AssignmentService) error {
			ctx := cmd.Context()
			targets := ids
			if allLegacy {
				legacy, err := svc.LegacyIDs(ctx)
				if err != nil {
					return err
				}
				targets = legacy
			}
			if len(targets) == 0 {
				return fmt.Errorf("nothing to delete: pass --ids or --all-legacy")
			}
			if !confirm {
				fmt.Fprintf(cmd.OutOrStdout(), "would delete %d legacy records (pass --yes to delete):\n", len(targets))
				return writeJSON(cmd.OutOrStdout(), targets)
			}
			result, err := svc.DeleteLegacyRecords(ctx, targets)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d deletions failed", result.Failed)
			}
			return nil
		}),
	}
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Legacy ids to delete")
	cmd.Flags().BoolVar(&allLegacy, "all-legacy", false, "Delete every record still under a legacy id")
	cmd.Flags().BoolVar(&confirm, "yes", false, "Delete instead of listing")
	cmd.MarkFlagsMutuallyExclusive("ids", "all-legacy")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
