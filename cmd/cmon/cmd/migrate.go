package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the workspace index",
	Long: `Migrate the workspace index to the current schema.

Indexes written by older versions are migrated whenever a workspace is opened:
this command reports what was applied.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			wrapFatalln("open workspace", err)
			return
		}
		res := ws.MigrationResult()
		if !res.Run {
			if res, err = ws.Migrate(ctx); err != nil {
				wrapFatalln("migrate workspace index", err)
				return
			}
		}

		out := cmd.OutOrStdout()
		if !res.Run {
			fmt.Fprintf(out, "workspace index is up to date (schema %s)\n", ws.Index().Version())
			return
		}
		fmt.Fprintf(out, "workspace index migrated to schema %s: %s\n", ws.Index().Version(), strings.Join(res.Applied, ", "))
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
