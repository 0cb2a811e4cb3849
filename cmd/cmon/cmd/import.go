package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <component@version>...",
	Short: "Import components from the remote scope",
	Long: `Import components from the remote scope configured for the workspace.

Components without version are imported at their latest version. The first segment of
a component name with a slash is its scope.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			wrapFatalln("open workspace", err)
			return
		}

		ids := make(model.IDs, 0, len(args))
		for _, arg := range args {
			id, err := model.ParseID(arg, strings.Contains(arg, "/"))
			if err != nil {
				wrapFatalln("parse component id", err)
				return
			}
			ids = append(ids, id)
		}

		versions, err := ws.ImportPending(ctx, ids)
		if err != nil {
			wrapFatalln("import components", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d component(s) imported\n", len(versions))
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
