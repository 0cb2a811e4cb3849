package cmd

import (
	"context"

	"github.com/oneconcern/cmon/pkg/core"
	"github.com/spf13/cobra"
)

var snapCmd = &cobra.Command{
	Use:   "snap [component...]",
	Short: "Snap components",
	Long: `Record versions of components identified by the hash of their content.

On a lane, snaps move the lane pointers and leave the default lane untouched.
Components depending on the snapped ones are snapped along, unless --skip-auto-snap is set.`,
	Example: `% cmon snap ui/button -m "wip"`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			wrapFatalln("open workspace", err)
			return
		}
		ids, err := targets(ctx, ws, args)
		if err != nil {
			wrapFatalln("resolve components", err)
			return
		}

		res, err := ws.Snap(ctx, core.SnapParams{
			IDs:                          ids,
			Message:                      cmonFlags.version.Message,
			Author:                       cliConfig.author(),
			Force:                        cmonFlags.version.Force,
			IgnoreUnresolvedDependencies: cmonFlags.version.IgnoreUnresolved,
			SkipTests:                    cmonFlags.version.SkipTests,
			SkipAutoSnap:                 cmonFlags.version.SkipAuto,
			ResolveUnmerged:              cmonFlags.version.ResolveUnmerged,
		})
		if err != nil {
			wrapFatalln("snap components", err)
			return
		}
		printVersioned(cmd.OutOrStdout(), "snapped", res.Snapped, res.AutoSnapped)
	},
}

func init() {
	addMessageFlag(snapCmd)
	addForceFlag(snapCmd)
	addIgnoreUnresolvedFlag(snapCmd)
	addSkipTestsFlag(snapCmd)
	addSkipAutoFlag(snapCmd, "skip-auto-snap", "Do not snap the components depending on the snapped ones")
	snapCmd.Flags().BoolVar(&cmonFlags.version.ResolveUnmerged, "resolve-unmerged", false, "Record the resolution of unmerged components")
	addAllFlag(snapCmd)
	addConcurrencyFactorFlag(snapCmd, 8)
	rootCmd.AddCommand(snapCmd)
}
