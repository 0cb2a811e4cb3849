package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/oneconcern/cmon/pkg/core"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/cobra"
)

// targets of a versioning command: the arguments, or all new and modified components
func targets(ctx context.Context, ws *core.Workspace, args []string) (model.IDs, error) {
	if !cmonFlags.version.All {
		return parseIDs(ws, args)
	}
	ids, sts, err := statuses(ctx, ws)
	if err != nil {
		return nil, err
	}
	var res model.IDs
	for i, id := range ids {
		switch sts[i].State() {
		case core.StateNew, core.StateModified, core.StateStagedModified:
			res = append(res, id)
		}
	}
	return res, nil
}

func printVersioned(w io.Writer, verb string, versioned model.IDs, auto []core.AutoTagResult) {
	fmt.Fprintf(w, "%d component(s) %s\n", len(versioned), verb)
	for _, id := range versioned {
		fmt.Fprintf(w, "  %s\n", color.GreenString(id.String()))
	}
	if len(auto) == 0 {
		return
	}
	fmt.Fprintf(w, "%d dependent component(s) %s along\n", len(auto), verb)
	for _, a := range auto {
		fmt.Fprintf(w, "  %s %s\n", color.GreenString(a.ID.String()), color.HiBlackString("(dependencies changed: %s)", a.TriggeredBy))
	}
}

var tagCmd = &cobra.Command{
	Use:   "tag [component...]",
	Short: "Tag components with a semantic version",
	Long: `Tag components with a semantic version.

Tags are immutable. Components depending on the tagged ones are tagged with a patch
version pointing to the new versions, unless --skip-auto-tag is set.

The batch is rejected as a whole when a component has unresolved dependencies.`,
	Example: `% cmon tag ui/button --release minor -m "new sizes"
% cmon tag --all`,
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
		release, err := core.ParseReleaseType(cmonFlags.version.ReleaseType)
		if err != nil {
			wrapFatalln("parse release type", err)
			return
		}

		res, err := ws.Tag(ctx, core.TagParams{
			IDs:                          ids,
			Message:                      cmonFlags.version.Message,
			Author:                       cliConfig.author(),
			ExactVersion:                 cmonFlags.version.ExactVersion,
			ReleaseType:                  release,
			Force:                        cmonFlags.version.Force,
			IgnoreUnresolvedDependencies: cmonFlags.version.IgnoreUnresolved,
			IgnoreNewestVersion:          cmonFlags.version.IgnoreNewest,
			SkipTests:                    cmonFlags.version.SkipTests,
			SkipAutoTag:                  cmonFlags.version.SkipAuto,
		})
		if err != nil {
			wrapFatalln("tag components", err)
			return
		}
		printVersioned(cmd.OutOrStdout(), "tagged", res.Tagged, res.AutoTagged)
	},
}

func init() {
	addMessageFlag(tagCmd)
	addExactVersionFlag(tagCmd)
	addReleaseTypeFlag(tagCmd)
	addForceFlag(tagCmd)
	addIgnoreUnresolvedFlag(tagCmd)
	addIgnoreNewestFlag(tagCmd)
	addSkipTestsFlag(tagCmd)
	addSkipAutoFlag(tagCmd, "skip-auto-tag", "Do not tag the components depending on the tagged ones")
	addAllFlag(tagCmd)
	addConcurrencyFactorFlag(tagCmd, 8)
	rootCmd.AddCommand(tagCmd)
}
