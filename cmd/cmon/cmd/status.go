package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/cmon/pkg/core"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/cobra"
)

func colorState(state core.State) string {
	switch state {
	case core.StateNew:
		return color.GreenString(state.String())
	case core.StateModified, core.StateStagedModified:
		return color.YellowString(state.String())
	case core.StateDeleted, core.StateMissingFromScope, core.StateNotExist:
		return color.RedString(state.String())
	case core.StateUnmodified, core.StateNested:
		return color.HiBlackString(state.String())
	default:
		return state.String()
	}
}

// statuses of all the components of the workspace, in a single session
func statuses(ctx context.Context, ws *core.Workspace) (model.IDs, []*core.Status, error) {
	s := ws.NewSession()
	ids := ws.Index().AllIDsAvailableOnLane()
	res := make([]*core.Status, 0, len(ids))
	for _, id := range ids {
		st, err := s.StatusOf(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		res = append(res, st)
	}
	return ids, res, nil
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the status of the components of the workspace",
	Long:    `Show how each component of the workspace compares to its stored versions.`,
	Aliases: []string{"st"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			wrapFatalln("open workspace", err)
			return
		}

		laneID, err := ws.CurrentLaneID(ctx)
		if err != nil {
			wrapFatalln("get current lane", err)
			return
		}
		ids, sts, err := statuses(ctx, ws)
		if err != nil {
			wrapFatalln("get status", err)
			return
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "on lane %s\n", color.CyanString(laneID.String()))
		if len(ids) == 0 {
			fmt.Fprintln(out, "no component tracked")
			return
		}
		table := uitable.New()
		table.MaxColWidth = 80
		table.AddRow("COMPONENT", "STATE")
		for i, id := range ids {
			table.AddRow(id.String(), colorState(sts[i].State()))
		}
		fmt.Fprintln(out, table)
	},
}

func init() {
	addConcurrencyFactorFlag(statusCmd, 8)
	rootCmd.AddCommand(statusCmd)
}
