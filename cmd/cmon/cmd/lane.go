package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var laneCmd = &cobra.Command{
	Use:   "lane",
	Short: "Commands to manage lanes",
	Long: `Commands to manage lanes.

A lane is a named set of component versions diverging from the default lane, analogous
to a git branch.`,
}

var laneCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a lane",
	Long: `Create a lane branched from the checked out lane.

The new lane is not checked out: use "cmon lane switch".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			wrapFatalln("open workspace", err)
			return
		}
		lane, err := ws.CreateLane(ctx, args[0], nil, cliConfig.author())
		if err != nil {
			wrapFatalln("create lane", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "lane %s created\n", lane)
	},
}

var laneListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List lanes",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			wrapFatalln("open workspace", err)
			return
		}
		current, err := ws.CurrentLaneID(ctx)
		if err != nil {
			wrapFatalln("get current lane", err)
			return
		}
		lanes, err := ws.ListLanes(ctx)
		if err != nil {
			wrapFatalln("list lanes", err)
			return
		}

		table := uitable.New()
		table.AddRow("", "LANE", "COMPONENTS", "CREATED")
		for _, lane := range lanes {
			marker := ""
			name := lane.Name
			if lane.Name == current.Name {
				marker = "*"
				name = color.CyanString(name)
			}
			table.AddRow(marker, name, len(lane.Components), lane.Timestamp.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
	},
}

var laneSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Check out a lane",
	Long:  `Check out a lane, or the default lane "main".`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			wrapFatalln("open workspace", err)
			return
		}
		if err = ws.SwitchLane(ctx, args[0]); err != nil {
			wrapFatalln("switch lane", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "switched to lane %s\n", args[0])
	},
}

func init() {
	laneCmd.AddCommand(laneCreateCmd, laneListCmd, laneSwitchCmd)
	rootCmd.AddCommand(laneCmd)
}
