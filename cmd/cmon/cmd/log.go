package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log <component>",
	Short: "Show the versions of a component",
	Long:  `Displays the tags of a component with their log, the latest first.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			wrapFatalln("open workspace", err)
			return
		}
		id, err := ws.ParsedID(args[0])
		if err != nil {
			wrapFatalln("resolve component", err)
			return
		}
		versions, err := ws.ListVersions(ctx, id)
		if err != nil {
			wrapFatalln("list versions", err)
			return
		}

		out := cmd.OutOrStdout()
		for i := len(versions) - 1; i >= 0; i-- {
			v, err := ws.LoadComponentFromModel(ctx, id.ChangeVersion(versions[i]))
			if err != nil {
				wrapFatalln("load version", err)
				return
			}
			fmt.Fprintf(out, "version %s\n", color.MagentaString(versions[i]))
			fmt.Fprintf(out, " author: %s\n", color.YellowString(v.Log.Author.String()))
			fmt.Fprintf(out, "   date: %s\n", color.YellowString(v.Log.Date.Format(time.RFC3339)))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "    %s\n\n", v.Log.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}
