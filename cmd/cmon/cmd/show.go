package cmd

import (
	"context"
	"fmt"

	units "github.com/docker/go-units"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <component>[@version]",
	Short: "Show a stored version of a component",
	Long: `Show the files and dependencies of a stored version of a component.

Without version, the latest tag is shown.`,
	Args: cobra.ExactArgs(1),
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
		if !id.HasVersion() {
			history, err := ws.History(ctx, id)
			if err != nil {
				wrapFatalln("get history", err)
				return
			}
			id = history.LatestID()
		}
		v, err := ws.LoadComponentFromModel(ctx, id)
		if err != nil {
			wrapFatalln("load version", err)
			return
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n\n", id)

		var total int64
		files := uitable.New()
		files.AddRow("FILE", "SIZE", "HASH")
		for _, f := range v.Files {
			total += f.Size
			files.AddRow(f.RelativePath, units.HumanSize(float64(f.Size)), f.Hash)
		}
		fmt.Fprintln(out, files)
		fmt.Fprintf(out, "%d file(s), %s\n\n", len(v.Files), units.HumanSize(float64(total)))

		deps := uitable.New()
		deps.AddRow("DEPENDENCY", "KIND")
		for _, kind := range model.DependencyKinds {
			for _, d := range v.Deps(kind) {
				deps.AddRow(d.ID, kind)
			}
		}
		fmt.Fprintln(out, deps)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
