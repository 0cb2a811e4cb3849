package cmd

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/oneconcern/cmon/pkg/index"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <directory>",
	Short: "Track a component",
	Long: `Track the directory of a component, relative to the workspace root.

All files under the directory belong to the component, except hidden ones and installed packages.`,
	Example: `% cmon add components/button --name ui/button`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			wrapFatalln("open workspace", err)
			return
		}

		dir := path.Clean(filepath.ToSlash(args[0]))
		name := cmonFlags.component.Name
		if name == "" {
			name = path.Base(dir)
		}
		id := model.ID{Scope: cmonFlags.component.Scope, Name: name}
		if _, ok := ws.Index().GetWithoutVersion(id); ok {
			wrapFatalln(fmt.Sprintf("component %s is already tracked", id), nil)
			return
		}

		err = ws.Index().Add(index.Entry{
			Scope:    id.Scope,
			Name:     id.Name,
			RootDir:  dir,
			Origin:   model.Authored,
			MainFile: cmonFlags.component.MainFile,
		})
		if err != nil {
			wrapFatalln("track component", err)
			return
		}
		if err = ws.Write(); err != nil {
			wrapFatalln("write workspace index", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tracking %s in %s\n", id, dir)
	},
}

func init() {
	addComponentNameFlag(addCmd)
	addScopeFlag(addCmd)
	addMainFileFlag(addCmd)
	rootCmd.AddCommand(addCmd)
}
