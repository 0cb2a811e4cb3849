package cmd

import (
	"context"
	"fmt"

	"github.com/oneconcern/cmon/pkg/config"
	"github.com/oneconcern/cmon/pkg/core"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a workspace",
	Long: `Create a workspace in the current directory, or in the directory given by --workspace.

The workspace configuration is written in cmon.yaml. An existing workspace is left untouched.`,
	Example: `% cmon init --default-scope acme --remote /shared/scope`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		exists, err := config.Exists(appFs, cliConfig.Workspace)
		if err != nil {
			wrapFatalln("check workspace", err)
			return
		}
		if exists {
			wrapFatalln(fmt.Sprintf("a workspace already exists in %s", cliConfig.Workspace), nil)
			return
		}

		logger, err := getLogger()
		if err != nil {
			wrapFatalln("create logger", err)
			return
		}
		cfg := config.Default()
		cfg.DefaultScope = cmonFlags.init.DefaultScope
		cfg.Remote = cmonFlags.init.Remote
		if _, err = core.Init(ctx, appFs, cliConfig.Workspace, cfg, core.WithLogger(logger)); err != nil {
			wrapFatalln("create workspace", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "workspace created in %s\n", cliConfig.Workspace)
	},
}

func init() {
	initCmd.Flags().StringVar(&cmonFlags.init.DefaultScope, "default-scope", "", "The scope of components which were never exported")
	initCmd.Flags().StringVar(&cmonFlags.init.Remote, "remote", "", "The path to a remote scope to import components from")
	rootCmd.AddCommand(initCmd)
}
