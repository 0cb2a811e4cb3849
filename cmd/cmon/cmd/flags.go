// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/cmon/pkg/core"
	"github.com/oneconcern/cmon/pkg/dlogger"
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type flagsT struct {
	version struct {
		Message          string
		ExactVersion     string
		ReleaseType      string
		Force            bool
		IgnoreUnresolved bool
		IgnoreNewest     bool
		SkipTests        bool
		SkipAuto         bool
		ResolveUnmerged  bool
		All              bool
	}
	component struct {
		Name     string
		Scope    string
		MainFile string
	}
	init struct {
		DefaultScope string
		Remote       string
	}
	core struct {
		ConcurrencyFactor int
	}
}

var cmonFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().String(logLevel, dlogger.LogLevelInfo, "The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	_ = viper.BindPFlag(logLevel, cmd.PersistentFlags().Lookup(logLevel))
	return logLevel
}

func addWorkspaceFlag(cmd *cobra.Command) string {
	workspace := "workspace"
	cmd.PersistentFlags().StringP(workspace, "w", ".", "The root directory of the workspace")
	_ = viper.BindPFlag(workspace, cmd.PersistentFlags().Lookup(workspace))
	return workspace
}

func addAuthorFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("author-name", "", "The name of the author of new versions")
	cmd.PersistentFlags().String("author-email", "", "The email of the author of new versions")
	_ = viper.BindPFlag("author.name", cmd.PersistentFlags().Lookup("author-name"))
	_ = viper.BindPFlag("author.email", cmd.PersistentFlags().Lookup("author-email"))
}

func addMessageFlag(cmd *cobra.Command) string {
	message := "message"
	cmd.Flags().StringVarP(&cmonFlags.version.Message, message, "m", "", "The message describing the new versions")
	return message
}

func addExactVersionFlag(cmd *cobra.Command) string {
	exact := "exact-version"
	cmd.Flags().StringVar(&cmonFlags.version.ExactVersion, exact, "", "The semantic version given to all tagged components")
	return exact
}

func addReleaseTypeFlag(cmd *cobra.Command) string {
	release := "release"
	cmd.Flags().StringVar(&cmonFlags.version.ReleaseType, release, "patch", "The increment of the latest version: patch, minor or major")
	return release
}

func addForceFlag(cmd *cobra.Command) string {
	force := "force"
	cmd.Flags().BoolVarP(&cmonFlags.version.Force, force, "f", false, "Version components even when they are not modified")
	return force
}

func addIgnoreUnresolvedFlag(cmd *cobra.Command) string {
	ignore := "ignore-unresolved-dependencies"
	cmd.Flags().BoolVar(&cmonFlags.version.IgnoreUnresolved, ignore, false, "Version components with unresolved dependencies")
	return ignore
}

func addIgnoreNewestFlag(cmd *cobra.Command) string {
	ignore := "ignore-newest-version"
	cmd.Flags().BoolVar(&cmonFlags.version.IgnoreNewest, ignore, false, "Accept an exact version older than the latest one")
	return ignore
}

func addSkipTestsFlag(cmd *cobra.Command) string {
	skip := "skip-tests"
	cmd.Flags().BoolVar(&cmonFlags.version.SkipTests, skip, false, "Do not run the tests of the versioned components")
	return skip
}

func addSkipAutoFlag(cmd *cobra.Command, name, usage string) string {
	cmd.Flags().BoolVar(&cmonFlags.version.SkipAuto, name, false, usage)
	return name
}

func addAllFlag(cmd *cobra.Command) string {
	all := "all"
	cmd.Flags().BoolVarP(&cmonFlags.version.All, all, "a", false, "Version all new and modified components")
	return all
}

func addComponentNameFlag(cmd *cobra.Command) string {
	name := "name"
	cmd.Flags().StringVar(&cmonFlags.component.Name, name, "", "The name of the component, defaults to the directory name")
	return name
}

func addScopeFlag(cmd *cobra.Command) string {
	scope := "scope"
	cmd.Flags().StringVar(&cmonFlags.component.Scope, scope, "", "The scope of the component")
	return scope
}

func addMainFileFlag(cmd *cobra.Command) string {
	main := "main"
	cmd.Flags().StringVar(&cmonFlags.component.MainFile, main, "index.js", "The main file of the component")
	return main
}

func addConcurrencyFactorFlag(cmd *cobra.Command, defaultConcurrency int) string {
	concurrency := "concurrency-factor"
	cmd.Flags().IntVar(&cmonFlags.core.ConcurrencyFactor, concurrency, defaultConcurrency, "Heuristic on the amount of concurrency used by operations")
	return concurrency
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		err := cmd.MarkFlagRequired(flag)
		if err != nil {
			logFatalln(err)
		}
	}
}

func getLogger() (*zap.Logger, error) {
	return dlogger.GetLogger(cliConfig.LogLevel)
}

// openWorkspace opens the workspace designated by the CLI configuration
func openWorkspace(ctx context.Context) (*core.Workspace, error) {
	logger, err := getLogger()
	if err != nil {
		return nil, err
	}
	opts := []core.Option{core.WithLogger(logger)}
	if cmonFlags.core.ConcurrencyFactor > 0 {
		opts = append(opts, core.WithLoadConcurrency(cmonFlags.core.ConcurrencyFactor))
	}
	return core.Open(ctx, appFs, cliConfig.Workspace, opts...)
}

// parseIDs resolves command arguments into tracked components
func parseIDs(ws *core.Workspace, args []string) (model.IDs, error) {
	ids := make(model.IDs, 0, len(args))
	for _, arg := range args {
		id, err := ws.ParsedID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
