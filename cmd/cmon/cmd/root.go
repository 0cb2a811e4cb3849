// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/oneconcern/cmon/pkg/dlogger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmon",
	Short: "cmon versions the components of a workspace",
	Long: `cmon tracks components living in a workspace and records immutable versions of them.

Components are tagged with semantic versions, or snapped with content hashes while
working on a lane. Components depending on versioned ones are versioned along.
`,
	SilenceUsage: true,
}

var cliConfig *CLIConfig

// appFs is the file system of the workspace
var appFs = afero.NewOsFs()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevelFlag(rootCmd)
	addWorkspaceFlag(rootCmd)
	addAuthorFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("loglevel", dlogger.LogLevelInfo)
	viper.SetDefault("workspace", ".")
	if os.Getenv("CMON_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("CMON_CONFIG"))
	} else {
		viper.AddConfigPath("$HOME/.cmon")
		viper.AddConfigPath("/etc/cmon")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("cmon")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}

	var err error
	cliConfig, err = newConfig()
	if err != nil {
		wrapFatalln("read cli configuration", err)
	}
}
