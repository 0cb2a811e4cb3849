package cmd

import (
	"github.com/oneconcern/cmon/pkg/model"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
//
// Values come from flags, CMON_* environment variables or a configuration file, in this order.
type CLIConfig struct {
	LogLevel  string `mapstructure:"loglevel" json:"loglevel" yaml:"loglevel"`
	Workspace string `mapstructure:"workspace" json:"workspace" yaml:"workspace"`
	Author    struct {
		Name  string `mapstructure:"name" json:"name" yaml:"name"`
		Email string `mapstructure:"email" json:"email" yaml:"email"`
	} `mapstructure:"author" json:"author" yaml:"author"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) author() model.Contributor {
	return model.Contributor{Name: c.Author.Name, Email: c.Author.Email}
}
