package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docwire/checklinks/checker"
)

func defaultUserAgent() string {
	return fmt.Sprintf("checklinks/%s (+https://github.com/docwire/checklinks)", version)
}

// appConfig is the fully resolved run configuration. Flags override
// environment variables, which override the config file.
type appConfig struct {
	Checker   checker.Config
	Depth     int
	Verbosity int
	NoColor   bool
	Progress  bool
	Report    string
}

// categoryConfig is one custom extraction category from the config file.
type categoryConfig struct {
	Name    string   `mapstructure:"name"`
	Globs   []string `mapstructure:"globs"`
	Pattern string   `mapstructure:"pattern"`
	Group   int      `mapstructure:"group"`
}

// loadConfig resolves flags, CHECKLINKS_* environment variables, and the
// optional .checklinks.yaml config file into one appConfig.
func loadConfig(cmd *cobra.Command, root string) (appConfig, error) {
	v := viper.New()

	flags := cmd.Flags()
	for _, key := range []string{
		"verbose", "no-color", "depth", "concurrency", "timeout",
		"rate-limit", "retries", "user-agent", "respect-robots",
		"progress", "report",
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return appConfig{}, fmt.Errorf("bind flag %s: %w", key, err)
		}
	}

	v.SetEnvPrefix("CHECKLINKS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile, _ := flags.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return appConfig{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName(".checklinks")
		v.SetConfigType("yaml")
		v.AddConfigPath(root)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return appConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	categories, err := loadCategories(v)
	if err != nil {
		return appConfig{}, err
	}

	return appConfig{
		Checker: checker.Config{
			Categories:    categories,
			Concurrency:   v.GetInt("concurrency"),
			Timeout:       v.GetDuration("timeout"),
			RateLimit:     v.GetFloat64("rate-limit"),
			UserAgent:     v.GetString("user-agent"),
			RespectRobots: v.GetBool("respect-robots"),
			Retry:         checker.RetryPolicy{MaxRetries: v.GetInt("retries")},
		},
		Depth:     v.GetInt("depth"),
		Verbosity: v.GetInt("verbose"),
		NoColor:   v.GetBool("no-color"),
		Progress:  v.GetBool("progress"),
		Report:    v.GetString("report"),
	}, nil
}

// loadCategories prepends the config file's custom categories to the
// built-in set, so a custom category can take over an extension the
// builtins would otherwise claim.
func loadCategories(v *viper.Viper) ([]*checker.Category, error) {
	var custom []categoryConfig
	if err := v.UnmarshalKey("categories", &custom); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}

	categories := make([]*checker.Category, 0, len(custom))
	for _, cc := range custom {
		category, err := checker.NewCategory(cc.Name, cc.Globs, cc.Pattern, cc.Group)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return append(categories, checker.Builtins()...), nil
}
