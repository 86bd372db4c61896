package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage somatic-filter configuration",
		Long:  "Show, get, or set default filter settings. Config is stored in ~/.somatic-filter.yaml.",
		Example: `  somatic-filter config                          # show all settings
  somatic-filter config set min-exac-ac 20         # raise the commonality threshold
  somatic-filter config set whitelist /data/wl.txt # always apply a whitelist
  somatic-filter config get mode                   # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

// configFile returns a viper instance holding only what the config file
// sets, without defaults or environment overrides.
func configFile() (*viper.Viper, string, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, ".somatic-filter.yaml")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("reading config %s: %w", path, err)
	}
	return v, path, nil
}

func runConfigShow(w io.Writer) error {
	v, path, err := configFile()
	if err != nil {
		return err
	}
	settings := v.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintf(w, "# No configuration set. Config file: %s\n", path)
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(w, string(out))
	return nil
}

func runConfigSet(w io.Writer, key, value string) error {
	v, path, err := configFile()
	if err != nil {
		return err
	}

	// Store booleans and integers with their YAML types
	switch value {
	case "true", "yes", "on":
		v.Set(key, true)
	case "false", "no", "off":
		v.Set(key, false)
	default:
		if n, err := strconv.Atoi(value); err == nil {
			v.Set(key, n)
		} else {
			v.Set(key, value)
		}
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, path)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	v, _, err := configFile()
	if err != nil {
		return err
	}
	val := v.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, val)
	return nil
}
