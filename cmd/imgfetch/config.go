package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"imgfetch/pkg/config"
)

var configPath string

// configCmd groups configuration management subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage imgfetch configuration",
}

// configInitCmd writes a config file populated with defaults
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Example: `  # Create .imgfetch.yaml in the current directory
  imgfetch config init

  # Create the file somewhere else
  imgfetch config init --path ~/.config/imgfetch/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}

		cfg := config.DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return err
		}

		fmt.Printf("wrote %s\n", configPath)
		return nil
	},
}

// configShowCmd prints the effective configuration after all layering
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}

		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVar(&configPath, "path", ".imgfetch.yaml", "where to write the config file")
}
