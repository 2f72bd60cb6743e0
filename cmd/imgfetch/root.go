package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imgfetch",
	Short: "Download images, normalize them to JPEG and store them by URL hash",
	Long: `imgfetch downloads the images behind a list of URLs, converts each one
to a canonical JPEG (transparency flattened over white, 3-channel color),
optionally derives resized thumbnails, and stores everything under
content-addressed paths derived from a hash of the URL.

Already-downloaded images are skipped, so re-running the same list is
cheap and only fills in what is missing. Each URL is reported with the
MD5 checksum of its stored file, usable for duplicate detection.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .imgfetch.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`imgfetch {{.Version}}
Go Version: ` + runtime.Version() + `
`)
}
