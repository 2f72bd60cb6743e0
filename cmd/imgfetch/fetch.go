package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"imgfetch/internal/pipeline"
	"imgfetch/pkg/config"
	"imgfetch/pkg/logger"
)

var (
	// Fetch command flags
	outputDir    string
	workers      int
	timeout      time.Duration
	force        bool
	inputFile    string
	enableThumbs bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [flags] <url>...",
	Short: "Download one or more image URLs into the store",
	Long: `Download the images behind the given URLs, normalize them to canonical
JPEGs and persist them under the store directory.

URLs can be passed as arguments, read from a file with --input (one URL
per line, blank lines and #-comments ignored), or both. A single URL runs
directly and fails the command on error; several URLs run as a batch
where individual failures are reported per URL without stopping the rest.

Each successful URL prints a line "<url>\t<checksum>"; a failed URL in a
batch prints "<url>\tERROR: <reason>".`,
	Example: `  # Download a single image
  imgfetch fetch https://example.com/cat.png

  # Download a list of URLs with 8 parallel workers
  imgfetch fetch --input urls.txt --workers 8

  # Re-download even if the files already exist
  imgfetch fetch --input urls.txt --force

  # Store under a specific directory with thumbnails enabled
  imgfetch fetch --output ./images --thumbs --input urls.txt`,
	Args: cobra.ArbitraryArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "store directory for downloaded images")
	fetchCmd.Flags().IntVar(&workers, "workers", 0, "number of parallel downloads")
	fetchCmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout per network request")
	fetchCmd.Flags().BoolVar(&force, "force", false, "download even if the files already exist")
	fetchCmd.Flags().StringVarP(&inputFile, "input", "i", "", "file with URLs, one per line")
	fetchCmd.Flags().BoolVar(&enableThumbs, "thumbs", false, "generate configured thumbnails")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	applyFetchFlags(cmd, cfg)

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}
	log := logger.GetLogger()

	urls, err := collectURLs(args)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given: pass them as arguments or via --input")
	}

	pl, err := pipeline.NewFromConfig(cfg, log)
	if err != nil {
		return err
	}

	ctx := context.Background()

	// A single URL surfaces its failure directly; a batch records
	// failures per URL and always runs to completion.
	if len(urls) == 1 {
		checksum, err := pl.DownloadOne(ctx, urls[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", urls[0], checksum)
		return nil
	}

	results, err := pl.DownloadBatch(ctx, urls)
	if err != nil {
		return err
	}
	printResults(results)
	return nil
}

// applyFetchFlags overrides config values with explicitly set flags
func applyFetchFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Store.Path = outputDir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Download.Workers = workers
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Download.Timeout = timeout
	}
	if cmd.Flags().Changed("force") {
		cfg.Download.Force = force
	}
	if cmd.Flags().Changed("thumbs") {
		cfg.Thumbs.Enabled = enableThumbs
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}

// collectURLs merges argument URLs with the --input file, if given
func collectURLs(args []string) ([]string, error) {
	urls := append([]string{}, args...)

	if inputFile == "" {
		return urls, nil
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	return urls, nil
}

// printResults writes one line per URL in a stable order
func printResults(results map[string]pipeline.Result) {
	urls := make([]string, 0, len(results))
	for u := range results {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	for _, u := range urls {
		result := results[u]
		if result.OK() {
			fmt.Printf("%s\t%s\n", u, result.Checksum)
		} else {
			fmt.Printf("%s\tERROR: %v\n", u, result.Err)
		}
	}
}
