// =============================================================================
// JPK V7M Converter - Convert Command
// =============================================================================
//
// The 'convert' command is the workhorse: it discovers input files and runs
// the conversion pipeline over them, either as a batch or for one file.
//
// COMMAND USAGE:
//   jpkconv convert [flags]
//
// FLAGS:
//   --dry-run : Run the full pipeline but write no output files
//   --single  : Convert only one file (specify with --file)
//   --file    : Path to the file to convert (used with --single)
//
// Batch runs process files concurrently up to the configured worker limit.
// A failed file never stops the batch; failures are collected into the
// summary and, unless continue-on-error is set, reflected in the exit code.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksiegowy/jpk-vat7-converter/internal/config"
	"github.com/ksiegowy/jpk-vat7-converter/internal/converter"
	"github.com/ksiegowy/jpk-vat7-converter/pkg/utils"
)

// dryRun runs the pipeline without writing output files.
var dryRun bool

// singleFile restricts the run to one file.
var singleFile bool

// filePath is the file to convert when --single is set.
var filePath string

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert tabular VAT records to JPK_V7M XML",
	Long: `The convert command scans the input directory for CSV and XLSX files,
detects each file's layout, and converts it into a JPK_V7M XML document.

Files are processed concurrently up to the configured worker limit. Each
file is independent; an error in one file does not affect the others.

On success:
  - The generated XML lands in the output directory
  - The input file moves to the input archive
  - The output file is copied to the output archive

On error:
  - The input file stays in the input directory
  - The failure appears in the summary with its error code`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert()
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run the pipeline without writing output files",
	)
	convertCmd.Flags().BoolVar(
		&singleFile,
		"single",
		false,
		"Convert only one file (use with --file)",
	)
	convertCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to the file to convert (used with --single)",
	)
}

// =============================================================================
// MAIN CONVERSION FUNCTION
// =============================================================================

func runConvert() error {
	startTime := time.Now()

	fmt.Println("=== JPK V7M Converter ===")
	fmt.Println("Loading configuration...")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// =========================================================================
	// DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if singleFile {
		if filePath == "" {
			return fmt.Errorf("--single requires --file")
		}
		if !utils.FileExists(filePath) {
			return fmt.Errorf("input file %s does not exist", filePath)
		}
		inputFiles = []string{filePath}
	} else {
		fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
		inputFiles, err = fm.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Println("No convertible files found in the input directory.")
		return nil
	}
	fmt.Printf("Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// PROCESS FILES CONCURRENTLY
	// =========================================================================
	// A buffered semaphore caps in-flight conversions at the configured
	// worker limit; results come back over a channel.

	fmt.Println("Processing files...")

	var wg sync.WaitGroup
	results := make(chan converter.Result, len(inputFiles))
	workers := cfg.MaxConcurrency
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	for _, file := range inputFiles {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			conv := converter.New(path, cfg)
			conv.DryRun = dryRun
			conv.SetLogger(newCliLogger(verbose))
			results <- conv.Run()
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// COLLECT RESULTS AND PRINT SUMMARY
	// =========================================================================

	var successCount, errorCount int
	for result := range results {
		if result.Success {
			successCount++
			if dryRun {
				fmt.Printf("  ok %s (dry run, %s layout)\n", filepath.Base(result.FilePath), result.Format)
			} else {
				fmt.Printf("  ok %s -> %s\n", filepath.Base(result.FilePath), result.OutputFile)
			}
		} else {
			errorCount++
			fmt.Printf("  FAIL %s: %v\n", filepath.Base(result.FilePath), result.Error)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total files:  %d\n", len(inputFiles))
	fmt.Printf("Successful:   %d\n", successCount)
	fmt.Printf("Errors:       %d\n", errorCount)
	fmt.Printf("Time elapsed: %s\n", elapsed)

	if errorCount > 0 && !cfg.ContinueOnError {
		return fmt.Errorf("%d of %d file(s) failed", errorCount, len(inputFiles))
	}
	return nil
}

// =============================================================================
// CLI LOGGER
// =============================================================================

// cliLogger writes pipeline logs to stdout, hiding debug lines unless
// --verbose is set.
type cliLogger struct {
	debug bool
}

func newCliLogger(debug bool) *cliLogger {
	return &cliLogger{debug: debug}
}

func (l *cliLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		fmt.Printf("[DEBUG] "+msg+"\n", args...)
	}
}

func (l *cliLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (l *cliLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("[WARN] "+msg+"\n", args...)
}

func (l *cliLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("[ERROR] "+msg+"\n", args...)
}
