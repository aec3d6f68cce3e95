// =============================================================================
// JPK V7M Converter - Converter Module
// =============================================================================
//
// Core conversion logic. Orchestrates the whole pipeline for a single
// input file:
//
//   1. Read the tabular input (CSV or XLSX)
//   2. Detect the input format (sectioned vs. single-header)
//   3. Parse the rows into sections
//   4. Map sections into the typed domain bundle
//   5. Serialize the bundle as JPK_V7M XML
//   6. Validate the resulting document
//   7. Write the output file
//   8. Archive the processed files
//
// CONCURRENCY:
//   Each file is processed in its own goroutine. A Converter holds no
//   mutable shared state, so instances can run concurrently.
//
// =============================================================================

package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ksiegowy/jpk-vat7-converter/internal/config"
	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
	"github.com/ksiegowy/jpk-vat7-converter/internal/mapper"
	"github.com/ksiegowy/jpk-vat7-converter/internal/sections"
	"github.com/ksiegowy/jpk-vat7-converter/internal/table"
	"github.com/ksiegowy/jpk-vat7-converter/internal/validation"
	"github.com/ksiegowy/jpk-vat7-converter/internal/xmlwriter"
	"github.com/ksiegowy/jpk-vat7-converter/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the input file that was processed.
	FilePath string

	// OutputFile is the generated XML file. Empty if processing failed.
	OutputFile string

	// Format is the detected input layout.
	Format sections.Format

	// Success indicates whether processing completed.
	Success bool

	// Error is the failure, nil on success. Its jpk error code names the
	// pipeline stage that failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of raw rows read from the input file.
	RowsRead int

	// SalesRows and PurchaseRows count the mapped ledger rows.
	SalesRows    int
	PurchaseRows int

	// SchemaValid reports the validation outcome. Schema violations do
	// not fail the conversion; the document is still written so the
	// caller can inspect it.
	SchemaValid bool

	// Diagnostics is the number of validation findings.
	Diagnostics int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single input file to JPK_V7M XML.
type Converter struct {
	inputPath string
	cfg       *config.Config

	catalog   *sections.Catalog
	detector  *sections.Detector
	mapper    *mapper.Mapper
	writer    *xmlwriter.Writer
	validator *validation.Validator
	files     *utils.FileManager

	// DryRun skips writing and archiving; the pipeline still runs in full.
	DryRun bool

	logger Logger
}

// New creates a Converter for one input file.
func New(inputPath string, cfg *config.Config) *Converter {
	catalog := sections.DefaultCatalog()
	return &Converter{
		inputPath: inputPath,
		cfg:       cfg,
		catalog:   catalog,
		detector:  sections.NewDetector(catalog),
		mapper:    mapper.New(cfg.Schema),
		writer:    xmlwriter.New(cfg.Schema),
		validator: validation.New(cfg.Schema),
		files:     utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir),
		logger:    &defaultLogger{},
	}
}

// SetLogger replaces the default stdout logger.
func (c *Converter) SetLogger(l Logger) {
	if l != nil {
		c.logger = l
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file and reports the
// outcome as a Result. It never panics on bad input; every failure comes
// back as Result.Error.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.inputPath,
		Success:  false,
	}

	c.logger.Info("Processing file: %s", c.inputPath)

	// =========================================================================
	// STEP 1: READ TABULAR INPUT
	// =========================================================================

	tbl, err := c.readTable()
	if err != nil {
		result.Error = fmt.Errorf("failed to read input: %w", err)
		return result
	}
	result.Stats.RowsRead = tbl.RowCount()
	c.logger.Debug("Read %d rows from %s", tbl.RowCount(), filepath.Base(c.inputPath))

	// =========================================================================
	// STEP 2: DETECT FORMAT
	// =========================================================================

	format, err := c.detector.Detect(tbl)
	if err != nil {
		result.Error = err
		return result
	}
	result.Format = format
	c.logger.Debug("Detected %s layout", format)

	// =========================================================================
	// STEP 3: PARSE SECTIONS
	// =========================================================================

	var parsed *sections.ParsedSections
	switch format {
	case sections.FormatSectioned:
		parsed, err = sections.NewSectionedParser(c.catalog).Parse(tbl)
	case sections.FormatSingleHeader:
		parsed, err = sections.NewSingleHeaderParser().Parse(tbl)
	default:
		err = jpk.Errf("detect.unrecognized", "no parser for layout %s", format)
	}
	if err != nil {
		result.Error = err
		return result
	}
	c.logger.Debug("Parsed %d sections", parsed.Len())

	// =========================================================================
	// STEP 4: MAP TO DOMAIN BUNDLE
	// =========================================================================

	bundle, err := c.mapper.MapToBundle(parsed)
	if err != nil {
		result.Error = err
		return result
	}
	result.Stats.SalesRows = len(bundle.SprzedazWiersze)
	result.Stats.PurchaseRows = len(bundle.ZakupWiersze)
	c.logger.Debug("Mapped bundle: %d sales rows, %d purchase rows",
		len(bundle.SprzedazWiersze), len(bundle.ZakupWiersze))

	// =========================================================================
	// STEP 5: SERIALIZE XML
	// =========================================================================

	doc, err := c.writer.Write(bundle)
	if err != nil {
		result.Error = err
		return result
	}
	c.logger.Debug("Serialized %d bytes of XML", len(doc))

	// =========================================================================
	// STEP 6: VALIDATE DOCUMENT
	// =========================================================================
	// Schema violations are reported but never discard the document; only
	// an unreadable schema file fails the conversion.

	vres, err := c.validator.Validate(doc)
	if err != nil {
		result.Error = err
		return result
	}
	result.Stats.SchemaValid = vres.Valid
	result.Stats.Diagnostics = len(vres.Diagnostics)
	for _, d := range vres.Diagnostics {
		c.logger.Warn("Validation: %s", d)
	}
	if !vres.Valid {
		c.logger.Warn("Document failed schema validation, writing output anyway")
	}

	// =========================================================================
	// STEP 7: WRITE OUTPUT FILE
	// =========================================================================

	if c.DryRun {
		c.logger.Info("Dry run, skipping output for %s", filepath.Base(c.inputPath))
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	outputPath, err := c.writeOutput(doc, bundle)
	if err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}
	result.OutputFile = outputPath
	c.logger.Info("Wrote output to: %s", outputPath)

	// =========================================================================
	// STEP 8: ARCHIVE FILES
	// =========================================================================
	// Archival failures are logged but never fail the conversion.

	if _, err := c.files.ArchiveOutputFile(outputPath); err != nil {
		c.logger.Warn("Failed to archive output file: %v", err)
	}
	if _, err := c.files.ArchiveInputFile(c.inputPath); err != nil {
		c.logger.Warn("Failed to archive input file: %v", err)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// readTable picks the reader by file extension.
func (c *Converter) readTable() (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(c.inputPath)) {
	case ".csv":
		return table.ReadCSV(c.inputPath, c.cfg.CSV)
	case ".xlsx":
		return table.ReadXLSX(c.inputPath)
	default:
		return nil, fmt.Errorf("unsupported input extension on %s", filepath.Base(c.inputPath))
	}
}

// writeOutput expands the configured name format and writes the document.
func (c *Converter) writeOutput(doc []byte, bundle *jpk.Bundle) (string, error) {
	base := filepath.Base(c.inputPath)
	params := map[string]string{
		"period":   fmt.Sprintf("%04d%02d", bundle.Naglowek.Rok, bundle.Naglowek.Miesiac),
		"original": strings.TrimSuffix(base, filepath.Ext(base)),
	}

	fileName := utils.GenerateOutputFileName(c.cfg.OutputNameFormat, params)
	if filepath.Ext(fileName) != ".xml" {
		fileName += ".xml"
	}

	outputPath := filepath.Join(c.cfg.OutputDir, fileName)
	if err := os.WriteFile(outputPath, doc, 0644); err != nil {
		return "", err
	}
	return outputPath, nil
}
