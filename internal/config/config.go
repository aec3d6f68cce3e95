// =============================================================================
// JPK V7M Converter - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration. One YAML file
// (config.yaml) covers the whole tool:
//   - Directory layout (input, output, archives)
//   - Input reader settings (CSV delimiter and encoding)
//   - Schema options for the produced document (root element, namespace,
//     output encoding, optional XSD path, designated tax-sum columns)
//   - Processing options (concurrency, continue-on-error, output naming)
//
// A .env file, when present, is loaded before the YAML so deployment
// environments can override selected paths without editing the config file.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	// InputDir is scanned for files to convert.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the generated XML documents.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives consumed input files after a successful run.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives copies of generated documents.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// OutputNameFormat names generated files. Placeholders:
	//   {uuid}      - random UUID
	//   {timestamp} - YYYYMMDD_HHMMSS
	//   {period}    - reporting period as YYYYMM from the mapped header
	// Default: "JPK_V7M_{period}_{uuid}.xml"
	OutputNameFormat string `yaml:"output_name_format"`

	// MaxConcurrency caps the number of files converted in parallel.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps a batch running when one file fails.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error"`

	// CSV configures the CSV table reader.
	CSV CSVSettings `yaml:"csv"`

	// Schema configures the produced document and its validation.
	Schema SchemaOptions `yaml:"schema"`
}

// CSVSettings configures the CSV cell reader.
type CSVSettings struct {
	// Delimiter separates cells. Accepts a literal character or the
	// aliases "tab", "pipe", "semicolon". Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the IANA name of the input character encoding.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// SchemaOptions configures the produced XML document.
type SchemaOptions struct {
	// RootElement is the document root element name. Default: "JPK"
	RootElement string `yaml:"root_element"`

	// NamespaceURI is the target namespace, emitted as the default
	// (unprefixed) namespace of the document.
	NamespaceURI string `yaml:"namespace_uri"`

	// Encoding is the IANA name of the output character encoding. The XML
	// declaration states it and the produced bytes are encoded with it.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// XsdPath points at the XSD used by the validation boundary.
	// Empty disables validation (no-op success).
	XsdPath string `yaml:"xsd_path"`

	// SalesTaxSumField designates the ledger column summed into a derived
	// SprzedazCtrl. Default: "K_20"
	SalesTaxSumField string `yaml:"sales_tax_sum_field"`

	// PurchaseTaxSumField designates the ledger column summed into a
	// derived ZakupCtrl. Default: "K_41"
	PurchaseTaxSumField string `yaml:"purchase_tax_sum_field"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, applies environment overrides from an
// optional .env file, fills defaults and validates the result.
func Load(configPath string) (*Config, error) {
	// Best effort: a missing .env is not an error.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	ApplyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides maps selected environment variables over the file values.
// Deployment knobs only; everything else stays in YAML.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JPK_INPUT_DIR"); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv("JPK_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("JPK_XSD_PATH"); v != "" {
		cfg.Schema.XsdPath = v
	}
}

// ApplyDefaults fills every unset option with its documented default.
// Exported so tests and the single-file path can start from a zero Config.
func ApplyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.OutputArchiveDir == "" {
		cfg.OutputArchiveDir = "./output_archive"
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "JPK_V7M_{period}_{uuid}.xml"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}

	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.CSV.Encoding == "" {
		cfg.CSV.Encoding = "UTF-8"
	}

	if cfg.Schema.RootElement == "" {
		cfg.Schema.RootElement = "JPK"
	}
	if cfg.Schema.NamespaceURI == "" {
		cfg.Schema.NamespaceURI = "http://jpk.mf.gov.pl/wzor/2020/05/08/9393/"
	}
	if cfg.Schema.Encoding == "" {
		cfg.Schema.Encoding = "UTF-8"
	}
	if cfg.Schema.SalesTaxSumField == "" {
		cfg.Schema.SalesTaxSumField = "K_20"
	}
	if cfg.Schema.PurchaseTaxSumField == "" {
		cfg.Schema.PurchaseTaxSumField = "K_41"
	}
}

// validate checks the configuration and bootstraps required directories.
func validate(cfg *Config) error {
	dirs := []string{
		cfg.InputDir,
		cfg.OutputDir,
		cfg.InputArchiveDir,
		cfg.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	if cfg.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}

	return nil
}
