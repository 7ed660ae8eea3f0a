// =============================================================================
// SmartDocs Insight - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults
//   2. Main config file (config.yaml), optional
//   3. Environment variables, optionally loaded from a .env file
//
// ENVIRONMENT VARIABLES:
//   SMARTDOCS_SUPPORT_EMAIL     : Email shown in the request signature
//   SMARTDOCS_SUPPORT_PHONE_URL : Phone / contact URL shown in the signature
//   SMARTDOCS_COO_EMAIL         : Mailbox the request is sent to
//   SMARTDOCS_DOC_URL           : Internal documentation link
//   SMARTDOCS_DEBUG             : "1" forces the debug log level
//   SMARTDOCS_LOG_LEVEL         : debug, info, warn, error
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvSupportEmail    = "SMARTDOCS_SUPPORT_EMAIL"
	EnvSupportPhoneURL = "SMARTDOCS_SUPPORT_PHONE_URL"
	EnvCOORequestEmail = "SMARTDOCS_COO_EMAIL"
	EnvDocURL          = "SMARTDOCS_DOC_URL"
	EnvDebug           = "SMARTDOCS_DEBUG"
	EnvLogLevel        = "SMARTDOCS_LOG_LEVEL"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// CONTACT SETTINGS
	// =========================================================================

	// SupportEmail appears in the signature of the request message.
	// Default: "support@example.com"
	SupportEmail string `yaml:"support_email"`

	// SupportPhoneURL appears in the signature of the request message.
	// Default: "https://example.com/contact"
	SupportPhoneURL string `yaml:"support_phone_url"`

	// COORequestEmail is the classification mailbox the request is sent to.
	// Default: "classification@example.com"
	COORequestEmail string `yaml:"coo_request_email"`

	// DocURL points at the internal documentation report.
	// Default: "https://example.com/internal-docs"
	DocURL string `yaml:"doc_url"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir receives issue logs and tracking exports.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the slog handler: "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// CSVSettings contains settings for reading invoice CSV files.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// Columns is the positional layout of invoice rows.
	Columns ColumnLayout `yaml:"columns"`

	// =========================================================================
	// TRACKING SETTINGS
	// =========================================================================

	// Tracking holds the constant values of tracking rows.
	Tracking TrackingSettings `yaml:"tracking"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), ";" (semicolon), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the CSV file.
	// Only UTF-8 (with or without BOM) is supported.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// COLUMN LAYOUT STRUCTURE
// =============================================================================

// ColumnLayout defines which 0-based column holds which invoice field.
// Rows are positional; there is no header row to match names against.
type ColumnLayout struct {
	// RecordType holds the row marker ("ITEM" for line items). Column A.
	RecordType int `yaml:"record_type"`

	// LineNumber holds the invoice line number. Column B.
	LineNumber int `yaml:"line_number"`

	// Description holds the product description. Column F.
	Description int `yaml:"description"`

	// PurchaseOrder holds the PO / Box 5 reference. Column J.
	PurchaseOrder int `yaml:"purchase_order"`

	// Catalog holds the catalog number. Column L.
	Catalog int `yaml:"catalog"`

	// SalesOrder holds the SO reference. Column N.
	SalesOrder int `yaml:"sales_order"`

	// OriginWeight holds the "/ CC / 1.234 KG" text. Column Q.
	OriginWeight int `yaml:"origin_weight"`

	// MetadataStartRow is the first row scanned for PO/SO pairs (0-based).
	MetadataStartRow int `yaml:"metadata_start_row"`
}

// DefaultColumnLayout returns the layout of the ERP invoice CSV export.
func DefaultColumnLayout() ColumnLayout {
	return ColumnLayout{
		RecordType:       0,  // Column A
		LineNumber:       1,  // Column B
		Description:      5,  // Column F
		PurchaseOrder:    9,  // Column J
		Catalog:          11, // Column L
		SalesOrder:       13, // Column N
		OriginWeight:     16, // Column Q
		MetadataStartRow: 7,  // Row 8
	}
}

// =============================================================================
// TRACKING SETTINGS STRUCTURE
// =============================================================================

// TrackingSettings are constant columns of the tracking rows.
type TrackingSettings struct {
	RequestType string `yaml:"request_type"`
	Doc         string `yaml:"doc"`
	Status      string `yaml:"status"`
	LT          string `yaml:"lt"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration populated with defaults only.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the main configuration.
//
// PARAMETERS:
//   - configPath: The path to the YAML file. A missing file is not an error.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file exists but cannot be read or parsed.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Load .env into the process environment; absent files are fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var config MainConfig

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults and environment only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyMainConfigDefaults(&config)
	applyEnvOverrides(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.SupportEmail == "" {
		config.SupportEmail = "support@example.com"
	}
	if config.SupportPhoneURL == "" {
		config.SupportPhoneURL = "https://example.com/contact"
	}
	if config.COORequestEmail == "" {
		config.COORequestEmail = "classification@example.com"
	}
	if config.DocURL == "" {
		config.DocURL = "https://example.com/internal-docs"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}

	// CSV settings defaults.
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}

	// An all-zero layout means the section was omitted.
	if config.Columns == (ColumnLayout{}) {
		config.Columns = DefaultColumnLayout()
	}

	// Tracking defaults.
	if config.Tracking.RequestType == "" {
		config.Tracking.RequestType = "STANDARD"
	}
	if config.Tracking.Doc == "" {
		config.Tracking.Doc = "DOC"
	}
	if config.Tracking.Status == "" {
		config.Tracking.Status = "Requested"
	}
	if config.Tracking.LT == "" {
		config.Tracking.LT = "Invoice Created"
	}
}

// applyEnvOverrides copies SMARTDOCS_* variables over file values.
func applyEnvOverrides(config *MainConfig) {
	if v := os.Getenv(EnvSupportEmail); v != "" {
		config.SupportEmail = v
	}
	if v := os.Getenv(EnvSupportPhoneURL); v != "" {
		config.SupportPhoneURL = v
	}
	if v := os.Getenv(EnvCOORequestEmail); v != "" {
		config.COORequestEmail = v
	}
	if v := os.Getenv(EnvDocURL); v != "" {
		config.DocURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}
	if os.Getenv(EnvDebug) == "1" {
		config.LogLevel = "debug"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}

	switch strings.ToLower(config.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", config.LogFormat)
	}

	if !strings.EqualFold(config.CSVSettings.Encoding, "UTF-8") &&
		!strings.EqualFold(config.CSVSettings.Encoding, "UTF8") {
		return fmt.Errorf("unsupported encoding %q", config.CSVSettings.Encoding)
	}

	cols := config.Columns
	for name, idx := range map[string]int{
		"record_type":        cols.RecordType,
		"line_number":        cols.LineNumber,
		"description":        cols.Description,
		"purchase_order":     cols.PurchaseOrder,
		"catalog":            cols.Catalog,
		"sales_order":        cols.SalesOrder,
		"origin_weight":      cols.OriginWeight,
		"metadata_start_row": cols.MetadataStartRow,
	} {
		if idx < 0 {
			return fmt.Errorf("columns.%s must not be negative", name)
		}
	}

	return nil
}
