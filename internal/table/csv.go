// =============================================================================
// JPK V7M Converter - CSV Table Reader
// =============================================================================
//
// Reads a CSV file into a Table. The reader is deliberately forgiving:
// variable field counts per row are allowed (sectioned files interleave
// marker rows, header rows and data rows of different widths), quotes do
// not have to follow strict CSV rules, and non-UTF-8 encodings are decoded
// by IANA name before the CSV layer sees the bytes.
//
// =============================================================================

package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/ksiegowy/jpk-vat7-converter/internal/config"
)

// ReadCSV reads a CSV file into a Table using the given settings.
func ReadCSV(filePath string, settings config.CSVSettings) (*Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader, err := decodingReader(bufio.NewReader(file), settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty: %s", filePath)
	}

	return &Table{Rows: rows, SourceFile: filePath}, nil
}

// configureReader applies the CSV settings to the reader.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Sectioned files mix marker, header and data rows of different widths.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// decodingReader wraps r with a charset decoder when the input is not UTF-8.
func decodingReader(r io.Reader, encodingName string) (io.Reader, error) {
	name := strings.TrimSpace(encodingName)
	if name == "" || strings.EqualFold(name, "UTF-8") || strings.EqualFold(name, "UTF8") {
		return r, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported input encoding %q", encodingName)
	}
	return enc.NewDecoder().Reader(r), nil
}
