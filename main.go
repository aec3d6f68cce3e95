// =============================================================================
// JPK V7M Converter - Main Entry Point
// =============================================================================
//
// Entry point for the jpkconv CLI. All command handling lives in cmd/.
//
// USAGE:
//   jpkconv convert       - Convert every file in the input directory
//   jpkconv version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : Core conversion logic (not for external import)
//   - pkg/        : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ksiegowy/jpk-vat7-converter/cmd"
)

func main() {
	cmd.Execute()
}
