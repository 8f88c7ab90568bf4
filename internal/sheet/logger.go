package sheet

import "github.com/reefgenomics/reefkb/internal/logger"

// GetLogger returns the sheet module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("sheet")
}
