// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/sales-forecast/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatYAML:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatYAML, format)
}

// ValidateTrainingWeeks checks that the number of forecast weeks lies in the
// selectable range.
func ValidateTrainingWeeks(weeks int) error {
	if weeks < constants.MinTrainingWeeks || weeks > constants.MaxTrainingWeeks {
		return fmt.Errorf("training weeks must be between %d and %d, got %d",
			constants.MinTrainingWeeks, constants.MaxTrainingWeeks, weeks)
	}
	return nil
}
