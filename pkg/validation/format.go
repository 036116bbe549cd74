// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateProduct checks that product names one of the catalogue product types.
func ValidateProduct(product string) error {
	switch product {
	case constants.ProductPersonalLoan, constants.ProductHomeLoan, constants.ProductCreditCard:
		return nil
	}
	return fmt.Errorf("unknown product %q, expected %s, %s or %s", product,
		constants.ProductPersonalLoan, constants.ProductHomeLoan, constants.ProductCreditCard)
}
