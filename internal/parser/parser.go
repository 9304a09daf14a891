// Package parser converts campaign input files into domain types: ESRI
// ASCII elevation rasters, measurement point tables and exclusion-zone
// geometries.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Parser provides pure reader -> domain struct conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// parseFloatField parses a named numeric field, wrapping the error with the
// field name so a bad input file points at the offending column.
func parseFloatField(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting %s %q to float: %w", name, s, err)
	}
	return v, nil
}

// parseIntField parses a named integer field. Some GIS tools emit integer
// headers as floats ("120.00"), so a float that is a whole number passes.
func parseIntField(name, s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting %s %q to int: %w", name, s, err)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("error converting %s: %q is not a whole number", name, s)
	}
	return int(f), nil
}
