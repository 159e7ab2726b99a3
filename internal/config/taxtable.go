package config

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"gopkg.in/yaml.v3"
)

type taxTableFile struct {
	Brackets []payroll.TaxBracket `yaml:"brackets"`
}

// LoadTaxBrackets reads the progressive tax table from a YAML file of the form
//
//	brackets:
//	  - threshold: 0
//	    rate: 0
//	  - threshold: 100000
//	    rate: 0.06
//
// An empty path returns no brackets.
func LoadTaxBrackets(path string) ([]payroll.TaxBracket, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tax brackets file: %w", err)
	}

	return ParseTaxBrackets(data)
}

// ParseTaxBrackets decodes and validates a YAML tax table.
func ParseTaxBrackets(data []byte) ([]payroll.TaxBracket, error) {
	var file taxTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode tax brackets: %w", err)
	}

	req := payroll.UpdateTaxBracketsRequest{Brackets: file.Brackets}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tax brackets: %w", err)
	}

	return file.Brackets, nil
}
