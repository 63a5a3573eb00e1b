package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec describes one target: the documents to parse, the ground truth, and
// the column contract the generated parser must honor. Specs live in a
// target.yaml next to the sample files:
//
//	name: icici
//	description: ICICI bank statement
//	sample: icici_sample.pdf
//	expected: icici_expected.csv
//	columns: [Date, Description, Debit Amt, Credit Amt, Balance]
//	date_format: DD-MM-YYYY
//	notes: Debit and credit amounts are blank, not zero, when absent.
type Spec struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Sample      string   `yaml:"sample,omitempty"`
	Expected    string   `yaml:"expected,omitempty"`
	Columns     []string `yaml:"columns"`
	DateFormat  string   `yaml:"date_format,omitempty"`
	Notes       string   `yaml:"notes,omitempty"`
}

// LoadSpec reads and validates a target.yaml. Sample and expected file names
// default to "<name>_sample.pdf" and "<name>_expected.csv".
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSpec, path, err)
	}

	if spec.Name == "" {
		return nil, fmt.Errorf("%w: %s: name is required", ErrInvalidSpec, path)
	}
	if len(spec.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s: columns are required", ErrInvalidSpec, path)
	}

	if spec.Sample == "" {
		spec.Sample = spec.Name + "_sample.pdf"
	}
	if spec.Expected == "" {
		spec.Expected = spec.Name + "_expected.csv"
	}
	return &spec, nil
}
