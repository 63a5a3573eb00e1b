// Package fixture supplies the validation ground truth for a target: the
// sample input document, the expected tabular output, and the target spec the
// planning instruction is built from. Fixtures are addressed by target ID;
// failure to load one is fatal for the session that asked.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/tabular-agents/forge/core/tabular"
)

// Sentinel errors for fixture resolution.
var (
	ErrTargetNotFound = errors.New("target not found")
	ErrInvalidSpec    = errors.New("invalid target spec")
)

// How much sample document text is carried into the planning instruction.
const excerptLimit = 4096

// Fixture is the loaded ground truth for one target.
type Fixture struct {
	TargetID string
	Spec     *Spec
	// SampleInput is the path handed to candidate parsers.
	SampleInput string
	// SampleText is a bounded plain-text excerpt of the sample document,
	// empty when the document could not be read as text.
	SampleText string
	// Expected is the table a correct parser must reproduce.
	Expected *tabular.Table
}

// Provider loads fixtures by target ID.
type Provider interface {
	Load(ctx context.Context, targetID string) (*Fixture, error)
}

// FileProvider resolves fixtures from a directory tree with one subdirectory
// per target, each holding a target.yaml, a sample document, and an expected
// CSV.
type FileProvider struct {
	root string
}

// NewFileProvider creates a Provider rooted at the given directory.
func NewFileProvider(root string) *FileProvider {
	return &FileProvider{root: root}
}

// Load resolves the target directory, parses its spec, reads the expected
// CSV, and extracts a sample text excerpt. A missing target directory or
// spec is ErrTargetNotFound; a present but unusable fixture is ErrInvalidSpec.
func (p *FileProvider) Load(_ context.Context, targetID string) (*Fixture, error) {
	dir := filepath.Join(p.root, targetID)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}

	spec, err := LoadSpec(filepath.Join(dir, "target.yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s has no target.yaml", ErrTargetNotFound, targetID)
		}
		return nil, err
	}

	expectedPath := filepath.Join(dir, spec.Expected)
	f, err := os.Open(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: expected output: %v", ErrInvalidSpec, targetID, err)
	}
	defer f.Close()

	expected, err := tabular.FromCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: expected output: %v", ErrInvalidSpec, targetID, err)
	}

	samplePath := filepath.Join(dir, spec.Sample)
	if _, err := os.Stat(samplePath); err != nil {
		return nil, fmt.Errorf("%w: %s: sample input: %v", ErrInvalidSpec, targetID, err)
	}

	// A sample the excerpt extractor cannot read is still a valid fixture;
	// the planning instruction just goes out without document context.
	excerpt, err := SampleExcerpt(samplePath, excerptLimit)
	if err != nil {
		excerpt = ""
	}

	return &Fixture{
		TargetID:    targetID,
		Spec:        spec,
		SampleInput: samplePath,
		SampleText:  excerpt,
		Expected:    expected,
	}, nil
}

// List returns the IDs of all targets under the fixture root, sorted.
func (p *FileProvider) List() ([]string, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return nil, fmt.Errorf("read fixture root: %w", err)
	}

	var targets []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(p.root, e.Name(), "target.yaml")); err == nil {
			targets = append(targets, e.Name())
		}
	}
	sort.Strings(targets)
	return targets, nil
}
