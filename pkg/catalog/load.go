package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/pawprint/pawprint/pkg/errors"
)

// CandidateFile is the on-disk representation of one harvested feed
// file: all candidates observed from one source.
type CandidateFile struct {
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

// ProductFile is the on-disk representation of a published product set.
type ProductFile struct {
	// Watermark is the snapshot cutoff the set was reconciled at.
	Watermark time.Time `json:"watermark" yaml:"watermark"`
	// AliasVersion records the alias-map version used by the run.
	AliasVersion string   `json:"alias_version" yaml:"alias_version"`
	RunID        string   `json:"run_id" yaml:"run_id"`
	Products     Products `json:"products" yaml:"products"`
}

// LoadCandidates reads candidate records from a feed path. A directory
// is read recursively: every .yaml file is one CandidateFile, loaded in
// sorted path order so the result is independent of directory listing
// order.
func LoadCandidates(path string) ([]Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	if !info.IsDir() {
		return loadCandidateFile(path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	sort.Strings(files)

	var all []Candidate
	for _, f := range files {
		candidates, err := loadCandidateFile(f)
		if err != nil {
			return nil, err
		}
		all = append(all, candidates...)
	}
	return all, nil
}

func loadCandidateFile(path string) ([]Candidate, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from run configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var f CandidateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return f.Candidates, nil
}

// LoadAliasMap reads the versioned brand alias table.
func LoadAliasMap(path string) (*AliasMap, error) {
	var m AliasMap
	if err := loadYAML(path, &m); err != nil {
		return nil, err
	}
	if m.Version == "" {
		return nil, errors.NewValidationError("version", "", "alias map must carry a version stamp")
	}
	return &m, nil
}

// LoadOverrides reads the override table. A missing file is an empty
// table, not an error: overrides are optional.
func LoadOverrides(path string) (*Overrides, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Overrides{}, nil
	}
	var o Overrides
	if err := loadYAML(path, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// LoadAllowlist reads the brand allowlist table. A missing file yields
// an empty table: every brand defaults to PENDING.
func LoadAllowlist(path string) (*Allowlist, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Allowlist{}, nil
	}
	var a Allowlist
	if err := loadYAML(path, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadProducts reads a published product set. Returns nil, nil when the
// file does not exist (nothing published yet).
func LoadProducts(path string) (*ProductFile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	var f ProductFile
	if err := loadYAML(path, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from run configuration
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	return nil
}
