// Package config loads archexpect configuration and expectation files.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/unbound-force/archexpect/internal/expect"
	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// DefaultFile is the configuration file looked up in the working
// directory when no path is given.
const DefaultFile = ".archexpect.yaml"

// ExpectConfig is the top-level configuration.
type ExpectConfig struct {
	// Format is the default report format: "text" or "json".
	Format string `yaml:"format"`

	// Tests includes test files when scanning.
	Tests bool `yaml:"tests"`

	// Entries are the expected accesses.
	Entries []ExpectationSpec `yaml:"expectations"`
}

// MemberSpec identifies an origin member.
type MemberSpec struct {
	Owner  string   `yaml:"owner"`
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
}

// TargetSpec identifies a target member. Name is ignored for
// constructors; Accesses is only used for fields.
type TargetSpec struct {
	Kind     string   `yaml:"kind"`
	Owner    string   `yaml:"owner"`
	Name     string   `yaml:"name"`
	Params   []string `yaml:"params"`
	Accesses []string `yaml:"accesses"`
}

// ExpectationSpec is one expected access. Line 0 accepts any line.
type ExpectationSpec struct {
	Origin MemberSpec `yaml:"origin"`
	Target TargetSpec `yaml:"target"`
	Line   int        `yaml:"line"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *ExpectConfig {
	return &ExpectConfig{Format: "text"}
}

// Load reads the configuration at path. An empty path looks for
// DefaultFile in the working directory and falls back to DefaultConfig
// when it does not exist. The file is validated against Schema before it
// is decoded.
func Load(path string) (*ExpectConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks a YAML document against Schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// Round-trip through JSON so the validator sees JSON value types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting YAML to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("converting YAML to JSON: %w", err)
	}

	compiled, err := compileSchema()
	if err != nil {
		return err
	}
	if err := compiled.Validate(inst); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	sch, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
	if err != nil {
		return nil, fmt.Errorf("parsing config schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", sch); err != nil {
		return nil, fmt.Errorf("adding config schema: %w", err)
	}
	return compiler.Compile("config.schema.json")
}

// Expectations converts the configured entries into expectations.
func (c *ExpectConfig) Expectations() ([]expect.Expectation, error) {
	out := make([]expect.Expectation, 0, len(c.Entries))
	for i, spec := range c.Entries {
		e, err := spec.Expectation()
		if err != nil {
			return nil, fmt.Errorf("expectation %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Expectation converts one entry.
func (s ExpectationSpec) Expectation() (expect.Expectation, error) {
	if s.Line < 0 {
		return expect.Expectation{}, fmt.Errorf("line must not be negative, got %d", s.Line)
	}
	target, err := s.Target.Target()
	if err != nil {
		return expect.Expectation{}, err
	}
	return expect.Expectation{
		Origin: expect.NewOrigin(expect.ParseTypeName(s.Origin.Owner), s.Origin.Name, s.Origin.Params...),
		Target: target,
		Line:   s.Line,
	}, nil
}

// Target builds the target descriptor.
func (s TargetSpec) Target() (expect.Target, error) {
	kind, err := taxonomy.ParseTargetKind(s.Kind)
	if err != nil {
		return expect.Target{}, err
	}
	owner := expect.ParseTypeName(s.Owner)

	switch kind {
	case taxonomy.FieldTarget:
		if len(s.Params) > 0 {
			return expect.Target{}, fmt.Errorf("field %s.%s cannot have params", s.Owner, s.Name)
		}
		var kinds taxonomy.AccessKinds
		for _, a := range s.Accesses {
			k, err := taxonomy.ParseAccessKind(a)
			if err != nil {
				return expect.Target{}, err
			}
			kinds |= taxonomy.KindsOf(k)
		}
		return expect.NewFieldTarget(owner, s.Name, kinds)
	case taxonomy.MethodTarget:
		return expect.NewMethodTarget(owner, s.Name, s.Params...), nil
	case taxonomy.ConstructorTarget:
		return expect.NewConstructorTarget(owner, s.Params...), nil
	default:
		return expect.Target{}, fmt.Errorf("%w %q", expect.ErrUnknownTargetKind, kind)
	}
}
