// Package catalog loads decision tree definitions from YAML documents and
// ships the built-in first-aid tree.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/tree"
	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed firstaid.yaml
var firstAidYAML []byte

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "triage://schema/tree.json"

// document mirrors the YAML layout. It uses "mapstructure" tags to match the
// keys of the generic map produced by the YAML decoder.
type document struct {
	Root      string          `mapstructure:"root"`
	Questions []questionEntry `mapstructure:"questions"`
	Diagnoses []diagnosisItem `mapstructure:"diagnoses"`
	Entries   []entryItem     `mapstructure:"entries"`
}

type questionEntry struct {
	ID   string `mapstructure:"id"`
	Text string `mapstructure:"text"`
	Yes  string `mapstructure:"yes"`
	No   string `mapstructure:"no"`
}

type diagnosisItem struct {
	ID   string `mapstructure:"id"`
	Text string `mapstructure:"text"`
}

type entryItem struct {
	Label string `mapstructure:"label"`
	Node  string `mapstructure:"node"`
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func treeSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse tree schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add tree schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Parse decodes a YAML tree document into a definition.
// The document is checked against the tree schema first, so structural
// typos (unknown keys, missing transitions) are reported before graph checks.
func Parse(data []byte) (domain.Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Definition{}, fmt.Errorf("%w: decode yaml: %v", domain.ErrInvalidTree, err)
	}
	if raw == nil {
		return domain.Definition{}, fmt.Errorf("%w: empty document", domain.ErrInvalidTree)
	}

	sch, err := treeSchema()
	if err != nil {
		return domain.Definition{}, err
	}
	if err := sch.Validate(raw); err != nil {
		return domain.Definition{}, fmt.Errorf("%w: %v", domain.ErrInvalidTree, err)
	}

	var doc document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.Definition{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.Definition{}, fmt.Errorf("%w: %v", domain.ErrInvalidTree, err)
	}
	return doc.definition(), nil
}

func (d document) definition() domain.Definition {
	def := domain.Definition{
		Root:      d.Root,
		Questions: make([]domain.Question, 0, len(d.Questions)),
		Diagnoses: make([]domain.Diagnosis, 0, len(d.Diagnoses)),
		Entries:   make([]domain.EntryPoint, 0, len(d.Entries)),
	}
	for _, q := range d.Questions {
		def.Questions = append(def.Questions, domain.Question{ID: q.ID, Text: q.Text, Yes: q.Yes, No: q.No})
	}
	for _, dg := range d.Diagnoses {
		def.Diagnoses = append(def.Diagnoses, domain.Diagnosis{ID: dg.ID, Text: dg.Text})
	}
	for _, e := range d.Entries {
		def.Entries = append(def.Entries, domain.EntryPoint{Label: e.Label, NodeID: e.Node})
	}
	return def
}

// Load parses and validates the tree document stored at path.
func Load(path string) (*tree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree.New(def)
}

// FirstAid returns the built-in first-aid triage tree.
func FirstAid() (*tree.Tree, error) {
	def, err := Parse(firstAidYAML)
	if err != nil {
		return nil, err
	}
	return tree.New(def)
}

// LoadOrDefault loads the tree at path, or the built-in tree when path is empty.
func LoadOrDefault(path string) (*tree.Tree, error) {
	if path == "" {
		return FirstAid()
	}
	return Load(path)
}
