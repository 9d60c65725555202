package load

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/schema"
)

// YAMLFile is the model file looked up when a YAML reader is given a
// directory.
const YAMLFile = "model.yaml"

type (
	yamlModel struct {
		Entities     []yamlEntity      `yaml:"entities"`
		Enumerations []yamlEnumeration `yaml:"enumerations"`
	}
	yamlEntity struct {
		Name        string         `yaml:"name"`
		Label       string         `yaml:"label"`
		Description string         `yaml:"description"`
		Properties  []yamlProperty `yaml:"properties"`
	}
	yamlProperty struct {
		Name        string  `yaml:"name"`
		Tag         int     `yaml:"tag"`
		Type        string  `yaml:"type"`
		Label       string  `yaml:"label"`
		Description string  `yaml:"description"`
		Default     *string `yaml:"default"`
		Optional    bool    `yaml:"optional"`
	}
	yamlEnumeration struct {
		Name        string      `yaml:"name"`
		Label       string      `yaml:"label"`
		Description string      `yaml:"description"`
		Values      []yamlValue `yaml:"values"`
	}
	yamlValue struct {
		Name  string `yaml:"name"`
		Value string `yaml:"value"`
		Label string `yaml:"label"`
	}
)

// YAMLReader reads a model from a YAML document.
type YAMLReader struct {
	model *schema.Model
}

// NewYAMLReader returns a YAML reader for m.
func NewYAMLReader(m *schema.Model) Reader {
	return &YAMLReader{model: m}
}

// ReadModel implements Reader. The path is either a YAML file or a
// directory holding a model.yaml.
func (r *YAMLReader) ReadModel(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if info, err := os.Stat(path); err != nil {
		return err
	} else if info.IsDir() {
		path = filepath.Join(path, YAMLFile)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	var doc yamlModel
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return &entigen.MetadataError{Source: name, Cause: err}
	}
	b := newRowBuilder(r.model)
	for i, e := range doc.Entities {
		source := fmt.Sprintf("%s#entities[%d]", name, i)
		err := b.entityRow(row{source: source, fields: map[string]string{
			ColName:        e.Name,
			ColLabel:       e.Label,
			ColDescription: e.Description,
		}})
		if err != nil {
			return err
		}
		for j, p := range e.Properties {
			fields := map[string]string{
				ColEntity:      e.Name,
				ColName:        p.Name,
				ColTag:         strconv.Itoa(p.Tag),
				ColType:        p.Type,
				ColLabel:       p.Label,
				ColDescription: p.Description,
				ColOptional:    strconv.FormatBool(p.Optional),
			}
			if p.Default != nil {
				fields[ColDefault] = *p.Default
			}
			rw := row{source: fmt.Sprintf("%s.properties[%d]", source, j), fields: fields}
			if err := b.propertyRow(rw); err != nil {
				return err
			}
		}
	}
	for i, enum := range doc.Enumerations {
		source := fmt.Sprintf("%s#enumerations[%d]", name, i)
		if enum.Name == "" {
			return &entigen.MetadataError{Source: source, Message: "enumeration has no name"}
		}
		for j, v := range enum.Values {
			rw := row{source: fmt.Sprintf("%s.values[%d]", source, j), fields: map[string]string{
				ColEnumeration: enum.Name,
				ColName:        v.Name,
				ColValue:       v.Value,
				ColLabel:       v.Label,
			}}
			if err := b.enumerationRow(rw); err != nil {
				return err
			}
		}
		// Labels and descriptions of enumerations only exist in YAML.
		if e, ok := b.enums[enum.Name]; ok {
			if enum.Label != "" {
				e.Label = enum.Label
			}
			e.Description = enum.Description
		} else if len(enum.Values) == 0 {
			e := schema.NewEnumeration(enum.Name)
			e.Label, e.Description = enum.Label, enum.Description
			if err := r.model.AddEnumeration(e); err != nil {
				return &entigen.MetadataError{Source: source, Entity: enum.Name, Cause: err}
			}
		}
	}
	return nil
}
