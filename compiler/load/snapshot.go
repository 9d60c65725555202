package load

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/entigen/schema"
)

// SnapshotVersion is the version of the snapshot encoding.
const SnapshotVersion = 1

type (
	snapshot struct {
		Version      int          `msgpack:"version"`
		Entities     []snapEntity `msgpack:"entities"`
		Enumerations []snapEnum   `msgpack:"enumerations"`
	}
	snapEntity struct {
		Name        string         `msgpack:"name"`
		Label       string         `msgpack:"label"`
		Description string         `msgpack:"description,omitempty"`
		Properties  []snapProperty `msgpack:"properties"`
	}
	snapProperty struct {
		Name        string  `msgpack:"name"`
		Tag         int     `msgpack:"tag"`
		Type        string  `msgpack:"type"`
		Label       string  `msgpack:"label"`
		Description string  `msgpack:"description,omitempty"`
		Default     *string `msgpack:"default,omitempty"`
		Optional    bool    `msgpack:"optional,omitempty"`
	}
	snapEnum struct {
		Name        string              `msgpack:"name"`
		Label       string              `msgpack:"label"`
		Description string              `msgpack:"description,omitempty"`
		Values      []*schema.EnumValue `msgpack:"values"`
	}
)

// WriteSnapshot encodes m to w. The snapshot reader loads it back without
// the original sources.
func WriteSnapshot(w io.Writer, m *schema.Model) error {
	snap := snapshot{Version: SnapshotVersion}
	for _, e := range m.Entities() {
		se := snapEntity{Name: e.Name, Label: e.Label, Description: e.Description}
		for _, p := range e.Properties {
			se.Properties = append(se.Properties, snapProperty{
				Name:        p.Name,
				Tag:         p.Tag,
				Type:        p.RawType,
				Label:       p.Label,
				Description: p.Description,
				Default:     p.Default,
				Optional:    p.Optional,
			})
		}
		snap.Entities = append(snap.Entities, se)
	}
	for _, e := range m.Enumerations() {
		snap.Enumerations = append(snap.Enumerations, snapEnum{
			Name:        e.Name,
			Label:       e.Label,
			Description: e.Description,
			Values:      e.Values,
		})
	}
	return msgpack.NewEncoder(w).Encode(&snap)
}

// SnapshotReader reads a model written by WriteSnapshot.
type SnapshotReader struct {
	model *schema.Model
}

// NewSnapshotReader returns a snapshot reader for m.
func NewSnapshotReader(m *schema.Model) Reader {
	return &SnapshotReader{model: m}
}

// ReadModel implements Reader.
func (r *SnapshotReader) ReadModel(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var snap snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("entigen: decode snapshot %s: %w", path, err)
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("entigen: unsupported snapshot version %d", snap.Version)
	}
	for _, se := range snap.Entities {
		e := schema.NewEntity(se.Name)
		e.Label, e.Description = se.Label, se.Description
		for _, sp := range se.Properties {
			p, err := schema.NewProperty(sp.Name, sp.Tag, sp.Type)
			if err != nil {
				return err
			}
			p.Label, p.Description = sp.Label, sp.Description
			p.Default, p.Optional = sp.Default, sp.Optional
			if err := e.AddProperty(p); err != nil {
				return err
			}
		}
		if err := r.model.AddEntity(e); err != nil {
			return err
		}
	}
	for _, se := range snap.Enumerations {
		e := schema.NewEnumeration(se.Name)
		e.Label, e.Description = se.Label, se.Description
		for _, v := range se.Values {
			if err := e.AddValue(v); err != nil {
				return err
			}
		}
		if err := r.model.AddEnumeration(e); err != nil {
			return err
		}
	}
	return nil
}
