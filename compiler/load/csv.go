package load

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/schema"
)

// Files of a CSV model directory. Only the properties file is required.
const (
	EntitiesFile     = "entities.csv"
	PropertiesFile   = "properties.csv"
	EnumerationsFile = "enumerations.csv"
)

// CSVReader reads a directory of CSV metadata files.
type CSVReader struct {
	model *schema.Model
}

// NewCSVReader returns a CSV reader for m.
func NewCSVReader(m *schema.Model) Reader {
	return &CSVReader{model: m}
}

// ReadModel implements Reader.
func (r *CSVReader) ReadModel(ctx context.Context, dir string) error {
	b := newRowBuilder(r.model)
	tables := []struct {
		file     string
		required bool
		cols     []string
		add      func(row) error
	}{
		{EntitiesFile, false, []string{ColName}, b.entityRow},
		{PropertiesFile, true, []string{ColEntity, ColName, ColTag, ColType}, b.propertyRow},
		{EnumerationsFile, false, []string{ColEnumeration, ColName}, b.enumerationRow},
	}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows, err := readCSV(filepath.Join(dir, t.file), t.cols)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !t.required:
			continue
		case err != nil:
			return err
		}
		for _, rw := range rows {
			if err := t.add(rw); err != nil {
				return err
			}
		}
	}
	return nil
}

// readCSV reads a CSV file with a header line into rows.
func readCSV(path string, cols []string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := filepath.Base(path)
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &entigen.MetadataError{Source: name, Message: "empty file"}
	}
	if err != nil {
		return nil, &entigen.MetadataError{Source: name, Cause: err}
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if err := requireColumns(name, header, cols...); err != nil {
		return nil, err
	}
	var rows []row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, &entigen.MetadataError{Source: name, Cause: err}
		}
		line, _ := cr.FieldPos(0)
		if len(rec) > len(header) {
			return nil, &entigen.MetadataError{
				Source:  fmt.Sprintf("%s:%d", name, line),
				Message: fmt.Sprintf("%d fields, header has %d", len(rec), len(header)),
			}
		}
		fields := make(map[string]string, len(header))
		for i, v := range rec {
			fields[header[i]] = v
		}
		if isBlank(rec) {
			continue
		}
		rows = append(rows, row{source: fmt.Sprintf("%s:%d", name, line), fields: fields})
	}
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}
