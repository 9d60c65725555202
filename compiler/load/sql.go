package load

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/schema"
)

// Tables of a metadata database. They carry the same columns as the CSV
// files of a model directory.
const (
	EntitiesTable     = "entities"
	PropertiesTable   = "properties"
	EnumerationsTable = "enumerations"
)

// Supported database drivers, as used in the scheme of a model path.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// SQLReader reads a model from the metadata tables of a database.
type SQLReader struct {
	model *schema.Model
	db    *sql.DB
}

// NewSQLReader returns a SQL reader for m. Model paths are data source
// URLs such as sqlite://model.db or postgres://user@host/db.
func NewSQLReader(m *schema.Model) Reader {
	return &SQLReader{model: m}
}

// NewSQLReaderDB returns a SQL reader for m reading from an open database.
// Model paths are ignored.
func NewSQLReaderDB(m *schema.Model, db *sql.DB) *SQLReader {
	return &SQLReader{model: m, db: db}
}

// ParseDSN splits a model path into a driver name and the data source name
// handed to the driver.
func ParseDSN(path string) (driver, dsn string, err error) {
	scheme, rest, ok := strings.Cut(path, "://")
	if !ok || rest == "" {
		return "", "", fmt.Errorf("entigen: invalid database url %q", path)
	}
	switch scheme {
	case DriverSQLite, "sqlite3":
		return DriverSQLite, rest, nil
	case DriverMySQL:
		return DriverMySQL, rest, nil
	case DriverPostgres, "postgresql":
		// lib/pq parses the URL form itself.
		return DriverPostgres, path, nil
	default:
		return "", "", fmt.Errorf("entigen: unsupported database driver %q", scheme)
	}
}

// ReadModel implements Reader.
func (r *SQLReader) ReadModel(ctx context.Context, path string) error {
	db := r.db
	if db == nil {
		driver, dsn, err := ParseDSN(path)
		if err != nil {
			return err
		}
		if db, err = sql.Open(driver, dsn); err != nil {
			return err
		}
		defer db.Close()
	}
	b := newRowBuilder(r.model)
	tables := []struct {
		name string
		add  func(row) error
	}{
		{EntitiesTable, b.entityRow},
		{PropertiesTable, b.propertyRow},
		{EnumerationsTable, b.enumerationRow},
	}
	for _, t := range tables {
		rows, err := queryRows(ctx, db, t.name)
		if err != nil {
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

// queryRows loads all records of a metadata table. NULL columns read as
// empty strings.
func queryRows(ctx context.Context, db *sql.DB, table string) ([]row, error) {
	rs, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, &entigen.MetadataError{Source: table, Message: "query failed", Cause: err}
	}
	defer rs.Close()
	cols, err := rs.Columns()
	if err != nil {
		return nil, err
	}
	for i := range cols {
		cols[i] = strings.ToLower(cols[i])
	}
	var (
		rows []row
		vals = make([]sql.NullString, len(cols))
		dest = make([]any, len(cols))
	)
	for i := range vals {
		dest[i] = &vals[i]
	}
	for n := 1; rs.Next(); n++ {
		if err := rs.Scan(dest...); err != nil {
			return nil, &entigen.MetadataError{Source: fmt.Sprintf("%s#%d", table, n), Cause: err}
		}
		fields := make(map[string]string, len(cols))
		for i, c := range cols {
			fields[c] = vals[i].String
		}
		rows = append(rows, row{source: fmt.Sprintf("%s#%d", table, n), fields: fields})
	}
	return rows, rs.Err()
}
