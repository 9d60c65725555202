package load

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/schema"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, RegisterDefaults(r))
	return r
}

// checkShop asserts the content of the testdata shop model.
func checkShop(t *testing.T, m *schema.Model) {
	t.Helper()
	assert.Equal(t, []string{"Customer", "Order", "OrderLine"}, m.EntityNames())

	customer, err := m.Entity("Customer")
	require.NoError(t, err)
	assert.Equal(t, "A person placing orders", customer.Description)
	require.Len(t, customer.Properties, 3)
	assert.Equal(t, "Full name", customer.Properties[1].Label)
	assert.Equal(t, "Birthday", customer.Properties[2].Label)
	assert.True(t, customer.Properties[2].Optional)

	order, err := m.Entity("Order")
	require.NoError(t, err)
	status, err := order.Property("status")
	require.NoError(t, err)
	require.NotNil(t, status.Default)
	assert.Equal(t, "new", *status.Default)
	tags, err := order.Property("tags")
	require.NoError(t, err)
	assert.Equal(t, "map<string,string>", tags.Type.String())
	assert.True(t, tags.Optional)

	line, err := m.Entity("OrderLine")
	require.NoError(t, err)
	assert.Equal(t, "Order Line", line.Label)
	gift, err := line.Property("gift")
	require.NoError(t, err)
	assert.False(t, gift.Optional)
	require.NotNil(t, gift.Default)

	enum, err := m.Enumeration("Status")
	require.NoError(t, err)
	require.Len(t, enum.Values, 3)
	assert.Equal(t, "new", enum.Values[0].Value)
	assert.Equal(t, "SHIPPED", enum.Values[2].Value)
	assert.Equal(t, "Shipped out", enum.Values[2].Label)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestRegistry(t *testing.T) {
	r := defaultRegistry(t)
	assert.Equal(t, []string{"csv", "snapshot", "sql", "yaml"}, r.Names())

	err := r.Register("csv", NewCSVReader)
	assert.True(t, entigen.IsDuplicate(err))
	assert.Error(t, r.Register("", NewCSVReader))

	_, err = r.New("xml", schema.NewModel())
	require.Error(t, err)
	assert.True(t, entigen.IsNotFound(err))
	assert.Contains(t, err.Error(), `reader "xml" not found`)

	rd, err := r.New("yaml", schema.NewModel())
	require.NoError(t, err)
	assert.IsType(t, &YAMLReader{}, rd)
}

func TestCSVReader(t *testing.T) {
	ctx := context.Background()

	t.Run("shop", func(t *testing.T) {
		m, err := Load(ctx, defaultRegistry(t), "csv", "testdata/shop")
		require.NoError(t, err)
		checkShop(t, m)
	})

	t.Run("properties only", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			PropertiesFile: "\ufeffentity,name,tag,type\nUser,name,1,string\nUser,age,2,int\n",
		})
		m := schema.NewModel()
		require.NoError(t, NewCSVReader(m).ReadModel(ctx, dir))
		e, err := m.Entity("User")
		require.NoError(t, err)
		assert.Len(t, e.Properties, 2)
		assert.Empty(t, m.Enumerations())
	})

	t.Run("missing properties file", func(t *testing.T) {
		err := NewCSVReader(schema.NewModel()).ReadModel(ctx, t.TempDir())
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("missing column", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{PropertiesFile: "entity,name,type\nUser,name,string\n"})
		err := NewCSVReader(schema.NewModel()).ReadModel(ctx, dir)
		require.Error(t, err)
		assert.True(t, entigen.IsMetadataError(err))
		assert.Contains(t, err.Error(), `missing column "tag"`)
	})

	t.Run("source position", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			PropertiesFile: "entity,name,tag,type\nUser,name,1,string\nUser,age,x,int\n",
		})
		err := NewCSVReader(schema.NewModel()).ReadModel(ctx, dir)
		var merr *entigen.MetadataError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "properties.csv:3", merr.Source)
		assert.Equal(t, "User", merr.Entity)
		assert.Equal(t, "age", merr.Property)
	})

	t.Run("bad type", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{PropertiesFile: "entity,name,tag,type\nUser,name,1,list<>\n"})
		err := NewCSVReader(schema.NewModel()).ReadModel(ctx, dir)
		assert.True(t, entigen.IsMetadataError(err))
		assert.True(t, entigen.IsDatatypeError(err))
	})

	t.Run("bad optional flag", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			PropertiesFile: "entity,name,tag,type,optional\nUser,name,1,string,perhaps\n",
		})
		err := NewCSVReader(schema.NewModel()).ReadModel(ctx, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid optional flag "perhaps"`)
	})

	t.Run("duplicate across sources", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{PropertiesFile: "entity,name,tag,type\nUser,name,1,string\n"})
		_, err := Load(ctx, defaultRegistry(t), "csv", dir, dir)
		require.Error(t, err)
		assert.True(t, entigen.IsDuplicate(err))
	})

	t.Run("invalid model", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{PropertiesFile: "entity,name,tag,type\nUser,group,1,Group\n"})
		_, err := Load(ctx, defaultRegistry(t), "csv", dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown type "Group"`)
	})
}

func TestYAMLReader(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		m, err := Load(ctx, defaultRegistry(t), "yaml", "testdata/shop.yaml")
		require.NoError(t, err)
		checkShop(t, m)
		enum, err := m.Enumeration("Status")
		require.NoError(t, err)
		assert.Equal(t, "Order status", enum.Description)
	})

	t.Run("directory", func(t *testing.T) {
		buf, err := os.ReadFile("testdata/shop.yaml")
		require.NoError(t, err)
		dir := writeFiles(t, map[string]string{YAMLFile: string(buf)})
		m, err := Load(ctx, defaultRegistry(t), "yaml", dir)
		require.NoError(t, err)
		checkShop(t, m)
	})

	t.Run("syntax error", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{YAMLFile: "entities: [\n"})
		err := NewYAMLReader(schema.NewModel()).ReadModel(ctx, dir)
		assert.True(t, entigen.IsMetadataError(err))
	})

	t.Run("property source", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			YAMLFile: "entities:\n  - name: User\n    properties:\n      - {name: a, tag: 1, type: int}\n      - {name: b, tag: 1, type: int}\n",
		})
		err := NewYAMLReader(schema.NewModel()).ReadModel(ctx, dir)
		var merr *entigen.MetadataError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "model.yaml#entities[0].properties[1]", merr.Source)
		assert.Contains(t, err.Error(), "tag 1 already used by a")
	})
}

func TestSQLReader(t *testing.T) {
	ctx := context.Background()

	t.Run("parse dsn", func(t *testing.T) {
		tests := []struct {
			path, driver, dsn string
		}{
			{"sqlite://model.db", DriverSQLite, "model.db"},
			{"sqlite3:///tmp/model.db", DriverSQLite, "/tmp/model.db"},
			{"mysql://root@tcp(localhost:3306)/meta", DriverMySQL, "root@tcp(localhost:3306)/meta"},
			{"postgres://u@localhost/meta", DriverPostgres, "postgres://u@localhost/meta"},
		}
		for _, tt := range tests {
			driver, dsn, err := ParseDSN(tt.path)
			require.NoError(t, err, tt.path)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.dsn, dsn)
		}
		_, _, err := ParseDSN("model.db")
		assert.Error(t, err)
		_, _, err = ParseDSN("oracle://x")
		assert.Error(t, err)
	})

	t.Run("mock", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SELECT \\* FROM entities").
			WillReturnRows(sqlmock.NewRows([]string{"name", "label", "description"}).
				AddRow("User", nil, "A user"))
		mock.ExpectQuery("SELECT \\* FROM properties").
			WillReturnRows(sqlmock.NewRows([]string{"ENTITY", "NAME", "TAG", "TYPE", "DEFAULT", "OPTIONAL"}).
				AddRow("User", "name", "1", "string", nil, nil).
				AddRow("User", "role", "2", "Role", "admin", "1"))
		mock.ExpectQuery("SELECT \\* FROM enumerations").
			WillReturnRows(sqlmock.NewRows([]string{"enumeration", "name", "value", "label"}).
				AddRow("Role", "admin", nil, nil).
				AddRow("Role", "guest", nil, nil))

		m := schema.NewModel()
		require.NoError(t, NewSQLReaderDB(m, db).ReadModel(ctx, ""))
		require.NoError(t, mock.ExpectationsWereMet())
		require.NoError(t, m.Validate())

		user, err := m.Entity("User")
		require.NoError(t, err)
		assert.Equal(t, "User", user.Label)
		assert.Equal(t, "A user", user.Description)
		role, err := user.Property("role")
		require.NoError(t, err)
		assert.True(t, role.Optional)
		assert.Equal(t, "admin", *role.Default)
	})

	t.Run("missing table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SELECT \\* FROM entities").WillReturnError(errors.New("no such table"))
		err = NewSQLReaderDB(schema.NewModel(), db).ReadModel(ctx, "")
		require.Error(t, err)
		assert.True(t, entigen.IsMetadataError(err))
		assert.Contains(t, err.Error(), "at entities")
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.db")
		db, err := sql.Open(DriverSQLite, path)
		require.NoError(t, err)
		for _, stmt := range []string{
			"CREATE TABLE entities (name TEXT, label TEXT, description TEXT)",
			"CREATE TABLE properties (entity TEXT, name TEXT, tag INTEGER, type TEXT, label TEXT, description TEXT, `default` TEXT, optional INTEGER)",
			"CREATE TABLE enumerations (enumeration TEXT, name TEXT, value TEXT, label TEXT)",
			"INSERT INTO entities (name) VALUES ('Invoice')",
			"INSERT INTO properties (entity, name, tag, type, optional) VALUES ('Invoice', 'number', 1, 'int', 0), ('Invoice', 'state', 2, 'State', 1)",
			"INSERT INTO enumerations (enumeration, name) VALUES ('State', 'open'), ('State', 'closed')",
		} {
			_, err := db.Exec(stmt)
			require.NoError(t, err, stmt)
		}
		require.NoError(t, db.Close())

		m, err := Load(ctx, defaultRegistry(t), "sql", "sqlite://"+path)
		require.NoError(t, err)
		e, err := m.Entity("Invoice")
		require.NoError(t, err)
		require.Len(t, e.Properties, 2)
		assert.Equal(t, 1, e.Properties[0].Tag)
		assert.False(t, e.Properties[0].Optional)
		assert.True(t, e.Properties[1].Optional)
		assert.True(t, m.IsEnumeration("State"))
	})
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	m, err := Load(ctx, defaultRegistry(t), "csv", "testdata/shop")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, m))
	path := filepath.Join(t.TempDir(), "shop.snapshot")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(ctx, defaultRegistry(t), "snapshot", path)
	require.NoError(t, err)
	checkShop(t, loaded)

	t.Run("not a snapshot", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad")
		require.NoError(t, os.WriteFile(path, []byte("entity,name"), 0o644))
		err := NewSnapshotReader(schema.NewModel()).ReadModel(ctx, path)
		assert.Error(t, err)
	})
}
