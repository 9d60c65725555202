package sql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
	_ "modernc.org/sqlite"

	"github.com/syssam/entigen/compiler/gen"
	"github.com/syssam/entigen/compiler/load"
	"github.com/syssam/entigen/schema"
)

func shopModel(t *testing.T) *schema.Model {
	t.Helper()
	r := load.NewRegistry()
	require.NoError(t, load.RegisterDefaults(r))
	m, err := load.Load(context.Background(), r, "csv", "../../load/testdata/shop")
	require.NoError(t, err)
	return m
}

func render(t *testing.T, opts gen.Options, entities ...string) string {
	t.Helper()
	w, err := New(shopModel(t), opts)
	require.NoError(t, err)
	b, err := w.CreateBlock(Schema, entities)
	require.NoError(t, err)
	return b.String()
}

func TestNames(t *testing.T) {
	assert.Equal(t, "customers", TableName("Customer"))
	assert.Equal(t, "order_lines", TableName("OrderLine"))

	m := shopModel(t)
	order, err := m.Entity("Order")
	require.NoError(t, err)
	for name, want := range map[string]string{
		"id":       "id",
		"customer": "customer_id",
		"status":   "status",
	} {
		p, err := order.Property(name)
		require.NoError(t, err)
		assert.Equal(t, want, ColumnName(p, m.IsEntity))
	}
}

func TestSQLite(t *testing.T) {
	out := render(t, nil)
	golden.Assert(t, out+"\n", "schema_sqlite.golden")

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	// A single connection keeps the in-memory database alive.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(out)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO "orders" ("id", "customer_id", "lines") VALUES ('o1', 'c1', '[]')`)
	require.NoError(t, err)
	var status string
	require.NoError(t, db.QueryRow(`SELECT "status" FROM "orders"`).Scan(&status))
	assert.Equal(t, "new", status)

	_, err = db.Exec(`INSERT INTO "orders" ("id", "customer_id", "lines", "status") VALUES ('o2', 'c1', '[]', 'lost')`)
	assert.Error(t, err, "check constraint")

	_, err = db.Exec(`INSERT INTO "order_lines" ("product", "price") VALUES ('pen', 1.5)`)
	require.NoError(t, err)
	var quantity, gift int
	require.NoError(t, db.QueryRow(`SELECT "quantity", "gift" FROM "order_lines"`).Scan(&quantity, &gift))
	assert.Equal(t, 1, quantity)
	assert.Equal(t, 0, gift)
}

func TestPostgres(t *testing.T) {
	out := render(t, gen.Options{"dialect": Postgres, "if_not_exists": true}, "OrderLine", "Customer")
	assert.Contains(t, out, `CREATE TABLE IF NOT EXISTS "order_lines" (`)
	assert.Contains(t, out, `"id" BIGSERIAL PRIMARY KEY,`)
	assert.Contains(t, out, `"gift" BOOLEAN NOT NULL DEFAULT FALSE`+"\n);")
	assert.Contains(t, out, `"id" UUID NOT NULL PRIMARY KEY,`)
	assert.Contains(t, out, `"birthday" DATE`+"\n);")
	assert.NotContains(t, out, "orders")
}

func TestMySQL(t *testing.T) {
	out := render(t, gen.Options{"dialect": MySQL, "header": []string{"Shop schema"}}, "Order")
	assert.Equal(t, "-- Shop schema\n\nCREATE TABLE `orders` (\n"+
		"    `id` CHAR(36) NOT NULL PRIMARY KEY,\n"+
		"    `customer_id` CHAR(36) NOT NULL REFERENCES `customers` (`id`),\n"+
		"    `status` VARCHAR(255) NOT NULL DEFAULT 'new' CHECK (`status` IN ('new', 'paid', 'SHIPPED')),\n"+
		"    `lines` JSON NOT NULL,\n"+
		"    `tags` JSON\n"+
		");", out)
}

func TestLiterals(t *testing.T) {
	m := schema.NewModel()
	e := schema.NewEntity("Note")
	for i, col := range []struct{ name, typ, def string }{
		{"title", "string", "it's"},
		{"done", "bool", "yes"},
		{"due", "date", "2024-01-31"},
	} {
		p, err := schema.NewProperty(col.name, i+1, col.typ)
		require.NoError(t, err)
		def := col.def
		p.Default = &def
		require.NoError(t, e.AddProperty(p))
	}
	require.NoError(t, m.AddEntity(e))

	w, err := New(m, gen.Options{"dialect": Postgres})
	require.NoError(t, err)
	b, err := w.CreateBlock(Schema, nil)
	require.NoError(t, err)
	out := b.String()
	assert.Contains(t, out, `"title" TEXT NOT NULL DEFAULT 'it''s',`)
	assert.Contains(t, out, `"done" BOOLEAN NOT NULL DEFAULT TRUE,`)
	assert.Contains(t, out, `"due" DATE NOT NULL DEFAULT '2024-01-31'`)
}

func TestOptions(t *testing.T) {
	m := shopModel(t)
	_, err := New(m, gen.Options{"dialect": "oracle"})
	assert.True(t, gen.IsConfigError(err))
	_, err = New(m, gen.Options{"if_not_exists": "sometimes"})
	assert.True(t, gen.IsConfigError(err))
	_, err = New(m, gen.Options{"engine": "innodb"})
	assert.True(t, gen.IsConfigError(err))
}
