package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const orderDoc = `
entityName: Order
identity:
  fields: [id, createdAt]
fields:
  - name: id
    type: string
    required: true
  - name: createdAt
    type: timestamp.epoch
    required: true
`

const userDoc = `
entityName: User
identity:
  fields: [email]
fields:
  - name: email
    type: string
    required: true
`

func TestSchemas(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		dir := t.TempDir()
		p := writeFile(t, dir, "order.yaml", orderDoc)

		schemas, err := Schemas(p)
		require.NoError(t, err)
		require.Len(t, schemas, 1)
		assert.Equal(t, "Order", schemas[0].EntityName)
		assert.Equal(t, "id", schemas[0].PartitionKey())
		assert.Equal(t, "createdAt", schemas[0].SortKey())
	})

	t.Run("directory ordered by file name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "b-user.yml", userDoc)
		writeFile(t, dir, "a-order.yaml", orderDoc)
		writeFile(t, dir, "notes.txt", "ignored")

		schemas, err := Schemas(dir)
		require.NoError(t, err)
		require.Len(t, schemas, 2)
		assert.Equal(t, "Order", schemas[0].EntityName)
		assert.Equal(t, "User", schemas[1].EntityName)
	})

	t.Run("json document", func(t *testing.T) {
		dir := t.TempDir()
		p := writeFile(t, dir, "user.json", `{
			"entityName": "User",
			"identity": {"fields": ["email"]},
			"fields": [{"name": "email", "type": "string", "required": true}]
		}`)

		schemas, err := Schemas(p)
		require.NoError(t, err)
		require.Len(t, schemas, 1)
		assert.Equal(t, "User", schemas[0].EntityName)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := Schemas(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no schema documents")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Schemas(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
	})

	t.Run("missing entityName", func(t *testing.T) {
		dir := t.TempDir()
		p := writeFile(t, dir, "bad.yaml", `
identity:
  fields: [id]
fields:
  - name: id
    type: string
`)
		_, err := Schemas(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entityName")
	})

	t.Run("identity arity", func(t *testing.T) {
		dir := t.TempDir()
		p := writeFile(t, dir, "bad.yaml", `
entityName: Order
identity:
  fields: [a, b, c]
fields:
  - name: a
    type: string
  - name: b
    type: string
  - name: c
    type: string
`)
		_, err := Schemas(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 or 2 fields")
	})

	t.Run("identity field not declared", func(t *testing.T) {
		dir := t.TempDir()
		p := writeFile(t, dir, "bad.yaml", `
entityName: Order
identity:
  fields: [missing]
fields:
  - name: id
    type: string
`)
		_, err := Schemas(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"missing"`)
	})
}

func TestTableMetadata(t *testing.T) {
	t.Run("optional", func(t *testing.T) {
		table, err := TableMetadata("")
		require.NoError(t, err)
		assert.Nil(t, table)
	})

	t.Run("full document", func(t *testing.T) {
		dir := t.TempDir()
		p := writeFile(t, dir, "table.yaml", `
tableName: orders
tableArn: arn:aws:dynamodb:eu-west-1:000000000000:table/orders
region: eu-west-1
indexes:
  - name: by-email
    partitionKey: email
    sortKey: createdAt
`)
		table, err := TableMetadata(p)
		require.NoError(t, err)
		assert.Equal(t, "orders", table.TableName)
		assert.Equal(t, "eu-west-1", table.Region)
		require.Len(t, table.Indexes, 1)
		assert.Equal(t, "by-email", table.Indexes[0].Name)
		assert.Equal(t, "email", table.Indexes[0].PartitionKey)
		assert.Equal(t, "createdAt", table.Indexes[0].SortKey)
	})

	t.Run("missing tableName", func(t *testing.T) {
		dir := t.TempDir()
		p := writeFile(t, dir, "table.yaml", "region: eu-west-1\n")
		_, err := TableMetadata(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tableName")
	})
}
