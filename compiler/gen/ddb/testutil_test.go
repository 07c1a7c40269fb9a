package ddb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/dynagen/compiler/gen"
	"github.com/syssam/dynagen/schema"
)

// flat collapses whitespace runs to single spaces so assertions stay
// independent of gofmt column alignment.
func flat(code string) string {
	return strings.Join(strings.Fields(code), " ")
}

// orderSchema is the shared fixture: every resolved shape the emitters
// branch on appears at least once.
func orderSchema() *schema.Schema {
	return &schema.Schema{
		EntityName:  "Order",
		Description: "A customer order.",
		Identity:    schema.Identity{Fields: []string{"id", "createdAt"}},
		Fields: []*schema.Field{
			{Name: "id", NameOverride: "ID", Type: "string", Required: true},
			{Name: "createdAt", Type: "timestamp.epoch", Required: true},
			{Name: "status", Type: "string", Required: true, EnumValues: []string{"PENDING", "PAID", "SHIPPED"}, DefaultValue: "PENDING"},
			{Name: "total", Type: "number.decimal", Required: true, Constraints: &schema.Constraints{Min: f64(0)}},
			{Name: "email", Type: "string", Constraints: &schema.Constraints{MaxLength: i(254), Pattern: `[^@\s]+@[^@\s]+`}},
			{Name: "order-date", Type: "timestamp.date"},
			{Name: "notes", Type: "string", Nullable: true},
			{Name: "tags", Type: "stringSet"},
			{Name: "shippingAddress", Type: "map", Fields: []*schema.Field{
				{Name: "line1", Type: "string", Required: true},
				{Name: "city", Type: "string", Required: true},
				{Name: "zip", Type: "string", Constraints: &schema.Constraints{Pattern: `\d{5}`}},
			}},
		},
	}
}

func ordersTable() *schema.TableMetadata {
	return &schema.TableMetadata{
		TableName: "orders",
		TableArn:  "arn:aws:dynamodb:eu-west-1:000000000000:table/orders",
		Region:    "eu-west-1",
		Indexes: []schema.SecondaryIndex{
			{Name: "by-email", PartitionKey: "email", SortKey: "createdAt"},
		},
	}
}

func newHelper(t *testing.T, table *schema.TableMetadata, schemas ...*schema.Schema) gen.GeneratorHelper {
	t.Helper()
	g, err := gen.NewGraph(&gen.Config{
		Package: "github.com/acme/app/ordersdb",
		Target:  t.TempDir(),
	}, schemas, table)
	require.NoError(t, err)
	return gen.NewGenerator(g)
}

// orderHelper builds the default fixture with table metadata.
func orderHelper(t *testing.T) (gen.GeneratorHelper, *gen.Entity) {
	t.Helper()
	h := newHelper(t, ordersTable(), orderSchema())
	return h, h.Graph().Nodes[0]
}

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }
