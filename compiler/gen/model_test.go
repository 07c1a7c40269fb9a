package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dynagen/schema"
)

func orderSchema() *schema.Schema {
	return &schema.Schema{
		EntityName: "Order",
		Identity:   schema.Identity{Fields: []string{"id", "createdAt"}},
		Fields: []*schema.Field{
			{Name: "id", NameOverride: "ID", Type: "string", Required: true},
			{Name: "createdAt", Type: "timestamp.epoch", Required: true},
			{Name: "status", Type: "string", Required: true, EnumValues: []string{"PENDING", "PAID"}, DefaultValue: "PENDING"},
			{Name: "total", Type: "number.decimal", Required: true},
			{Name: "email", Type: "string"},
			{Name: "order-date", Type: "timestamp.date"},
			{Name: "tags", Type: "stringSet"},
			{Name: "shippingAddress", Type: "map", Fields: []*schema.Field{
				{Name: "line1", Type: "string", Required: true},
				{Name: "zip", Type: "string", Constraints: &schema.Constraints{Pattern: `\d{5}`}},
			}},
		},
	}
}

func ordersTable() *schema.TableMetadata {
	return &schema.TableMetadata{
		TableName: "orders",
		Region:    "eu-west-1",
		Indexes: []schema.SecondaryIndex{
			{Name: "by-email", PartitionKey: "email", SortKey: "createdAt"},
		},
	}
}

func testConfig() *Config {
	return &Config{Package: "github.com/acme/app/ordersdb", Target: "/tmp/ordersdb"}
}

func TestNewGraphConfig(t *testing.T) {
	t.Run("missing package", func(t *testing.T) {
		_, err := NewGraph(&Config{Target: "/tmp/out"}, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingConfig))
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := NewGraph(&Config{Package: "github.com/acme/app/gen"}, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingConfig))
	})
}

func TestEntityResolution(t *testing.T) {
	g, err := NewGraph(testConfig(), []*schema.Schema{orderSchema()}, ordersTable())
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	e := g.Nodes[0]

	t.Run("key attrs", func(t *testing.T) {
		require.NotNil(t, e.PartitionKey)
		require.NotNil(t, e.SortKey)
		assert.Equal(t, "ID", e.PartitionKey.Ident)
		assert.True(t, e.PartitionKey.IsPartition)
		assert.Equal(t, "CreatedAt", e.SortKey.Ident)
		assert.Equal(t, KindEpoch, e.SortKey.Type.Kind)
	})

	t.Run("enum at entity level", func(t *testing.T) {
		require.Len(t, e.Enums, 1)
		assert.Equal(t, "OrderStatus", e.Enums[0].Name)
		assert.Equal(t, []string{"PENDING", "PAID"}, e.Enums[0].Values)
	})

	t.Run("nested type naming", func(t *testing.T) {
		require.Len(t, e.Types, 1)
		gt := e.Types[0]
		assert.Equal(t, "OrderShippingAddress", gt.QualifiedName)
		require.Len(t, gt.Attrs, 2)
		assert.Equal(t, "shippingAddress.zip", gt.Attrs[1].Path)
	})

	t.Run("index resolution", func(t *testing.T) {
		require.Len(t, e.Indexes, 1)
		idx := e.Indexes[0]
		assert.Equal(t, "by-email", idx.Name)
		assert.Equal(t, "Email", idx.Partition.Ident)
		assert.Equal(t, "CreatedAt", idx.Sort.Ident)
		assert.Equal(t, []string{"by-email"}, idx.Partition.IndexNames)
	})
}

func TestEntityResolutionDepth(t *testing.T) {
	s := &schema.Schema{
		EntityName: "Catalog",
		Identity:   schema.Identity{Fields: []string{"id"}},
		Fields: []*schema.Field{
			{Name: "id", Type: "string", Required: true},
			{Name: "sections", Type: "list", Items: &schema.Field{
				Type: "map",
				Fields: []*schema.Field{
					{Name: "title", Type: "string", Required: true},
					{Name: "visibility", Type: "string", EnumValues: []string{"PUBLIC", "HIDDEN"}},
					{Name: "layout", Type: "map", Fields: []*schema.Field{
						{Name: "columns", Type: "number", Constraints: &schema.Constraints{Min: f64(1)}},
					}},
				},
			}},
		},
	}
	g, err := NewGraph(testConfig(), []*schema.Schema{s}, nil)
	require.NoError(t, err)
	e := g.Nodes[0]

	require.Len(t, e.Types, 2)
	assert.Equal(t, "CatalogSectionsItem", e.Types[0].QualifiedName)
	assert.Equal(t, "CatalogSectionsItemLayout", e.Types[1].QualifiedName)

	require.Len(t, e.Enums, 1)
	assert.Equal(t, "CatalogSectionsItemVisibility", e.Enums[0].Name)

	layout := e.Types[0].Attrs[2]
	assert.Equal(t, ClassGenerated, layout.Type.Class)
	assert.Equal(t, "sections[].layout", layout.Path)
}

func TestIndexSkippedWithoutPartitionAttr(t *testing.T) {
	table := &schema.TableMetadata{
		TableName: "orders",
		Indexes: []schema.SecondaryIndex{
			{Name: "by-vendor", PartitionKey: "vendorId"},
			{Name: "by-email", PartitionKey: "email"},
		},
	}
	g, err := NewGraph(testConfig(), []*schema.Schema{orderSchema()}, table)
	require.NoError(t, err)
	e := g.Nodes[0]

	require.Len(t, e.Indexes, 1)
	assert.Equal(t, "by-email", e.Indexes[0].Name)
	assert.Nil(t, e.Indexes[0].Sort)
}

func TestKeyUsable(t *testing.T) {
	t.Run("bool key rejected", func(t *testing.T) {
		s := &schema.Schema{
			EntityName: "Flag",
			Identity:   schema.Identity{Fields: []string{"active"}},
			Fields:     []*schema.Field{{Name: "active", Type: "boolean"}},
		}
		_, err := NewGraph(testConfig(), []*schema.Schema{s}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidSchema))
		assert.Contains(t, err.Error(), "cannot serve as a key")
	})

	t.Run("nested key rejected", func(t *testing.T) {
		s := &schema.Schema{
			EntityName: "Doc",
			Identity:   schema.Identity{Fields: []string{"meta"}},
			Fields: []*schema.Field{
				{Name: "meta", Type: "map", Fields: []*schema.Field{{Name: "id", Type: "string"}}},
			},
		}
		_, err := NewGraph(testConfig(), []*schema.Schema{s}, nil)
		require.Error(t, err)
	})
}

func TestListFieldShapes(t *testing.T) {
	t.Run("missing items", func(t *testing.T) {
		s := &schema.Schema{
			EntityName: "Doc",
			Identity:   schema.Identity{Fields: []string{"id"}},
			Fields: []*schema.Field{
				{Name: "id", Type: "string"},
				{Name: "parts", Type: "list"},
			},
		}
		_, err := NewGraph(testConfig(), []*schema.Schema{s}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing items")
	})

	t.Run("scalar items", func(t *testing.T) {
		s := &schema.Schema{
			EntityName: "Doc",
			Identity:   schema.Identity{Fields: []string{"id"}},
			Fields: []*schema.Field{
				{Name: "id", Type: "string"},
				{Name: "scores", Type: "list", Items: &schema.Field{Type: "number.double"}},
			},
		}
		g, err := NewGraph(testConfig(), []*schema.Schema{s}, nil)
		require.NoError(t, err)
		a := g.Nodes[0].Attrs[1]
		assert.Equal(t, ClassListScalar, a.Type.Class)
		assert.Equal(t, KindDouble, a.Type.Kind)
	})

	t.Run("empty map", func(t *testing.T) {
		s := &schema.Schema{
			EntityName: "Doc",
			Identity:   schema.Identity{Fields: []string{"id"}},
			Fields: []*schema.Field{
				{Name: "id", Type: "string"},
				{Name: "meta", Type: "map"},
			},
		}
		_, err := NewGraph(testConfig(), []*schema.Schema{s}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing fields")
	})
}

func TestAttrOptional(t *testing.T) {
	g, err := NewGraph(testConfig(), []*schema.Schema{orderSchema()}, nil)
	require.NoError(t, err)
	e := g.Nodes[0]
	byIdent := make(map[string]*Attr)
	for _, a := range e.Attrs {
		byIdent[a.Ident] = a
	}

	assert.False(t, byIdent["ID"].Optional())
	assert.False(t, byIdent["Status"].Optional())
	assert.True(t, byIdent["Email"].Optional())
	assert.True(t, byIdent["OrderDate"].Optional())
	// Collections carry their own nil state.
	assert.False(t, byIdent["Tags"].Optional())
	assert.False(t, byIdent["ShippingAddress"].Optional())
}

func TestAttrOptionalRequiredNullable(t *testing.T) {
	s := &schema.Schema{
		EntityName: "Doc",
		Identity:   schema.Identity{Fields: []string{"id"}},
		Fields: []*schema.Field{
			{Name: "id", Type: "string", Required: true},
			{Name: "note", Type: "string", Required: true, Nullable: true},
		},
	}
	g, err := NewGraph(testConfig(), []*schema.Schema{s}, nil)
	require.NoError(t, err)
	assert.True(t, g.Nodes[0].Attrs[1].Optional())
}

func TestNeedsValidation(t *testing.T) {
	g, err := NewGraph(testConfig(), []*schema.Schema{orderSchema()}, nil)
	require.NoError(t, err)
	assert.True(t, NeedsValidation(g.Nodes[0]))

	bare := &schema.Schema{
		EntityName: "Ping",
		Identity:   schema.Identity{Fields: []string{"id"}},
		Fields:     []*schema.Field{{Name: "id", Type: "string"}},
	}
	g, err = NewGraph(testConfig(), []*schema.Schema{bare}, nil)
	require.NoError(t, err)
	assert.False(t, NeedsValidation(g.Nodes[0]))
}

func TestConverterPredicates(t *testing.T) {
	g, err := NewGraph(testConfig(), []*schema.Schema{orderSchema()}, nil)
	require.NoError(t, err)

	assert.True(t, g.NeedsDateConverter())
	assert.True(t, g.NeedsDecimalConverter())
	assert.Equal(t, []Kind{KindString}, g.SetKinds())
	assert.True(t, g.NeedsConverters())

	bare := &schema.Schema{
		EntityName: "Ping",
		Identity:   schema.Identity{Fields: []string{"id"}},
		Fields:     []*schema.Field{{Name: "id", Type: "string"}},
	}
	g, err = NewGraph(testConfig(), []*schema.Schema{bare}, nil)
	require.NoError(t, err)
	assert.False(t, g.NeedsConverters())
}

func TestGraphCollisions(t *testing.T) {
	s := orderSchema()
	s.Fields = append(s.Fields, &schema.Field{Name: "order_date", Type: "string"})
	g, err := NewGraph(testConfig(), []*schema.Schema{s}, nil)
	require.NoError(t, err)

	err = g.detectCollisions()
	require.Error(t, err)
	assert.True(t, IsCollisionError(err))
}

func f64(v float64) *float64 { return &v }
