package ddb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dynagen/schema"
)

func TestGenEntity_Struct(t *testing.T) {
	h, e := orderHelper(t)
	file := genEntity(h, e)
	require.NotNil(t, file)

	code := file.GoString()
	assert.Contains(t, code, "Code generated by dynagen. DO NOT EDIT.")
	assert.Contains(t, code, "type Order struct")

	// Struct fields are column-aligned, so compare on collapsed whitespace.
	fields := flat(code)
	assert.Contains(t, fields, "ID string")
	assert.Contains(t, fields, "CreatedAt int64")
	assert.Contains(t, fields, "Email *string")
	assert.Contains(t, fields, "Tags converter.StringSet")
	assert.Contains(t, fields, "ShippingAddress *model.OrderShippingAddress")
}

func TestGenEntity_AttributeMarkers(t *testing.T) {
	h, e := orderHelper(t)
	code := genEntity(h, e).GoString()

	// Any identifier that differs from the raw name carries a marker, case
	// differences included: the marshaler matches attribute names exactly.
	assert.Contains(t, code, `dynamodbav:"order-date"`)
	assert.Contains(t, code, `dynamodbav:"id"`)
	assert.Contains(t, code, `dynamodbav:"createdAt"`)

	s := &schema.Schema{
		EntityName: "Legacy",
		Identity:   schema.Identity{Fields: []string{"Token"}},
		Fields:     []*schema.Field{{Name: "Token", Type: "string", Required: true}},
	}
	h2 := newHelper(t, nil, s)
	code = genEntity(h2, h2.Graph().Nodes[0]).GoString()
	assert.NotContains(t, code, "dynamodbav")
}

func TestGenEntity_Enums(t *testing.T) {
	h, e := orderHelper(t)
	code := genEntity(h, e).GoString()

	assert.Contains(t, code, "type OrderStatus string")
	assert.Contains(t, flat(code), `OrderStatusPending OrderStatus = "PENDING"`)
	assert.Contains(t, flat(code), `OrderStatusPaid OrderStatus = "PAID"`)
	assert.Contains(t, flat(code), `OrderStatusShipped OrderStatus = "SHIPPED"`)
	assert.Contains(t, code, "func OrderStatusValues()")
	assert.Contains(t, code, "func (_v OrderStatus) Valid() bool")
}

func TestGenEntity_Constructors(t *testing.T) {
	h, e := orderHelper(t)
	code := genEntity(h, e).GoString()

	assert.Contains(t, code, "func NewOrder() *Order")
	assert.Contains(t, code, "_e.Status = OrderStatusPending")
	assert.Contains(t, code, "func NewOrderWith(id string, createdAt int64, status OrderStatus, total converter.Decimal) *Order")
}

func TestGenEntity_Builder(t *testing.T) {
	h, e := orderHelper(t)
	code := genEntity(h, e).GoString()

	assert.Contains(t, code, "type OrderBuilder struct")
	assert.Contains(t, code, "func NewOrderBuilder() *OrderBuilder")
	assert.Contains(t, code, "func (_b *OrderBuilder) Build() *Order")
	// Optional scalars take the base type and store its address.
	assert.Contains(t, code, "func (_b *OrderBuilder) Email(v string) *OrderBuilder")
	assert.Contains(t, code, "_b.target.Email = &v")
}

func TestGenEntity_StringAndEqual(t *testing.T) {
	h, e := orderHelper(t)
	code := genEntity(h, e).GoString()

	assert.Contains(t, code, "func (_e *Order) String() string")
	assert.Contains(t, code, `"id=%v"`)
	// Optional scalars print the value behind the pointer, never the address.
	assert.Contains(t, code, "if _e.Email != nil")
	assert.Contains(t, code, `", email=%v", *_e.Email`)
	assert.Contains(t, code, `", email=<nil>"`)
	assert.Contains(t, code, "func (_e *Order) Equal(other *Order) bool")
	assert.Contains(t, code, "reflect.DeepEqual")
}

func TestGenEntity_InstantDefaultHelper(t *testing.T) {
	s := &schema.Schema{
		EntityName: "Event",
		Identity:   schema.Identity{Fields: []string{"id"}},
		Fields: []*schema.Field{
			{Name: "id", Type: "string", Required: true},
			{Name: "at", Type: "timestamp", DefaultValue: "2024-01-01T00:00:00Z"},
		},
	}
	h := newHelper(t, nil, s)
	code := genEntity(h, h.Graph().Nodes[0]).GoString()

	assert.Contains(t, code, "func mustTime(s string) time.Time")
	assert.Contains(t, code, "time.RFC3339")
}

func TestParamName(t *testing.T) {
	cases := map[string]string{
		"ID":        "id",
		"CreatedAt": "createdAt",
		"URLPath":   "urlPath",
		"Email":     "email",
		"Type":      "typeArg",
		"Range":     "rangeArg",
	}
	for ident, want := range cases {
		assert.Equal(t, want, paramName(ident), "paramName(%q)", ident)
	}
}
