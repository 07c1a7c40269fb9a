package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCodeName(t *testing.T) {
	cases := []struct {
		name     string
		override string
		want     string
	}{
		{"id", "", "Id"},
		{"order-date", "", "OrderDate"},
		{"shipping_address", "", "ShippingAddress"},
		{"createdAt", "", "CreatedAt"},
		{"SKU", "", "Sku"},
		{"IN_TRANSIT", "", "InTransit"},
		{"Order", "", "Order"},
		{"OrderID", "", "OrderID"},
		{"2fa-enabled", "", "X2faEnabled"},
		{"id", "ID", "ID"},
		{"anything", "CustomName", "CustomName"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveCodeName(tc.name, tc.override), "ResolveCodeName(%q, %q)", tc.name, tc.override)
	}
}

func TestResolveCodeNameIdempotent(t *testing.T) {
	for _, raw := range []string{"order-date", "SKU", "IN_TRANSIT", "plain", "2fa"} {
		once := ResolveCodeName(raw, "")
		assert.Equal(t, once, ResolveCodeName(once, ""), "resolving %q twice", raw)
	}
}

func TestEnumConstName(t *testing.T) {
	et := &EnumType{Name: "OrderStatus", Values: []string{"PENDING", "PAID"}}
	assert.Equal(t, "OrderStatusPending", EnumConstName(et, "PENDING"))
	assert.Equal(t, "OrderStatusInTransit", EnumConstName(et, "IN_TRANSIT"))
}

func TestNeedsAttributeMarker(t *testing.T) {
	assert.True(t, NeedsAttributeMarker("order-date", "OrderDate"))
	assert.True(t, NeedsAttributeMarker("id", "ID"))
	assert.False(t, NeedsAttributeMarker("Order", "Order"))
}

func TestDetectCollisions(t *testing.T) {
	t.Run("no collision", func(t *testing.T) {
		attrs := []*Attr{
			{Name: "id", Ident: "ID"},
			{Name: "createdAt", Ident: "CreatedAt"},
		}
		require.NoError(t, DetectCollisions("Order", attrs))
	})

	t.Run("colliding pair", func(t *testing.T) {
		attrs := []*Attr{
			{Name: "order-date", Ident: "OrderDate"},
			{Name: "order_date", Ident: "OrderDate"},
		}
		err := DetectCollisions("Order", attrs)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCollision))

		var ce *CollisionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "Order", ce.Scope)
		require.Len(t, ce.Groups, 1)
		assert.Equal(t, "OrderDate", ce.Groups[0].Ident)
		assert.Equal(t, []string{"order-date", "order_date"}, ce.Groups[0].RawNames)
		assert.Contains(t, err.Error(), "nameOverride")
	})

	t.Run("reports every group at once", func(t *testing.T) {
		attrs := []*Attr{
			{Name: "a-b", Ident: "AB"},
			{Name: "a_b", Ident: "AB"},
			{Name: "c-d", Ident: "CD"},
			{Name: "c_d", Ident: "CD"},
		}
		var ce *CollisionError
		require.True(t, errors.As(DetectCollisions("Order", attrs), &ce))
		require.Len(t, ce.Groups, 2)
		assert.Equal(t, "AB", ce.Groups[0].Ident)
		assert.Equal(t, "CD", ce.Groups[1].Ident)
	})
}
