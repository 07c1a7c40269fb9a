package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaKeys(t *testing.T) {
	t.Run("partition and sort key", func(t *testing.T) {
		s := &Schema{
			EntityName: "Order",
			Identity:   Identity{Fields: []string{"id", "createdAt"}},
		}
		assert.Equal(t, "id", s.PartitionKey())
		assert.Equal(t, "createdAt", s.SortKey())
	})

	t.Run("partition only", func(t *testing.T) {
		s := &Schema{
			EntityName: "User",
			Identity:   Identity{Fields: []string{"email"}},
		}
		assert.Equal(t, "email", s.PartitionKey())
		assert.Equal(t, "", s.SortKey())
	})

	t.Run("empty identity", func(t *testing.T) {
		s := &Schema{EntityName: "User"}
		assert.Equal(t, "", s.PartitionKey())
		assert.Equal(t, "", s.SortKey())
	})
}

func TestFieldByName(t *testing.T) {
	s := &Schema{
		Fields: []*Field{
			{Name: "id", Type: "string"},
			{Name: "order-date", Type: "timestamp.date"},
		},
	}
	assert.NotNil(t, s.FieldByName("order-date"))
	assert.Equal(t, "string", s.FieldByName("id").Type)
	assert.Nil(t, s.FieldByName("missing"))
}

func TestConstraintsEmpty(t *testing.T) {
	min := 3
	assert.True(t, (*Constraints)(nil).Empty())
	assert.True(t, (&Constraints{}).Empty())
	assert.False(t, (&Constraints{MinLength: &min}).Empty())
	assert.False(t, (&Constraints{Pattern: `\d+`}).Empty())
}
