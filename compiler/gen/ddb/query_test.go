package ddb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/dynagen/schema"
)

func TestGenRepository_QueryFamily(t *testing.T) {
	h, e := orderHelper(t)
	code := genRepository(h, e).GoString()

	assert.Contains(t, code, "type OrderQuery struct")
	assert.Contains(t, code, "keyCond     expression.KeyConditionBuilder")

	// Primary-index constructor, named after the partition attribute.
	assert.Contains(t, code, "func (r *OrderRepository) QueryByID(id string) *OrderQuery")
	assert.Contains(t, code, `expression.Key("id").Equal(expression.Value(id))`)

	// Secondary-index constructor pins the index name.
	assert.Contains(t, code, "func (r *OrderRepository) QueryByEmail(email string) *OrderQuery")
	assert.Contains(t, code, "aws.String(keys.OrderIndexByEmail)")
}

func TestGenRepository_SortRefinements(t *testing.T) {
	h, e := orderHelper(t)
	code := genRepository(h, e).GoString()

	assert.Contains(t, code, "func (q *OrderQuery) CreatedAtEqual(v int64) *OrderQuery")
	assert.Contains(t, code, "func (q *OrderQuery) CreatedAtGT(v int64) *OrderQuery")
	assert.Contains(t, code, `expression.Key("createdAt").GreaterThan(expression.Value(v))`)
	assert.Contains(t, code, "func (q *OrderQuery) CreatedAtBetween(lo int64, hi int64) *OrderQuery")
	// BeginsWith only exists for string sort attributes.
	assert.NotContains(t, code, "CreatedAtBeginsWith")
}

func TestGenRepository_StringSortBeginsWith(t *testing.T) {
	s := &schema.Schema{
		EntityName: "Doc",
		Identity:   schema.Identity{Fields: []string{"owner", "path"}},
		Fields: []*schema.Field{
			{Name: "owner", Type: "string", Required: true},
			{Name: "path", Type: "string", Required: true},
		},
	}
	h := newHelper(t, &schema.TableMetadata{TableName: "docs"}, s)
	code := genRepository(h, h.Graph().Nodes[0]).GoString()

	assert.Contains(t, code, "func (q *DocQuery) PathBeginsWith(prefix string) *DocQuery")
	assert.Contains(t, code, `expression.Key("path").BeginsWith(prefix)`)
}

func TestGenRepository_QueryModifiersAndTerminals(t *testing.T) {
	h, e := orderHelper(t)
	code := genRepository(h, e).GoString()

	assert.Contains(t, code, "func (q *OrderQuery) Filtered(cond expression.ConditionBuilder) *OrderQuery")
	assert.Contains(t, code, "func (q *OrderQuery) Limit(n int32) *OrderQuery")
	assert.Contains(t, code, "func (q *OrderQuery) Descending() *OrderQuery")
	assert.Contains(t, code, "aws.Bool(false)")

	assert.Contains(t, code, "func (q *OrderQuery) All(ctx context.Context) ([]*ordersdb.Order, error)")
	assert.Contains(t, code, "func (q *OrderQuery) First(ctx context.Context) (*ordersdb.Order, error)")
	assert.Contains(t, code, "in.Limit = aws.Int32(1)")
	assert.Contains(t, code, "func (q *OrderQuery) Paginator() (*dynamodb.QueryPaginator, error)")
	assert.Contains(t, code, "ScanIndexForward:")
}

func TestGenRepository_RawQuery(t *testing.T) {
	h, e := orderHelper(t)
	code := genRepository(h, e).GoString()

	assert.Contains(t, code, "func (r *OrderRepository) Query(ctx context.Context, in *dynamodb.QueryInput)")
	assert.Contains(t, code, "func (r *OrderRepository) QueryPaginator(in *dynamodb.QueryInput) *dynamodb.QueryPaginator")
}

func TestGenRepository_NoQueryFamilyWithoutSortOrIndexes(t *testing.T) {
	s := &schema.Schema{
		EntityName: "User",
		Identity:   schema.Identity{Fields: []string{"email"}},
		Fields:     []*schema.Field{{Name: "email", Type: "string", Required: true}},
	}
	h := newHelper(t, &schema.TableMetadata{TableName: "users"}, s)
	code := genRepository(h, h.Graph().Nodes[0]).GoString()

	// The raw escape hatches stay; the typed family has nothing to offer
	// on a partition-only primary index with no secondary indexes.
	assert.Contains(t, code, "func (r *UserRepository) Query(ctx context.Context, in *dynamodb.QueryInput)")
	assert.NotContains(t, code, "type UserQuery struct")
	assert.NotContains(t, code, "QueryByEmail")
}

func TestGenRepository_IndexNameDedupe(t *testing.T) {
	// An index whose resolved constructor name collides with the primary
	// constructor gets an Index suffix.
	s := &schema.Schema{
		EntityName: "Event",
		Identity:   schema.Identity{Fields: []string{"kind", "at"}},
		Fields: []*schema.Field{
			{Name: "kind", Type: "string", Required: true},
			{Name: "at", Type: "timestamp.epoch", Required: true},
			{Name: "by-kind", Type: "string"},
		},
	}
	table := &schema.TableMetadata{
		TableName: "events",
		Indexes: []schema.SecondaryIndex{
			{Name: "by-kind", PartitionKey: "by-kind"},
		},
	}
	h := newHelper(t, table, s)
	code := genRepository(h, h.Graph().Nodes[0]).GoString()

	assert.Contains(t, code, "func (r *EventRepository) QueryByKind(kind string) *EventQuery")
	assert.Contains(t, code, "func (r *EventRepository) QueryByKindIndex(byKind string) *EventQuery")
}

func TestGenRepository_InstantKeyCondition(t *testing.T) {
	// Instant sort keys are rendered to canonical text in conditions so
	// comparisons run on the stored representation.
	s := &schema.Schema{
		EntityName: "Reading",
		Identity:   schema.Identity{Fields: []string{"sensor", "takenAt"}},
		Fields: []*schema.Field{
			{Name: "sensor", Type: "string", Required: true},
			{Name: "takenAt", Type: "timestamp", Required: true},
		},
	}
	h := newHelper(t, &schema.TableMetadata{TableName: "readings"}, s)
	code := genRepository(h, h.Graph().Nodes[0]).GoString()

	assert.Contains(t, code, "v.UTC().Format(time.RFC3339Nano)")
}
