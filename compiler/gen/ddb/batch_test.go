package ddb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenRepository_BatchGet(t *testing.T) {
	h, e := orderHelper(t)
	code := genRepository(h, e).GoString()

	assert.Contains(t, code, "func (r *OrderRepository) BatchGet(ctx context.Context, itemKeys []map[string]types.AttributeValue) ([]*ordersdb.Order, error)")
	// Requests chunk at the service limit and retry unprocessed keys.
	assert.Contains(t, code, "start += 100")
	assert.Contains(t, code, "out.UnprocessedKeys")
	// Exhausting the retries names how many keys were left behind.
	assert.Contains(t, code, `"order: %d unprocessed keys after %d attempts", len(pending[r.client.TableName()].Keys), 3`)
}

func TestGenRepository_BatchSave(t *testing.T) {
	h, e := orderHelper(t)
	code := genRepository(h, e).GoString()

	assert.Contains(t, code, "func (r *OrderRepository) BatchSave(ctx context.Context, items []*ordersdb.Order) error")
	// Every item is validated before the first write goes out.
	assert.Contains(t, code, "for _, _e := range items {")
	assert.Contains(t, code, "validation.ValidateOrder(_e)")
	assert.Contains(t, code, "types.WriteRequest{PutRequest: &types.PutRequest{Item: item}}")
}

func TestGenRepository_BatchDelete(t *testing.T) {
	h, e := orderHelper(t)
	code := genRepository(h, e).GoString()

	assert.Contains(t, code, "func (r *OrderRepository) BatchDelete(ctx context.Context, itemKeys []map[string]types.AttributeValue) error")
	assert.Contains(t, code, "types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: k}}")
	assert.Contains(t, code, "func (r *OrderRepository) batchWrite(ctx context.Context, writes []types.WriteRequest) error")
	assert.Contains(t, code, "start += 25")
	assert.Contains(t, code, "out.UnprocessedItems")
}

func TestGenRepository_TransactGet(t *testing.T) {
	h, e := orderHelper(t)
	code := genRepository(h, e).GoString()

	assert.Contains(t, code, "func (r *OrderRepository) TransactGet(ctx context.Context, itemKeys []map[string]types.AttributeValue) ([]*ordersdb.Order, error)")
	// Absent items are dropped from the result rather than reported.
	assert.Contains(t, code, "if len(resp.Item) == 0 {")
}

func TestGenRepository_TransactWrites(t *testing.T) {
	h, e := orderHelper(t)
	code := genRepository(h, e).GoString()

	assert.Contains(t, code, "func (r *OrderRepository) TransactSave(ctx context.Context, items []*ordersdb.Order) error")
	assert.Contains(t, code, "func (r *OrderRepository) TransactDelete(ctx context.Context, itemKeys []map[string]types.AttributeValue) error")
	assert.Contains(t, code, "func (r *OrderRepository) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput)")
	assert.Contains(t, code, "func (r *OrderRepository) TransactGetItems(ctx context.Context, in *dynamodb.TransactGetItemsInput)")
}
