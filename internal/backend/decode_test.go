package backend

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/mahardika/storefront/internal/errors"
	orderResponse "github.com/mahardika/storefront/order/pkg/response"
)

func TestDecodeCartLines(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "given id field should decode",
			raw:  `[{"id":"line-1","productId":"product-1","price":"99.99","quantity":2}]`,
		},
		{
			name: "given mongo _id field should decode",
			raw:  `[{"_id":"line-1","productId":"product-1","price":100,"quantity":1}]`,
		},
		{
			name:    "given missing id should fail closed",
			raw:     `[{"productId":"product-1","price":100,"quantity":1}]`,
			wantErr: true,
		},
		{
			name:    "given missing price should fail closed",
			raw:     `[{"id":"line-1","productId":"product-1","quantity":1}]`,
			wantErr: true,
		},
		{
			name:    "given malformed price should fail closed",
			raw:     `[{"id":"line-1","price":"abc","quantity":1}]`,
			wantErr: true,
		},
		{
			name:    "given quantity below 1 should fail closed",
			raw:     `[{"id":"line-1","price":100,"quantity":0}]`,
			wantErr: true,
		},
		{
			name:    "given malformed json should fail closed",
			raw:     `{"lines":[]}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := decodeCartLines(http.StatusOK, []byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				var httpErr *inErrors.HTTPError
				assert.ErrorAs(t, err, &httpErr)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, lines, 1)
			assert.Equal(t, "line-1", lines[0].LineID)
		})
	}
}

func TestDecodeOrders(t *testing.T) {
	t.Run("given products field should decode as lines", func(t *testing.T) {
		raw := `[{
			"_id":"order-1",
			"userId":"user-1",
			"products":[{"id":"line-1","price":"100","quantity":2}],
			"total":"236",
			"status":"Delivered",
			"user":{"address":"Jl. Sudirman 1"},
			"createdAt":"2026-08-30T10:00:00Z"
		}]`

		orders, err := decodeOrders(http.StatusOK, []byte(raw))

		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		order := orders[0]
		assert.Equal(t, "order-1", order.ID)
		assert.Len(t, order.Lines, 1)
		assert.True(t, order.Total.Equal(decimal.RequireFromString("236")))
		assert.Equal(t, orderResponse.StatusDelivered, order.Status)
		assert.Equal(t, "Jl. Sudirman 1", order.Address)
		assert.False(t, order.CreatedAt.IsZero())
	})

	t.Run("given missing status should default to pending", func(t *testing.T) {
		raw := `[{"id":"order-1","lines":[],"total":"0"}]`

		orders, err := decodeOrders(http.StatusOK, []byte(raw))

		assert.NoError(t, err)
		assert.Equal(t, orderResponse.StatusPending, orders[0].Status)
	})

	t.Run("given unknown status should pass through verbatim", func(t *testing.T) {
		raw := `[{"id":"order-1","status":"Refund Requested"}]`

		orders, err := decodeOrders(http.StatusOK, []byte(raw))

		assert.NoError(t, err)
		assert.Equal(t, orderResponse.Status("Refund Requested"), orders[0].Status)
	})

	t.Run("given malformed line should fail the whole order", func(t *testing.T) {
		raw := `[{"id":"order-1","lines":[{"price":"100","quantity":1}]}]`

		_, err := decodeOrders(http.StatusOK, []byte(raw))

		assert.Error(t, err)
	})
}

func TestDecodeCreateOrder(t *testing.T) {
	t.Run("given success response should decode the order", func(t *testing.T) {
		raw := `{
			"success":true,
			"order":{"id":"order-1","products":[{"id":"line-1","price":"100","quantity":1}],"total":"118"}
		}`

		order, err := decodeCreateOrder(http.StatusOK, []byte(raw))

		assert.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})

	t.Run("given unsuccessful response should surface the message", func(t *testing.T) {
		raw := `{"success":false,"message":"product out of stock"}`

		_, err := decodeCreateOrder(http.StatusOK, []byte(raw))

		var httpErr *inErrors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "product out of stock", httpErr.Message)
	})

	t.Run("given success without order should fail closed", func(t *testing.T) {
		raw := `{"success":true}`

		_, err := decodeCreateOrder(http.StatusOK, []byte(raw))

		assert.Error(t, err)
	})
}

func TestDecodeProducts(t *testing.T) {
	t.Run("given products should decode both id variants", func(t *testing.T) {
		raw := `[
			{"id":"product-1","name":"Keyboard","price":"100"},
			{"_id":"product-2","name":"Mouse","price":50.5}
		]`

		products, err := decodeProducts(http.StatusOK, []byte(raw))

		assert.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Equal(t, "product-2", products[1].ID)
		assert.True(t, products[1].Price.Equal(decimal.RequireFromString("50.5")))
	})

	t.Run("given missing price should fail closed", func(t *testing.T) {
		raw := `[{"id":"product-1","name":"Keyboard"}]`

		_, err := decodeProducts(http.StatusOK, []byte(raw))

		assert.Error(t, err)
	})
}
