package coordinator

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	cartResponse "github.com/mahardika/storefront/cart/pkg/response"
	"github.com/mahardika/storefront/internal/backend"
	inErrors "github.com/mahardika/storefront/internal/errors"
	"github.com/mahardika/storefront/internal/session"
	orderResponse "github.com/mahardika/storefront/order/pkg/response"
)

type fakeBackend struct {
	createOrder func(c context.Context, param backend.CreateOrder) (orderResponse.Order, error)
	clearCart   func(c context.Context, userID string) error

	clearCartCalls int
}

func (f *fakeBackend) CreateOrder(
	c context.Context,
	param backend.CreateOrder,
) (orderResponse.Order, error) {
	if f.createOrder == nil {
		return orderResponse.Order{}, nil
	}
	return f.createOrder(c, param)
}

func (f *fakeBackend) ClearCart(c context.Context, userID string) error {
	f.clearCartCalls++
	if f.clearCart == nil {
		return nil
	}
	return f.clearCart(c, userID)
}

type fakeCart struct {
	lines   []cartResponse.CartLine
	cleared bool
}

func (f *fakeCart) Snapshot() []cartResponse.CartLine {
	snapshot := make([]cartResponse.CartLine, len(f.lines))
	copy(snapshot, f.lines)
	return snapshot
}

func (f *fakeCart) ClearLocal() {
	f.cleared = true
	f.lines = nil
}

type fakeOrders struct {
	orders []orderResponse.Order
}

func (f *fakeOrders) Prepend(order orderResponse.Order) {
	f.orders = append([]orderResponse.Order{order}, f.orders...)
}

func testSession() session.Context {
	return session.Context{UserID: "user-1", Token: "token-1"}
}

func testLines() []cartResponse.CartLine {
	return []cartResponse.CartLine{
		{
			LineID:    "line-1",
			ProductID: "product-1",
			Price:     decimal.NewFromInt(100),
			Quantity:  2,
		},
		{
			LineID:    "line-2",
			ProductID: "product-2",
			Price:     decimal.NewFromInt(50),
			Quantity:  1,
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	t.Run("given empty cart should not call backend", func(t *testing.T) {
		called := false
		fb := &fakeBackend{
			createOrder: func(c context.Context, param backend.CreateOrder) (orderResponse.Order, error) {
				called = true
				return orderResponse.Order{}, nil
			},
		}
		cart := &fakeCart{}
		orders := &fakeOrders{}
		coordinator := New(fb, cart, orders, testSession())

		_, err := coordinator.PlaceOrder(context.Background(), "Jl. Sudirman 1")

		assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
		assert.False(t, called)
		assert.False(t, cart.cleared)
	})

	t.Run("given no session should not call backend", func(t *testing.T) {
		called := false
		fb := &fakeBackend{
			createOrder: func(c context.Context, param backend.CreateOrder) (orderResponse.Order, error) {
				called = true
				return orderResponse.Order{}, nil
			},
		}
		coordinator := New(fb, &fakeCart{lines: testLines()}, &fakeOrders{}, session.Context{})

		_, err := coordinator.PlaceOrder(context.Background(), "Jl. Sudirman 1")

		assert.ErrorIs(t, err, inErrors.ErrNotLoggedIn)
		assert.False(t, called)
	})

	t.Run("given created order should settle cart and prepend order", func(t *testing.T) {
		var captured backend.CreateOrder
		fb := &fakeBackend{
			createOrder: func(c context.Context, param backend.CreateOrder) (orderResponse.Order, error) {
				captured = param
				return orderResponse.Order{
					ID:     "order-1",
					UserID: param.UserID,
					Lines:  param.Products,
					Total:  param.Total,
					Status: orderResponse.StatusPending,
				}, nil
			},
		}
		cart := &fakeCart{lines: testLines()}
		orders := &fakeOrders{orders: []orderResponse.Order{{ID: "order-0"}}}
		coordinator := New(fb, cart, orders, testSession())

		order, err := coordinator.PlaceOrder(context.Background(), "Jl. Sudirman 1")

		assert.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
		assert.Equal(t, "user-1", captured.UserID)
		assert.Equal(t, "Jl. Sudirman 1", captured.Address)
		assert.Len(t, captured.Products, 2)
		assert.True(t, captured.Total.Equal(decimal.RequireFromString("295")))
		assert.True(t, cart.cleared)
		assert.Equal(t, 1, fb.clearCartCalls)
		assert.Equal(t, "order-1", orders.orders[0].ID)
		assert.Equal(t, "order-0", orders.orders[1].ID)
	})

	t.Run("given create failure should leave cart untouched", func(t *testing.T) {
		fb := &fakeBackend{
			createOrder: func(c context.Context, param backend.CreateOrder) (orderResponse.Order, error) {
				return orderResponse.Order{}, &inErrors.HTTPError{
					StatusCode: 400,
					Message:    "product out of stock",
				}
			},
		}
		cart := &fakeCart{lines: testLines()}
		orders := &fakeOrders{}
		coordinator := New(fb, cart, orders, testSession())

		_, err := coordinator.PlaceOrder(context.Background(), "Jl. Sudirman 1")

		assert.Error(t, err)
		var httpErr *inErrors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "product out of stock", httpErr.BackendMessage("failed to place order"))
		assert.False(t, cart.cleared)
		assert.Len(t, cart.Snapshot(), 2)
		assert.Empty(t, orders.orders)
		assert.Equal(t, 0, fb.clearCartCalls)
	})

	t.Run("given cart clear failure should still succeed", func(t *testing.T) {
		fb := &fakeBackend{
			createOrder: func(c context.Context, param backend.CreateOrder) (orderResponse.Order, error) {
				return orderResponse.Order{ID: "order-1"}, nil
			},
			clearCart: func(c context.Context, userID string) error {
				return &inErrors.NetworkError{Op: "clear cart", Err: context.DeadlineExceeded}
			},
		}
		cart := &fakeCart{lines: testLines()}
		orders := &fakeOrders{}
		coordinator := New(fb, cart, orders, testSession())

		order, err := coordinator.PlaceOrder(context.Background(), "Jl. Sudirman 1")

		assert.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
		assert.True(t, cart.cleared)
		assert.Len(t, orders.orders, 1)
	})
}
