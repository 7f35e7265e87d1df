package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	inErrors "github.com/mahardika/storefront/internal/errors"
	"github.com/mahardika/storefront/internal/session"
	orderResponse "github.com/mahardika/storefront/order/pkg/response"
)

type fakeBackend struct {
	fetchOrders       func(c context.Context, userID string) ([]orderResponse.Order, error)
	fetchAllOrders    func(c context.Context) ([]orderResponse.Order, error)
	cancelOrder       func(c context.Context, orderID string) error
	updateOrderStatus func(c context.Context, orderID string, status orderResponse.Status, arrivingInfo string, arrivingDate string) error
	deleteOrder       func(c context.Context, orderID string) error
}

func (f *fakeBackend) FetchOrders(
	c context.Context,
	userID string,
) ([]orderResponse.Order, error) {
	if f.fetchOrders == nil {
		return nil, nil
	}
	return f.fetchOrders(c, userID)
}

func (f *fakeBackend) FetchAllOrders(c context.Context) ([]orderResponse.Order, error) {
	if f.fetchAllOrders == nil {
		return nil, nil
	}
	return f.fetchAllOrders(c)
}

func (f *fakeBackend) CancelOrder(c context.Context, orderID string) error {
	if f.cancelOrder == nil {
		return nil
	}
	return f.cancelOrder(c, orderID)
}

func (f *fakeBackend) UpdateOrderStatus(
	c context.Context,
	orderID string,
	status orderResponse.Status,
	arrivingInfo string,
	arrivingDate string,
) error {
	if f.updateOrderStatus == nil {
		return nil
	}
	return f.updateOrderStatus(c, orderID, status, arrivingInfo, arrivingDate)
}

func (f *fakeBackend) DeleteOrder(c context.Context, orderID string) error {
	if f.deleteOrder == nil {
		return nil
	}
	return f.deleteOrder(c, orderID)
}

func testSession() session.Context {
	return session.Context{UserID: "user-1", Token: "token-1"}
}

func seedOrders() []orderResponse.Order {
	return []orderResponse.Order{
		{ID: "order-1", UserID: "user-1", Status: orderResponse.StatusPending},
		{ID: "order-2", UserID: "user-1", Status: orderResponse.Status("in progress")},
		{ID: "order-3", UserID: "user-1", Status: orderResponse.StatusDelivered},
		{ID: "order-4", UserID: "user-1", Status: orderResponse.StatusCancelled},
	}
}

func seededStore(t *testing.T, backend *fakeBackend) *OrderListStore {
	t.Helper()

	prev := backend.fetchOrders
	backend.fetchOrders = func(c context.Context, userID string) ([]orderResponse.Order, error) {
		return seedOrders(), nil
	}
	store := New(backend, testSession())
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed seeding order store with error: %s", err)
	}
	backend.fetchOrders = prev
	return store
}

func TestOrderListStoreLoad(t *testing.T) {
	t.Run("given empty result should stay a valid empty list", func(t *testing.T) {
		backend := &fakeBackend{}
		store := New(backend, testSession())

		err := store.Load(context.Background())

		assert.NoError(t, err)
		assert.Empty(t, store.Orders())
		assert.False(t, store.LoadFailed())
	})

	t.Run("given fetch failure should empty list and flag it", func(t *testing.T) {
		backend := &fakeBackend{}
		store := seededStore(t, backend)

		backend.fetchOrders = func(c context.Context, userID string) ([]orderResponse.Order, error) {
			return nil, &inErrors.NetworkError{Op: "fetch orders", Err: context.DeadlineExceeded}
		}
		err := store.Load(context.Background())

		assert.Error(t, err)
		assert.Empty(t, store.Orders())
		assert.True(t, store.LoadFailed())
	})

	t.Run("given no session should not call backend", func(t *testing.T) {
		called := false
		backend := &fakeBackend{
			fetchOrders: func(c context.Context, userID string) ([]orderResponse.Order, error) {
				called = true
				return nil, nil
			},
		}
		store := New(backend, session.Context{})

		err := store.Load(context.Background())

		assert.ErrorIs(t, err, inErrors.ErrNotLoggedIn)
		assert.False(t, called)
	})

	t.Run("given all orders should load without session filter", func(t *testing.T) {
		backend := &fakeBackend{
			fetchAllOrders: func(c context.Context) ([]orderResponse.Order, error) {
				return seedOrders(), nil
			},
		}
		store := New(backend, session.Context{})

		err := store.LoadAll(context.Background())

		assert.NoError(t, err)
		assert.Len(t, store.Orders(), 4)
	})
}

func TestOrderListStoreFilter(t *testing.T) {
	backend := &fakeBackend{}
	store := seededStore(t, backend)

	t.Run("given status filter should match case-insensitively", func(t *testing.T) {
		filtered := store.FilterStatus(orderResponse.StatusInProgress)

		assert.Len(t, filtered, 1)
		assert.Equal(t, "order-2", filtered[0].ID)
	})

	t.Run("given in progress filter should match pending too", func(t *testing.T) {
		filtered := store.InProgress()

		assert.Len(t, filtered, 2)
		assert.Equal(t, "order-1", filtered[0].ID)
		assert.Equal(t, "order-2", filtered[1].ID)
	})

	t.Run("given no match should return empty non-nil slice", func(t *testing.T) {
		filtered := store.FilterStatus(orderResponse.StatusArriving)

		assert.NotNil(t, filtered)
		assert.Empty(t, filtered)
	})

	t.Run("given filter should not mutate the backing list", func(t *testing.T) {
		_ = store.InProgress()

		assert.Len(t, store.Orders(), 4)
	})
}

func TestOrderListStoreCancel(t *testing.T) {
	t.Run("given pending order should cancel after acknowledgement", func(t *testing.T) {
		backend := &fakeBackend{}
		store := seededStore(t, backend)

		err := store.Cancel(context.Background(), "order-1")

		assert.NoError(t, err)
		assert.Equal(t, orderResponse.StatusCancelled, store.Orders()[0].Status)
	})

	t.Run("given delivered order should refuse without calling backend", func(t *testing.T) {
		called := false
		backend := &fakeBackend{
			cancelOrder: func(c context.Context, orderID string) error {
				called = true
				return nil
			},
		}
		store := seededStore(t, backend)

		err := store.Cancel(context.Background(), "order-3")

		assert.ErrorIs(t, err, inErrors.ErrNotCancellable)
		assert.False(t, called)
		assert.Equal(t, orderResponse.StatusDelivered, store.Orders()[2].Status)
	})

	t.Run("given backend failure should keep the status", func(t *testing.T) {
		backend := &fakeBackend{
			cancelOrder: func(c context.Context, orderID string) error {
				return &inErrors.HTTPError{StatusCode: 500}
			},
		}
		store := seededStore(t, backend)

		err := store.Cancel(context.Background(), "order-1")

		assert.Error(t, err)
		assert.Equal(t, orderResponse.StatusPending, store.Orders()[0].Status)
	})

	t.Run("given unknown order should return not found", func(t *testing.T) {
		backend := &fakeBackend{}
		store := seededStore(t, backend)

		err := store.Cancel(context.Background(), "order-404")

		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
	})
}

func TestOrderListStoreUpdateStatus(t *testing.T) {
	t.Run("given arriving without fields should not call backend", func(t *testing.T) {
		called := false
		backend := &fakeBackend{
			updateOrderStatus: func(c context.Context, orderID string, status orderResponse.Status, arrivingInfo string, arrivingDate string) error {
				called = true
				return nil
			},
		}
		store := seededStore(t, backend)

		err := store.MarkArriving(context.Background(), "order-2", "  ", "2026-09-01")

		assert.ErrorIs(t, err, inErrors.ErrMissingArrivingInfo)
		assert.False(t, called)
	})

	t.Run("given arriving with both fields should update in place", func(t *testing.T) {
		backend := &fakeBackend{}
		store := seededStore(t, backend)

		err := store.MarkArriving(context.Background(), "order-2", "Kurir JNE", "2026-09-01")

		assert.NoError(t, err)
		order := store.Orders()[1]
		assert.Equal(t, orderResponse.StatusArriving, order.Status)
		assert.Equal(t, "Kurir JNE", order.ArrivingInfo)
		assert.Equal(t, "2026-09-01", order.ArrivingDate)
	})

	t.Run("given backend failure should keep the order unchanged", func(t *testing.T) {
		backend := &fakeBackend{
			updateOrderStatus: func(c context.Context, orderID string, status orderResponse.Status, arrivingInfo string, arrivingDate string) error {
				return &inErrors.HTTPError{StatusCode: 500}
			},
		}
		store := seededStore(t, backend)

		err := store.UpdateStatus(
			context.Background(),
			"order-1",
			orderResponse.StatusCompleted,
			"",
			"",
		)

		assert.Error(t, err)
		assert.Equal(t, orderResponse.StatusPending, store.Orders()[0].Status)
	})
}

func TestOrderListStoreDelete(t *testing.T) {
	t.Run("given backend success should remove locally", func(t *testing.T) {
		backend := &fakeBackend{}
		store := seededStore(t, backend)

		err := store.Delete(context.Background(), "order-3")

		assert.NoError(t, err)
		orders := store.Orders()
		assert.Len(t, orders, 3)
		for _, o := range orders {
			assert.NotEqual(t, "order-3", o.ID)
		}
	})

	t.Run("given backend failure should keep the order", func(t *testing.T) {
		backend := &fakeBackend{
			deleteOrder: func(c context.Context, orderID string) error {
				return &inErrors.HTTPError{StatusCode: 500}
			},
		}
		store := seededStore(t, backend)

		err := store.Delete(context.Background(), "order-3")

		assert.Error(t, err)
		assert.Len(t, store.Orders(), 4)
	})
}

func TestOrderListStorePrepend(t *testing.T) {
	backend := &fakeBackend{}
	store := seededStore(t, backend)

	store.Prepend(orderResponse.Order{ID: "order-5", Status: orderResponse.StatusPending})

	orders := store.Orders()
	assert.Len(t, orders, 5)
	assert.Equal(t, "order-5", orders[0].ID)
}
