package coordinator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	cartStore "github.com/mahardika/storefront/internal/cart/store"
	cartResponse "github.com/mahardika/storefront/cart/pkg/response"
	"github.com/mahardika/storefront/internal/backend"
	inErrors "github.com/mahardika/storefront/internal/errors"
	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/otel"
	"github.com/mahardika/storefront/internal/session"
	orderResponse "github.com/mahardika/storefront/order/pkg/response"
)

// Backend is the slice of the storefront API checkout needs.
type Backend interface {
	CreateOrder(c context.Context, param backend.CreateOrder) (orderResponse.Order, error)
	ClearCart(c context.Context, userID string) error
}

// Cart is the cart state checkout reads and settles.
type Cart interface {
	Snapshot() []cartResponse.CartLine
	ClearLocal()
}

// Orders receives the freshly placed order.
type Orders interface {
	Prepend(order orderResponse.Order)
}

// Coordinator turns the current cart into an order. Order creation is the
// single commit point: everything after a successful create is settlement
// and must not undo the placed order.
type Coordinator struct {
	backend Backend
	cart    Cart
	orders  Orders
	session session.Context
}

func New(backend Backend, cart Cart, orders Orders, sess session.Context) *Coordinator {
	return &Coordinator{backend: backend, cart: cart, orders: orders, session: sess}
}

// PlaceOrder freezes the cart lines, computes the totals once, and submits
// the order. An empty cart aborts before any call. On success the local cart
// empties immediately and the server-side cart is cleared best effort; a
// failed clear is logged, never surfaced, the next cart load reconciles it.
func (co *Coordinator) PlaceOrder(c context.Context, address string) (orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "Coordinator PlaceOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Coordinator PlaceOrder").
		Str(log.KeyUserID, co.session.UserID).
		Logger()

	if !co.session.LoggedIn() {
		logger.Info().Msg("no active session, refusing checkout")
		return orderResponse.Order{}, inErrors.ErrNotLoggedIn
	}

	snapshot := co.cart.Snapshot()
	if len(snapshot) == 0 {
		logger.Info().Msg("cart is empty, refusing checkout")
		return orderResponse.Order{}, inErrors.ErrEmptyCart
	}
	totals := cartStore.ComputeTotals(snapshot)

	logger = logger.With().Str(log.KeyProcess, "creating order").Logger()
	logger.Info().
		Int(log.KeyCartLines, len(snapshot)).
		Str(log.KeyTotals, totals.Total.String()).
		Msg("creating order")
	order, err := co.backend.CreateOrder(c, backend.CreateOrder{
		UserID:   co.session.UserID,
		Products: snapshot,
		Total:    totals.Total,
		Address:  address,
	})
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Order{}, err
	}
	logger.Info().Str(log.KeyOrderID, order.ID).Msg("created order")

	co.cart.ClearLocal()
	co.orders.Prepend(order)

	if err := co.backend.ClearCart(c, co.session.UserID); err != nil {
		err = fmt.Errorf("failed clearing remote cart after checkout with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}

	return order, nil
}
