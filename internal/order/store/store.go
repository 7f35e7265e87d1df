package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	inErrors "github.com/mahardika/storefront/internal/errors"
	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/otel"
	"github.com/mahardika/storefront/internal/session"
	orderResponse "github.com/mahardika/storefront/order/pkg/response"
)

// Backend is the slice of the storefront API the order list needs.
type Backend interface {
	FetchOrders(c context.Context, userID string) ([]orderResponse.Order, error)
	FetchAllOrders(c context.Context) ([]orderResponse.Order, error)
	CancelOrder(c context.Context, orderID string) error
	UpdateOrderStatus(c context.Context, orderID string, status orderResponse.Status, arrivingInfo string, arrivingDate string) error
	DeleteOrder(c context.Context, orderID string) error
}

// OrderListStore owns the fetched order records. The client never invents a
// status transition: it requests one and reflects the acknowledged result.
type OrderListStore struct {
	mu      sync.Mutex
	backend Backend
	session session.Context
	orders  []orderResponse.Order
	loadErr bool
}

func New(backend Backend, sess session.Context) *OrderListStore {
	return &OrderListStore{backend: backend, session: sess}
}

// Load replaces the list with the user's orders. An empty result is a valid
// "no orders yet" state, distinguished from a fetch failure by LoadFailed.
func (s *OrderListStore) Load(c context.Context) error {
	c, span := otel.Tracer.Start(c, "OrderListStore Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderListStore Load").
		Str(log.KeyUserID, s.session.UserID).
		Str(log.KeyProcess, "fetching orders").
		Logger()

	if !s.session.LoggedIn() {
		logger.Info().Msg("no active session, skipping order fetch")
		return inErrors.ErrNotLoggedIn
	}

	logger.Info().Msg("fetching orders")
	fetched, err := s.backend.FetchOrders(c, s.session.UserID)
	if err != nil {
		err = fmt.Errorf("failed fetching orders with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		s.mu.Lock()
		s.orders = nil
		s.loadErr = true
		s.mu.Unlock()
		return err
	}
	logger.Info().Int(log.KeyOrders, len(fetched)).Msg("fetched orders")

	s.mu.Lock()
	s.orders = fetched
	s.loadErr = false
	s.mu.Unlock()

	return nil
}

// LoadAll replaces the list with every order, for the admin screen.
func (s *OrderListStore) LoadAll(c context.Context) error {
	c, span := otel.Tracer.Start(c, "OrderListStore LoadAll")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderListStore LoadAll").
		Str(log.KeyProcess, "fetching all orders").
		Logger()

	logger.Info().Msg("fetching all orders")
	fetched, err := s.backend.FetchAllOrders(c)
	if err != nil {
		err = fmt.Errorf("failed fetching all orders with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		s.mu.Lock()
		s.orders = nil
		s.loadErr = true
		s.mu.Unlock()
		return err
	}
	logger.Info().Int(log.KeyOrders, len(fetched)).Msg("fetched all orders")

	s.mu.Lock()
	s.orders = fetched
	s.loadErr = false
	s.mu.Unlock()

	return nil
}

// Orders returns a copy of the loaded list.
func (s *OrderListStore) Orders() []orderResponse.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]orderResponse.Order, len(s.orders))
	copy(orders, s.orders)
	return orders
}

func (s *OrderListStore) LoadFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Filter is a pure read-only view over the loaded list; the backing list is
// never mutated.
func (s *OrderListStore) Filter(pred func(orderResponse.Order) bool) []orderResponse.Order {
	filtered := []orderResponse.Order{}
	for _, o := range s.Orders() {
		if pred(o) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// FilterStatus filters by case-insensitive status equality.
func (s *OrderListStore) FilterStatus(status orderResponse.Status) []orderResponse.Order {
	return s.Filter(func(o orderResponse.Order) bool {
		return o.Status.Is(status)
	})
}

// InProgress returns the orders matching the compound in-progress predicate.
func (s *OrderListStore) InProgress() []orderResponse.Order {
	return s.Filter(func(o orderResponse.Order) bool {
		return o.Status.InProgress()
	})
}

// Cancel requests cancellation of an in-progress order. Orders whose status
// is already terminal are not cancellable, no call is issued for them. The
// local status only becomes Cancelled once the backend acknowledged.
func (s *OrderListStore) Cancel(c context.Context, orderID string) error {
	c, span := otel.Tracer.Start(c, "OrderListStore Cancel")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderListStore Cancel").
		Str(log.KeyOrderID, orderID).
		Logger()

	s.mu.Lock()
	order := s.find(orderID)
	if order == nil {
		s.mu.Unlock()
		inErrors.HandleError(inErrors.ErrOrderNotFound, span)
		logger.Error().Err(inErrors.ErrOrderNotFound).Msg(inErrors.ErrOrderNotFound.Error())
		return inErrors.ErrOrderNotFound
	}
	if !order.Status.InProgress() {
		s.mu.Unlock()
		logger.Info().
			Str(log.KeyStatus, string(order.Status)).
			Msg("order is not in progress, refusing to cancel")
		return inErrors.ErrNotCancellable
	}
	s.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "cancelling order").Logger()
	logger.Info().Msg("cancelling order")
	err := s.backend.CancelOrder(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed cancelling orderId=%s with error=%w", orderID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	s.mu.Lock()
	if order := s.find(orderID); order != nil {
		order.Status = orderResponse.StatusCancelled
	}
	s.mu.Unlock()
	logger.Info().Msg("cancelled order")

	return nil
}

// MarkArriving requires both free text fields; an empty field aborts the whole
// operation before any call is issued, a partial update is never sent.
func (s *OrderListStore) MarkArriving(c context.Context, orderID string, arrivingInfo string, arrivingDate string) error {
	if strings.TrimSpace(arrivingInfo) == "" || strings.TrimSpace(arrivingDate) == "" {
		return inErrors.ErrMissingArrivingInfo
	}
	return s.UpdateStatus(c, orderID, orderResponse.StatusArriving, arrivingInfo, arrivingDate)
}

// UpdateStatus requests a status transition and reflects the acknowledged
// result in place. Arriving additionally carries the two delivery fields and
// refuses to go out without them.
func (s *OrderListStore) UpdateStatus(
	c context.Context,
	orderID string,
	status orderResponse.Status,
	arrivingInfo string,
	arrivingDate string,
) error {
	c, span := otel.Tracer.Start(c, "OrderListStore UpdateStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderListStore UpdateStatus").
		Str(log.KeyOrderID, orderID).
		Str(log.KeyStatus, string(status)).
		Logger()

	if status.Is(orderResponse.StatusArriving) &&
		(strings.TrimSpace(arrivingInfo) == "" || strings.TrimSpace(arrivingDate) == "") {
		logger.Info().Msg("missing arriving fields, aborting status update")
		return inErrors.ErrMissingArrivingInfo
	}

	s.mu.Lock()
	if s.find(orderID) == nil {
		s.mu.Unlock()
		inErrors.HandleError(inErrors.ErrOrderNotFound, span)
		logger.Error().Err(inErrors.ErrOrderNotFound).Msg(inErrors.ErrOrderNotFound.Error())
		return inErrors.ErrOrderNotFound
	}
	s.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "updating order status").Logger()
	logger.Info().Msg("updating order status")
	err := s.backend.UpdateOrderStatus(c, orderID, status, arrivingInfo, arrivingDate)
	if err != nil {
		err = fmt.Errorf("failed updating status of orderId=%s with error=%w", orderID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	s.mu.Lock()
	if order := s.find(orderID); order != nil {
		order.Status = status
		order.ArrivingInfo = arrivingInfo
		order.ArrivingDate = arrivingDate
	}
	s.mu.Unlock()
	logger.Info().Msg("updated order status")

	return nil
}

// Delete removes the order on the backend, then locally. On failure the list
// is left unchanged.
func (s *OrderListStore) Delete(c context.Context, orderID string) error {
	c, span := otel.Tracer.Start(c, "OrderListStore Delete")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderListStore Delete").
		Str(log.KeyOrderID, orderID).
		Logger()

	s.mu.Lock()
	if s.find(orderID) == nil {
		s.mu.Unlock()
		inErrors.HandleError(inErrors.ErrOrderNotFound, span)
		logger.Error().Err(inErrors.ErrOrderNotFound).Msg(inErrors.ErrOrderNotFound.Error())
		return inErrors.ErrOrderNotFound
	}
	s.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "deleting order").Logger()
	logger.Info().Msg("deleting order")
	err := s.backend.DeleteOrder(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed deleting orderId=%s with error=%w", orderID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	logger.Info().Msg("deleted order")

	return nil
}

// Prepend puts a freshly placed order at the head of the list.
func (s *OrderListStore) Prepend(order orderResponse.Order) {
	s.mu.Lock()
	s.orders = append([]orderResponse.Order{order}, s.orders...)
	s.mu.Unlock()
}

func (s *OrderListStore) find(orderID string) *orderResponse.Order {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return &s.orders[i]
		}
	}
	return nil
}
