package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	cartResponse "github.com/mahardika/storefront/cart/pkg/response"
	inErrors "github.com/mahardika/storefront/internal/errors"
	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/otel"
	"github.com/mahardika/storefront/internal/session"
)

// Backend is the slice of the storefront API the cart needs.
type Backend interface {
	FetchCart(c context.Context, userID string) ([]cartResponse.CartLine, error)
	UpdateCartLine(c context.Context, lineID string, quantity int32) error
	DeleteCartLine(c context.Context, lineID string) error
	AddCartLine(c context.Context, userID string, productID string, quantity int32) error
}

type line struct {
	cartResponse.CartLine

	// gen fences overlapping quantity updates on this line: a failure
	// handler only rolls back when no newer optimistic write has landed.
	gen uint64
}

// CartStore owns the live cart snapshot. Mutations go through its methods
// only; the snapshot that leaves the store is always a copy.
type CartStore struct {
	mu      sync.Mutex
	backend Backend
	session session.Context
	lines   []line
	loadErr bool
}

func New(backend Backend, sess session.Context) *CartStore {
	return &CartStore{backend: backend, session: sess}
}

// Load replaces the snapshot with the backend's cart. The replacement is all
// or nothing: on failure the snapshot becomes empty and the load-error flag
// is set, the snapshot is never left partially overwritten.
func (s *CartStore) Load(c context.Context) error {
	c, span := otel.Tracer.Start(c, "CartStore Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore Load").
		Str(log.KeyUserID, s.session.UserID).
		Str(log.KeyProcess, "fetching cart").
		Logger()

	if !s.session.LoggedIn() {
		logger.Info().Msg("no active session, skipping cart fetch")
		return inErrors.ErrNotLoggedIn
	}

	logger.Info().Msg("fetching cart")
	fetched, err := s.backend.FetchCart(c, s.session.UserID)
	if err != nil {
		err = fmt.Errorf("failed fetching cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		s.mu.Lock()
		s.lines = nil
		s.loadErr = true
		s.mu.Unlock()
		return err
	}
	logger.Info().Int(log.KeyCartLines, len(fetched)).Msg("fetched cart")

	lines := make([]line, len(fetched))
	for i, l := range fetched {
		lines[i] = line{CartLine: l}
	}

	s.mu.Lock()
	s.lines = lines
	s.loadErr = false
	s.mu.Unlock()

	return nil
}

// Snapshot returns a copy of the current cart lines in fetch order.
func (s *CartStore) Snapshot() []cartResponse.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]cartResponse.CartLine, len(s.lines))
	for i, l := range s.lines {
		snapshot[i] = l.CartLine
	}
	return snapshot
}

// LoadFailed reports whether the last Load degraded to an empty snapshot.
// An empty cart with LoadFailed false is a valid "nothing in the cart" state.
func (s *CartStore) LoadFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// SetQuantity applies the new quantity optimistically, then mirrors it to the
// backend. The prior value is captured strictly before the mutation; on
// backend failure exactly that prior value is restored, unless a newer write
// already bumped the line's generation, in which case the stale failure is
// discarded.
func (s *CartStore) SetQuantity(c context.Context, lineID string, quantity int32) error {
	c, span := otel.Tracer.Start(c, "CartStore SetQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore SetQuantity").
		Str(log.KeyLineID, lineID).
		Int32(log.KeyQuantity, quantity).
		Logger()

	if quantity < 1 {
		logger.Info().Msg("quantity below 1, ignoring")
		return inErrors.ErrQuantityBelowMinimum
	}

	logger = logger.With().Str(log.KeyProcess, "applying optimistic update").Logger()
	s.mu.Lock()
	l := s.find(lineID)
	if l == nil {
		s.mu.Unlock()
		inErrors.HandleError(inErrors.ErrLineNotFound, span)
		logger.Error().Err(inErrors.ErrLineNotFound).Msg(inErrors.ErrLineNotFound.Error())
		return inErrors.ErrLineNotFound
	}
	prev := l.Quantity
	l.Quantity = quantity
	l.gen++
	gen := l.gen
	s.mu.Unlock()
	logger.Info().
		Int32(log.KeyPrevQuantity, prev).
		Uint64(log.KeyGeneration, gen).
		Msg("applied optimistic update")

	logger = logger.With().Str(log.KeyProcess, "mirroring update to backend").Logger()
	logger.Info().Msg("mirroring update to backend")
	err := s.backend.UpdateCartLine(c, lineID, quantity)
	if err != nil {
		err = fmt.Errorf("failed updating quantity of lineId=%s with error=%w", lineID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		s.mu.Lock()
		if l := s.find(lineID); l != nil && l.gen == gen {
			l.Quantity = prev
			logger.Info().
				Int32(log.KeyPrevQuantity, prev).
				Msg("rolled back optimistic update")
		} else {
			logger.Info().
				Uint64(log.KeyGeneration, gen).
				Msg("stale failure, newer update already applied, skipping rollback")
		}
		s.mu.Unlock()
		return err
	}
	logger.Info().Msg("mirrored update to backend")

	return nil
}

// Remove deletes the line on the backend, then re-fetches the whole cart: the
// backend is the source of truth for totals, a locally spliced list is not
// trusted. On failure the line stays and the caller may retry.
func (s *CartStore) Remove(c context.Context, lineID string) error {
	c, span := otel.Tracer.Start(c, "CartStore Remove")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore Remove").
		Str(log.KeyLineID, lineID).
		Logger()

	s.mu.Lock()
	if s.find(lineID) == nil {
		s.mu.Unlock()
		inErrors.HandleError(inErrors.ErrLineNotFound, span)
		logger.Error().Err(inErrors.ErrLineNotFound).Msg(inErrors.ErrLineNotFound.Error())
		return inErrors.ErrLineNotFound
	}
	s.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "deleting cart line").Logger()
	logger.Info().Msg("deleting cart line")
	err := s.backend.DeleteCartLine(c, lineID)
	if err != nil {
		err = fmt.Errorf("failed deleting lineId=%s with error=%w", lineID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted cart line")

	logger = logger.With().Str(log.KeyProcess, "refreshing cart").Logger()
	logger.Info().Msg("refreshing cart from backend")
	c = logger.WithContext(c)
	if err := s.Load(c); err != nil {
		err = fmt.Errorf("failed refreshing cart after removal with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("refreshed cart from backend")

	return nil
}

// Add inserts a product into the cart on the backend and refreshes the
// snapshot from it.
func (s *CartStore) Add(c context.Context, productID string, quantity int32) error {
	c, span := otel.Tracer.Start(c, "CartStore Add")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore Add").
		Str(log.KeyProductID, productID).
		Int32(log.KeyQuantity, quantity).
		Logger()

	if quantity < 1 {
		logger.Info().Msg("quantity below 1, ignoring")
		return inErrors.ErrQuantityBelowMinimum
	}
	if !s.session.LoggedIn() {
		return inErrors.ErrNotLoggedIn
	}

	logger = logger.With().Str(log.KeyProcess, "adding cart line").Logger()
	logger.Info().Msg("adding cart line")
	err := s.backend.AddCartLine(c, s.session.UserID, productID, quantity)
	if err != nil {
		err = fmt.Errorf("failed adding productId=%s to cart with error=%w", productID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("added cart line")

	c = logger.WithContext(c)
	if err := s.Load(c); err != nil {
		err = fmt.Errorf("failed refreshing cart after add with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	return nil
}

// ClearLocal empties the snapshot without touching the backend. Only the
// checkout coordinator calls this, after the order has been placed.
func (s *CartStore) ClearLocal() {
	s.mu.Lock()
	s.lines = nil
	s.loadErr = false
	s.mu.Unlock()
}

// Totals computes the totals over the current snapshot.
func (s *CartStore) Totals() cartResponse.Totals {
	return ComputeTotals(s.Snapshot())
}

func (s *CartStore) find(lineID string) *line {
	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			return &s.lines[i]
		}
	}
	return nil
}
