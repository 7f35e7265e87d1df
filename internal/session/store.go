package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/otel"
)

const (
	keyUserID   = "session:userId"
	keyToken    = "session:token"
	keyWishlist = "session:wishlist"
)

// Store persists the session identity and the wishlist in the session cache.
// It is the only persistence boundary on the client side; the backend owns
// everything else.
type Store struct {
	cache *redis.Client
}

func NewStore(cache *redis.Client) *Store {
	return &Store{cache: cache}
}

// Load reads the persisted session. Absent keys are not an error, they mean
// logged out.
func (s *Store) Load(c context.Context) (Context, error) {
	c, span := otel.Tracer.Start(c, "SessionStore Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionStore Load").
		Str(log.KeyProcess, "loading session").
		Logger()

	logger.Info().Msg("loading session")
	userID, err := s.cache.Get(c, keyUserID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logger.Info().Msg("no persisted session, treating as logged out")
			return Context{}, nil
		}
		err = fmt.Errorf("failed loading session userId with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return Context{}, err
	}

	token, err := s.cache.Get(c, keyToken).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		err = fmt.Errorf("failed loading session token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return Context{}, err
	}
	logger.Info().Str(log.KeyUserID, userID).Msg("loaded session")

	return Context{UserID: userID, Token: token}, nil
}

func (s *Store) Save(c context.Context, sess Context) error {
	c, span := otel.Tracer.Start(c, "SessionStore Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionStore Save").
		Str(log.KeyProcess, "saving session").
		Str(log.KeyUserID, sess.UserID).
		Logger()

	logger.Info().Msg("saving session")
	if err := s.cache.Set(c, keyUserID, sess.UserID, 0).Err(); err != nil {
		err = fmt.Errorf("failed saving session userId with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if err := s.cache.Set(c, keyToken, sess.Token, 0).Err(); err != nil {
		err = fmt.Errorf("failed saving session token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("saved session")

	return nil
}

// Clear removes the session identity. The wishlist survives logout, matching
// the storefront's behavior.
func (s *Store) Clear(c context.Context) error {
	c, span := otel.Tracer.Start(c, "SessionStore Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionStore Clear").
		Str(log.KeyProcess, "clearing session").
		Logger()

	logger.Info().Msg("clearing session")
	if err := s.cache.Del(c, keyUserID, keyToken).Err(); err != nil {
		err = fmt.Errorf("failed clearing session with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("cleared session")

	return nil
}

// Wishlist returns the persisted product refs. An absent key is an empty
// wishlist.
func (s *Store) Wishlist(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "SessionStore Wishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionStore Wishlist").
		Str(log.KeyProcess, "loading wishlist").
		Logger()

	logger.Info().Msg("loading wishlist")
	raw, err := s.cache.Get(c, keyWishlist).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		err = fmt.Errorf("failed loading wishlist with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	wishlist := []string{}
	if err := json.Unmarshal([]byte(raw), &wishlist); err != nil {
		err = fmt.Errorf("failed unmarshaling wishlist with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("count", len(wishlist)).Msg("loaded wishlist")

	return wishlist, nil
}

func (s *Store) SaveWishlist(c context.Context, wishlist []string) error {
	c, span := otel.Tracer.Start(c, "SessionStore SaveWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionStore SaveWishlist").
		Str(log.KeyProcess, "saving wishlist").
		Logger()

	logger.Info().Msg("marshaling wishlist")
	raw, err := json.Marshal(wishlist)
	if err != nil {
		err = fmt.Errorf("failed marshaling wishlist with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Msg("saving wishlist")
	if err := s.cache.Set(c, keyWishlist, raw, 0).Err(); err != nil {
		err = fmt.Errorf("failed saving wishlist with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("saved wishlist")

	return nil
}
