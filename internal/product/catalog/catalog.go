package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/mahardika/storefront/internal/errors"
	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/otel"
	"github.com/mahardika/storefront/product/pkg/response"
)

const keyProducts = "products:"

// Backend is the slice of the storefront API the catalog needs.
type Backend interface {
	FetchProducts(c context.Context) ([]response.Product, error)
	FetchProduct(c context.Context, productID string) (response.Product, error)
}

// Catalog serves products read-only. Single products are cached aside in
// redis; the backend stays the source of truth and cache failures only cost
// a refetch.
type Catalog struct {
	backend Backend
	cache   *redis.Client
}

func New(backend Backend, cache *redis.Client) *Catalog {
	return &Catalog{backend: backend, cache: cache}
}

func (cat *Catalog) Products(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "Catalog Products")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Catalog Products").
		Str(log.KeyProcess, "fetching products").
		Logger()

	logger.Info().Msg("fetching products")
	products, err := cat.backend.FetchProducts(c)
	if err != nil {
		err = fmt.Errorf("failed fetching products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("fetched products")

	return products, nil
}

func (cat *Catalog) Product(c context.Context, productID string) (product response.Product, err error) {
	c, span := otel.Tracer.Start(c, "Catalog Product")
	defer span.End()

	cacheKey := keyProducts + productID
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Catalog Product").
		Str(log.KeyProductID, productID).
		Str(log.KeySessionKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	logger.Trace().Msg("finding product in cache")
	jsonCache, err := cat.cache.JSONGet(c, cacheKey).Result()
	if err != nil || jsonCache == "" {
		logger.Info().Msg("product not in cache")

		logger = logger.With().Str(log.KeyProcess, "fetching product").Logger()
		logger.Trace().Msg("fetching product")
		span.AddEvent("fetching product")
		product, err := cat.backend.FetchProduct(c, productID)
		if err != nil {
			err = fmt.Errorf("failed fetching productId=%s with error=%w", productID, err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		span.AddEvent("fetched product")
		logger.Info().Msg("fetched product")

		logger = logger.With().Str(log.KeyProcess, "inserting product to cache").Logger()
		logger.Trace().Msg("inserting product to cache")
		if err := cat.cache.JSONSet(c, cacheKey, "$", product).Err(); err != nil {
			err = fmt.Errorf("failed inserting productId=%s to cache with error=%w", productID, err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return product, nil
		}
		logger.Info().Msg("inserted product to cache")

		return product, nil
	}
	span.AddEvent("found product in cache")
	logger.Debug().Msg("found product in cache")

	logger.Trace().Msg("unmarshalling product from cache")
	if err = json.Unmarshal([]byte(jsonCache), &product); err != nil {
		err = fmt.Errorf("failed to unmarshal jsonCache with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger.Info().Msg("found product in cache")
	return product, nil
}
