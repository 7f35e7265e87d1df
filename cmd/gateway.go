package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	cartController "github.com/mahardika/storefront/internal/cart/controller"
	cartStore "github.com/mahardika/storefront/internal/cart/store"
	checkoutController "github.com/mahardika/storefront/internal/checkout/controller"
	"github.com/mahardika/storefront/internal/checkout/coordinator"
	"github.com/mahardika/storefront/internal/backend"
	"github.com/mahardika/storefront/internal/config"
	"github.com/mahardika/storefront/internal/constants"
	inErrors "github.com/mahardika/storefront/internal/errors"
	"github.com/mahardika/storefront/internal/infra"
	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/middleware"
	"github.com/mahardika/storefront/internal/otel"
	"github.com/mahardika/storefront/internal/session"
	orderController "github.com/mahardika/storefront/internal/order/controller"
	orderStore "github.com/mahardika/storefront/internal/order/store"
	"github.com/mahardika/storefront/internal/product/catalog"
	productController "github.com/mahardika/storefront/internal/product/controller"
)

func runGatewayService(c context.Context) {
	c, span := otel.Tracer.Start(c, "runGatewayService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_GATEWAY_SERVICE).
		Str(log.KeyTag, "main runGatewayService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.Get(c, constants.APP_STOREFRONT)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "shutting down cache").Logger()
		logger.Info().Msg("shutting down cache")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "loading session").Logger()
	logger.Info().Msg("loading session")
	c = logger.WithContext(c)
	sessionStore := session.NewStore(cache)
	sess, err := sessionStore.Load(c)
	if err != nil {
		err = fmt.Errorf("failed loading session with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger = logger.With().Str(log.KeyUserID, sess.UserID).Logger()
	logger.Info().Msg("loaded session")

	logger = logger.With().Str(log.KeyProcess, "initializing stores").Logger()
	logger.Info().Msg("initializing stores")
	client := backend.New(cfg.Backend, sess)
	carts := cartStore.New(client, sess)
	orders := orderStore.New(client, sess)
	checkouts := coordinator.New(client, carts, orders, sess)
	products := catalog.New(client, cache)
	logger.Info().Msg("initialized stores")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.APP_GATEWAY_SERVICE),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	api.Use(middleware.Auth(cfg.Application.SecretKey))
	cartController.AttachCartController(api, carts)
	checkoutController.AttachCheckoutController(api, checkouts)
	orderController.AttachOrderController(api, orders)
	productController.AttachProductController(api, products, sessionStore)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger = logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)

		logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())

			c = logger.WithContext(c)
			if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
				err = fmt.Errorf("failed shutting down otel with error=%w", err)
				inErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return
			}
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")

	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("shutting down http server")
	if err := httpServer.Shutdown(c); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
