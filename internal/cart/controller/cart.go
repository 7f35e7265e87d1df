package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mahardika/storefront/internal/cart/store"
	"github.com/mahardika/storefront/cart/pkg/request"
	"github.com/mahardika/storefront/cart/pkg/response"
	inErrors "github.com/mahardika/storefront/internal/errors"
	inHttp "github.com/mahardika/storefront/internal/http"
	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/otel"
)

type CartController struct {
	store *store.CartStore
}

func AttachCartController(router *mux.Router, store *store.CartStore) {
	controller := CartController{store: store}

	r := router.PathPrefix("/cart").Subrouter()
	r.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	r.HandleFunc("", controller.AddToCart).Methods(http.MethodPost)
	r.HandleFunc("/{lineId}", controller.UpdateQuantity).Methods(http.MethodPut)
	r.HandleFunc("/{lineId}", controller.RemoveLine).Methods(http.MethodDelete)
}

func (t CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController GetCart").
		Str(log.KeyProcess, "loading cart").
		Logger()

	logger.Info().Msg("loading cart")
	c = logger.WithContext(c)
	if err := t.store.Load(c); err != nil {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("loaded cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully loaded cart",
		"data": map[string]interface{}{
			"cart": response.Cart{
				Lines:      t.store.Snapshot(),
				Totals:     t.store.Totals(),
				LoadFailed: t.store.LoadFailed(),
			},
		},
	})
}

func (t CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddToCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddToCart").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.AddToCart{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeyProcess, "adding to cart").
		Str(log.KeyProductID, reqBody.ProductID).
		Int32(log.KeyQuantity, reqBody.Quantity).
		Logger()
	logger.Info().Msg("adding to cart")
	c = logger.WithContext(c)
	if err := t.store.Add(c, reqBody.ProductID, reqBody.Quantity); err != nil {
		err = fmt.Errorf("failed adding productId=%s to cart with error=%w", reqBody.ProductID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("added to cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully added productId=%s to cart", reqBody.ProductID),
		"data": map[string]interface{}{
			"cart": response.Cart{
				Lines:      t.store.Snapshot(),
				Totals:     t.store.Totals(),
				LoadFailed: t.store.LoadFailed(),
			},
		},
	})
}

func (t CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateQuantity").
		Logger()

	lineId := mux.Vars(r)["lineId"]
	logger = logger.With().Str(log.KeyLineID, lineId).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpdateQuantity{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeyProcess, "updating quantity").
		Int32(log.KeyQuantity, reqBody.Quantity).
		Logger()
	logger.Info().Msg("updating quantity")
	c = logger.WithContext(c)
	if err := t.store.SetQuantity(c, lineId, reqBody.Quantity); err != nil {
		err = fmt.Errorf("failed updating quantity of lineId=%s with error=%w", lineId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("updated quantity")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully updated quantity of lineId=%s", lineId),
		"data": map[string]interface{}{
			"cart": response.Cart{
				Lines:      t.store.Snapshot(),
				Totals:     t.store.Totals(),
				LoadFailed: t.store.LoadFailed(),
			},
		},
	})
}

func (t CartController) RemoveLine(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveLine").
		Logger()

	lineId := mux.Vars(r)["lineId"]
	logger = logger.With().Str(log.KeyLineID, lineId).Logger()

	if r.URL.Query().Get("confirm") != "true" {
		inErrors.HandleError(inErrors.ErrConfirmationRequired, span)
		logger.Info().Msg("removal not confirmed, skipping")
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(inErrors.ErrConfirmationRequired),
			"message":    inErrors.ErrConfirmationRequired.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "removing line").Logger()
	logger.Info().Msg("removing line")
	c = logger.WithContext(c)
	if err := t.store.Remove(c, lineId); err != nil {
		err = fmt.Errorf("failed removing lineId=%s with error=%w", lineId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("removed line")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully removed lineId=%s", lineId),
		"data": map[string]interface{}{
			"cart": response.Cart{
				Lines:      t.store.Snapshot(),
				Totals:     t.store.Totals(),
				LoadFailed: t.store.LoadFailed(),
			},
		},
	})
}
