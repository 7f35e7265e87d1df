package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mahardika/storefront/internal/checkout/coordinator"
	"github.com/mahardika/storefront/checkout/pkg/request"
	inErrors "github.com/mahardika/storefront/internal/errors"
	inHttp "github.com/mahardika/storefront/internal/http"
	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/otel"
)

type CheckoutController struct {
	coordinator *coordinator.Coordinator
}

func AttachCheckoutController(router *mux.Router, coordinator *coordinator.Coordinator) {
	controller := CheckoutController{coordinator: coordinator}

	router.HandleFunc("/checkout", controller.PlaceOrder).Methods(http.MethodPost)
}

func (t CheckoutController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController PlaceOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController PlaceOrder").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Checkout{}
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
		Str(log.KeyProcess, "placing order").
		Str(log.KeyAddress, reqBody.Address).
		Logger()
	logger.Info().Msg("placing order")
	c = logger.WithContext(c)
	order, err := t.coordinator.PlaceOrder(c, reqBody.Address)
	if err != nil {
		err = fmt.Errorf("failed placing order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		message := err.Error()
		var httpErr *inErrors.HTTPError
		if errors.As(err, &httpErr) {
			message = httpErr.BackendMessage(inErrors.ErrPlaceOrderFailed.Error())
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    message,
		})
		return
	}
	logger.Info().Str(log.KeyOrderID, order.ID).Msg("placed order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully placed orderId=%s", order.ID),
		"data": map[string]interface{}{
			"order": order,
		},
	})
}
