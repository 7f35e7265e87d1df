package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/mahardika/storefront/internal/errors"
	inHttp "github.com/mahardika/storefront/internal/http"
	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/otel"
	"github.com/mahardika/storefront/internal/order/store"
	"github.com/mahardika/storefront/order/pkg/request"
	orderResponse "github.com/mahardika/storefront/order/pkg/response"
)

type OrderController struct {
	store *store.OrderListStore
}

func AttachOrderController(router *mux.Router, store *store.OrderListStore) {
	controller := OrderController{store: store}

	r := router.PathPrefix("/orders").Subrouter()
	r.HandleFunc("", controller.GetOrders).Methods(http.MethodGet)
	r.HandleFunc("/all", controller.GetAllOrders).Methods(http.MethodGet)
	r.HandleFunc("/cancel/{orderId}", controller.CancelOrder).Methods(http.MethodPut)
	r.HandleFunc("/arriving/{orderId}", controller.MarkArriving).Methods(http.MethodPut)
	r.HandleFunc("/status/{orderId}", controller.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/{orderId}", controller.DeleteOrder).Methods(http.MethodDelete)
}

func (t OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController GetOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController GetOrders").
		Str(log.KeyProcess, "loading orders").
		Logger()

	logger.Info().Msg("loading orders")
	c = logger.WithContext(c)
	if err := t.store.Load(c); err != nil {
		err = fmt.Errorf("failed loading orders with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("loaded orders")

	orders := t.store.Orders()
	query := r.URL.Query()
	if status := query.Get("status"); status != "" {
		orders = t.store.FilterStatus(orderResponse.Status(status))
	} else if query.Get("inProgress") == "true" {
		orders = t.store.InProgress()
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully loaded orders",
		"data": map[string]interface{}{
			"orders": orders,
		},
	})
}

func (t OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController GetAllOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController GetAllOrders").
		Str(log.KeyProcess, "loading all orders").
		Logger()

	logger.Info().Msg("loading all orders")
	c = logger.WithContext(c)
	if err := t.store.LoadAll(c); err != nil {
		err = fmt.Errorf("failed loading all orders with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("loaded all orders")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully loaded all orders",
		"data": map[string]interface{}{
			"orders": t.store.Orders(),
		},
	})
}

func (t OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController CancelOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController CancelOrder").
		Logger()

	orderId := mux.Vars(r)["orderId"]
	logger = logger.With().
		Str(log.KeyOrderID, orderId).
		Str(log.KeyProcess, "cancelling order").
		Logger()

	logger.Info().Msg("cancelling order")
	c = logger.WithContext(c)
	if err := t.store.Cancel(c, orderId); err != nil {
		err = fmt.Errorf("failed cancelling orderId=%s with error=%w", orderId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("cancelled order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully cancelled orderId=%s", orderId),
		"data": map[string]interface{}{
			"orders": t.store.Orders(),
		},
	})
}

func (t OrderController) MarkArriving(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController MarkArriving")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController MarkArriving").
		Logger()

	orderId := mux.Vars(r)["orderId"]
	logger = logger.With().Str(log.KeyOrderID, orderId).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.MarkArriving{}
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

	logger = logger.With().Str(log.KeyProcess, "marking order arriving").Logger()
	logger.Info().Msg("marking order arriving")
	c = logger.WithContext(c)
	err := t.store.MarkArriving(c, orderId, reqBody.ArrivingInfo, reqBody.ArrivingDate)
	if err != nil {
		err = fmt.Errorf("failed marking orderId=%s arriving with error=%w", orderId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("marked order arriving")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully marked orderId=%s arriving", orderId),
		"data": map[string]interface{}{
			"orders": t.store.Orders(),
		},
	})
}

func (t OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpdateStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController UpdateStatus").
		Logger()

	orderId := mux.Vars(r)["orderId"]
	logger = logger.With().Str(log.KeyOrderID, orderId).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpdateStatus{}
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
		Str(log.KeyProcess, "updating order status").
		Str(log.KeyStatus, reqBody.Status).
		Logger()
	logger.Info().Msg("updating order status")
	c = logger.WithContext(c)
	err := t.store.UpdateStatus(
		c,
		orderId,
		orderResponse.Status(reqBody.Status),
		reqBody.ArrivingInfo,
		reqBody.ArrivingDate,
	)
	if err != nil {
		err = fmt.Errorf("failed updating status of orderId=%s with error=%w", orderId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("updated order status")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully updated status of orderId=%s", orderId),
		"data": map[string]interface{}{
			"orders": t.store.Orders(),
		},
	})
}

func (t OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController DeleteOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController DeleteOrder").
		Logger()

	orderId := mux.Vars(r)["orderId"]
	logger = logger.With().Str(log.KeyOrderID, orderId).Logger()

	if r.URL.Query().Get("confirm") != "true" {
		inErrors.HandleError(inErrors.ErrConfirmationRequired, span)
		logger.Info().Msg("deletion not confirmed, skipping")
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(inErrors.ErrConfirmationRequired),
			"message":    inErrors.ErrConfirmationRequired.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "deleting order").Logger()
	logger.Info().Msg("deleting order")
	c = logger.WithContext(c)
	if err := t.store.Delete(c, orderId); err != nil {
		err = fmt.Errorf("failed deleting orderId=%s with error=%w", orderId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("deleted order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully deleted orderId=%s", orderId),
		"data": map[string]interface{}{
			"orders": t.store.Orders(),
		},
	})
}
