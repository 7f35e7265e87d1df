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
	"github.com/mahardika/storefront/internal/session"
	"github.com/mahardika/storefront/internal/product/catalog"
	"github.com/mahardika/storefront/product/pkg/request"
)

type ProductController struct {
	catalog *catalog.Catalog
	session *session.Store
}

func AttachProductController(router *mux.Router, catalog *catalog.Catalog, session *session.Store) {
	controller := ProductController{catalog: catalog, session: session}

	router.HandleFunc("/products", controller.GetProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{productId}", controller.GetProduct).Methods(http.MethodGet)
	router.HandleFunc("/wishlist", controller.GetWishlist).Methods(http.MethodGet)
	router.HandleFunc("/wishlist", controller.PutWishlist).Methods(http.MethodPut)
}

func (t ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController GetProducts").
		Str(log.KeyProcess, "fetching products").
		Logger()

	logger.Info().Msg("fetching products")
	c = logger.WithContext(c)
	products, err := t.catalog.Products(c)
	if err != nil {
		err = fmt.Errorf("failed fetching products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully fetched products",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (t ProductController) GetProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController GetProduct").
		Logger()

	productId := mux.Vars(r)["productId"]
	logger = logger.With().
		Str(log.KeyProductID, productId).
		Str(log.KeyProcess, "fetching product").
		Logger()

	logger.Info().Msg("fetching product")
	c = logger.WithContext(c)
	product, err := t.catalog.Product(c, productId)
	if err != nil {
		err = fmt.Errorf("failed fetching productId=%s with error=%w", productId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inErrors.StatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully fetched productId=%s", productId),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (t ProductController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController GetWishlist").
		Str(log.KeyProcess, "loading wishlist").
		Logger()

	logger.Info().Msg("loading wishlist")
	c = logger.WithContext(c)
	wishlist, err := t.session.Wishlist(c)
	if err != nil {
		err = fmt.Errorf("failed loading wishlist with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("loaded wishlist")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully loaded wishlist",
		"data": map[string]interface{}{
			"items": wishlist,
		},
	})
}

func (t ProductController) PutWishlist(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController PutWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController PutWishlist").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Wishlist{}
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

	logger = logger.With().Str(log.KeyProcess, "saving wishlist").Logger()
	logger.Info().Msg("saving wishlist")
	c = logger.WithContext(c)
	if err := t.session.SaveWishlist(c, reqBody.Items); err != nil {
		err = fmt.Errorf("failed saving wishlist with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("saved wishlist")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully saved wishlist",
		"data": map[string]interface{}{
			"items": reqBody.Items,
		},
	})
}
