package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartResponse "github.com/mahardika/storefront/cart/pkg/response"
	"github.com/mahardika/storefront/internal/config"
	inErrors "github.com/mahardika/storefront/internal/errors"
	inHttp "github.com/mahardika/storefront/internal/http"
	"github.com/mahardika/storefront/internal/log"
	"github.com/mahardika/storefront/internal/otel"
	"github.com/mahardika/storefront/internal/session"
	orderResponse "github.com/mahardika/storefront/order/pkg/response"
	productResponse "github.com/mahardika/storefront/product/pkg/response"
)

// CreateOrder is the order creation request wired to POST /api/orders.
// Products are the frozen cart lines; Total is computed once by the caller.
type CreateOrder struct {
	UserID   string                  `json:"userId"`
	Products []cartResponse.CartLine `json:"products"`
	Total    decimal.Decimal         `json:"total"`
	Address  string                  `json:"address"`
}

// Client consumes the remote storefront REST API. The backend is the source
// of truth; the client never interprets its payloads beyond the decode
// boundary in decode.go.
type Client struct {
	baseURL string
	session session.Context
	http    *http.Client
}

func New(cfg config.Backend, sess session.Context) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds < 0 {
		timeout = 0
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		session: sess,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

func (cl *Client) do(
	c context.Context,
	op string,
	method string,
	path string,
	query url.Values,
	body interface{},
) (int, []byte, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BackendClient "+op).
		Str(log.KeyBackendURL, cl.baseURL+path).
		Logger()

	endpoint := cl.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			err = fmt.Errorf("failed marshaling request body with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return 0, nil, err
		}
		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(c, method, endpoint, reader)
	if err != nil {
		err = fmt.Errorf("failed creating request to backend with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	}
	if cl.session.Token != "" {
		req.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, "Bearer "+cl.session.Token)
	}
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, requestID)
	}

	resp, err := cl.http.Do(req)
	if err != nil {
		netErr := &inErrors.NetworkError{Op: op, Err: err}
		logger.Error().Err(netErr).Msg(netErr.Error())
		return 0, nil, netErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		netErr := &inErrors.NetworkError{Op: op, Err: err}
		logger.Error().Err(netErr).Msg(netErr.Error())
		return resp.StatusCode, nil, netErr
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		httpErr := &inErrors.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    backendMessage(raw),
		}
		logger.Error().Err(httpErr).Msg(httpErr.Error())
		return resp.StatusCode, raw, httpErr
	}

	return resp.StatusCode, raw, nil
}

// backendMessage pulls the structured {message} out of an error body when the
// backend sent one.
func backendMessage(raw []byte) string {
	body := struct {
		Message string `json:"message"`
	}{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}

func (cl *Client) FetchCart(c context.Context, userID string) ([]cartResponse.CartLine, error) {
	c, span := otel.Tracer.Start(c, "BackendClient FetchCart")
	defer span.End()

	query := url.Values{}
	query.Set("userId", userID)
	status, raw, err := cl.do(c, "FetchCart", http.MethodGet, "/api/cart", query, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching cart with error=%w", err)
		inErrors.HandleError(err, span)
		return nil, err
	}
	lines, err := decodeCartLines(status, raw)
	if err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	return lines, nil
}

func (cl *Client) UpdateCartLine(c context.Context, lineID string, quantity int32) error {
	c, span := otel.Tracer.Start(c, "BackendClient UpdateCartLine")
	defer span.End()

	body := struct {
		Quantity int32 `json:"quantity"`
	}{Quantity: quantity}
	_, _, err := cl.do(c, "UpdateCartLine", http.MethodPut, "/api/cart/"+lineID, nil, body)
	if err != nil {
		err = fmt.Errorf("failed updating cart line with error=%w", err)
		inErrors.HandleError(err, span)
		return err
	}
	return nil
}

func (cl *Client) DeleteCartLine(c context.Context, lineID string) error {
	c, span := otel.Tracer.Start(c, "BackendClient DeleteCartLine")
	defer span.End()

	_, _, err := cl.do(c, "DeleteCartLine", http.MethodDelete, "/api/cart/"+lineID, nil, nil)
	if err != nil {
		err = fmt.Errorf("failed deleting cart line with error=%w", err)
		inErrors.HandleError(err, span)
		return err
	}
	return nil
}

func (cl *Client) AddCartLine(c context.Context, userID string, productID string, quantity int32) error {
	c, span := otel.Tracer.Start(c, "BackendClient AddCartLine")
	defer span.End()

	body := struct {
		UserID  string `json:"userId"`
		Product struct {
			ProductID string `json:"productId"`
			Quantity  int32  `json:"quantity"`
		} `json:"product"`
	}{UserID: userID}
	body.Product.ProductID = productID
	body.Product.Quantity = quantity

	_, _, err := cl.do(c, "AddCartLine", http.MethodPost, "/api/cart", nil, body)
	if err != nil {
		err = fmt.Errorf("failed adding cart line with error=%w", err)
		inErrors.HandleError(err, span)
		return err
	}
	return nil
}

// ClearCart is best-effort after checkout: the caller logs failures and never
// rolls back an already placed order because of one.
func (cl *Client) ClearCart(c context.Context, userID string) error {
	c, span := otel.Tracer.Start(c, "BackendClient ClearCart")
	defer span.End()

	query := url.Values{}
	query.Set("userId", userID)
	_, _, err := cl.do(c, "ClearCart", http.MethodDelete, "/api/cart/clear", query, nil)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inErrors.HandleError(err, span)
		return err
	}
	return nil
}

func (cl *Client) FetchOrders(c context.Context, userID string) ([]orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "BackendClient FetchOrders")
	defer span.End()

	status, raw, err := cl.do(c, "FetchOrders", http.MethodGet, "/api/orders/"+userID, nil, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching orders with error=%w", err)
		inErrors.HandleError(err, span)
		return nil, err
	}
	orders, err := decodeOrders(status, raw)
	if err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	return orders, nil
}

func (cl *Client) FetchAllOrders(c context.Context) ([]orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "BackendClient FetchAllOrders")
	defer span.End()

	status, raw, err := cl.do(c, "FetchAllOrders", http.MethodGet, "/api/orders", nil, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching all orders with error=%w", err)
		inErrors.HandleError(err, span)
		return nil, err
	}
	orders, err := decodeOrders(status, raw)
	if err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	return orders, nil
}

func (cl *Client) CreateOrder(c context.Context, param CreateOrder) (orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "BackendClient CreateOrder")
	defer span.End()

	status, raw, err := cl.do(c, "CreateOrder", http.MethodPost, "/api/orders", nil, param)
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		inErrors.HandleError(err, span)
		return orderResponse.Order{}, err
	}
	order, err := decodeCreateOrder(status, raw)
	if err != nil {
		inErrors.HandleError(err, span)
		return orderResponse.Order{}, err
	}
	return order, nil
}

func (cl *Client) CancelOrder(c context.Context, orderID string) error {
	c, span := otel.Tracer.Start(c, "BackendClient CancelOrder")
	defer span.End()

	_, _, err := cl.do(c, "CancelOrder", http.MethodPut, "/api/orders/cancel/"+orderID, nil, nil)
	if err != nil {
		err = fmt.Errorf("failed cancelling order with error=%w", err)
		inErrors.HandleError(err, span)
		return err
	}
	return nil
}

func (cl *Client) UpdateOrderStatus(
	c context.Context,
	orderID string,
	status orderResponse.Status,
	arrivingInfo string,
	arrivingDate string,
) error {
	c, span := otel.Tracer.Start(c, "BackendClient UpdateOrderStatus")
	defer span.End()

	body := struct {
		Status       string `json:"status"`
		ArrivingInfo string `json:"arrivingInfo"`
		ArrivingDate string `json:"arrivingDate"`
	}{Status: string(status), ArrivingInfo: arrivingInfo, ArrivingDate: arrivingDate}

	_, _, err := cl.do(c, "UpdateOrderStatus", http.MethodPut, "/api/orders/status/"+orderID, nil, body)
	if err != nil {
		err = fmt.Errorf("failed updating order status with error=%w", err)
		inErrors.HandleError(err, span)
		return err
	}
	return nil
}

func (cl *Client) DeleteOrder(c context.Context, orderID string) error {
	c, span := otel.Tracer.Start(c, "BackendClient DeleteOrder")
	defer span.End()

	_, _, err := cl.do(c, "DeleteOrder", http.MethodDelete, "/api/orders/"+orderID, nil, nil)
	if err != nil {
		err = fmt.Errorf("failed deleting order with error=%w", err)
		inErrors.HandleError(err, span)
		return err
	}
	return nil
}

func (cl *Client) FetchProducts(c context.Context) ([]productResponse.Product, error) {
	c, span := otel.Tracer.Start(c, "BackendClient FetchProducts")
	defer span.End()

	status, raw, err := cl.do(c, "FetchProducts", http.MethodGet, "/api/products", nil, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching products with error=%w", err)
		inErrors.HandleError(err, span)
		return nil, err
	}
	products, err := decodeProducts(status, raw)
	if err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	return products, nil
}

func (cl *Client) FetchProduct(c context.Context, productID string) (productResponse.Product, error) {
	c, span := otel.Tracer.Start(c, "BackendClient FetchProduct")
	defer span.End()

	status, raw, err := cl.do(c, "FetchProduct", http.MethodGet, "/api/products/"+productID, nil, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching product with error=%w", err)
		inErrors.HandleError(err, span)
		return productResponse.Product{}, err
	}
	product, err := decodeProduct(status, raw)
	if err != nil {
		inErrors.HandleError(err, span)
		return productResponse.Product{}, err
	}
	return product, nil
}
