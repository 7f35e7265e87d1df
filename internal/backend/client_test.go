package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mahardika/storefront/internal/config"
	inErrors "github.com/mahardika/storefront/internal/errors"
	"github.com/mahardika/storefront/internal/session"
)

func testClient(baseURL string) *Client {
	return New(
		config.Backend{BaseURL: baseURL, TimeoutSeconds: 5},
		session.Context{UserID: "user-1", Token: "token-1"},
	)
}

func TestClientFetchCart(t *testing.T) {
	t.Run("given cart payload should decode and send bearer token", func(t *testing.T) {
		var gotAuth, gotPath, gotUserID string
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotPath = r.URL.Path
				gotUserID = r.URL.Query().Get("userId")
				w.Write([]byte(`[{"id":"line-1","price":"100","quantity":2}]`))
			}),
		)
		defer server.Close()

		lines, err := testClient(server.URL).FetchCart(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Len(t, lines, 1)
		assert.Equal(t, "Bearer token-1", gotAuth)
		assert.Equal(t, "/api/cart", gotPath)
		assert.Equal(t, "user-1", gotUserID)
	})

	t.Run("given non-2xx response should return http error with message", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"token expired"}`))
			}),
		)
		defer server.Close()

		_, err := testClient(server.URL).FetchCart(context.Background(), "user-1")

		var httpErr *inErrors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
		assert.Equal(t, "token expired", httpErr.Message)
	})

	t.Run("given unreachable backend should return network error", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		)
		server.Close()

		_, err := testClient(server.URL).FetchCart(context.Background(), "user-1")

		var netErr *inErrors.NetworkError
		assert.ErrorAs(t, err, &netErr)
	})
}

func TestClientUpdateCartLine(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody struct {
		Quantity int32 `json:"quantity"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
	}))
	defer server.Close()

	err := testClient(server.URL).UpdateCartLine(context.Background(), "line-1", 5)

	assert.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/cart/line-1", gotPath)
	assert.EqualValues(t, 5, gotBody.Quantity)
}

func TestClientCreateOrder(t *testing.T) {
	t.Run("given rejected order should surface backend message", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":false,"message":"product out of stock"}`))
			}),
		)
		defer server.Close()

		_, err := testClient(server.URL).CreateOrder(context.Background(), CreateOrder{
			UserID: "user-1",
		})

		var httpErr *inErrors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "product out of stock", httpErr.Message)
	})

	t.Run("given accepted order should decode it", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/orders", r.URL.Path)
				w.Write([]byte(`{"success":true,"order":{"_id":"order-1","total":"118"}}`))
			}),
		)
		defer server.Close()

		order, err := testClient(server.URL).CreateOrder(context.Background(), CreateOrder{
			UserID: "user-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})
}
