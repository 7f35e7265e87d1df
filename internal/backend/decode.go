package backend

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	cartResponse "github.com/mahardika/storefront/cart/pkg/response"
	inErrors "github.com/mahardika/storefront/internal/errors"
	orderResponse "github.com/mahardika/storefront/order/pkg/response"
	productResponse "github.com/mahardika/storefront/product/pkg/response"
)

// The backend has shipped payloads with both `id` and `_id`, and with the
// address nested under the order or under its user. The decode boundary
// accepts the variants it has been observed to send and fails closed on
// anything missing a required field; undefined never propagates past here.

type rawCartLine struct {
	ID        string      `json:"id"`
	MongoID   string      `json:"_id"`
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Image     string      `json:"image"`
	Price     json.Number `json:"price"`
	Quantity  int32       `json:"quantity"`
}

func (r rawCartLine) decode() (cartResponse.CartLine, error) {
	id := firstNonEmpty(r.ID, r.MongoID)
	if id == "" {
		return cartResponse.CartLine{}, fmt.Errorf("cart line is missing id")
	}
	if r.Price == "" {
		return cartResponse.CartLine{}, fmt.Errorf("cart line id=%s is missing price", id)
	}
	price, err := decimal.NewFromString(r.Price.String())
	if err != nil {
		return cartResponse.CartLine{}, fmt.Errorf("cart line id=%s has malformed price with error=%w", id, err)
	}
	if r.Quantity < 1 {
		return cartResponse.CartLine{}, fmt.Errorf("cart line id=%s has quantity=%d below 1", id, r.Quantity)
	}
	return cartResponse.CartLine{
		LineID:    id,
		ProductID: r.ProductID,
		Name:      r.Name,
		Image:     r.Image,
		Price:     price,
		Quantity:  r.Quantity,
	}, nil
}

type rawOrderUser struct {
	Address string `json:"address"`
}

type rawOrder struct {
	ID           string        `json:"id"`
	MongoID      string        `json:"_id"`
	UserID       string        `json:"userId"`
	Lines        []rawCartLine `json:"lines"`
	Products     []rawCartLine `json:"products"`
	Total        json.Number   `json:"total"`
	Status       string        `json:"status"`
	Address      string        `json:"address"`
	User         *rawOrderUser `json:"user"`
	ArrivingInfo string        `json:"arrivingInfo"`
	ArrivingDate string        `json:"arrivingDate"`
	CreatedAt    string        `json:"createdAt"`
}

func (r rawOrder) decode() (orderResponse.Order, error) {
	id := firstNonEmpty(r.ID, r.MongoID)
	if id == "" {
		return orderResponse.Order{}, fmt.Errorf("order is missing id")
	}

	rawLines := r.Lines
	if len(rawLines) == 0 {
		rawLines = r.Products
	}
	lines := make([]cartResponse.CartLine, 0, len(rawLines))
	for _, rl := range rawLines {
		line, err := rl.decode()
		if err != nil {
			return orderResponse.Order{}, fmt.Errorf("order id=%s has malformed line with error=%w", id, err)
		}
		lines = append(lines, line)
	}

	total := decimal.Zero
	if r.Total != "" {
		parsed, err := decimal.NewFromString(r.Total.String())
		if err != nil {
			return orderResponse.Order{}, fmt.Errorf("order id=%s has malformed total with error=%w", id, err)
		}
		total = parsed
	}

	// The backend renders a missing status as Pending.
	status := orderResponse.Status(r.Status)
	if r.Status == "" {
		status = orderResponse.StatusPending
	}

	address := r.Address
	if address == "" && r.User != nil {
		address = r.User.Address
	}

	createdAt := time.Time{}
	if r.CreatedAt != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
			createdAt = parsed
		}
	}

	return orderResponse.Order{
		ID:           id,
		UserID:       r.UserID,
		Lines:        lines,
		Total:        total,
		Status:       status,
		Address:      address,
		ArrivingInfo: r.ArrivingInfo,
		ArrivingDate: r.ArrivingDate,
		CreatedAt:    createdAt,
	}, nil
}

type rawProduct struct {
	ID          string      `json:"id"`
	MongoID     string      `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Price       json.Number `json:"price"`
}

func (r rawProduct) decode() (productResponse.Product, error) {
	id := firstNonEmpty(r.ID, r.MongoID)
	if id == "" {
		return productResponse.Product{}, fmt.Errorf("product is missing id")
	}
	if r.Price == "" {
		return productResponse.Product{}, fmt.Errorf("product id=%s is missing price", id)
	}
	price, err := decimal.NewFromString(r.Price.String())
	if err != nil {
		return productResponse.Product{}, fmt.Errorf("product id=%s has malformed price with error=%w", id, err)
	}
	return productResponse.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		Price:       price,
	}, nil
}

func decodeCartLines(status int, raw []byte) ([]cartResponse.CartLine, error) {
	rawLines := []rawCartLine{}
	if err := json.Unmarshal(raw, &rawLines); err != nil {
		return nil, decodeError(status, fmt.Errorf("failed unmarshaling cart with error=%w", err))
	}
	lines := make([]cartResponse.CartLine, 0, len(rawLines))
	for _, rl := range rawLines {
		line, err := rl.decode()
		if err != nil {
			return nil, decodeError(status, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func decodeOrders(status int, raw []byte) ([]orderResponse.Order, error) {
	rawOrders := []rawOrder{}
	if err := json.Unmarshal(raw, &rawOrders); err != nil {
		return nil, decodeError(status, fmt.Errorf("failed unmarshaling orders with error=%w", err))
	}
	orders := make([]orderResponse.Order, 0, len(rawOrders))
	for _, ro := range rawOrders {
		order, err := ro.decode()
		if err != nil {
			return nil, decodeError(status, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func decodeCreateOrder(status int, raw []byte) (orderResponse.Order, error) {
	body := struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Order   *rawOrder `json:"order"`
	}{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return orderResponse.Order{}, decodeError(status, fmt.Errorf("failed unmarshaling order creation response with error=%w", err))
	}
	if !body.Success {
		return orderResponse.Order{}, &inErrors.HTTPError{StatusCode: status, Message: body.Message}
	}
	if body.Order == nil {
		return orderResponse.Order{}, decodeError(status, fmt.Errorf("order creation response is missing order"))
	}
	order, err := body.Order.decode()
	if err != nil {
		return orderResponse.Order{}, decodeError(status, err)
	}
	return order, nil
}

func decodeProducts(status int, raw []byte) ([]productResponse.Product, error) {
	rawProducts := []rawProduct{}
	if err := json.Unmarshal(raw, &rawProducts); err != nil {
		return nil, decodeError(status, fmt.Errorf("failed unmarshaling products with error=%w", err))
	}
	products := make([]productResponse.Product, 0, len(rawProducts))
	for _, rp := range rawProducts {
		product, err := rp.decode()
		if err != nil {
			return nil, decodeError(status, err)
		}
		products = append(products, product)
	}
	return products, nil
}

func decodeProduct(status int, raw []byte) (productResponse.Product, error) {
	rp := rawProduct{}
	if err := json.Unmarshal(raw, &rp); err != nil {
		return productResponse.Product{}, decodeError(status, fmt.Errorf("failed unmarshaling product with error=%w", err))
	}
	product, err := rp.decode()
	if err != nil {
		return productResponse.Product{}, decodeError(status, err)
	}
	return product, nil
}

func decodeError(status int, err error) error {
	return &inErrors.HTTPError{StatusCode: status, Message: err.Error()}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
