package log

const (
	KeyAppName       = "app"
	KeyTag           = "tag"
	KeyProcess       = "process"
	KeyRequestID     = "requestId"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeyConfig        = "config"
	KeyToken         = "token"

	KeyUserID       = "userId"
	KeyLineID       = "lineId"
	KeyOrderID      = "orderId"
	KeyProductID    = "productId"
	KeyQuantity     = "quantity"
	KeyPrevQuantity = "prevQuantity"
	KeyGeneration   = "generation"
	KeyStatus       = "status"
	KeyAddress      = "address"
	KeyCart         = "cart"
	KeyCartLines    = "cartLines"
	KeyOrders       = "orders"
	KeyTotals       = "totals"
	KeyWishlist     = "wishlist"
	KeyBackendURL   = "backendUrl"
	KeySessionKey   = "sessionKey"
)
