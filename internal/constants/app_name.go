package constants

const (
	APP_STOREFRONT      = "storefront"
	APP_GATEWAY_SERVICE = "storefront-gateway"
	TOKEN_ISSUER        = "storefront-backend"
)
