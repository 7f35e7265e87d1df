package http

const (
	KEY_HEADER_CONTENT_TYPE       = "Content-Type"
	VALUE_HEADER_APPLICATION_JSON = "application/json"
	KEY_HEADER_REQUEST_ID         = "X-Request-Id"
	KEY_HEADER_AUTHORIZATION      = "Authorization"
)
