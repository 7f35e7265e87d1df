package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/mahardika/storefront/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_GATEWAY_SERVICE)
