package testutil

import (
	"net/http"

	"catalog/pkg/requestcontext"
)

// WithRequestID attaches a request ID the way the request ID middleware
// would, so handler logs can be asserted on.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
