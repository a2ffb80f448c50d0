package testutil

import (
	"net/http"

	"onboard/pkg/requestcontext"
)

// WithStaff adds an authenticated staff identity to the request context, as
// the auth middleware would.
func WithStaff(req *http.Request, staffID, firmID string) *http.Request {
	if staffID == "" {
		return req
	}
	ctx := requestcontext.WithStaff(req.Context(), requestcontext.StaffIdentity{StaffID: staffID, FirmID: firmID})
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
