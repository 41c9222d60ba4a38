package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName carries the request id on HTTP responses and gRPC metadata.
const RequestIDHeaderName = "x-request-id"
