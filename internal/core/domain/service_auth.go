package domain

// ServiceClaims identifies an internal caller of the token API.
// The API is service-to-service: callers are other backend components
// (publishing jobs, analytics collectors), not end users.
type ServiceClaims struct {
	// Subject names the calling service, e.g. "publisher-worker".
	Subject string

	IssuedAt  int64
	ExpiresAt int64
}
