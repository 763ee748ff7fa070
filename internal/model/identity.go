package model

// Identity is the authenticated caller for a single request, decoded
// from a verified bearer token by the auth middleware. It is never
// persisted; its lifetime is one request.
type Identity struct {
	UserID int64
	Email  string
}
