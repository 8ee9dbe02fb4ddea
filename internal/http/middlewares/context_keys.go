package middlewares

// gin context keys
const (
	CtxRequestID = "request_id"
	CtxAuthUser  = "auth.user"
)

// SessionCookieName carries the session token between browser and API.
const SessionCookieName = "session-token"
