package middlewares

const (
	CtxRequestID = "request_id"
	CtxUserID    = "auth.userID"
	CtxUser      = "auth.user"
	CtxToken     = "auth.token"
)
