package values

// Response status kinds. Every handler reports exactly one of these in the
// envelope's "status" field; util.StatusCode maps them to HTTP codes.
const (
	Success        = "success"
	Created        = "created"
	Failed         = "failed"
	Error          = "error"
	BadRequestBody = "bad-request"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
	TooManyRequest = "too-many-requests"
)

const SystemErr = "something went wrong, please try again later"

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderRequestSource = "X-Request-Source"
)

type contextKey string

const ContextUserIDKey contextKey = "user_id"

const AuthCookieName = "token"
