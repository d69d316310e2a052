package dto

// Response codes shared by every endpoint.
const (
	CodeOK          = "ok"
	CodeBadRequest  = "bad_request"
	CodeNotFound    = "not_found"
	CodeForbidden   = "forbidden"
	CodeNotLoggedIn = "not_loggedin"
	CodeServerError = "server_error"
	CodeRateLimited = "too_many_requests"
)

type CodeResponse struct {
	Code string `json:"code"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type BadRequestResponse struct {
	Code  string       `json:"code"`
	Error []FieldError `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
