package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError cuerpo fijo de error de los endpoints de lectura (/api/...).
type APIError struct {
	Error string `json:"error"`
}
