package errors

// ResponseBody is the JSON structure returned to clients. Every error
// response carries at least a numeric code and a message.
type ResponseBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToResponse converts an APIError to its wire representation. Internal
// details are deliberately excluded.
func (e *APIError) ToResponse() ResponseBody {
	return ResponseBody{
		Code:    e.StatusCode,
		Message: e.Message,
	}
}
