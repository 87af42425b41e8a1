package response

// StandardApiResponse is the envelope for every endpoint. Data carries
// the ticket/availability/record payload on success; Errors carries
// binding failures or a retry hint on contention.
type StandardApiResponse struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // mirrors the HTTP status
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
