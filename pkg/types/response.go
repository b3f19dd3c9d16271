package types

// CreateOrderResponse mirrors the Advanced Trade create-order envelope.
// Exactly one of SuccessResponse / ErrorResponse is populated depending on
// Success.
type CreateOrderResponse struct {
	Success         bool             `json:"success"`
	SuccessResponse *SuccessResponse `json:"success_response,omitempty"`
	ErrorResponse   *ErrorResponse   `json:"error_response,omitempty"`
}

type SuccessResponse struct {
	OrderId   string `json:"order_id"`
	ProductId string `json:"product_id"`
	Side      string `json:"side"`
}

type ErrorResponse struct {
	Error                string `json:"error"`
	Message              string `json:"message"`
	ErrorDetails         string `json:"error_details"`
	PreviewFailureReason string `json:"preview_failure_reason"`
}
