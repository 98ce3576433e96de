package quoteapi

// SubmitResponse is the body the intake endpoint answers with.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
