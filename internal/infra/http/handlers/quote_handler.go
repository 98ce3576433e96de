package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xavierca1/allinone-plumbing/internal/entity"
	"github.com/xavierca1/allinone-plumbing/internal/infra/http/middleware"
	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
	"github.com/xavierca1/allinone-plumbing/internal/usecase"
)

const (
	maxQuoteBodyBytes = 64 << 10

	quoteSubmittedMessage = "Quote request submitted successfully"
	quoteFailedMessage    = "Failed to submit quote request"
)

var (
	ErrQuoteBodyNotObject    = errors.New("quote body is not a json object")
	ErrQuoteBodyTrailingData = errors.New("quote body has data after the json object")
)

// quoteFields are the keys the intake accepts. None of them may be null; the
// optional ones are left out instead.
var quoteFields = []string{
	"name", "phone", "zip", "service", "preferredTime", "description",
	"utm_source", "utm_campaign", "gclid", "timeToComplete", "timestamp",
}

type QuoteSubmitter interface {
	Execute(ctx context.Context, input usecase.SubmitQuoteInput) (*usecase.SubmitQuoteOutput, error)
}

type QuoteHandler struct {
	SubmitQuoteUC QuoteSubmitter
	Logger        *logging.Logger
}

func NewQuoteHandler(uc QuoteSubmitter, logger *logging.Logger) *QuoteHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &QuoteHandler{
		SubmitQuoteUC: uc,
		Logger:        logger,
	}
}

type QuoteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitQuote handles POST /api/quote. Every failure gets the same generic
// body; the cause only goes to the log and the outcome counter.
func (h *QuoteHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxQuoteBodyBytes)

	req, err := decodeQuoteRequest(r.Body)
	if err != nil {
		middleware.RecordQuoteSubmission(middleware.OutcomeMalformed)
		h.Logger.Warn("quote request body rejected", "outcome", middleware.OutcomeMalformed, "error", err)
		writeQuoteResponse(w, http.StatusInternalServerError, false, quoteFailedMessage)
		return
	}

	output, err := h.SubmitQuoteUC.Execute(r.Context(), usecase.SubmitQuoteInput{
		Request:  req,
		ClientIP: middleware.ClientIP(r),
	})
	if err != nil {
		switch {
		case usecase.IsValidationError(err):
			middleware.RecordQuoteSubmission(middleware.OutcomeInvalid)
			h.Logger.Warn("quote request failed validation", "outcome", middleware.OutcomeInvalid, "error", err)
		default:
			middleware.RecordQuoteSubmission(middleware.OutcomeDeliveryFailed)
			middleware.RecordIntegrationError("mail")
			h.Logger.Error("error submitting quote request", "outcome", middleware.OutcomeDeliveryFailed, "error", err)
		}
		writeQuoteResponse(w, http.StatusInternalServerError, false, quoteFailedMessage)
		return
	}

	if output.Suppressed {
		middleware.RecordQuoteSubmission(middleware.OutcomeSuppressed)
	} else {
		middleware.RecordQuoteSubmission(middleware.OutcomeDelivered)
	}

	writeQuoteResponse(w, http.StatusOK, true, quoteSubmittedMessage)
}

// decodeQuoteRequest reads exactly one JSON object and rejects null for any
// known field.
func decodeQuoteRequest(body io.Reader) (entity.QuoteRequest, error) {
	dec := json.NewDecoder(body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return entity.QuoteRequest{}, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return entity.QuoteRequest{}, ErrQuoteBodyTrailingData
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return entity.QuoteRequest{}, err
	}
	if fields == nil {
		return entity.QuoteRequest{}, ErrQuoteBodyNotObject
	}
	for _, key := range quoteFields {
		if v, ok := fields[key]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return entity.QuoteRequest{}, fmt.Errorf("quote field %s: null is not allowed", key)
		}
	}

	var req entity.QuoteRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return entity.QuoteRequest{}, err
	}
	return req, nil
}

func writeQuoteResponse(w http.ResponseWriter, status int, success bool, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(QuoteResponse{
		Success: success,
		Message: message,
	})
}
