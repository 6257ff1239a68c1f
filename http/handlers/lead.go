package handlers

import (
	"context"
	"net/http"

	resp "lead-relay/http/response"
	"lead-relay/logger"
	"lead-relay/models"
	"lead-relay/services/mail"
	"lead-relay/utils"
)

// LeadRelay is the service the lead endpoints forward to.
type LeadRelay interface {
	SendCallRequest(ctx context.Context, req models.CallRequest) (mail.Receipt, error)
	SendCalculatorRequest(ctx context.Context, req models.CalculationRequest) (mail.Receipt, error)
}

// LeadHandler serves the two lead-capture endpoints
type LeadHandler struct {
	relay  LeadRelay
	logger *logger.Logger
}

func NewLeadHandler(relay LeadRelay, log *logger.Logger) *LeadHandler {
	if log == nil {
		log = logger.Default()
	}
	return &LeadHandler{relay: relay, logger: log}
}

// SendCallRequest handles POST /api/send-call-request
func (h *LeadHandler) SendCallRequest(w http.ResponseWriter, r *http.Request) {
	var req models.CallRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		h.logger.Warn("failed to decode call request", "error", err)
		resp.ErrorResponse(w, http.StatusBadRequest, resp.MsgInvalidRequest, err.Error())
		return
	}

	if _, err := h.relay.SendCallRequest(r.Context(), req); err != nil {
		h.logger.Error("call request not sent", "error", err)
		resp.FromError(w, err)
		return
	}

	resp.SuccessResponse(w, resp.MsgEmailSent)
}

// SendCalculatorRequest handles POST /api/send-calculator-request
func (h *LeadHandler) SendCalculatorRequest(w http.ResponseWriter, r *http.Request) {
	var req models.CalculationRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		h.logger.Warn("failed to decode calculator request", "error", err)
		resp.ErrorResponse(w, http.StatusBadRequest, resp.MsgInvalidRequest, err.Error())
		return
	}

	if _, err := h.relay.SendCalculatorRequest(r.Context(), req); err != nil {
		h.logger.Error("calculator request not sent", "error", err)
		resp.FromError(w, err)
		return
	}

	resp.SuccessResponse(w, resp.MsgEmailSent)
}
