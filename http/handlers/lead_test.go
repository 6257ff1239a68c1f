package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lead-relay/errors"
	"lead-relay/logger"
	"lead-relay/models"
	"lead-relay/services/mail"
	"lead-relay/utils"
)

type stubRelay struct {
	calls []models.CallRequest
	calcs []models.CalculationRequest
	err   error
}

func (s *stubRelay) SendCallRequest(_ context.Context, req models.CallRequest) (mail.Receipt, error) {
	s.calls = append(s.calls, req)
	return mail.Receipt{Provider: "stub"}, s.err
}

func (s *stubRelay) SendCalculatorRequest(_ context.Context, req models.CalculationRequest) (mail.Receipt, error) {
	s.calcs = append(s.calcs, req)
	return mail.Receipt{Provider: "stub"}, s.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) models.MessageResponse {
	t.Helper()
	var body models.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSendCallRequestHandler(t *testing.T) {
	relay := &stubRelay{}
	h := NewLeadHandler(relay, logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/api/send-call-request",
		strings.NewReader(`{"name":"Иван","phone":"89016450000","preferredTime":"","question":""}`))
	rec := httptest.NewRecorder()
	h.SendCallRequest(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, "Email sent successfully", body.Message)
	assert.Empty(t, body.Error)

	require.Len(t, relay.calls, 1)
	assert.Equal(t, "Иван", relay.calls[0].Name)
	assert.Equal(t, "89016450000", relay.calls[0].Phone)
}

func TestSendCalculatorRequestHandler(t *testing.T) {
	relay := &stubRelay{}
	h := NewLeadHandler(relay, logger.Discard())

	payload := `{"name":"","phone":"+79016450000","material":"Песок","volume":"2 м³","address":"ул. Ленина 1","totalCost":"1 700 ₽ + стоимость доставки"}`
	req := httptest.NewRequest(http.MethodPost, "/api/send-calculator-request", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.SendCalculatorRequest(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, relay.calcs, 1)
	assert.Equal(t, "Песок", relay.calcs[0].Material)
	assert.Equal(t, "2 м³", relay.calcs[0].Volume)
	assert.Equal(t, "1 700 ₽ + стоимость доставки", relay.calcs[0].TotalCost)
}

func TestLeadHandlerTransportFailure(t *testing.T) {
	relay := &stubRelay{err: apperrors.NewUnavailableError("mail transport failed", errors.New("535 auth failed"))}
	h := NewLeadHandler(relay, logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/api/send-call-request",
		strings.NewReader(`{"name":"Иван","phone":"89016450000"}`))
	rec := httptest.NewRecorder()
	h.SendCallRequest(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Error sending email", body.Message)
	assert.Equal(t, "mail transport unavailable", body.Error)
	assert.NotContains(t, rec.Body.String(), "535")
}

func TestLeadHandlerInvalidLead(t *testing.T) {
	relay := &stubRelay{err: apperrors.NewInvalidParamsError("phone", "invalid phone number")}
	h := NewLeadHandler(relay, logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/api/send-call-request",
		strings.NewReader(`{"name":"Иван","phone":"12345"}`))
	rec := httptest.NewRecorder()
	h.SendCallRequest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid request", body.Message)
	assert.Contains(t, body.Error, "phone")
}

func TestLeadHandlerMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "name=Иван"},
		{"too large", `{"name":"` + strings.Repeat("a", utils.MaxRequestBodyBytes) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := &stubRelay{}
			h := NewLeadHandler(relay, logger.Discard())

			req := httptest.NewRequest(http.MethodPost, "/api/send-calculator-request", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.SendCalculatorRequest(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid request", decodeBody(t, rec).Message)
			assert.Empty(t, relay.calcs)
		})
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
