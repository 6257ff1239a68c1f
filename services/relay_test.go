package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-relay/config"
	apperrors "lead-relay/errors"
	"lead-relay/logger"
	"lead-relay/metrics"
	"lead-relay/models"
	"lead-relay/services/mail"
)

type recordingTransport struct {
	mu   sync.Mutex
	msgs []mail.Message
	err  error
}

func (t *recordingTransport) Send(_ context.Context, msg mail.Message) (mail.Receipt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return mail.Receipt{Provider: "fake"}, t.err
	}
	t.msgs = append(t.msgs, msg)
	return mail.Receipt{Provider: "fake", MessageID: "msg-1"}, nil
}

func (t *recordingTransport) sent() []mail.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]mail.Message(nil), t.msgs...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []models.LeadSubmittedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	if ev, ok := value.(models.LeadSubmittedEvent); ok {
		p.events = append(p.events, ev)
	}
	return p.err
}

func newTestRelay(t *testing.T, tr mail.Transport, opts ...Option) *LeadRelay {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	r, err := NewLeadRelay(DefaultRelayConfig("relay@yandex.ru"), tr, opts...)
	require.NoError(t, err)
	return r
}

func TestNewLeadRelayRequiresCollaborators(t *testing.T) {
	_, err := NewLeadRelay(DefaultRelayConfig("relay@yandex.ru"), nil)
	assert.Error(t, err)

	_, err = NewLeadRelay(RelayConfig{To: config.LeadRecipient}, &recordingTransport{})
	assert.Error(t, err)

	r, err := NewLeadRelay(RelayConfig{From: "a@b.ru", To: "c@d.ru"}, &recordingTransport{})
	require.NoError(t, err)
	assert.Equal(t, config.CallRequestSubject, r.cfg.CallSubject)
	assert.Equal(t, config.CalculatorRequestSubject, r.cfg.CalculatorSubject)
}

func TestSendCallRequest(t *testing.T) {
	tr := &recordingTransport{}
	pub := &recordingPublisher{}
	r := newTestRelay(t, tr, WithEventPublisher(pub))

	receipt, err := r.SendCallRequest(context.Background(), models.CallRequest{
		Name:  "Иван",
		Phone: "8 (901) 645-00-00",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", receipt.MessageID)

	msgs := tr.sent()
	require.Len(t, msgs, 1)
	msg := msgs[0]
	assert.Equal(t, "relay@yandex.ru", msg.From)
	assert.Equal(t, config.LeadRecipient, msg.To)
	assert.Equal(t, config.CallRequestSubject, msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>Имя:</strong> Иван")
	assert.Contains(t, msg.HTML, "<strong>Телефон:</strong> 89016450000")
	assert.Contains(t, msg.HTML, "<strong>Удобное время:</strong> не указано")
	assert.Contains(t, msg.HTML, "<strong>Вопрос:</strong> не указан")

	require.Len(t, pub.events, 1)
	assert.Equal(t, "89016450000", pub.keys[0])
	assert.Equal(t, "lead.submitted", pub.events[0].EventType)
	assert.Equal(t, models.FormCallRequest, pub.events[0].Form)
	assert.NotEmpty(t, pub.events[0].EventID)
}

func TestSendCallRequestValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   models.CallRequest
		field string
	}{
		{"missing name", models.CallRequest{Phone: "89016450000"}, "name"},
		{"name only markup", models.CallRequest{Name: "<>", Phone: "89016450000"}, "name"},
		{"missing phone", models.CallRequest{Name: "Иван"}, "phone"},
		{"bad phone", models.CallRequest{Name: "Иван", Phone: "12345"}, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &recordingTransport{}
			r := newTestRelay(t, tr)

			_, err := r.SendCallRequest(context.Background(), tt.req)
			require.Error(t, err)

			var appErr *apperrors.Error
			require.True(t, apperrors.As(err, &appErr))
			assert.Equal(t, apperrors.Invalid, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
			assert.Empty(t, tr.sent(), "no email must be sent for an invalid lead")
		})
	}
}

func TestSendCallRequestEscapesHTML(t *testing.T) {
	tr := &recordingTransport{}
	r := newTestRelay(t, tr)

	_, err := r.SendCallRequest(context.Background(), models.CallRequest{
		Name:     `Иван "Grozny" & sons`,
		Phone:    "+79016450000",
		Question: "<script>alert(1)</script> onload=x",
	})
	require.NoError(t, err)

	html := tr.sent()[0].HTML
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "onload=")
	assert.Contains(t, html, "Иван &#34;Grozny&#34; &amp; sons")
}

func TestSendCalculatorRequest(t *testing.T) {
	tr := &recordingTransport{}
	pub := &recordingPublisher{}
	r := newTestRelay(t, tr, WithEventPublisher(pub))

	_, err := r.SendCalculatorRequest(context.Background(), models.CalculationRequest{
		Phone:     "+79016450000",
		Material:  "Песок",
		Volume:    "2 м³",
		Address:   "ул. Ленина 1",
		TotalCost: "1 700 ₽ + стоимость доставки",
	})
	require.NoError(t, err)

	msg := tr.sent()[0]
	assert.Equal(t, config.CalculatorRequestSubject, msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>Имя:</strong> не указано")
	assert.Contains(t, msg.HTML, "<strong>Материал:</strong> Песок")
	assert.Contains(t, msg.HTML, "<strong>Объём:</strong> 2 м³")
	assert.NotContains(t, msg.HTML, "м³ м³")
	assert.Contains(t, msg.HTML, "<strong>Адрес доставки:</strong> ул. Ленина 1")
	assert.Contains(t, msg.HTML, "1 700 ₽ + стоимость доставки")

	require.Len(t, pub.events, 1)
	assert.Equal(t, "Песок", pub.events[0].Material)
	assert.Equal(t, "2 м³", pub.events[0].Volume)
}

func TestSendCalculatorRequestAcceptsMaterialValue(t *testing.T) {
	tr := &recordingTransport{}
	r := newTestRelay(t, tr)

	_, err := r.SendCalculatorRequest(context.Background(), models.CalculationRequest{
		Phone:    "89016450000",
		Material: "crushed-stone",
		Volume:   "3.5",
		Address:  "Казань",
	})
	require.NoError(t, err)

	html := tr.sent()[0].HTML
	assert.Contains(t, html, "Щебень")
	assert.Contains(t, html, "3.5 м³")
	assert.NotContains(t, html, "Предварительная стоимость")
}

func TestSendCalculatorRequestValidation(t *testing.T) {
	valid := models.CalculationRequest{
		Phone:    "89016450000",
		Material: "Песок",
		Volume:   "2 м³",
		Address:  "ул. Ленина 1",
	}
	tests := []struct {
		name   string
		mutate func(*models.CalculationRequest)
		field  string
	}{
		{"unknown material", func(r *models.CalculationRequest) { r.Material = "Бетон" }, "material"},
		{"missing material", func(r *models.CalculationRequest) { r.Material = "" }, "material"},
		{"volume too small", func(r *models.CalculationRequest) { r.Volume = "0.05" }, "volume"},
		{"volume too large", func(r *models.CalculationRequest) { r.Volume = "1000.01 м³" }, "volume"},
		{"volume not a number", func(r *models.CalculationRequest) { r.Volume = "много" }, "volume"},
		{"missing address", func(r *models.CalculationRequest) { r.Address = "  " }, "address"},
		{"bad phone", func(r *models.CalculationRequest) { r.Phone = "+1 555 0100" }, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			tr := &recordingTransport{}
			r := newTestRelay(t, tr)

			_, err := r.SendCalculatorRequest(context.Background(), req)
			require.Error(t, err)

			var appErr *apperrors.Error
			require.True(t, apperrors.As(err, &appErr))
			assert.Equal(t, apperrors.Invalid, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
			assert.Empty(t, tr.sent())
		})
	}
}

func TestTransportFailure(t *testing.T) {
	cause := errors.New("535 5.7.8 authentication failed")
	tr := &recordingTransport{err: cause}
	pub := &recordingPublisher{}
	reg := prometheus.NewRegistry()
	r := newTestRelay(t, tr, WithEventPublisher(pub), WithMetrics(metrics.NewRelayMetrics(reg)))

	_, err := r.SendCallRequest(context.Background(), models.CallRequest{Name: "Иван", Phone: "89016450000"})
	require.Error(t, err)
	assert.Equal(t, apperrors.Unavailable, apperrors.KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, pub.events, "no event for an unsent lead")
}

func TestPublishFailureDoesNotFailSubmission(t *testing.T) {
	tr := &recordingTransport{}
	pub := &recordingPublisher{err: errors.New("broker down")}
	r := newTestRelay(t, tr, WithEventPublisher(pub))

	_, err := r.SendCallRequest(context.Background(), models.CallRequest{Name: "Иван", Phone: "89016450000"})
	require.NoError(t, err)
	assert.Len(t, tr.sent(), 1)
}

func TestResubmissionSendsAgain(t *testing.T) {
	tr := &recordingTransport{}
	r := newTestRelay(t, tr)
	req := models.CallRequest{Name: "Иван", Phone: "89016450000"}

	for i := 0; i < 3; i++ {
		_, err := r.SendCallRequest(context.Background(), req)
		require.NoError(t, err)
	}
	assert.Len(t, tr.sent(), 3)
}

func TestConcurrentRequestsAreIndependent(t *testing.T) {
	tr := &recordingTransport{}
	r := newTestRelay(t, tr)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.SendCallRequest(context.Background(), models.CallRequest{Name: "Иван", Phone: "89016450000"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, tr.sent(), 20)
}

func TestNormalizeCalculationRequest(t *testing.T) {
	got := NormalizeCalculationRequest(models.CalculationRequest{
		Name:     " <b>Пётр</b> ",
		Phone:    "+7 (901) 645-00-00",
		Material: "sand",
		Volume:   "2",
		Address:  "javascript:ул. Мира 5",
	})
	assert.Equal(t, "bПётр/b", got.Name)
	assert.Equal(t, "+79016450000", got.Phone)
	assert.Equal(t, "Песок", got.Material)
	assert.Equal(t, "2 м³", got.Volume)
	assert.Equal(t, "ул. Мира 5", got.Address)
}
