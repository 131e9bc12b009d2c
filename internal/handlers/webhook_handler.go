package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"reputation-service/internal/events"
	"reputation-service/internal/metrics"
	"reputation-service/internal/models"
	"reputation-service/internal/notify"
	"reputation-service/internal/phone"
	"reputation-service/internal/repository"
	"reputation-service/internal/services"
)

const twimlContentType = "text/xml; charset=utf-8"

// WebhookHandler handles inbound telephony webhooks. The caller here is a
// phone switch expecting TwiML; every response is a 200 with a call-control
// document, even when the tenant cannot be resolved.
type WebhookHandler struct {
	clientRepo    repository.ClientRepository
	leadRepo      repository.LeadRepository
	notifier      *Notifier
	policy        *notify.Policy
	publisher     *events.Publisher
	publicBaseURL string
	logger        *logrus.Entry
}

// NewWebhookHandler creates a new webhook handler. publicBaseURL is the
// externally reachable base URL of this service, used to build the dial
// status callback.
func NewWebhookHandler(
	clientRepo repository.ClientRepository,
	leadRepo repository.LeadRepository,
	notifier *Notifier,
	policy *notify.Policy,
	publisher *events.Publisher,
	publicBaseURL string,
) *WebhookHandler {
	return &WebhookHandler{
		clientRepo:    clientRepo,
		leadRepo:      leadRepo,
		notifier:      notifier,
		policy:        policy,
		publisher:     publisher,
		publicBaseURL: publicBaseURL,
		logger:        logrus.WithField("component", "webhook_handler"),
	}
}

// Voice handles an inbound call. The called number identifies the tenant;
// resolvable tenants with a forwarding number get the call forwarded,
// everything else gets a hang-up.
func (h *WebhookHandler) Voice(c *gin.Context) {
	to := phone.Normalize(c.PostForm("To"))
	from := c.PostForm("From")

	client, err := h.clientRepo.GetByPhoneNumber(c.Request.Context(), to)
	if err != nil {
		h.logger.Errorf("Client lookup failed for inbound call to %s: %v", to, err)
	}
	if client == nil || client.ForwardingNumber == "" {
		h.logger.WithFields(logrus.Fields{
			"to":   to,
			"from": from,
		}).Warn("Inbound call to unrecognized number, hanging up")
		c.Data(http.StatusOK, twimlContentType, []byte(services.HangupTwiML()))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"client_id": client.ID,
		"from":      from,
	}).Info("Forwarding inbound call")

	actionURL := h.publicBaseURL + "/webhooks/voice/status"
	c.Data(http.StatusOK, twimlContentType, []byte(services.DialTwiML(client.ForwardingNumber, actionURL)))
}

// VoiceStatus handles the dial outcome callback. A missed call (no-answer,
// busy or failed) records a lead and fires the missed-call SMS; a completed
// call does nothing. The response is always a benign empty TwiML document.
func (h *WebhookHandler) VoiceStatus(c *gin.Context) {
	dialStatus := c.PostForm("DialCallStatus")
	to := phone.Normalize(c.PostForm("To"))
	caller := phone.Normalize(c.PostForm("From"))

	if notify.IsMissedCall(dialStatus) {
		h.handleMissedCall(c, to, caller, dialStatus)
	}

	c.Data(http.StatusOK, twimlContentType, []byte(services.HangupTwiML()))
}

func (h *WebhookHandler) handleMissedCall(c *gin.Context, to, caller, dialStatus string) {
	client, err := h.clientRepo.GetByPhoneNumber(c.Request.Context(), to)
	if err != nil {
		h.logger.Errorf("Client lookup failed for missed call to %s: %v", to, err)
		return
	}
	if client == nil {
		h.logger.Warnf("Missed call status for unrecognized number %s", to)
		return
	}

	lead := &models.Lead{
		ClientID: client.ID,
		Phone:    caller,
		Message:  "Missed call (" + dialStatus + ")",
		Source:   models.SourceMissedCall,
	}
	if err := h.leadRepo.Create(c.Request.Context(), lead); err != nil {
		h.logger.Errorf("Failed to record missed-call lead: %v", err)
	} else {
		metrics.LeadsCreated.WithLabelValues(string(lead.Source)).Inc()
		h.publisher.Publish(events.SubjectLeadCreated, client.ID, lead)
	}

	if msg := h.policy.MissedCallMessage(client, caller); msg != nil {
		h.notifier.Send(c.Request.Context(), "missed_call", msg)
	}
}
