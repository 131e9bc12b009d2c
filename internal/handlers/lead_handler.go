package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reputation-service/internal/events"
	"reputation-service/internal/metrics"
	"reputation-service/internal/models"
	"reputation-service/internal/notify"
	"reputation-service/internal/phone"
	"reputation-service/internal/repository"
)

// LeadHandler handles inbound website lead submissions
type LeadHandler struct {
	clientRepo repository.ClientRepository
	leadRepo   repository.LeadRepository
	notifier   *Notifier
	policy     *notify.Policy
	publisher  *events.Publisher
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(
	clientRepo repository.ClientRepository,
	leadRepo repository.LeadRepository,
	notifier *Notifier,
	policy *notify.Policy,
	publisher *events.Publisher,
) *LeadHandler {
	return &LeadHandler{
		clientRepo: clientRepo,
		leadRepo:   leadRepo,
		notifier:   notifier,
		policy:     policy,
		publisher:  publisher,
	}
}

// CreateLeadRequest is a website form submission
type CreateLeadRequest struct {
	ClientID string `json:"clientId" binding:"required"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// Create records a website form lead and auto-responds via SMS when the lead
// left a phone number. The SMS is sent after the lead row is written; a send
// failure never rolls the lead back.
func (h *LeadHandler) Create(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientRepo.GetByID(c.Request.Context(), req.ClientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown client"})
		return
	}

	lead := &models.Lead{
		ClientID: client.ID,
		Name:     req.Name,
		Phone:    phone.Normalize(req.Phone),
		Email:    req.Email,
		Message:  req.Message,
		Source:   models.SourceWebsiteForm,
	}

	if err := h.leadRepo.Create(c.Request.Context(), lead); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead"})
		return
	}

	metrics.LeadsCreated.WithLabelValues(string(lead.Source)).Inc()
	h.publisher.Publish(events.SubjectLeadCreated, client.ID, lead)

	if msg := h.policy.LeadMessage(client, lead.Name, lead.Phone); msg != nil {
		h.notifier.Send(c.Request.Context(), "lead_response", msg)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    lead,
	})
}

// ListByClient returns leads for a client (admin console)
func (h *LeadHandler) ListByClient(c *gin.Context) {
	clientID := c.Param("id")

	client, err := h.clientRepo.GetByID(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	leads, total, err := h.leadRepo.ListByClient(
		c.Request.Context(),
		clientID,
		parseIntWithDefault(c.Query("limit"), 50),
		parseIntWithDefault(c.Query("offset"), 0),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    leads,
		"pagination": gin.H{
			"total": total,
		},
	})
}
