package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"reputation-service/internal/events"
	"reputation-service/internal/models"
	"reputation-service/internal/notify"
	"reputation-service/internal/phone"
	"reputation-service/internal/repository"
)

// ContactHandler handles customer contact records
type ContactHandler struct {
	clientRepo  repository.ClientRepository
	contactRepo repository.ContactRepository
	notifier    *Notifier
	policy      *notify.Policy
	publisher   *events.Publisher
	logger      *logrus.Entry
}

// NewContactHandler creates a new contact handler
func NewContactHandler(
	clientRepo repository.ClientRepository,
	contactRepo repository.ContactRepository,
	notifier *Notifier,
	policy *notify.Policy,
	publisher *events.Publisher,
) *ContactHandler {
	return &ContactHandler{
		clientRepo:  clientRepo,
		contactRepo: contactRepo,
		notifier:    notifier,
		policy:      policy,
		publisher:   publisher,
		logger:      logrus.WithField("component", "contact_handler"),
	}
}

// CreateContactRequest registers a served customer
type CreateContactRequest struct {
	ClientID string `json:"clientId" binding:"required"`
	Name     string `json:"name"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email"`
}

// Create records a served customer. When the client has auto-review enabled
// and a review link configured, a review-request SMS goes out immediately and
// the contact's request counter reflects it.
func (h *ContactHandler) Create(c *gin.Context) {
	var req CreateContactRequest
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

	contact := &models.CustomerContact{
		ClientID: client.ID,
		Name:     req.Name,
		Phone:    phone.Normalize(req.Phone),
		Email:    req.Email,
	}

	if err := h.contactRepo.Create(c.Request.Context(), contact); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}

	h.publisher.Publish(events.SubjectContactCreated, client.ID, contact)

	if msg := h.policy.AutoReviewMessage(client, contact); msg != nil {
		if h.notifier.Send(c.Request.Context(), "review_request", msg) {
			// Counter is advisory, never blocks the response.
			if err := h.contactRepo.RecordReviewRequest(c.Request.Context(), contact.ID); err != nil {
				h.logger.Warnf("Failed to update review request counter: %v", err)
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    contact,
	})
}

// ListByClient returns contacts for a client (admin console)
func (h *ContactHandler) ListByClient(c *gin.Context) {
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

	contacts, total, err := h.contactRepo.ListByClient(
		c.Request.Context(),
		clientID,
		parseIntWithDefault(c.Query("limit"), 50),
		parseIntWithDefault(c.Query("offset"), 0),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contacts,
		"pagination": gin.H{
			"total": total,
		},
	})
}
