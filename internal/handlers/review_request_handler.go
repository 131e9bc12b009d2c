package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"reputation-service/internal/middleware"
	"reputation-service/internal/notify"
	"reputation-service/internal/phone"
	"reputation-service/internal/repository"
)

// ReviewRequestHandler handles manual review-request sends
type ReviewRequestHandler struct {
	clientRepo  repository.ClientRepository
	contactRepo repository.ContactRepository
	notifier    *Notifier
	policy      *notify.Policy
	rateLimiter *middleware.SMSRateLimiter
	logger      *logrus.Entry
}

// NewReviewRequestHandler creates a new review request handler
func NewReviewRequestHandler(
	clientRepo repository.ClientRepository,
	contactRepo repository.ContactRepository,
	notifier *Notifier,
	policy *notify.Policy,
	rateLimiter *middleware.SMSRateLimiter,
) *ReviewRequestHandler {
	return &ReviewRequestHandler{
		clientRepo:  clientRepo,
		contactRepo: contactRepo,
		notifier:    notifier,
		policy:      policy,
		rateLimiter: rateLimiter,
		logger:      logrus.WithField("component", "review_request_handler"),
	}
}

// SendReviewRequest asks a customer for a review via SMS
type SendReviewRequest struct {
	ClientID string `json:"clientId" binding:"required"`
	Name     string `json:"name"`
	Phone    string `json:"phone" binding:"required"`
}

// Send sends a review-request SMS to the given phone. Requires the client to
// have a review link configured. After a successful send the matching
// contact's request counter is bumped best-effort.
func (h *ReviewRequestHandler) Send(c *gin.Context) {
	var req SendReviewRequest
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

	to := phone.Normalize(req.Phone)
	msg := h.policy.ReviewRequestMessage(client, req.Name, to)
	if msg == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client has no review link configured"})
		return
	}

	if h.rateLimiter != nil {
		result, err := h.rateLimiter.CheckLimit(c.Request.Context(), client.ID, to)
		if err == nil && !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Review request rate limit exceeded",
				"limit_type": result.LimitType,
			})
			return
		}
	}

	sent := h.notifier.Send(c.Request.Context(), "review_request", msg)
	if sent {
		if h.rateLimiter != nil {
			if err := h.rateLimiter.RecordSend(c.Request.Context(), client.ID, to); err != nil {
				h.logger.Warnf("Failed to record review request send: %v", err)
			}
		}
		h.bumpContactCounter(c.Request.Context(), client.ID, to)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sent":    sent,
	})
}

// bumpContactCounter increments the review-request counter on the most
// recent matching contact. Best-effort: failures are logged and swallowed,
// and never block the response.
func (h *ReviewRequestHandler) bumpContactCounter(ctx context.Context, clientID, phoneNumber string) {
	contact, err := h.contactRepo.GetLatestByPhone(ctx, clientID, phoneNumber)
	if err != nil {
		h.logger.Warnf("Contact lookup failed for counter update: %v", err)
		return
	}
	if contact == nil {
		return
	}
	if err := h.contactRepo.RecordReviewRequest(ctx, contact.ID); err != nil {
		h.logger.Warnf("Failed to update review request counter: %v", err)
	}
}
