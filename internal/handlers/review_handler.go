package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reputation-service/internal/events"
	"reputation-service/internal/metrics"
	"reputation-service/internal/models"
	"reputation-service/internal/notify"
	"reputation-service/internal/repository"
)

// ReviewHandler handles customer review submissions and routing
type ReviewHandler struct {
	clientRepo repository.ClientRepository
	reviewRepo repository.ReviewRepository
	notifier   *Notifier
	policy     *notify.Policy
	publisher  *events.Publisher
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(
	clientRepo repository.ClientRepository,
	reviewRepo repository.ReviewRepository,
	notifier *Notifier,
	policy *notify.Policy,
	publisher *events.Publisher,
) *ReviewHandler {
	return &ReviewHandler{
		clientRepo: clientRepo,
		reviewRepo: reviewRepo,
		notifier:   notifier,
		policy:     policy,
		publisher:  publisher,
	}
}

// CreateReviewRequest is a customer review submission
type CreateReviewRequest struct {
	ClientID string `json:"clientId" binding:"required"`
	Name     string `json:"name"`
	Rating   *int   `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

// Create records a review and routes it: a 5-star rating surfaces the
// client's public review link in the response, anything lower routes to a
// private owner-feedback email. The owner email is best-effort; the review
// is recorded either way.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
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

	review := &models.Review{
		ClientID: client.ID,
		Name:     req.Name,
		Rating:   *req.Rating,
		Comments: req.Comments,
	}

	if err := h.reviewRepo.Create(c.Request.Context(), review); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	metrics.ReviewsSubmitted.WithLabelValues(strconv.Itoa(review.Rating)).Inc()
	h.publisher.Publish(events.SubjectReviewSubmitted, client.ID, review)

	routing := h.policy.RouteReview(client, review)
	if routing.OwnerNotification != nil {
		h.notifier.Send(c.Request.Context(), "owner_feedback", routing.OwnerNotification)
	}

	var reviewLink interface{}
	if routing.PublicLink != "" {
		reviewLink = routing.PublicLink
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"data":       review,
		"reviewLink": reviewLink,
	})
}

// ListByClient returns reviews for a client (admin console)
func (h *ReviewHandler) ListByClient(c *gin.Context) {
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

	reviews, total, err := h.reviewRepo.ListByClient(
		c.Request.Context(),
		clientID,
		parseIntWithDefault(c.Query("limit"), 50),
		parseIntWithDefault(c.Query("offset"), 0),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reviews,
		"pagination": gin.H{
			"total": total,
		},
	})
}
