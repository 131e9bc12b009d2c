package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"reputation-service/internal/models"
	"reputation-service/internal/phone"
	"reputation-service/internal/repository"
)

// ClientHandler handles client (tenant) management
type ClientHandler struct {
	clientRepo  repository.ClientRepository
	profileRepo repository.ProfileRepository
	logger      *logrus.Entry
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientRepo repository.ClientRepository, profileRepo repository.ProfileRepository) *ClientHandler {
	return &ClientHandler{
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		logger:      logrus.WithField("component", "client_handler"),
	}
}

// ClientRequest is the create/update payload for a client
type ClientRequest struct {
	ID                    string         `json:"id"`
	Name                  string         `json:"name" binding:"required"`
	Website               string         `json:"website"`
	BookingLink           string         `json:"bookingLink"`
	ReviewLink            string         `json:"reviewLink"`
	PhoneNumber           string         `json:"phoneNumber"`
	ForwardingNumber      string         `json:"forwardingNumber"`
	OutboundNumber        string         `json:"outboundNumber"`
	FromEmail             string         `json:"fromEmail"`
	OwnerEmail            string         `json:"ownerEmail"`
	MissedCallTemplate    string         `json:"missedCallTemplate"`
	ReviewRequestTemplate string         `json:"reviewRequestTemplate"`
	AutoReview            bool           `json:"autoReview"`
	Settings              datatypes.JSON `json:"settings"`
}

func (req *ClientRequest) apply(client *models.Client) {
	client.Name = req.Name
	client.Website = req.Website
	client.BookingLink = req.BookingLink
	client.ReviewLink = req.ReviewLink
	client.PhoneNumber = phone.Normalize(req.PhoneNumber)
	client.ForwardingNumber = phone.Normalize(req.ForwardingNumber)
	client.OutboundNumber = phone.Normalize(req.OutboundNumber)
	client.FromEmail = req.FromEmail
	client.OwnerEmail = req.OwnerEmail
	client.MissedCallTemplate = req.MissedCallTemplate
	client.ReviewRequestTemplate = req.ReviewRequestTemplate
	client.AutoReview = req.AutoReview
	if req.Settings != nil {
		client.Settings = req.Settings
	}
}

// Create creates a new client (admin only). Phone numbers are normalized on
// the way in so webhook routing matches regardless of input formatting.
func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client id is required"})
		return
	}

	existing, err := h.clientRepo.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing client"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Client already exists"})
		return
	}

	client := &models.Client{ID: req.ID}
	req.apply(client)

	if err := h.clientRepo.Create(c.Request.Context(), client); err != nil {
		h.logger.Errorf("Failed to create client: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    client,
	})
}

// Get returns a single client. Admins see any client; other users must be
// linked to it.
func (h *ClientHandler) Get(c *gin.Context) {
	clientID := c.Param("id")

	if c.GetString("role") != string(models.RoleAdmin) {
		profileID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		ok, err := h.profileRepo.HasClientAccess(c.Request.Context(), profileID, clientID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
			return
		}
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
	}

	client, err := h.clientRepo.GetByID(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// List returns all clients (admin only)
func (h *ClientHandler) List(c *gin.Context) {
	clients, total, err := h.clientRepo.List(
		c.Request.Context(),
		parseIntWithDefault(c.Query("limit"), 50),
		parseIntWithDefault(c.Query("offset"), 0),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    clients,
		"pagination": gin.H{
			"total": total,
		},
	})
}

// Update updates a client (admin only)
func (h *ClientHandler) Update(c *gin.Context) {
	clientID := c.Param("id")

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientRepo.GetByID(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	req.apply(client)

	if err := h.clientRepo.Update(c.Request.Context(), client); err != nil {
		h.logger.Errorf("Failed to update client %s: %v", clientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// Delete soft-deletes a client (admin only)
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID := c.Param("id")

	client, err := h.clientRepo.GetByID(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	if err := h.clientRepo.Delete(c.Request.Context(), clientID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Client deleted",
	})
}
