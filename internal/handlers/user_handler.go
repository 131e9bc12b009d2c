package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"reputation-service/internal/models"
	"reputation-service/internal/repository"
)

// UserHandler handles client user provisioning (admin only)
type UserHandler struct {
	clientRepo  repository.ClientRepository
	profileRepo repository.ProfileRepository
	logger      *logrus.Entry
}

// NewUserHandler creates a new user handler
func NewUserHandler(clientRepo repository.ClientRepository, profileRepo repository.ProfileRepository) *UserHandler {
	return &UserHandler{
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		logger:      logrus.WithField("component", "user_handler"),
	}
}

// CreateUserRequest provisions a user for a client
type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// Create provisions a profile and links it to the client. If the profile
// already exists it is only linked. When linking a freshly created profile
// fails, the profile is removed again so a retry starts clean.
func (h *UserHandler) Create(c *gin.Context) {
	clientID := c.Param("id")

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientRepo.GetByID(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RoleClient
	}
	if role != models.RoleAdmin && role != models.RoleClient {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	profile, err := h.profileRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up profile"})
		return
	}

	created := false
	if profile == nil {
		profile = &models.Profile{
			Email: req.Email,
			Role:  role,
		}
		if err := h.profileRepo.Create(c.Request.Context(), profile); err != nil {
			h.logger.Errorf("Failed to create profile: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		created = true
	}

	if err := h.profileRepo.LinkToClient(c.Request.Context(), profile.ID, clientID); err != nil {
		h.logger.Errorf("Failed to link profile %s to client %s: %v", profile.ID, clientID, err)
		if created {
			if delErr := h.profileRepo.Delete(c.Request.Context(), profile.ID); delErr != nil {
				h.logger.Warnf("Failed to clean up profile %s after link failure: %v", profile.ID, delErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link user to client"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"success": true,
		"data":    profile,
	})
}

// ListByClient returns the users linked to a client
func (h *UserHandler) ListByClient(c *gin.Context) {
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

	profiles, err := h.profileRepo.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profiles,
	})
}

// Unlink removes a user's access to a client. The profile itself stays.
func (h *UserHandler) Unlink(c *gin.Context) {
	clientID := c.Param("id")

	profileID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := h.profileRepo.UnlinkFromClient(c.Request.Context(), profileID, clientID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlink user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User unlinked",
	})
}
