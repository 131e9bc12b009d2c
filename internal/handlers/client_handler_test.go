package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reputation-service/internal/models"
)

func clientTestRouter(clientRepo *mockClientRepo, profileRepo *mockProfileRepo, userID, role string) *gin.Engine {
	handler := NewClientHandler(clientRepo, profileRepo)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
	})
	router.POST("/api/v1/clients", handler.Create)
	router.GET("/api/v1/clients/:id", handler.Get)
	router.PUT("/api/v1/clients/:id", handler.Update)
	return router
}

func TestCreateClientNormalizesPhoneNumbers(t *testing.T) {
	clientRepo := new(mockClientRepo)
	profileRepo := new(mockProfileRepo)

	clientRepo.On("GetByID", mock.Anything, "acme").Return(nil, nil)
	clientRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Client")).Return(nil)

	router := clientTestRouter(clientRepo, profileRepo, uuid.NewString(), "admin")
	w := postJSON(router, "/api/v1/clients", map[string]interface{}{
		"id":               "acme",
		"name":             "Acme Plumbing",
		"phoneNumber":      "289-681-9206",
		"forwardingNumber": "1-416-555-0100",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	client := clientRepo.Calls[1].Arguments.Get(1).(*models.Client)
	assert.Equal(t, "+12896819206", client.PhoneNumber)
	assert.Equal(t, "+14165550100", client.ForwardingNumber)
}

func TestCreateClientDuplicateID(t *testing.T) {
	clientRepo := new(mockClientRepo)
	profileRepo := new(mockProfileRepo)

	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)

	router := clientTestRouter(clientRepo, profileRepo, uuid.NewString(), "admin")
	w := postJSON(router, "/api/v1/clients", map[string]interface{}{
		"id":   "acme",
		"name": "Acme Plumbing",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	clientRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetClientAdminSeesAny(t *testing.T) {
	clientRepo := new(mockClientRepo)
	profileRepo := new(mockProfileRepo)

	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)

	router := clientTestRouter(clientRepo, profileRepo, uuid.NewString(), "admin")
	w := newGetRequest(router, "/api/v1/clients/acme")

	assert.Equal(t, http.StatusOK, w.Code)
	profileRepo.AssertNotCalled(t, "HasClientAccess", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetClientRequiresLinkForNonAdmin(t *testing.T) {
	clientRepo := new(mockClientRepo)
	profileRepo := new(mockProfileRepo)

	userID := uuid.New()
	profileRepo.On("HasClientAccess", mock.Anything, userID, "acme").Return(false, nil)

	router := clientTestRouter(clientRepo, profileRepo, userID.String(), "client")
	w := newGetRequest(router, "/api/v1/clients/acme")

	assert.Equal(t, http.StatusForbidden, w.Code)
	clientRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetClientLinkedNonAdmin(t *testing.T) {
	clientRepo := new(mockClientRepo)
	profileRepo := new(mockProfileRepo)

	userID := uuid.New()
	profileRepo.On("HasClientAccess", mock.Anything, userID, "acme").Return(true, nil)
	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)

	router := clientTestRouter(clientRepo, profileRepo, userID.String(), "client")
	w := newGetRequest(router, "/api/v1/clients/acme")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestUpdateClientNotFound(t *testing.T) {
	clientRepo := new(mockClientRepo)
	profileRepo := new(mockProfileRepo)

	clientRepo.On("GetByID", mock.Anything, "nobody").Return(nil, nil)

	router := clientTestRouter(clientRepo, profileRepo, uuid.NewString(), "admin")
	w := putJSON(router, "/api/v1/clients/nobody", map[string]interface{}{"name": "Renamed"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	clientRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
