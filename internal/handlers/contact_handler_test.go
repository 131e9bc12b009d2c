package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reputation-service/internal/models"
)

func contactTestRouter(clientRepo *mockClientRepo, contactRepo *mockContactRepo, sms *fakeProvider) *gin.Engine {
	handler := NewContactHandler(clientRepo, contactRepo, NewNotifier(sms, nil), testPolicy(), nil)
	router := gin.New()
	router.POST("/api/v1/contacts", handler.Create)
	return router
}

func TestCreateContactAutoReview(t *testing.T) {
	clientRepo := new(mockClientRepo)
	contactRepo := new(mockContactRepo)
	sms := &fakeProvider{channel: "SMS"}

	client := acmeClient()
	client.AutoReview = true
	clientRepo.On("GetByID", mock.Anything, "acme").Return(client, nil)
	contactRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.CustomerContact")).Return(nil)
	contactRepo.On("RecordReviewRequest", mock.Anything, mock.Anything).Return(nil)

	router := contactTestRouter(clientRepo, contactRepo, sms)
	w := postJSON(router, "/api/v1/contacts", map[string]interface{}{
		"clientId": "acme",
		"name":     "Sam",
		"phone":    "416-555-1234",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	contact := contactRepo.Calls[0].Arguments.Get(1).(*models.CustomerContact)
	assert.Equal(t, "+14165551234", contact.Phone)

	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0].Body, "https://g.page/acme/review")
	contactRepo.AssertCalled(t, "RecordReviewRequest", mock.Anything, mock.Anything)
}

func TestCreateContactCounterFailureStaysBestEffort(t *testing.T) {
	clientRepo := new(mockClientRepo)
	contactRepo := new(mockContactRepo)
	sms := &fakeProvider{channel: "SMS"}

	client := acmeClient()
	client.AutoReview = true
	clientRepo.On("GetByID", mock.Anything, "acme").Return(client, nil)
	contactRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.CustomerContact")).Return(nil)
	contactRepo.On("RecordReviewRequest", mock.Anything, mock.Anything).Return(errors.New("db unavailable"))

	router := contactTestRouter(clientRepo, contactRepo, sms)
	w := postJSON(router, "/api/v1/contacts", map[string]interface{}{
		"clientId": "acme",
		"name":     "Sam",
		"phone":    "4165551234",
	})

	// Counter update is advisory; its failure never surfaces to the caller
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, sms.sent, 1)
}

func TestCreateContactAutoReviewDisabled(t *testing.T) {
	clientRepo := new(mockClientRepo)
	contactRepo := new(mockContactRepo)
	sms := &fakeProvider{channel: "SMS"}

	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)
	contactRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.CustomerContact")).Return(nil)

	router := contactTestRouter(clientRepo, contactRepo, sms)
	w := postJSON(router, "/api/v1/contacts", map[string]interface{}{
		"clientId": "acme",
		"name":     "Sam",
		"phone":    "4165551234",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, sms.sent)
	contactRepo.AssertNotCalled(t, "RecordReviewRequest", mock.Anything, mock.Anything)
}

func TestCreateContactUnknownClient(t *testing.T) {
	clientRepo := new(mockClientRepo)
	contactRepo := new(mockContactRepo)
	sms := &fakeProvider{channel: "SMS"}

	clientRepo.On("GetByID", mock.Anything, "nobody").Return(nil, nil)

	router := contactTestRouter(clientRepo, contactRepo, sms)
	w := postJSON(router, "/api/v1/contacts", map[string]interface{}{
		"clientId": "nobody",
		"phone":    "4165551234",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	contactRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
