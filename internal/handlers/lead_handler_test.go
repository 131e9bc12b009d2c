package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reputation-service/internal/models"
)

func leadTestRouter(clientRepo *mockClientRepo, leadRepo *mockLeadRepo, sms *fakeProvider) *gin.Engine {
	handler := NewLeadHandler(clientRepo, leadRepo, NewNotifier(sms, nil), testPolicy(), nil)
	router := gin.New()
	router.POST("/api/v1/leads", handler.Create)
	router.GET("/api/v1/clients/:id/leads", handler.ListByClient)
	return router
}

func TestCreateLead(t *testing.T) {
	clientRepo := new(mockClientRepo)
	leadRepo := new(mockLeadRepo)
	sms := &fakeProvider{channel: "SMS"}

	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)
	leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Lead")).Return(nil)

	router := leadTestRouter(clientRepo, leadRepo, sms)
	w := postJSON(router, "/api/v1/leads", map[string]interface{}{
		"clientId": "acme",
		"name":     "Jo",
		"phone":    "4165551234",
		"message":  "Leaky faucet",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	lead := leadRepo.Calls[0].Arguments.Get(1).(*models.Lead)
	assert.Equal(t, models.SourceWebsiteForm, lead.Source)
	assert.Equal(t, "+14165551234", lead.Phone)

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+14165551234", sms.sent[0].To)
	assert.Contains(t, sms.sent[0].Body, "Jo")
	assert.Contains(t, sms.sent[0].Body, "https://book.acme.example/slots")
}

func TestCreateLeadUnknownClient(t *testing.T) {
	clientRepo := new(mockClientRepo)
	leadRepo := new(mockLeadRepo)
	sms := &fakeProvider{channel: "SMS"}

	clientRepo.On("GetByID", mock.Anything, "nobody").Return(nil, nil)

	router := leadTestRouter(clientRepo, leadRepo, sms)
	w := postJSON(router, "/api/v1/leads", map[string]interface{}{
		"clientId": "nobody",
		"name":     "Jo",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	leadRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, sms.sent)
}

func TestCreateLeadNoPhoneSkipsSMS(t *testing.T) {
	clientRepo := new(mockClientRepo)
	leadRepo := new(mockLeadRepo)
	sms := &fakeProvider{channel: "SMS"}

	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)
	leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Lead")).Return(nil)

	router := leadTestRouter(clientRepo, leadRepo, sms)
	w := postJSON(router, "/api/v1/leads", map[string]interface{}{
		"clientId": "acme",
		"name":     "Jo",
		"email":    "jo@example.com",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, sms.sent)
}

func TestCreateLeadSurvivesSendFailure(t *testing.T) {
	clientRepo := new(mockClientRepo)
	leadRepo := new(mockLeadRepo)
	sms := &fakeProvider{channel: "SMS", fail: true}

	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)
	leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Lead")).Return(nil)

	router := leadTestRouter(clientRepo, leadRepo, sms)
	w := postJSON(router, "/api/v1/leads", map[string]interface{}{
		"clientId": "acme",
		"name":     "Jo",
		"phone":    "4165551234",
	})

	// The lead is recorded even when the auto-response cannot be delivered
	assert.Equal(t, http.StatusCreated, w.Code)
	leadRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*models.Lead"))
}

func TestListLeadsByClient(t *testing.T) {
	clientRepo := new(mockClientRepo)
	leadRepo := new(mockLeadRepo)
	sms := &fakeProvider{channel: "SMS"}

	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)
	leadRepo.On("ListByClient", mock.Anything, "acme", 50, 0).
		Return([]models.Lead{{ClientID: "acme", Name: "Jo"}}, int64(1), nil)

	router := leadTestRouter(clientRepo, leadRepo, sms)
	req := newGetRequest(router, "/api/v1/clients/acme/leads")

	require.Equal(t, http.StatusOK, req.Code)
	body := decodeBody(t, req)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)
}
