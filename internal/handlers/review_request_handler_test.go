package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reputation-service/internal/middleware"
	"reputation-service/internal/models"
)

func reviewRequestTestRouter(clientRepo *mockClientRepo, contactRepo *mockContactRepo, sms *fakeProvider, limiter *middleware.SMSRateLimiter) *gin.Engine {
	handler := NewReviewRequestHandler(clientRepo, contactRepo, NewNotifier(sms, nil), testPolicy(), limiter)
	router := gin.New()
	router.POST("/api/v1/review-requests", handler.Send)
	return router
}

func TestSendReviewRequest(t *testing.T) {
	clientRepo := new(mockClientRepo)
	contactRepo := new(mockContactRepo)
	sms := &fakeProvider{channel: "SMS"}

	contactID := uuid.New()
	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)
	contactRepo.On("GetLatestByPhone", mock.Anything, "acme", "+14165551234").
		Return(&models.CustomerContact{ID: contactID, ClientID: "acme", Phone: "+14165551234"}, nil)
	contactRepo.On("RecordReviewRequest", mock.Anything, contactID).Return(nil)

	router := reviewRequestTestRouter(clientRepo, contactRepo, sms, nil)
	w := postJSON(router, "/api/v1/review-requests", map[string]interface{}{
		"clientId": "acme",
		"name":     "Sam",
		"phone":    "4165551234",
	})

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["sent"])

	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0].Body, "https://g.page/acme/review")
	assert.Contains(t, sms.sent[0].Body, "Sam")

	contactRepo.AssertCalled(t, "RecordReviewRequest", mock.Anything, contactID)
}

func TestSendReviewRequestNoReviewLink(t *testing.T) {
	clientRepo := new(mockClientRepo)
	contactRepo := new(mockContactRepo)
	sms := &fakeProvider{channel: "SMS"}

	client := acmeClient()
	client.ReviewLink = ""
	clientRepo.On("GetByID", mock.Anything, "acme").Return(client, nil)

	router := reviewRequestTestRouter(clientRepo, contactRepo, sms, nil)
	w := postJSON(router, "/api/v1/review-requests", map[string]interface{}{
		"clientId": "acme",
		"phone":    "4165551234",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, sms.sent)
}

func TestSendReviewRequestRecipientRateLimited(t *testing.T) {
	clientRepo := new(mockClientRepo)
	contactRepo := new(mockContactRepo)
	sms := &fakeProvider{channel: "SMS"}

	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)
	contactRepo.On("GetLatestByPhone", mock.Anything, "acme", "+14165551234").Return(nil, nil)

	// No Redis: the limiter falls back to in-memory counters
	limiter := middleware.NewSMSRateLimiterWithConfig(nil, nil, middleware.SMSRateLimitConfig{
		TenantHourlyLimit:   100,
		TenantDailyLimit:    500,
		RecipientDailyLimit: 1,
		RedisKeyPrefix:      "sms:ratelimit:",
	})

	router := reviewRequestTestRouter(clientRepo, contactRepo, sms, limiter)

	payload := map[string]interface{}{
		"clientId": "acme",
		"phone":    "4165551234",
	}

	first := postJSON(router, "/api/v1/review-requests", payload)
	require.Equal(t, http.StatusOK, first.Code)
	require.Len(t, sms.sent, 1)

	second := postJSON(router, "/api/v1/review-requests", payload)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Len(t, sms.sent, 1, "second request must not reach the provider")

	body := decodeBody(t, second)
	assert.Equal(t, "recipient_daily", body["limit_type"])
}

func TestSendReviewRequestFailedSendSkipsCounter(t *testing.T) {
	clientRepo := new(mockClientRepo)
	contactRepo := new(mockContactRepo)
	sms := &fakeProvider{channel: "SMS", fail: true}

	clientRepo.On("GetByID", mock.Anything, "acme").Return(acmeClient(), nil)

	router := reviewRequestTestRouter(clientRepo, contactRepo, sms, nil)
	w := postJSON(router, "/api/v1/review-requests", map[string]interface{}{
		"clientId": "acme",
		"phone":    "4165551234",
	})

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["sent"])
	contactRepo.AssertNotCalled(t, "RecordReviewRequest", mock.Anything, mock.Anything)
}
