package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"reputation-service/internal/models"
	"reputation-service/internal/notify"
	"reputation-service/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProvider captures sent messages instead of talking to a real channel
type fakeProvider struct {
	channel string
	fail    bool
	sent    []*services.Message
}

func (f *fakeProvider) Send(ctx context.Context, m *services.Message) (*services.SendResult, error) {
	if f.fail {
		err := errors.New("provider unavailable")
		return &services.SendResult{ProviderName: "fake", Success: false, Error: err}, err
	}
	f.sent = append(f.sent, m)
	return &services.SendResult{ProviderID: uuid.NewString(), ProviderName: "fake", Success: true}, nil
}

func (f *fakeProvider) GetName() string { return "fake" }

func (f *fakeProvider) SupportsChannel() string { return f.channel }

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) Create(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *mockClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) GetByPhoneNumber(ctx context.Context, phone string) (*models.Client, error) {
	args := m.Called(ctx, phone)
	if c := args.Get(0); c != nil {
		return c.(*models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) List(ctx context.Context, limit, offset int) ([]models.Client, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Client), args.Get(1).(int64), args.Error(2)
}

func (m *mockClientRepo) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *mockClientRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) Create(ctx context.Context, lead *models.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *mockLeadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	args := m.Called(ctx, id)
	if l := args.Get(0); l != nil {
		return l.(*models.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]models.Lead, int64, error) {
	args := m.Called(ctx, clientID, limit, offset)
	return args.Get(0).([]models.Lead), args.Get(1).(int64), args.Error(2)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReviewRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]models.Review, int64, error) {
	args := m.Called(ctx, clientID, limit, offset)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) Create(ctx context.Context, contact *models.CustomerContact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *mockContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomerContact, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.CustomerContact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactRepo) GetLatestByPhone(ctx context.Context, clientID, phone string) (*models.CustomerContact, error) {
	args := m.Called(ctx, clientID, phone)
	if c := args.Get(0); c != nil {
		return c.(*models.CustomerContact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]models.CustomerContact, int64, error) {
	args := m.Called(ctx, clientID, limit, offset)
	return args.Get(0).([]models.CustomerContact), args.Get(1).(int64), args.Error(2)
}

func (m *mockContactRepo) RecordReviewRequest(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	if p := args.Get(0); p != nil {
		return p.(*models.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProfileRepo) LinkToClient(ctx context.Context, profileID uuid.UUID, clientID string) error {
	args := m.Called(ctx, profileID, clientID)
	return args.Error(0)
}

func (m *mockProfileRepo) UnlinkFromClient(ctx context.Context, profileID uuid.UUID, clientID string) error {
	args := m.Called(ctx, profileID, clientID)
	return args.Error(0)
}

func (m *mockProfileRepo) ListByClient(ctx context.Context, clientID string) ([]models.Profile, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *mockProfileRepo) HasClientAccess(ctx context.Context, profileID uuid.UUID, clientID string) (bool, error) {
	args := m.Called(ctx, profileID, clientID)
	return args.Bool(0), args.Error(1)
}

func testPolicy() *notify.Policy {
	return &notify.Policy{
		DefaultFromNumber: "+15550000000",
		DefaultFromEmail:  "noreply@example.com",
		DefaultFromName:   "Reputation Service",
	}
}

func acmeClient() *models.Client {
	return &models.Client{
		ID:               "acme",
		Name:             "Acme Plumbing",
		BookingLink:      "https://book.acme.example/slots",
		ReviewLink:       "https://g.page/acme/review",
		PhoneNumber:      "+12896819206",
		ForwardingNumber: "+14165550100",
		OwnerEmail:       "owner@acme.example",
	}
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	return sendJSON(router, http.MethodPost, path, body)
}

func putJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	return sendJSON(router, http.MethodPut, path, body)
}

func sendJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newGetRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}
