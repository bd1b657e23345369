package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/mir2x/herpill-dashboard/internal/request/model"
	"github.com/mir2x/herpill-dashboard/internal/request/model/api"
	"github.com/mir2x/herpill-dashboard/internal/utils"

	userModel "github.com/mir2x/herpill-dashboard/internal/user/model/db"
)

type mockDBStorage struct {
	mock.Mock
}

func (m *mockDBStorage) RegisterAdmin(login, password string) (string, error) {
	return "", nil
}

func (m *mockDBStorage) GetAdminByLoginPassword(login, password string) (string, error) {
	return "", nil
}

func (m *mockDBStorage) GetUsers(offset, limit int) ([]userModel.User, int, error) {
	return nil, 0, nil
}

func (m *mockDBStorage) GetUser(id string) (*userModel.User, error) {
	return nil, nil
}

func (m *mockDBStorage) GetUserRequests(userID string) ([]model.Request, error) {
	return nil, nil
}

func (m *mockDBStorage) GetRequests(category model.Category) ([]model.Request, error) {
	args := m.Called(category)
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *mockDBStorage) GetRequest(category model.Category, id string) (*model.Request, error) {
	return nil, nil
}

func (m *mockDBStorage) SetRequestStatus(category model.Category, id string, status model.ApprovalStatus) error {
	return nil
}

func (m *mockDBStorage) DeleteRequest(category model.Category, id string) error {
	return nil
}

func (m *mockDBStorage) SyncDeliveries(offset, limit int, updF func(ids []string) map[string]model.DeliveryStatus) (int, error) {
	return 0, nil
}

var secret = "test-secret"
var logger = zap.NewExample().Sugar()

func Test_handler_GetStats(t *testing.T) {
	pop := []model.Request{
		{ID: "p1", ApprovalStatus: model.Pending},
		{ID: "p2", ApprovalStatus: model.Pending},
		{ID: "p3", ApprovalStatus: model.Accepted, DeliveryStatus: model.Done},
	}
	cocp := []model.Request{
		{ID: "c1", ApprovalStatus: model.Declined},
	}
	storage := new(mockDBStorage)
	storage.On("GetRequests", model.POP).Return(pop, nil)
	storage.On("GetRequests", model.COCP).Return(cocp, nil)
	h := &handler{db: storage, secret: secret, logger: logger}

	token, err := utils.GetJWTToken("1", secret)
	assert.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	request.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	http.HandlerFunc(h.GetStats).ServeHTTP(w, request)
	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, 200, res.StatusCode)
	var envelope struct {
		Success bool  `json:"success"`
		Data    Stats `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, api.TabCounts{Pending: 2, Delivered: 1}, envelope.Data.POP)
	assert.Equal(t, api.TabCounts{Declined: 1}, envelope.Data.COCP)
}
