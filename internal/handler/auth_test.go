package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zerowaste/connect/internal/auth"
	"github.com/zerowaste/connect/internal/config"
	"github.com/zerowaste/connect/internal/model"
	"github.com/zerowaste/connect/internal/repository"
)

// MockAccountStore is a testify mock of the AccountStore interface.
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Create(ctx context.Context, a *model.Account, rawPassword string) error {
	args := m.Called(ctx, a, rawPassword)
	return args.Error(0)
}

func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockAccountStore) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockAccountStore) Update(ctx context.Context, id uint64, patch repository.AccountPatch) (model.Account, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Account), args.Error(1)
}

var testCfg = config.Config{
	Env:          "test",
	JWTSecret:    "test-secret",
	AccessTTLMin: 60,
	BcryptCost:   auth.DefaultBcryptCost,
}

func postJSON(t *testing.T, h echo.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

const registerRestaurantBody = `{
	"name": "R1", "email": "r1@x.com", "password": "secret1", "role": "restaurant",
	"phone": "555-0101", "address": "1 Main St", "city": "Springfield", "zipCode": "12345",
	"restaurantType": "cafe", "operatingHours": "9-5"
}`

func TestRegisterRestaurant(t *testing.T) {
	store := new(MockAccountStore)
	store.On("Create", mock.Anything, mock.AnythingOfType("*model.Account"), "secret1").
		Run(func(args mock.Arguments) {
			a := args.Get(1).(*model.Account)
			a.ID = 1
		}).
		Return(nil)
	h := NewAuthHandler(testCfg, store)

	rec := postJSON(t, h.Register, "/api/auth/register", registerRestaurantBody)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"token"`)
	assert.Contains(t, rec.Body.String(), `"r1@x.com"`)
	assert.NotContains(t, rec.Body.String(), "secret1")

	// The token must be a genuine signed claim set, not a placeholder.
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := auth.ParseAccessToken(testCfg.JWTSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.AccountID)
	assert.Equal(t, model.RoleRestaurant, claims.Role)

	store.AssertExpectations(t)
}

func TestRegisterNGOMissingBeneficiaries(t *testing.T) {
	store := new(MockAccountStore)
	h := NewAuthHandler(testCfg, store)

	body := `{
		"name": "N1", "email": "n1@x.com", "password": "secret1", "role": "ngo",
		"phone": "555-0102", "address": "2 Side St", "city": "Springfield", "zipCode": "12345",
		"ngoType": "food bank", "serviceArea": "downtown"
	}`
	rec := postJSON(t, h.Register, "/api/auth/register", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "beneficiariesServed")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterShortPassword(t *testing.T) {
	store := new(MockAccountStore)
	h := NewAuthHandler(testCfg, store)

	body := strings.Replace(registerRestaurantBody, "secret1", "12345", 1)
	rec := postJSON(t, h.Register, "/api/auth/register", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterRoleFieldMismatch(t *testing.T) {
	store := new(MockAccountStore)
	h := NewAuthHandler(testCfg, store)

	// Restaurant registration carrying NGO fields must be rejected.
	body := strings.Replace(registerRestaurantBody,
		`"restaurantType": "cafe", "operatingHours": "9-5"`,
		`"ngoType": "food bank", "serviceArea": "downtown", "beneficiariesServed": 10`, 1)
	rec := postJSON(t, h.Register, "/api/auth/register", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := new(MockAccountStore)
	store.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrEmailExists)
	h := NewAuthHandler(testCfg, store)

	rec := postJSON(t, h.Register, "/api/auth/register", registerRestaurantBody)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already exists")
}

func storedRestaurant(t *testing.T, password string) model.Account {
	t.Helper()
	hash, err := auth.HashPassword(password, auth.DefaultBcryptCost)
	require.NoError(t, err)
	return model.Account{
		ID:           7,
		Name:         "R1",
		Email:        "r1@x.com",
		PasswordHash: hash,
		Role:         model.RoleRestaurant,
		Phone:        "555-0101",
		Address:      "1 Main St",
		City:         "Springfield",
		ZipCode:      "12345",
		Restaurant:   &model.RestaurantProfile{RestaurantType: "cafe", OperatingHours: "9-5"},
	}
}

func TestLoginSuccess(t *testing.T) {
	store := new(MockAccountStore)
	store.On("GetByEmail", mock.Anything, "r1@x.com").Return(storedRestaurant(t, "secret1"), nil)
	h := NewAuthHandler(testCfg, store)

	rec := postJSON(t, h.Login, "/api/auth/login", `{"email":"R1@X.com","password":"secret1"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := auth.ParseAccessToken(testCfg.JWTSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.AccountID)
}

// Unknown email and wrong password must be indistinguishable to the
// caller so the login endpoint cannot be used to enumerate emails.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	unknown := new(MockAccountStore)
	unknown.On("GetByEmail", mock.Anything, "ghost@x.com").
		Return(model.Account{}, repository.ErrNotFound)
	hUnknown := NewAuthHandler(testCfg, unknown)
	recUnknown := postJSON(t, hUnknown.Login, "/api/auth/login", `{"email":"ghost@x.com","password":"secret1"}`)

	known := new(MockAccountStore)
	known.On("GetByEmail", mock.Anything, "r1@x.com").Return(storedRestaurant(t, "secret1"), nil)
	hKnown := NewAuthHandler(testCfg, known)
	recWrong := postJSON(t, hKnown.Login, "/api/auth/login", `{"email":"r1@x.com","password":"not-it"}`)

	require.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	require.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, recUnknown.Body.String(), recWrong.Body.String())
}

func TestLoginMalformedStoredHash(t *testing.T) {
	a := storedRestaurant(t, "secret1")
	a.PasswordHash = "not-a-bcrypt-hash"
	store := new(MockAccountStore)
	store.On("GetByEmail", mock.Anything, "r1@x.com").Return(a, nil)
	h := NewAuthHandler(testCfg, store)

	rec := postJSON(t, h.Login, "/api/auth/login", `{"email":"r1@x.com","password":"secret1"}`)

	// Infrastructure failure, not an authentication failure; nothing
	// internal leaks to the caller.
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
	assert.NotContains(t, rec.Body.String(), "bcrypt")
}

func TestLoginMissingFields(t *testing.T) {
	h := NewAuthHandler(testCfg, new(MockAccountStore))
	rec := postJSON(t, h.Login, "/api/auth/login", `{"email":"","password":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
