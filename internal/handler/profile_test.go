package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zerowaste/connect/internal/model"
	"github.com/zerowaste/connect/internal/repository"
)

func TestProfileGet(t *testing.T) {
	store := new(MockAccountStore)
	store.On("GetByID", mock.Anything, uint64(7)).Return(storedRestaurant(t, "secret1"), nil)
	h := NewProfileHandler(store)

	c, rec := authedContext(http.MethodGet, "/api/profile", "", 7, model.RoleRestaurant)
	require.NoError(t, h.Get(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"r1@x.com"`)
	assert.Contains(t, rec.Body.String(), `"cafe"`)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestProfileUpdateForwardsPatch(t *testing.T) {
	updated := storedRestaurant(t, "secret1")
	updated.Phone = "555-9999"

	store := new(MockAccountStore)
	store.On("Update", mock.Anything, uint64(7),
		mock.MatchedBy(func(p repository.AccountPatch) bool {
			return p.Phone != nil && *p.Phone == "555-9999" &&
				p.Password != nil && *p.Password == "newsecret"
		})).Return(updated, nil)
	h := NewProfileHandler(store)

	body := `{"phone":"555-9999","password":"newsecret"}`
	c, rec := authedContext(http.MethodPatch, "/api/profile", body, 7, model.RoleRestaurant)
	require.NoError(t, h.Update(c))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "555-9999")
	store.AssertExpectations(t)
}

func TestProfileUpdateRoleMismatch(t *testing.T) {
	store := new(MockAccountStore)
	store.On("Update", mock.Anything, uint64(7), mock.Anything).
		Return(model.Account{}, &model.ValidationError{Field: "ngoType", Message: "ngoType does not apply to restaurant accounts"})
	h := NewProfileHandler(store)

	c, rec := authedContext(http.MethodPatch, "/api/profile", `{"ngoType":"food bank"}`, 7, model.RoleRestaurant)
	require.NoError(t, h.Update(c))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ngoType")
}

func TestProfileGetNotFound(t *testing.T) {
	store := new(MockAccountStore)
	store.On("GetByID", mock.Anything, uint64(7)).
		Return(model.Account{}, repository.ErrNotFound)
	h := NewProfileHandler(store)

	c, rec := authedContext(http.MethodGet, "/api/profile", "", 7, model.RoleRestaurant)
	require.NoError(t, h.Get(c))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
