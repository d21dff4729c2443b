// Package handler implements the HTTP endpoints of the API. Handlers
// depend on small store interfaces so they can be tested without a
// database.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zerowaste/connect/internal/auth"
	"github.com/zerowaste/connect/internal/config"
	"github.com/zerowaste/connect/internal/middleware"
	"github.com/zerowaste/connect/internal/model"
	"github.com/zerowaste/connect/internal/repository"
)

// AccountStore is the persistence surface the auth and profile
// handlers need. *repository.AccountRepo implements it.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account, rawPassword string) error
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByID(ctx context.Context, id uint64) (model.Account, error)
	Update(ctx context.Context, id uint64, patch repository.AccountPatch) (model.Account, error)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts AccountStore
}

func NewAuthHandler(cfg config.Config, accounts AccountStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // restaurant | ngo
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zipCode"`

	RestaurantType *string `json:"restaurantType"`
	OperatingHours *string `json:"operatingHours"`

	NGOType             *string `json:"ngoType"`
	ServiceArea         *string `json:"serviceArea"`
	BeneficiariesServed *int    `json:"beneficiariesServed"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`

	RestaurantType *string `json:"restaurantType,omitempty"`
	OperatingHours *string `json:"operatingHours,omitempty"`

	NGOType             *string `json:"ngoType,omitempty"`
	ServiceArea         *string `json:"serviceArea,omitempty"`
	BeneficiariesServed *int    `json:"beneficiariesServed,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type authResp struct {
	Token   string      `json:"token"`
	Expires time.Time   `json:"expires"`
	Account accountResp `json:"account"`
}

func newAccountResp(a model.Account) accountResp {
	resp := accountResp{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		Phone:     a.Phone,
		Address:   a.Address,
		City:      a.City,
		ZipCode:   a.ZipCode,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Restaurant != nil {
		resp.RestaurantType = &a.Restaurant.RestaurantType
		resp.OperatingHours = &a.Restaurant.OperatingHours
	}
	if a.NGO != nil {
		resp.NGOType = &a.NGO.NGOType
		resp.ServiceArea = &a.NGO.ServiceArea
		resp.BeneficiariesServed = &a.NGO.BeneficiariesServed
	}
	return resp
}

// accountFromRegister builds the domain record with the role-matching
// profile. Profile fields for the other role are passed through so
// validation can reject the mix.
func accountFromRegister(req registerReq) (model.Account, error) {
	a := model.Account{
		Name:    strings.TrimSpace(req.Name),
		Email:   model.NormalizeEmail(req.Email),
		Role:    model.Role(strings.ToLower(strings.TrimSpace(req.Role))),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
		ZipCode: strings.TrimSpace(req.ZipCode),
	}
	if req.RestaurantType != nil || req.OperatingHours != nil {
		a.Restaurant = &model.RestaurantProfile{
			RestaurantType: deref(req.RestaurantType),
			OperatingHours: deref(req.OperatingHours),
		}
	}
	if req.NGOType != nil || req.ServiceArea != nil || req.BeneficiariesServed != nil {
		if a.Role == model.RoleNGO && req.BeneficiariesServed == nil {
			return model.Account{}, &model.ValidationError{
				Field: "beneficiariesServed", Message: "beneficiariesServed is required",
			}
		}
		a.NGO = &model.NGOProfile{
			NGOType:     deref(req.NGOType),
			ServiceArea: deref(req.ServiceArea),
		}
		if req.BeneficiariesServed != nil {
			a.NGO.BeneficiariesServed = *req.BeneficiariesServed
		}
	}
	return a, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Register creates an account and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	a, err := accountFromRegister(req)
	if err != nil {
		return writeError(c, err)
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		return writeError(c, err)
	}
	if err := a.Validate(); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Accounts.Create(ctx, &a, req.Password); err != nil {
		return writeError(c, err)
	}

	token, exp, err := auth.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		log.Printf("auth: issue token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, authResp{Token: token, Expires: exp, Account: newAccountResp(a)})
}

// Login verifies credentials and returns a fresh token. An unknown
// email and a wrong password produce the identical response so callers
// cannot probe which emails are registered.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = model.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidCredentials(c)
		}
		return writeError(c, err)
	}
	ok, err := auth.VerifyPassword(a.PasswordHash, req.Password)
	if err != nil {
		// Hashing subsystem failure, not a wrong password.
		log.Printf("auth: verify failed for account %d: %v", a.ID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !ok {
		return invalidCredentials(c)
	}

	token, exp, err := auth.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		log.Printf("auth: issue token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, authResp{Token: token, Expires: exp, Account: newAccountResp(a)})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, middleware.AccountID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAccountResp(a))
}

func invalidCredentials(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
}
