package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zerowaste/connect/internal/middleware"
	"github.com/zerowaste/connect/internal/repository"
)

// ProfileHandler serves the authenticated account's own record.
type ProfileHandler struct {
	Accounts AccountStore
}

func NewProfileHandler(accounts AccountStore) *ProfileHandler {
	return &ProfileHandler{Accounts: accounts}
}

type updateProfileReq struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	ZipCode *string `json:"zipCode"`

	// A new raw password; the stored hash is rewritten only when set.
	Password *string `json:"password"`

	RestaurantType *string `json:"restaurantType"`
	OperatingHours *string `json:"operatingHours"`

	NGOType             *string `json:"ngoType"`
	ServiceArea         *string `json:"serviceArea"`
	BeneficiariesServed *int    `json:"beneficiariesServed"`
}

// Get returns the authenticated account.
func (h *ProfileHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, middleware.AccountID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAccountResp(a))
}

// Update applies a partial update to the authenticated account. Email
// and role are immutable; role-conditional fields are re-validated.
func (h *ProfileHandler) Update(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch := repository.AccountPatch{
		Name:                req.Name,
		Phone:               req.Phone,
		Address:             req.Address,
		City:                req.City,
		ZipCode:             req.ZipCode,
		Password:            req.Password,
		RestaurantType:      req.RestaurantType,
		OperatingHours:      req.OperatingHours,
		NGOType:             req.NGOType,
		ServiceArea:         req.ServiceArea,
		BeneficiariesServed: req.BeneficiariesServed,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Accounts.Update(ctx, middleware.AccountID(c), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAccountResp(a))
}
