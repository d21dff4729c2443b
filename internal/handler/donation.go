package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zerowaste/connect/internal/middleware"
	"github.com/zerowaste/connect/internal/model"
	"github.com/zerowaste/connect/internal/queue"
	"github.com/zerowaste/connect/internal/repository"
)

// DonationStore is the persistence surface the donation handlers need.
// *repository.DonationRepo implements it.
type DonationStore interface {
	Create(ctx context.Context, d *model.Donation) error
	GetByID(ctx context.Context, id uint64) (model.Donation, error)
	List(ctx context.Context, status *model.DonationStatus) ([]model.Donation, error)
	UpdateStatus(ctx context.Context, id uint64, next model.DonationStatus, actorID uint64, actorRole model.Role) (model.Donation, error)
	UpdateContent(ctx context.Context, id, actorID uint64, patch repository.DonationPatch) (model.Donation, error)
}

// ClaimPublisher announces claimed donations to the message broker.
// A nil publisher disables the announcements.
type ClaimPublisher interface {
	PublishDonationClaimed(ctx context.Context, ev queue.DonationClaimedEvent) error
}

// DonationHandler bundles dependencies for the donation endpoints.
type DonationHandler struct {
	Donations DonationStore
	Events    ClaimPublisher
}

func NewDonationHandler(donations DonationStore, events ClaimPublisher) *DonationHandler {
	return &DonationHandler{Donations: donations, Events: events}
}

// ----- DTOs -----

type createDonationReq struct {
	FoodType        string  `json:"foodType"`
	FoodDescription string  `json:"foodDescription"`
	Quantity        float64 `json:"quantity"`
	QuantityUnit    string  `json:"quantityUnit"`
	EstimatedMeals  *int    `json:"estimatedMeals"`
	PickupDate      string  `json:"pickupDate"`
	PickupStartTime string  `json:"pickupStartTime"`
	PickupEndTime   string  `json:"pickupEndTime"`
	AllergenInfo    *string `json:"allergenInfo"`
	DietaryInfo     *string `json:"dietaryInfo"`
	AdditionalInfo  *string `json:"additionalInfo"`
}

type updateDonationReq struct {
	Status *string `json:"status"`

	FoodType        *string  `json:"foodType"`
	FoodDescription *string  `json:"foodDescription"`
	Quantity        *float64 `json:"quantity"`
	QuantityUnit    *string  `json:"quantityUnit"`
	EstimatedMeals  *int     `json:"estimatedMeals"`
	PickupDate      *string  `json:"pickupDate"`
	PickupStartTime *string  `json:"pickupStartTime"`
	PickupEndTime   *string  `json:"pickupEndTime"`
	AllergenInfo    *string  `json:"allergenInfo"`
	DietaryInfo     *string  `json:"dietaryInfo"`
	AdditionalInfo  *string  `json:"additionalInfo"`
}

type donationResp struct {
	ID              uint64    `json:"id"`
	RestaurantID    uint64    `json:"restaurantId"`
	FoodType        string    `json:"foodType"`
	FoodDescription string    `json:"foodDescription"`
	Quantity        float64   `json:"quantity"`
	QuantityUnit    string    `json:"quantityUnit"`
	EstimatedMeals  *int      `json:"estimatedMeals,omitempty"`
	PickupDate      string    `json:"pickupDate"`
	PickupWindow    string    `json:"pickupWindow"`
	AllergenInfo    *string   `json:"allergenInfo,omitempty"`
	DietaryInfo     *string   `json:"dietaryInfo,omitempty"`
	AdditionalInfo  *string   `json:"additionalInfo,omitempty"`
	Status          string    `json:"status"`
	ClaimedBy       *uint64   `json:"claimedBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newDonationResp(d model.Donation) donationResp {
	return donationResp{
		ID:              d.ID,
		RestaurantID:    d.RestaurantID,
		FoodType:        d.FoodType,
		FoodDescription: d.FoodDescription,
		Quantity:        d.Quantity,
		QuantityUnit:    d.QuantityUnit,
		EstimatedMeals:  d.EstimatedMeals,
		PickupDate:      d.PickupDate,
		PickupWindow:    d.PickupWindow,
		AllergenInfo:    d.AllergenInfo,
		DietaryInfo:     d.DietaryInfo,
		AdditionalInfo:  d.AdditionalInfo,
		Status:          string(d.Status),
		ClaimedBy:       d.ClaimedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// List returns all donations, optionally filtered with ?status=.
func (h *DonationHandler) List(c echo.Context) error {
	var status *model.DonationStatus
	if s := c.QueryParam("status"); s != "" {
		st := model.DonationStatus(s)
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		status = &st
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	donations, err := h.Donations.List(ctx, status)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]donationResp, 0, len(donations))
	for _, d := range donations {
		out = append(out, newDonationResp(d))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single donation by id.
func (h *DonationHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Donations.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newDonationResp(d))
}

// Create posts a new donation for the authenticated restaurant. The
// pickup window is derived from the start and end time strings.
func (h *DonationHandler) Create(c echo.Context) error {
	var req createDonationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	d := model.Donation{
		RestaurantID:    middleware.AccountID(c),
		FoodType:        req.FoodType,
		FoodDescription: req.FoodDescription,
		Quantity:        req.Quantity,
		QuantityUnit:    req.QuantityUnit,
		EstimatedMeals:  req.EstimatedMeals,
		PickupDate:      req.PickupDate,
		PickupWindow:    model.FormatPickupWindow(req.PickupStartTime, req.PickupEndTime),
		AllergenInfo:    req.AllergenInfo,
		DietaryInfo:     req.DietaryInfo,
		AdditionalInfo:  req.AdditionalInfo,
		Status:          model.StatusAvailable,
	}
	if req.PickupStartTime == "" || req.PickupEndTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pickupStartTime and pickupEndTime are required"})
	}
	if err := d.Validate(); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Donations.Create(ctx, &d); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newDonationResp(d))
}

// Update handles PATCH /api/donations/:id. A body carrying "status"
// moves the donation through its lifecycle; any other body edits the
// posting's content.
func (h *DonationHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateDonationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	if req.Status != nil {
		return h.updateStatus(c, id, *req.Status)
	}
	return h.updateContent(c, id, req)
}

func (h *DonationHandler) updateStatus(c echo.Context, id uint64, status string) error {
	next := model.DonationStatus(status)
	if !next.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	actorID := middleware.AccountID(c)
	actorRole := model.Role(middleware.Role(c))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Donations.UpdateStatus(ctx, id, next, actorID, actorRole)
	if err != nil {
		return writeError(c, err)
	}

	if next == model.StatusClaimed && h.Events != nil {
		ev := queue.DonationClaimedEvent{
			DonationID:   d.ID,
			RestaurantID: d.RestaurantID,
			NGOID:        actorID,
			FoodType:     d.FoodType,
			Quantity:     d.Quantity,
			QuantityUnit: d.QuantityUnit,
			PickupDate:   d.PickupDate,
			PickupWindow: d.PickupWindow,
			ClaimedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		// Best effort; a broker outage must not fail the claim.
		if err := h.Events.PublishDonationClaimed(ctx, ev); err != nil {
			log.Printf("donation: publish claim event failed: %v", err)
		}
	}
	return c.JSON(http.StatusOK, newDonationResp(d))
}

func (h *DonationHandler) updateContent(c echo.Context, id uint64, req updateDonationReq) error {
	patch := repository.DonationPatch{
		FoodType:        req.FoodType,
		FoodDescription: req.FoodDescription,
		Quantity:        req.Quantity,
		QuantityUnit:    req.QuantityUnit,
		EstimatedMeals:  req.EstimatedMeals,
		PickupDate:      req.PickupDate,
		AllergenInfo:    req.AllergenInfo,
		DietaryInfo:     req.DietaryInfo,
		AdditionalInfo:  req.AdditionalInfo,
	}
	if (req.PickupStartTime != nil) != (req.PickupEndTime != nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pickupStartTime and pickupEndTime must be supplied together"})
	}
	if req.PickupStartTime != nil && req.PickupEndTime != nil {
		w := model.FormatPickupWindow(*req.PickupStartTime, *req.PickupEndTime)
		patch.PickupWindow = &w
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Donations.UpdateContent(ctx, id, middleware.AccountID(c), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newDonationResp(d))
}

func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
