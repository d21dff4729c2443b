package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/zerowaste/connect/internal/database"
	"github.com/zerowaste/connect/internal/model"
)

const donationColumns = `id, restaurant_id, food_type, food_description, quantity, quantity_unit,
	estimated_meals, pickup_date, pickup_window, allergen_info, dietary_info, additional_info,
	status, claimed_by, created_at, updated_at`

// DonationRepo persists donation postings and enforces the forward-only
// status lifecycle transactionally.
type DonationRepo struct {
	store *database.Store
}

// NewDonationRepo returns a DonationRepo bound to the given store.
func NewDonationRepo(store *database.Store) *DonationRepo {
	return &DonationRepo{store: store}
}

// DonationPatch describes a partial content update of an available
// donation. Nil fields are left untouched.
type DonationPatch struct {
	FoodType        *string
	FoodDescription *string
	Quantity        *float64
	QuantityUnit    *string
	EstimatedMeals  *int
	PickupDate      *string
	PickupWindow    *string
	AllergenInfo    *string
	DietaryInfo     *string
	AdditionalInfo  *string
}

// Create validates and inserts a new posting. The status always starts
// as available regardless of what the caller set.
func (r *DonationRepo) Create(ctx context.Context, d *model.Donation) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	d.Status = model.StatusAvailable
	if err := d.Validate(); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO donations
			(restaurant_id, food_type, food_description, quantity, quantity_unit,
			 estimated_meals, pickup_date, pickup_window, allergen_info, dietary_info,
			 additional_info, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		d.RestaurantID, d.FoodType, d.FoodDescription, d.Quantity, d.QuantityUnit,
		nullableInt(d.EstimatedMeals), d.PickupDate, d.PickupWindow,
		nullableStr(d.AllergenInfo), nullableStr(d.DietaryInfo), nullableStr(d.AdditionalInfo),
		string(d.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)

	stored, err := r.getByID(ctx, db, d.ID)
	if err != nil {
		return err
	}
	*d = stored
	return nil
}

// GetByID fetches one donation.
func (r *DonationRepo) GetByID(ctx context.Context, id uint64) (model.Donation, error) {
	db, err := r.store.DB()
	if err != nil {
		return model.Donation{}, err
	}
	return r.getByID(ctx, db, id)
}

func (r *DonationRepo) getByID(ctx context.Context, db *sql.DB, id uint64) (model.Donation, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+donationColumns+" FROM donations WHERE id=? LIMIT 1", id)
	d, err := scanDonation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Donation{}, ErrNotFound
	}
	return d, err
}

// List returns donations, newest first, optionally filtered by status.
func (r *DonationRepo) List(ctx context.Context, status *model.DonationStatus) ([]model.Donation, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	q := "SELECT " + donationColumns + " FROM donations"
	var args []any
	if status != nil {
		q += " WHERE status=?"
		args = append(args, string(*status))
	}
	q += " ORDER BY created_at DESC"

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateStatus moves a donation one step forward in its lifecycle. The
// current status is locked for the duration of the transaction so two
// NGOs cannot claim the same posting. Claiming is reserved for NGOs and
// records the claimant; completing is allowed to the owning restaurant
// or the claiming NGO.
func (r *DonationRepo) UpdateStatus(ctx context.Context, id uint64, next model.DonationStatus, actorID uint64, actorRole model.Role) (model.Donation, error) {
	if !next.Valid() {
		return model.Donation{}, ErrInvalidTransition
	}
	db, err := r.store.DB()
	if err != nil {
		return model.Donation{}, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Donation{}, err
	}
	defer tx.Rollback()

	var (
		cur          string
		restaurantID uint64
		claimedBy    sql.NullInt64
	)
	err = tx.QueryRowContext(ctx,
		"SELECT status, restaurant_id, claimed_by FROM donations WHERE id=? FOR UPDATE", id).
		Scan(&cur, &restaurantID, &claimedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Donation{}, ErrNotFound
	}
	if err != nil {
		return model.Donation{}, err
	}
	if !model.DonationStatus(cur).CanTransition(next) {
		return model.Donation{}, ErrInvalidTransition
	}

	newClaimedBy := claimedBy
	switch next {
	case model.StatusClaimed:
		if actorRole != model.RoleNGO {
			return model.Donation{}, ErrForbidden
		}
		newClaimedBy = sql.NullInt64{Int64: int64(actorID), Valid: true}
	case model.StatusCompleted:
		owner := actorID == restaurantID
		claimant := claimedBy.Valid && uint64(claimedBy.Int64) == actorID
		if !owner && !claimant {
			return model.Donation{}, ErrForbidden
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE donations SET status=?, claimed_by=? WHERE id=?",
		string(next), newClaimedBy, id)
	if err != nil {
		return model.Donation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Donation{}, err
	}
	return r.getByID(ctx, db, id)
}

// UpdateContent edits an available posting. Only the owning restaurant
// may edit, and not after the donation has been claimed.
func (r *DonationRepo) UpdateContent(ctx context.Context, id, actorID uint64, patch DonationPatch) (model.Donation, error) {
	db, err := r.store.DB()
	if err != nil {
		return model.Donation{}, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Donation{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+donationColumns+" FROM donations WHERE id=? FOR UPDATE", id)
	d, err := scanDonation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Donation{}, ErrNotFound
	}
	if err != nil {
		return model.Donation{}, err
	}
	if d.RestaurantID != actorID {
		return model.Donation{}, ErrForbidden
	}
	if d.Status != model.StatusAvailable {
		return model.Donation{}, ErrConflict
	}

	applyDonationPatch(&d, patch)
	if err := d.Validate(); err != nil {
		return model.Donation{}, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE donations SET
			food_type=?, food_description=?, quantity=?, quantity_unit=?, estimated_meals=?,
			pickup_date=?, pickup_window=?, allergen_info=?, dietary_info=?, additional_info=?
		 WHERE id=?`,
		d.FoodType, d.FoodDescription, d.Quantity, d.QuantityUnit, nullableInt(d.EstimatedMeals),
		d.PickupDate, d.PickupWindow, nullableStr(d.AllergenInfo), nullableStr(d.DietaryInfo),
		nullableStr(d.AdditionalInfo), id)
	if err != nil {
		return model.Donation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Donation{}, err
	}
	return r.getByID(ctx, db, id)
}

func applyDonationPatch(d *model.Donation, patch DonationPatch) {
	if patch.FoodType != nil {
		d.FoodType = *patch.FoodType
	}
	if patch.FoodDescription != nil {
		d.FoodDescription = *patch.FoodDescription
	}
	if patch.Quantity != nil {
		d.Quantity = *patch.Quantity
	}
	if patch.QuantityUnit != nil {
		d.QuantityUnit = *patch.QuantityUnit
	}
	if patch.EstimatedMeals != nil {
		d.EstimatedMeals = patch.EstimatedMeals
	}
	if patch.PickupDate != nil {
		d.PickupDate = *patch.PickupDate
	}
	if patch.PickupWindow != nil {
		d.PickupWindow = *patch.PickupWindow
	}
	if patch.AllergenInfo != nil {
		d.AllergenInfo = patch.AllergenInfo
	}
	if patch.DietaryInfo != nil {
		d.DietaryInfo = patch.DietaryInfo
	}
	if patch.AdditionalInfo != nil {
		d.AdditionalInfo = patch.AdditionalInfo
	}
}

// rowScanner lets scanDonation work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (model.Donation, error) {
	var (
		d         model.Donation
		status    string
		meals     sql.NullInt64
		allergen  sql.NullString
		dietary   sql.NullString
		extra     sql.NullString
		claimedBy sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.RestaurantID, &d.FoodType, &d.FoodDescription,
		&d.Quantity, &d.QuantityUnit, &meals, &d.PickupDate, &d.PickupWindow,
		&allergen, &dietary, &extra, &status, &claimedBy,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return model.Donation{}, err
	}
	d.Status = model.DonationStatus(status)
	if meals.Valid {
		n := int(meals.Int64)
		d.EstimatedMeals = &n
	}
	if allergen.Valid {
		s := allergen.String
		d.AllergenInfo = &s
	}
	if dietary.Valid {
		s := dietary.String
		d.DietaryInfo = &s
	}
	if extra.Valid {
		s := extra.String
		d.AdditionalInfo = &s
	}
	if claimedBy.Valid {
		n := uint64(claimedBy.Int64)
		d.ClaimedBy = &n
	}
	return d, nil
}

func nullableStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
