package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/zerowaste/connect/internal/auth"
	"github.com/zerowaste/connect/internal/database"
	"github.com/zerowaste/connect/internal/model"
)

const accountColumns = `id, name, email, password_hash, role, phone, address, city, zip_code,
	restaurant_type, operating_hours, ngo_type, service_area, beneficiaries_served,
	created_at, updated_at`

// AccountRepo persists accounts. The role-conditional profile fields live
// in nullable columns; scanAccount rebuilds the matching profile struct
// and leaves the other nil.
type AccountRepo struct {
	store      *database.Store
	bcryptCost int
}

// NewAccountRepo returns an AccountRepo hashing passwords with the given
// bcrypt cost.
func NewAccountRepo(store *database.Store, bcryptCost int) *AccountRepo {
	return &AccountRepo{store: store, bcryptCost: bcryptCost}
}

// AccountPatch describes a partial profile update. Nil fields are left
// untouched. Email and role are immutable after registration.
type AccountPatch struct {
	Name    *string
	Phone   *string
	Address *string
	City    *string
	ZipCode *string

	// Password, when set, is the new raw password; it is re-hashed
	// before storage. The stored hash is untouched otherwise.
	Password *string

	RestaurantType *string
	OperatingHours *string

	NGOType             *string
	ServiceArea         *string
	BeneficiariesServed *int
}

// Create validates the account, hashes the raw password and inserts the
// row. On success the generated ID and timestamps are populated on a.
// The raw password is never persisted.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account, rawPassword string) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}

	a.Email = model.NormalizeEmail(a.Email)
	if err := model.ValidatePassword(rawPassword); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	hash, err := auth.HashPassword(rawPassword, r.bcryptCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash

	res, err := db.ExecContext(ctx,
		`INSERT INTO accounts
			(name, email, password_hash, role, phone, address, city, zip_code,
			 restaurant_type, operating_hours, ngo_type, service_area, beneficiaries_served)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		a.Name, a.Email, a.PasswordHash, string(a.Role), a.Phone, a.Address, a.City, a.ZipCode,
		restaurantType(a), operatingHours(a), ngoType(a), serviceArea(a), beneficiariesServed(a))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	// Read the row back for the DB-generated timestamps.
	stored, err := r.getByID(ctx, db, a.ID)
	if err != nil {
		return err
	}
	*a = stored
	return nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	db, err := r.store.DB()
	if err != nil {
		return model.Account{}, err
	}
	row := db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email=? LIMIT 1",
		model.NormalizeEmail(email))
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	db, err := r.store.DB()
	if err != nil {
		return model.Account{}, err
	}
	return r.getByID(ctx, db, id)
}

func (r *AccountRepo) getByID(ctx context.Context, db *sql.DB, id uint64) (model.Account, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id=? LIMIT 1", id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// Update applies a partial profile update inside a transaction. Fields
// belonging to the other role are rejected, and the patched record is
// re-validated before writing. The password hash is rewritten only when
// the patch carries a new raw password.
func (r *AccountRepo) Update(ctx context.Context, id uint64, patch AccountPatch) (model.Account, error) {
	db, err := r.store.DB()
	if err != nil {
		return model.Account{}, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Account{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id=? FOR UPDATE", id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, err
	}

	if err := applyAccountPatch(&a, patch); err != nil {
		return model.Account{}, err
	}
	if patch.Password != nil {
		if err := model.ValidatePassword(*patch.Password); err != nil {
			return model.Account{}, err
		}
		hash, err := auth.HashPassword(*patch.Password, r.bcryptCost)
		if err != nil {
			return model.Account{}, err
		}
		a.PasswordHash = hash
	}
	if err := a.Validate(); err != nil {
		return model.Account{}, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET
			name=?, password_hash=?, phone=?, address=?, city=?, zip_code=?,
			restaurant_type=?, operating_hours=?, ngo_type=?, service_area=?, beneficiaries_served=?
		 WHERE id=?`,
		a.Name, a.PasswordHash, a.Phone, a.Address, a.City, a.ZipCode,
		restaurantType(&a), operatingHours(&a), ngoType(&a), serviceArea(&a), beneficiariesServed(&a),
		id)
	if err != nil {
		return model.Account{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Account{}, err
	}
	return r.getByID(ctx, db, id)
}

func applyAccountPatch(a *model.Account, patch AccountPatch) error {
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Phone != nil {
		a.Phone = *patch.Phone
	}
	if patch.Address != nil {
		a.Address = *patch.Address
	}
	if patch.City != nil {
		a.City = *patch.City
	}
	if patch.ZipCode != nil {
		a.ZipCode = *patch.ZipCode
	}

	restaurantPatch := patch.RestaurantType != nil || patch.OperatingHours != nil
	ngoPatch := patch.NGOType != nil || patch.ServiceArea != nil || patch.BeneficiariesServed != nil

	switch a.Role {
	case model.RoleRestaurant:
		if ngoPatch {
			return &model.ValidationError{Field: "role", Message: "ngo fields not allowed for restaurant accounts"}
		}
		if restaurantPatch && a.Restaurant == nil {
			a.Restaurant = &model.RestaurantProfile{}
		}
		if patch.RestaurantType != nil {
			a.Restaurant.RestaurantType = *patch.RestaurantType
		}
		if patch.OperatingHours != nil {
			a.Restaurant.OperatingHours = *patch.OperatingHours
		}
	case model.RoleNGO:
		if restaurantPatch {
			return &model.ValidationError{Field: "role", Message: "restaurant fields not allowed for ngo accounts"}
		}
		if ngoPatch && a.NGO == nil {
			a.NGO = &model.NGOProfile{}
		}
		if patch.NGOType != nil {
			a.NGO.NGOType = *patch.NGOType
		}
		if patch.ServiceArea != nil {
			a.NGO.ServiceArea = *patch.ServiceArea
		}
		if patch.BeneficiariesServed != nil {
			a.NGO.BeneficiariesServed = *patch.BeneficiariesServed
		}
	}
	return nil
}

// scanAccount reads one row and rebuilds the role-matching profile from
// the nullable columns.
func scanAccount(row *sql.Row) (model.Account, error) {
	var (
		a            model.Account
		role         string
		restType     sql.NullString
		opHours      sql.NullString
		ngoType      sql.NullString
		serviceArea  sql.NullString
		beneficiarys sql.NullInt64
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role,
		&a.Phone, &a.Address, &a.City, &a.ZipCode,
		&restType, &opHours, &ngoType, &serviceArea, &beneficiarys,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Account{}, err
	}
	a.Role = model.Role(role)
	switch a.Role {
	case model.RoleRestaurant:
		a.Restaurant = &model.RestaurantProfile{
			RestaurantType: restType.String,
			OperatingHours: opHours.String,
		}
	case model.RoleNGO:
		a.NGO = &model.NGOProfile{
			NGOType:             ngoType.String,
			ServiceArea:         serviceArea.String,
			BeneficiariesServed: int(beneficiarys.Int64),
		}
	}
	return a, nil
}

// Column value helpers: the profile for the other role is stored as NULL.

func restaurantType(a *model.Account) any {
	if a.Restaurant == nil {
		return nil
	}
	return a.Restaurant.RestaurantType
}

func operatingHours(a *model.Account) any {
	if a.Restaurant == nil {
		return nil
	}
	return a.Restaurant.OperatingHours
}

func ngoType(a *model.Account) any {
	if a.NGO == nil {
		return nil
	}
	return a.NGO.NGOType
}

func serviceArea(a *model.Account) any {
	if a.NGO == nil {
		return nil
	}
	return a.NGO.ServiceArea
}

func beneficiariesServed(a *model.Account) any {
	if a.NGO == nil {
		return nil
	}
	return a.NGO.BeneficiariesServed
}
