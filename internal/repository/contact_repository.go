package repository

import (
	"context"

	"github.com/zerowaste/connect/internal/database"
	"github.com/zerowaste/connect/internal/model"
)

// ContactRepo persists contact form submissions.
type ContactRepo struct {
	store *database.Store
}

// NewContactRepo returns a ContactRepo bound to the given store.
func NewContactRepo(store *database.Store) *ContactRepo {
	return &ContactRepo{store: store}
}

// Insert validates and stores a contact message, populating its ID.
func (r *ContactRepo) Insert(ctx context.Context, m *model.ContactMessage) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	m.Email = model.NormalizeEmail(m.Email)
	res, err := db.ExecContext(ctx,
		"INSERT INTO contact_messages (name, email, subject, message) VALUES (?,?,?,?)",
		m.Name, m.Email, m.Subject, m.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}
