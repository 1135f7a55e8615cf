package postgres

import (
	"context"
	"errors"

	"phonebook/contact"

	"gorm.io/gorm"
)

// ContactModel represents the database model for contacts
type ContactModel struct {
	ID         int64   `gorm:"primaryKey"`
	Name       string  `gorm:"not null"`
	Address    *string
	IsFavorite bool `gorm:"not null;default:false"`
}

// TableName specifies the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ContactMethodModel represents the database model for contact methods.
// Rows are removed by the contacts FK cascade when their owner goes away.
type ContactMethodModel struct {
	ID         int64  `gorm:"primaryKey"`
	ContactID  int64  `gorm:"not null;index"`
	MethodType string `gorm:"column:method_type;not null"`
	Value      string `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ContactMethodModel) TableName() string {
	return "contact_methods"
}

// ContactRepository implements contact.Repository interface
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// CreateContact inserts the contact and its methods in one transaction and
// returns the contact with its assigned id.
func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := insertContact(tx, c)
		if err != nil {
			return err
		}
		c = created
		return nil
	})
	if err != nil {
		return contact.Contact{}, err
	}
	return c, nil
}

// CreateContacts inserts a whole batch in a single transaction. Either every
// contact with all its methods lands, or none do.
func (r *ContactRepository) CreateContacts(ctx context.Context, cs []contact.Contact) error {
	if len(cs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range cs {
			if _, err := insertContact(tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	return r.findContacts(ctx, r.db)
}

func (r *ContactRepository) FavoriteContacts(ctx context.Context) ([]contact.Contact, error) {
	return r.findContacts(ctx, r.db.Where("is_favorite = ?", true))
}

// UpdateContact overwrites name and address and replaces the whole method
// set inside one transaction. The returned contact carries the favorite
// flag as currently stored, which Update itself never changes.
func (r *ContactRepository) UpdateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model ContactModel
		if err := tx.First(&model, c.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contact.ErrNotFound
			}
			return err
		}
		c.IsFavorite = model.IsFavorite

		updates := map[string]interface{}{
			"name":    c.Name,
			"address": c.Address,
		}
		if err := tx.Model(&ContactModel{}).Where("id = ?", c.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("contact_id = ?", c.ID).Delete(&ContactMethodModel{}).Error; err != nil {
			return err
		}
		return insertMethods(tx, c.ID, c.Methods)
	})
	if err != nil {
		return contact.Contact{}, err
	}
	return c, nil
}

// DeleteContact removes the contact row; the FK cascade in the schema takes
// the methods with it.
func (r *ContactRepository) DeleteContact(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&ContactModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contact.ErrNotFound
	}
	return nil
}

// ToggleFavorite flips is_favorite with a read-then-write on the same row,
// inside one transaction, and returns the new state.
func (r *ContactRepository) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	var favorite bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model ContactModel
		if err := tx.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contact.ErrNotFound
			}
			return err
		}

		favorite = !model.IsFavorite
		return tx.Model(&ContactModel{}).Where("id = ?", id).
			Update("is_favorite", favorite).Error
	})
	if err != nil {
		return false, err
	}
	return favorite, nil
}

// findContacts loads contacts matching scope and attaches their methods in
// insertion order.
func (r *ContactRepository) findContacts(ctx context.Context, scope *gorm.DB) ([]contact.Contact, error) {
	var models []ContactModel
	if err := scope.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	contacts := make([]contact.Contact, len(models))
	ids := make([]int64, len(models))
	byID := make(map[int64]*contact.Contact, len(models))
	for i, model := range models {
		contacts[i] = contact.Contact{
			ID:         model.ID,
			Name:       model.Name,
			Address:    model.Address,
			IsFavorite: model.IsFavorite,
			Methods:    []contact.Method{},
		}
		ids[i] = model.ID
		byID[model.ID] = &contacts[i]
	}

	if len(ids) == 0 {
		return contacts, nil
	}

	var methods []ContactMethodModel
	if err := r.db.WithContext(ctx).Where("contact_id IN ?", ids).Order("id").Find(&methods).Error; err != nil {
		return nil, err
	}
	for _, m := range methods {
		owner := byID[m.ContactID]
		owner.Methods = append(owner.Methods, contact.Method{Type: m.MethodType, Value: m.Value})
	}

	return contacts, nil
}

func insertContact(tx *gorm.DB, c contact.Contact) (contact.Contact, error) {
	model := ContactModel{
		Name:       c.Name,
		Address:    c.Address,
		IsFavorite: c.IsFavorite,
	}
	if err := tx.Create(&model).Error; err != nil {
		return contact.Contact{}, err
	}
	c.ID = model.ID
	if err := insertMethods(tx, model.ID, c.Methods); err != nil {
		return contact.Contact{}, err
	}
	return c, nil
}

func insertMethods(tx *gorm.DB, contactID int64, methods []contact.Method) error {
	for _, m := range methods {
		row := ContactMethodModel{
			ContactID:  contactID,
			MethodType: m.Type,
			Value:      m.Value,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
