package postgres_test

import (
	"context"
	"testing"

	"phonebook/contact"
	"phonebook/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strptr(s string) *string { return &s }

func TestContactRepository_CreateContact(t *testing.T) {
	// Arrange - Setup shared database container and connection
	dbName, dbUser, dbPass := "contact_test", "testuser", "testpass"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, "../migrations")

	t.Run("creates a contact with its methods", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		c := contact.Contact{
			Name:    "John Doe",
			Address: strptr("1 Main St"),
			Methods: []contact.Method{
				{Type: "phone", Value: "1234567890"},
				{Type: "email", Value: "john@x.com"},
			},
		}

		created, err := repo.CreateContact(context.Background(), c)

		require.NoError(t, err)
		assert.NotZero(t, created.ID, "a store-assigned id is expected")
		assert.False(t, created.IsFavorite)
		assert.Equal(t, c.Methods, created.Methods, "input methods are echoed")
		assertMethodCount(t, db, created.ID, 2)
	})

	t.Run("creates a batch atomically", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		batch := []contact.Contact{
			{Name: "Alice", Methods: []contact.Method{{Type: "phone", Value: "1111111111"}}},
			{Name: "Bob", Methods: []contact.Method{{Type: "email", Value: "b@x.com"}}},
		}

		err := repo.CreateContacts(context.Background(), batch)

		require.NoError(t, err)
		contacts, err := repo.AllContacts(context.Background())
		require.NoError(t, err)
		assert.Len(t, contacts, 2)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		err := repo.CreateContacts(context.Background(), nil)

		require.NoError(t, err)
	})
}

func TestContactRepository_Reads(t *testing.T) {
	dbName, dbUser, dbPass := "contact_reads_test", "testuser", "testpass"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, "../migrations")

	t.Run("returns all contacts with methods in insertion order", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		first, err := repo.CreateContact(context.Background(), contact.Contact{
			Name: "Alice",
			Methods: []contact.Method{
				{Type: "phone", Value: "1111111111"},
				{Type: "email", Value: "a@x.com"},
			},
		})
		require.NoError(t, err)
		_, err = repo.CreateContact(context.Background(), contact.Contact{
			Name:    "Bob",
			Methods: []contact.Method{{Type: "phone", Value: "2222222222"}},
		})
		require.NoError(t, err)

		contacts, err := repo.AllContacts(context.Background())

		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, "Alice", contacts[0].Name)
		assert.Equal(t, first.Methods, contacts[0].Methods)
		assert.Equal(t, "Bob", contacts[1].Name)
	})

	t.Run("returns empty list when no contacts exist", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		contacts, err := repo.AllContacts(context.Background())

		require.NoError(t, err)
		assert.Empty(t, contacts)
	})

	t.Run("favorites are filtered", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		plain, err := repo.CreateContact(context.Background(), contact.Contact{
			Name:    "Plain",
			Methods: []contact.Method{{Type: "phone", Value: "1111111111"}},
		})
		require.NoError(t, err)
		starred, err := repo.CreateContact(context.Background(), contact.Contact{
			Name:    "Starred",
			Methods: []contact.Method{{Type: "phone", Value: "2222222222"}},
		})
		require.NoError(t, err)
		_, err = repo.ToggleFavorite(context.Background(), starred.ID)
		require.NoError(t, err)

		favorites, err := repo.FavoriteContacts(context.Background())

		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, starred.ID, favorites[0].ID)
		assert.True(t, favorites[0].IsFavorite)
		assert.NotEqual(t, plain.ID, favorites[0].ID)
	})
}

func TestContactRepository_UpdateContact(t *testing.T) {
	dbName, dbUser, dbPass := "contact_update_test", "testuser", "testpass"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, "../migrations")

	t.Run("replaces name, address and the whole method set", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		created, err := repo.CreateContact(context.Background(), contact.Contact{
			Name:    "Before",
			Address: strptr("Old Town 1"),
			Methods: []contact.Method{
				{Type: "phone", Value: "1111111111"},
				{Type: "email", Value: "old@x.com"},
			},
		})
		require.NoError(t, err)

		updated, err := repo.UpdateContact(context.Background(), contact.Contact{
			ID:      created.ID,
			Name:    "After",
			Address: nil,
			Methods: []contact.Method{{Type: "email", Value: "new@x.com"}},
		})

		require.NoError(t, err)
		assert.Equal(t, "After", updated.Name)
		assert.False(t, updated.IsFavorite, "update must not change the favorite flag")

		contacts, err := repo.AllContacts(context.Background())
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Nil(t, contacts[0].Address)
		assert.Equal(t, []contact.Method{{Type: "email", Value: "new@x.com"}}, contacts[0].Methods)
	})

	t.Run("empty method set removes every method", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		created, err := repo.CreateContact(context.Background(), contact.Contact{
			Name:    "Loaded",
			Methods: []contact.Method{{Type: "phone", Value: "1111111111"}},
		})
		require.NoError(t, err)

		_, err = repo.UpdateContact(context.Background(), contact.Contact{
			ID:      created.ID,
			Name:    "Loaded",
			Methods: []contact.Method{},
		})

		require.NoError(t, err)
		assertMethodCount(t, db, created.ID, 0)
	})

	t.Run("keeps the stored favorite flag in the result", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		created, err := repo.CreateContact(context.Background(), contact.Contact{
			Name:    "Star",
			Methods: []contact.Method{{Type: "phone", Value: "1111111111"}},
		})
		require.NoError(t, err)
		_, err = repo.ToggleFavorite(context.Background(), created.ID)
		require.NoError(t, err)

		updated, err := repo.UpdateContact(context.Background(), contact.Contact{
			ID:      created.ID,
			Name:    "Star",
			Methods: []contact.Method{},
		})

		require.NoError(t, err)
		assert.True(t, updated.IsFavorite)
	})

	t.Run("unknown id reports not found and writes nothing", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		_, err := repo.UpdateContact(context.Background(), contact.Contact{
			ID:      12345,
			Name:    "Ghost",
			Methods: []contact.Method{{Type: "phone", Value: "0000000000"}},
		})

		assert.ErrorIs(t, err, contact.ErrNotFound)
		var count int64
		require.NoError(t, db.Table("contacts").Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestContactRepository_DeleteContact(t *testing.T) {
	dbName, dbUser, dbPass := "contact_delete_test", "testuser", "testpass"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, "../migrations")

	t.Run("removes the contact and cascades to its methods", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		created, err := repo.CreateContact(context.Background(), contact.Contact{
			Name: "Doomed",
			Methods: []contact.Method{
				{Type: "phone", Value: "1111111111"},
				{Type: "email", Value: "d@x.com"},
			},
		})
		require.NoError(t, err)

		err = repo.DeleteContact(context.Background(), created.ID)

		require.NoError(t, err)
		assertMethodCount(t, db, created.ID, 0)
		contacts, err := repo.AllContacts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, contacts)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		err := repo.DeleteContact(context.Background(), 12345)

		assert.ErrorIs(t, err, contact.ErrNotFound)
	})
}

func TestContactRepository_ToggleFavorite(t *testing.T) {
	dbName, dbUser, dbPass := "contact_toggle_test", "testuser", "testpass"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, "../migrations")

	t.Run("toggle is its own inverse", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		created, err := repo.CreateContact(context.Background(), contact.Contact{
			Name:    "Flip",
			Methods: []contact.Method{{Type: "phone", Value: "1111111111"}},
		})
		require.NoError(t, err)

		first, err := repo.ToggleFavorite(context.Background(), created.ID)
		require.NoError(t, err)
		second, err := repo.ToggleFavorite(context.Background(), created.ID)
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, second)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		_, err := repo.ToggleFavorite(context.Background(), 12345)

		assert.ErrorIs(t, err, contact.ErrNotFound)
	})
}

func assertMethodCount(t testing.TB, db *gorm.DB, contactID int64, expected int64) {
	t.Helper()
	var count int64
	err := db.Table("contact_methods").Where("contact_id = ?", contactID).Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, expected, count)
}

// cleanupContactDatabase truncates all tables to ensure test isolation
func cleanupContactDatabase(t testing.TB, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE TABLE contacts RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)
}
