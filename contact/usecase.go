package contact

import "context"

// Service is the contact-facing API consumed by transports.
type Service interface {
	AddContact(ctx context.Context, c Contact) (Contact, error)
	ListContacts(ctx context.Context) ([]Contact, error)
	ListFavorites(ctx context.Context) ([]Contact, error)
	UpdateContact(ctx context.Context, c Contact) (Contact, error)
	DeleteContact(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
}

// Repository is the storage port. Implementations must make every mutation
// that touches more than one row a single transaction; partial writes are
// never acceptable. CreateContacts exists for bulk import and shares the
// all-or-nothing guarantee across the whole batch.
type Repository interface {
	CreateContact(ctx context.Context, c Contact) (Contact, error)
	CreateContacts(ctx context.Context, cs []Contact) error
	AllContacts(ctx context.Context) ([]Contact, error)
	FavoriteContacts(ctx context.Context) ([]Contact, error)
	UpdateContact(ctx context.Context, c Contact) (Contact, error)
	DeleteContact(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

// AddContact validates and persists a new contact together with its methods.
// Validation runs before any write: an empty name, an empty method list or a
// method missing type or value rejects the whole request.
func (uc *Usecase) AddContact(ctx context.Context, c Contact) (Contact, error) {
	c = c.normalize()
	if err := c.Validate(); err != nil {
		return Contact{}, err
	}
	c.IsFavorite = false
	return uc.r.CreateContact(ctx, c)
}

func (uc *Usecase) ListContacts(ctx context.Context) ([]Contact, error) {
	return uc.r.AllContacts(ctx)
}

func (uc *Usecase) ListFavorites(ctx context.Context) ([]Contact, error) {
	return uc.r.FavoriteContacts(ctx)
}

// UpdateContact overwrites name and address and replaces the whole method
// set. Unlike AddContact it accepts an empty method list (removing every
// method) and drops malformed entries silently instead of rejecting the
// request; both behaviors are part of the service contract.
func (uc *Usecase) UpdateContact(ctx context.Context, c Contact) (Contact, error) {
	c = c.normalize()
	if c.Name == "" {
		return Contact{}, ErrNameRequired
	}

	kept := make([]Method, 0, len(c.Methods))
	for _, m := range c.Methods {
		if m.Type == "" || m.Value == "" {
			continue
		}
		kept = append(kept, m)
	}
	c.Methods = kept

	return uc.r.UpdateContact(ctx, c)
}

func (uc *Usecase) DeleteContact(ctx context.Context, id int64) error {
	return uc.r.DeleteContact(ctx, id)
}

func (uc *Usecase) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	return uc.r.ToggleFavorite(ctx, id)
}
