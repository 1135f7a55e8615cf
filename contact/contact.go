package contact

import (
	"strings"

	"phonebook/errs"
)

var (
	ErrNameRequired    = errs.Errorf(errs.EINVALID, "contact: name is required")
	ErrMethodsRequired = errs.Errorf(errs.EINVALID, "contact: at least one method is required")
	ErrMethodInvalid   = errs.Errorf(errs.EINVALID, "contact: every method needs a type and a value")
	ErrNotFound        = errs.Errorf(errs.ENOTFOUND, "contact: not found")
)

// Method is a typed way of reaching a contact, e.g. {"phone", "555-1111"}.
// The type is a free-form tag; it is never interpreted by the service.
type Method struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Contact is a named entry in the phonebook. Address is nil when no address
// was ever supplied; a supplied-but-blank address stays an empty string.
type Contact struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Address    *string  `json:"address"`
	IsFavorite bool     `json:"is_favorite"`
	Methods    []Method `json:"methods"`
}

// Validate applies the creation rules: a trimmed non-empty name and a
// non-empty method list where every entry carries both type and value.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}

	if len(c.Methods) == 0 {
		return ErrMethodsRequired
	}

	for _, m := range c.Methods {
		if m.Type == "" || m.Value == "" {
			return ErrMethodInvalid
		}
	}

	return nil
}

// normalize trims the name and address and nils out a blank address.
func (c Contact) normalize() Contact {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = normalizeAddress(c.Address)
	return c
}

// normalizeAddress trims addr in place. A nil address stays nil; an empty
// string is kept as-is, matching how absent vs blank addresses are stored.
func normalizeAddress(addr *string) *string {
	if addr == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*addr)
	return &trimmed
}
