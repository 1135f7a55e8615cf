package httpserver

import (
	"phonebook/contact"
)

// MethodRequest field tags only apply where the parent dives into the list.
type MethodRequest struct {
	Type  string `json:"type" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// CreateContactRequest requires at least one fully specified method; the
// dive tag rejects entries missing type or value before the service runs.
type CreateContactRequest struct {
	Name    string          `json:"name" validate:"required"`
	Address *string         `json:"address"`
	Methods []MethodRequest `json:"methods" validate:"required,min=1,dive"`
}

func (r CreateContactRequest) ToContact() contact.Contact {
	return contact.Contact{
		Name:    r.Name,
		Address: r.Address,
		Methods: toMethods(r.Methods),
	}
}

// UpdateContactRequest deliberately skips per-method validation: the service
// drops incomplete entries instead of rejecting the request, and an empty
// list clears every method.
type UpdateContactRequest struct {
	Name    string          `json:"name" validate:"required"`
	Address *string         `json:"address"`
	Methods []MethodRequest `json:"methods"`
}

func (r UpdateContactRequest) ToContact(id int64) contact.Contact {
	return contact.Contact{
		ID:      id,
		Name:    r.Name,
		Address: r.Address,
		Methods: toMethods(r.Methods),
	}
}

func toMethods(reqs []MethodRequest) []contact.Method {
	methods := make([]contact.Method, len(reqs))
	for i, m := range reqs {
		methods[i] = contact.Method{Type: m.Type, Value: m.Value}
	}
	return methods
}
