package httpserver

import (
	"io"
	"net/http"
	"strconv"

	"phonebook/errs"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterContactRoutes() {
	s.Router.GET("/api/contacts", s.handleListContacts)
	s.Router.GET("/api/contacts/favorites", s.handleListFavorites)
	s.Router.POST("/api/contacts", s.handleAddContact)
	s.Router.PUT("/api/contacts/:id", s.handleUpdateContact)
	s.Router.DELETE("/api/contacts/:id", s.handleDeleteContact)
	s.Router.PUT("/api/contacts/:id/favorite", s.handleToggleFavorite)
	s.Router.POST("/api/contacts/import", s.handleImportContacts)
}

// handleListContacts godoc
// @Summary List Contacts
// @Description Get all contacts with their methods
// @Tags contacts
// @Produce json
// @Success 200 {array} contact.Contact
// @Router /api/contacts [get]
func (s *Server) handleListContacts(c echo.Context) error {
	contacts, err := s.ContactService.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, contacts)
}

// handleListFavorites godoc
// @Summary List Favorite Contacts
// @Description Get contacts flagged as favorites
// @Tags contacts
// @Produce json
// @Success 200 {array} contact.Contact
// @Router /api/contacts/favorites [get]
func (s *Server) handleListFavorites(c echo.Context) error {
	contacts, err := s.ContactService.ListFavorites(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, contacts)
}

// handleAddContact godoc
// @Summary Create Contact
// @Description Add a contact with at least one method
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact body CreateContactRequest true "Contact Data"
// @Success 201 {object} contact.Contact
// @Failure 400 {object} APIResponse
// @Router /api/contacts [post]
func (s *Server) handleAddContact(c echo.Context) error {
	var req CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := s.ContactService.AddContact(c.Request().Context(), req.ToContact())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusCreated, created)
}

// handleUpdateContact godoc
// @Summary Update Contact
// @Description Overwrite a contact and replace its whole method set
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path int true "Contact ID"
// @Param contact body UpdateContactRequest true "Contact Data"
// @Success 200 {object} contact.Contact
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/contacts/{id} [put]
func (s *Server) handleUpdateContact(c echo.Context) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}

	var req UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := s.ContactService.UpdateContact(c.Request().Context(), req.ToContact(id))
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, updated)
}

// handleDeleteContact godoc
// @Summary Delete Contact
// @Description Remove a contact and all its methods
// @Tags contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/contacts/{id} [delete]
func (s *Server) handleDeleteContact(c echo.Context) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}

	if err := s.ContactService.DeleteContact(c.Request().Context(), id); err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}

// handleToggleFavorite godoc
// @Summary Toggle Favorite
// @Description Flip the favorite flag of a contact
// @Tags contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} APIResponse
// @Router /api/contacts/{id}/favorite [put]
func (s *Server) handleToggleFavorite(c echo.Context) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}

	favorite, err := s.ContactService.ToggleFavorite(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, map[string]bool{
		"is_favorite": favorite,
	})
}

// handleImportContacts godoc
// @Summary Import Contacts
// @Description Bulk import contacts from an uploaded CSV file
// @Tags contacts
// @Accept mpfd
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} map[string]int
// @Failure 400 {object} APIResponse
// @Failure 422 {object} APIResponse
// @Router /api/contacts/import [post]
func (s *Server) handleImportContacts(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return errs.Errorf(errs.EINVALID, "csv file is required")
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	imported, err := s.ImportService.Import(c.Request().Context(), fh.Filename, data)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, map[string]int{
		"imported_count": imported,
	})
}

func contactID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errs.Errorf(errs.EINVALID, "invalid contact id")
	}
	return id, nil
}
