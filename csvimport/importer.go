// Package csvimport feeds contacts from an uploaded CSV file through the
// same persistence path the contact service uses. A file holds one contact
// per row under the header 姓名,电话,邮箱,住址; extra columns are ignored.
package csvimport

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"phonebook/contact"
	"phonebook/errs"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Required header columns: name, phone, email, address.
var requiredColumns = []string{"姓名", "电话", "邮箱", "住址"}

// Service is the import API consumed by transports.
type Service interface {
	Import(ctx context.Context, filename string, data []byte) (int, error)
}

type Importer struct {
	r contact.Repository
}

func New(r contact.Repository) *Importer {
	return &Importer{r: r}
}

// Import parses data as UTF-8 CSV and inserts one contact per row in a
// single transaction. Rows with a blank name are skipped without error and
// do not count toward the result. Any decode or structural failure aborts
// the whole import; nothing is persisted on error.
func (im *Importer) Import(ctx context.Context, filename string, data []byte) (int, error) {
	if err := validateFile(filename, data); err != nil {
		return 0, err
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return 0, errs.Errorf(errs.EUNPROCESSABLE, "file content is not valid UTF-8")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	columns, err := parseHeader(reader)
	if err != nil {
		return 0, err
	}

	contacts, err := parseRows(reader, columns)
	if err != nil {
		return 0, err
	}

	if err := im.r.CreateContacts(ctx, contacts); err != nil {
		return 0, err
	}

	return len(contacts), nil
}

func validateFile(filename string, data []byte) error {
	if len(data) == 0 {
		return errs.Errorf(errs.EINVALID, "no file provided")
	}
	if filename == "" {
		return errs.Errorf(errs.EINVALID, "filename is empty")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return errs.Errorf(errs.EINVALID, "only .csv files are supported")
	}
	return nil
}

// parseHeader reads the first record and maps required column names to their
// indices. The header must be a superset of requiredColumns.
func parseHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errs.Errorf(errs.EINVALID, "missing columns: %s", strings.Join(requiredColumns, ", "))
	}
	if err != nil {
		return nil, errs.Errorf(errs.EUNPROCESSABLE, "cannot parse csv header: %v", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errs.Errorf(errs.EINVALID, "missing columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

func parseRows(reader *csv.Reader, columns map[string]int) ([]contact.Contact, error) {
	var contacts []contact.Contact
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Errorf(errs.EUNPROCESSABLE, "cannot parse csv: %v", err)
		}

		name := field(record, columns["姓名"])
		if name == "" {
			continue
		}

		contacts = append(contacts, rowToContact(
			name,
			field(record, columns["电话"]),
			field(record, columns["邮箱"]),
			field(record, columns["住址"]),
		))
	}
	return contacts, nil
}

// rowToContact builds a contact from one CSV row. A non-empty address lands
// both in the address column and as an "address" method; importing keeps
// that duplication on purpose.
func rowToContact(name, phone, email, address string) contact.Contact {
	c := contact.Contact{Name: name}
	if address != "" {
		c.Address = &address
	}
	if phone != "" {
		c.Methods = append(c.Methods, contact.Method{Type: "phone", Value: phone})
	}
	if email != "" {
		c.Methods = append(c.Methods, contact.Method{Type: "email", Value: email})
	}
	if address != "" {
		c.Methods = append(c.Methods, contact.Method{Type: "address", Value: address})
	}
	return c
}

// field returns the trimmed value at idx, tolerating short records.
func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
