// Package profile loads and validates the applicant's contact record.
package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a contact record from a JSON or YAML file.
func Load(path string) (contact Contact, err error) {
	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read profile file: %s", path)
		return contact, err
	}

	contact, err = Parse(fileData, filepath.Ext(path))
	if err != nil {
		err = errors.Wrapf(err, "failed to parse profile file: %s", path)
		return contact, err
	}

	err = contact.Validate()
	if err != nil {
		err = errors.Wrap(err, "profile validation failed")
		return contact, err
	}

	return contact, err
}

// Parse decodes a contact record. ext selects the format (".yaml"/".yml" for YAML, anything else JSON).
func Parse(data []byte, ext string) (contact Contact, err error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &contact)
	default:
		err = json.Unmarshal(data, &contact)
	}
	if err != nil {
		err = errors.Wrap(err, "decode contact")
		return contact, err
	}

	contact = contact.Trimmed()
	return contact, err
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (c Contact) Trimmed() (trimmed Contact) {
	trimmed = Contact{
		FullName:          strings.TrimSpace(c.FullName),
		Email:             strings.TrimSpace(c.Email),
		Phone:             strings.TrimSpace(c.Phone),
		Location:          strings.TrimSpace(c.Location),
		LinkedIn:          strings.TrimSpace(c.LinkedIn),
		Portfolio:         strings.TrimSpace(c.Portfolio),
		ProfessionalTitle: strings.TrimSpace(c.ProfessionalTitle),
	}
	return trimmed
}

// Validate checks the contact record against its field rules.
func (c Contact) Validate() (err error) {
	validate := validator.New()
	err = validate.Struct(c)
	if err != nil {
		err = errors.Wrap(err, "invalid contact")
		return err
	}

	return err
}
