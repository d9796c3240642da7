package auth

import (
	"fmt"
	"regexp"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postCodePattern = regexp.MustCompile(`^[A-Za-z0-9\s-]{3,10}$`)
)

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (in RegisterInput) validate() error {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" ||
		in.Password == "" || in.ConfirmPassword == "" {
		return fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	if err := validateName(in.FirstName, "first name"); err != nil {
		return err
	}
	if err := validateName(in.LastName, "last name"); err != nil {
		return err
	}
	if !emailPattern.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}
	return nil
}

func validateName(name, field string) error {
	if len(name) < 2 || len(name) > 40 {
		return fmt.Errorf("%w: %s should be between 2 and 40 characters", ErrInvalidInput, field)
	}
	return nil
}

// OrganisationInput is the admin organisation-creation payload.
type OrganisationInput struct {
	Name         string
	Description  string
	StreetName   string
	PostCode     string
	City         string
	ContactEmail string
	ManagerEmail string
}

func (in OrganisationInput) validate() error {
	if in.Name == "" || in.Description == "" || in.StreetName == "" ||
		in.PostCode == "" || in.City == "" || in.ContactEmail == "" {
		return fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	if l := len(in.Name); l < 4 || l > 99 {
		return fmt.Errorf("%w: organisation name must be between 4 and 99 characters", ErrInvalidInput)
	}
	if l := len(in.Description); l < 4 || l > 250 {
		return fmt.Errorf("%w: organisation description must be between 4 and 250 characters", ErrInvalidInput)
	}
	if l := len(in.StreetName); l < 2 || l > 99 {
		return fmt.Errorf("%w: street name must be between 2 and 99 characters", ErrInvalidInput)
	}
	if !postCodePattern.MatchString(in.PostCode) {
		return fmt.Errorf("%w: invalid post code format", ErrInvalidInput)
	}
	if l := len(in.City); l < 2 || l > 99 {
		return fmt.Errorf("%w: city name must be between 2 and 99 characters", ErrInvalidInput)
	}
	if !emailPattern.MatchString(in.ContactEmail) {
		return fmt.Errorf("%w: invalid contact email format", ErrInvalidInput)
	}
	return nil
}
