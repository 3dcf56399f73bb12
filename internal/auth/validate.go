package auth

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ValidateRegistration checks the register request body rules.
func ValidateRegistration(email, password string) error {
	if err := validation.Validate(email,
		validation.Required.Error("Email and password are required"),
		is.EmailFormat.Error("Invalid email address"),
	); err != nil {
		return err
	}

	return validation.Validate(password,
		validation.Required.Error("Email and password are required"),
		validation.Length(6, 0).Error("Password must be at least 6 characters"),
	)
}

// ValidateLogin checks the login request body rules. Login only requires that
// both fields are present; credential checks happen against the store.
func ValidateLogin(email, password string) error {
	if err := validation.Validate(email,
		validation.Required.Error("Email and password are required"),
		is.EmailFormat.Error("Invalid email address"),
	); err != nil {
		return err
	}

	return validation.Validate(password,
		validation.Required.Error("Email and password are required"),
	)
}
