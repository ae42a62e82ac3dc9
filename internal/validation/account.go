package validation

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxEmailLength = 254
	maxNameLength  = 100
)

// ValidateEmail checks an already normalized address against RFC 5322.
// Display names ("Ada <ada@example.com>") are rejected.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > maxEmailLength {
		return errors.New("email is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email must be a valid email address")
	}
	return nil
}

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("fullName is required")
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return errors.New("fullName is too long (max 100 characters)")
	}
	return nil
}

// ValidatePhone accepts an empty number or one in E.164 form.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if get().validate.Var(phone, "e164") != nil {
		return errors.New("phoneNumber must be in E.164 format, e.g. +15550100")
	}
	return nil
}

// Account checks every registration field and reports all failures at once.
func Account(email, password, fullName, phone string) Errors {
	var errs Errors
	check := func(field string, err error) {
		if err != nil {
			errs = append(errs, FieldError{Field: field, Message: err.Error()})
		}
	}

	check("email", ValidateEmail(email))
	check("password", ValidatePassword(password))
	check("fullName", ValidateName(fullName))
	check("phoneNumber", ValidatePhone(phone))

	return errs
}
