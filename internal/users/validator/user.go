package validator

import (
	"errors"
	"strings"

	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"
	"coursedesk/pkg/validation"

	govalidator "github.com/go-playground/validator/v10"
)

type UserValidator struct {
	validate *govalidator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	v := govalidator.New()

	log.Info("User validator initialized successfully")

	return &UserValidator{
		validate: v,
		logger:   log,
	}
}

func (v *UserValidator) Validate(user *model.User) error {
	if err := v.validate.Struct(user); err != nil {
		var validationErrs govalidator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if err := ValidateEmail(user.Email); err != nil {
		return validation.FieldErrors{
			validation.FieldError{
				Field:   "Email",
				Message: err.Error(),
			},
		}
	}

	return nil
}

func (v *UserValidator) ValidateUpdate(update *model.UserUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs govalidator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateEmail checks an email address with a fixed sequence of rules.
// The rules are deliberately hand-rolled rather than a single regexp so
// each rejection carries a specific message. Note the TLD check at the
// end: addresses under .test and .example are rejected outright.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return errors.New("email must contain @")
	}

	parts := splitDroppingTrailingEmpty(email, "@")
	if len(parts) != 2 {
		return errors.New("email must contain exactly one @")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if localPart == "" {
		return errors.New("local part of email cannot be empty")
	}
	if domainPart == "" {
		return errors.New("domain part of email cannot be empty")
	}
	if !strings.Contains(domainPart, ".") {
		return errors.New("domain part must contain a dot")
	}
	if len(email) > 254 {
		return errors.New("email is too long")
	}
	if strings.Contains(email, " ") {
		return errors.New("email cannot contain spaces")
	}
	if strings.HasPrefix(domainPart, ".") || strings.HasSuffix(domainPart, ".") {
		return errors.New("domain part cannot start or end with a dot")
	}
	if strings.HasPrefix(localPart, ".") || strings.HasSuffix(localPart, ".") {
		return errors.New("local part cannot start or end with a dot")
	}
	if strings.HasSuffix(domainPart, ".test") || strings.HasSuffix(domainPart, ".example") {
		return errors.New("invalid TLD")
	}

	return nil
}

// splitDroppingTrailingEmpty splits like strings.Split but discards
// trailing empty elements, so "a@b@" splits into ["a" "b"] and "a@" into
// ["a"]. The @-count rule above depends on this.
func splitDroppingTrailingEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
