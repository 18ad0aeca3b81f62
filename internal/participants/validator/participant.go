package validator

import (
	"errors"

	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"
	"coursedesk/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ParticipantValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewParticipantValidator(log *logger.Logger) *ParticipantValidator {
	v := validator.New()

	log.Info("Participant validator initialized successfully")

	return &ParticipantValidator{
		validate: v,
		logger:   log,
	}
}

func (v *ParticipantValidator) Validate(participant *model.Participant) error {
	if err := v.validate.Struct(participant); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if !participant.Status.IsValid() {
		return validation.FieldErrors{
			validation.FieldError{
				Field:   "Status",
				Message: "status must be one of: ACTIVE, INACTIVE",
			},
		}
	}

	return nil
}

func (v *ParticipantValidator) ValidateUpdate(update *model.ParticipantUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if update.Status != "" && !update.Status.IsValid() {
		return validation.FieldErrors{
			validation.FieldError{
				Field:   "Status",
				Message: "status must be one of: ACTIVE, INACTIVE",
			},
		}
	}

	return nil
}
