package validator

import (
	"errors"

	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"
	"coursedesk/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type TrainerValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewTrainerValidator(log *logger.Logger) *TrainerValidator {
	v := validator.New()

	log.Info("Trainer validator initialized successfully")

	return &TrainerValidator{
		validate: v,
		logger:   log,
	}
}

func (v *TrainerValidator) Validate(trainer *model.Trainer) error {
	if err := v.validate.Struct(trainer); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *TrainerValidator) ValidateUpdate(update *model.TrainerUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}
