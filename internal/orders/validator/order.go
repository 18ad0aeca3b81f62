package validator

import (
	"errors"

	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"
	"coursedesk/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type OrderValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewOrderValidator(log *logger.Logger) *OrderValidator {
	v := validator.New()

	log.Info("Order validator initialized successfully")

	return &OrderValidator{
		validate: v,
		logger:   log,
	}
}

func (v *OrderValidator) Validate(order *model.Order) error {
	if err := v.validate.Struct(order); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}
