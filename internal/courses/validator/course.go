package validator

import (
	"errors"

	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"
	"coursedesk/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type CourseValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCourseValidator(log *logger.Logger) *CourseValidator {
	v := validator.New()

	log.Info("Course validator initialized successfully")

	return &CourseValidator{
		validate: v,
		logger:   log,
	}
}

func (v *CourseValidator) Validate(course *model.Course) error {
	if err := v.validate.Struct(course); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if !course.EndDate.After(course.StartDate) && !course.EndDate.Equal(course.StartDate) {
		return validation.FieldErrors{
			validation.FieldError{
				Field:   "EndDate",
				Message: "end_date must not be before start_date",
			},
		}
	}

	return nil
}

func (v *CourseValidator) ValidateUpdate(update *model.CourseUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if update.StartDate != nil && update.EndDate != nil {
		if update.EndDate.Before(*update.StartDate) {
			return validation.FieldErrors{
				validation.FieldError{
					Field:   "EndDate",
					Message: "end_date must not be before start_date",
				},
			}
		}
	}

	if update.Status != "" && !update.Status.IsValid() {
		return validation.FieldErrors{
			validation.FieldError{
				Field:   "Status",
				Message: "status must be one of: PLANNED, ACTIVE, COMPLETED, CANCELLED",
			},
		}
	}

	return nil
}
