package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/model"
)

type ReservationValidator struct {
	validate *validator.Validate
}

func NewReservationValidator() *ReservationValidator {
	return &ReservationValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *ReservationValidator) ValidateReservation(req *model.ReservationRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

func (v *ReservationValidator) ValidateStatusUpdate(update *model.BookingStatusUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		return validationError(err)
	}
	if update.Rating != nil {
		if err := v.validate.Struct(update.Rating); err != nil {
			return validationError(err)
		}
	}
	if update.Review != nil {
		if err := v.validate.Struct(update.Review); err != nil {
			return validationError(err)
		}
	}
	return nil
}

func validationError(err error) error {
	details := make(map[string]any)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on %q", fe.Tag())
		}
	}
	return apperrors.Validation("invalid reservation payload", details)
}
