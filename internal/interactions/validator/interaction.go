package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/model"
)

type InteractionValidator struct {
	validate *validator.Validate
}

func NewInteractionValidator() *InteractionValidator {
	return &InteractionValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *InteractionValidator) ValidateInteraction(interaction *model.UserInteraction) error {
	return v.structErr(interaction)
}

func (v *InteractionValidator) ValidateOverride(override *model.PreferenceOverride) error {
	if err := v.structErr(override); err != nil {
		return err
	}
	if override.PriceRange != nil && override.PriceRange.Min > override.PriceRange.Max {
		return apperrors.InvalidInput("price_range min cannot exceed max")
	}
	return nil
}

func (v *InteractionValidator) structErr(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	details := make(map[string]any)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on %q", fe.Tag())
		}
	}
	return apperrors.Validation("invalid interaction payload", details)
}
