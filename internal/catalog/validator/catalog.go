package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	caterrors "stayfinder/internal/catalog/errors"
	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/model"
)

type CatalogValidator struct {
	validate *validator.Validate
}

func NewCatalogValidator() *CatalogValidator {
	return &CatalogValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *CatalogValidator) ValidateHotel(hotel *model.Hotel) error {
	return v.structErr(hotel)
}

func (v *CatalogValidator) ValidateHotelUpdate(update *model.HotelUpdate) error {
	return v.structErr(update)
}

func (v *CatalogValidator) ValidateHotelSearch(search *model.HotelSearch) error {
	if err := v.structErr(search); err != nil {
		return err
	}
	if search.MinPrice != nil && search.MaxPrice != nil && *search.MinPrice > *search.MaxPrice {
		return apperrors.InvalidInput("min_price cannot exceed max_price")
	}
	return nil
}

func (v *CatalogValidator) ValidateRoom(room *model.Room) error {
	if err := v.structErr(room); err != nil {
		return err
	}
	seen := make(map[int]struct{}, len(room.RoomNumbers))
	for _, rn := range room.RoomNumbers {
		if _, dup := seen[rn.Number]; dup {
			return apperrors.InvalidInput(caterrors.ErrDuplicateRoomNumber.Error())
		}
		seen[rn.Number] = struct{}{}
	}
	return nil
}

func (v *CatalogValidator) ValidateRoomUpdate(update *model.RoomUpdate) error {
	return v.structErr(update)
}

func (v *CatalogValidator) structErr(s any) error {
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
	return apperrors.Validation("invalid catalog payload", details)
}
