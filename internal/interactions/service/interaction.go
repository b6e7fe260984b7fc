package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	interrors "stayfinder/internal/interactions/errors"
	"stayfinder/internal/interactions/repository"
	"stayfinder/internal/interactions/validator"
	"stayfinder/pkg/config"
	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/kafka"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
	"stayfinder/pkg/sanitizer"
)

// EventPublisher fans interactions out to downstream consumers (the
// scoring pipeline). Delivery is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type InteractionService interface {
	Track(ctx context.Context, interaction *model.UserInteraction) (*model.UserInteraction, error)
	Record(ctx context.Context, interaction *model.UserInteraction) error
	GetUserInteractions(ctx context.Context, userID, interactionType string, days, limit int) ([]model.UserInteraction, error)
	GetPreferences(ctx context.Context, userID string) (*model.UserPreference, error)
	SetPreferences(ctx context.Context, userID string, override *model.PreferenceOverride) (*model.UserPreference, error)
}

type interactionService struct {
	interactions repository.InteractionRepository
	preferences  repository.PreferenceRepository
	validator    *validator.InteractionValidator
	publisher    EventPublisher
	log          *logger.Logger
}

func NewInteractionService(
	interactions repository.InteractionRepository,
	preferences repository.PreferenceRepository,
	v *validator.InteractionValidator,
	publisher EventPublisher,
	log *logger.Logger,
) InteractionService {
	return &interactionService{
		interactions: interactions,
		preferences:  preferences,
		validator:    v,
		publisher:    publisher,
		log:          log,
	}
}

// Track persists the interaction and, for identified view events carrying
// a search query, folds the query into the user's preference profile.
// Profile and publish failures are logged and swallowed: the interaction
// record must survive regardless.
func (s *interactionService) Track(ctx context.Context, interaction *model.UserInteraction) (*model.UserInteraction, error) {
	if err := s.validator.ValidateInteraction(interaction); err != nil {
		return nil, err
	}
	if interaction.SessionID == "" {
		interaction.SessionID = uuid.NewString()
	}
	if interaction.SearchQuery != nil {
		interaction.SearchQuery.City = sanitizer.SanitizeCity(interaction.SearchQuery.City)
	}

	if _, err := s.interactions.Create(ctx, interaction); err != nil {
		return nil, apperrors.Internal("failed to record interaction", err)
	}

	if interaction.UserID != "" &&
		interaction.InteractionType == config.InteractionView &&
		interaction.SearchQuery != nil {
		if err := s.accumulate(ctx, interaction.UserID, interaction.SearchQuery); err != nil {
			s.log.Warn("failed to update preference profile",
				"user_id", interaction.UserID,
				"error", err,
			)
		}
	}

	s.publish(ctx, interaction)
	return interaction, nil
}

// Record satisfies the booking pipeline's recorder contract.
func (s *interactionService) Record(ctx context.Context, interaction *model.UserInteraction) error {
	_, err := s.Track(ctx, interaction)
	return err
}

func (s *interactionService) publish(ctx context.Context, interaction *model.UserInteraction) {
	if s.publisher == nil {
		return
	}
	value, err := json.Marshal(interaction)
	if err != nil {
		s.log.Warn("failed to marshal interaction event", "error", err)
		return
	}
	key := interaction.UserID
	if key == "" {
		key = interaction.SessionID
	}
	if err := s.publisher.Publish(ctx, kafka.Message{Key: key, Value: value}); err != nil {
		s.log.Warn("failed to publish interaction event", "error", err)
	}
}

// accumulate merges one search query into the profile:
//   - repeated city searches nudge that city's weight up, new cities
//     enter with the initial weight
//   - the price envelope only ever widens
//   - group size follows the latest stated party size
func (s *interactionService) accumulate(ctx context.Context, userID string, query *model.SearchQuery) error {
	pref, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	if query.City != "" {
		found := false
		for i := range pref.PreferredCities {
			if strings.EqualFold(pref.PreferredCities[i].City, query.City) {
				pref.PreferredCities[i].Weight += config.CityWeightIncrement
				found = true
				break
			}
		}
		if !found {
			pref.PreferredCities = append(pref.PreferredCities, model.CityWeight{
				City:   query.City,
				Weight: config.InitialCityWeight,
			})
		}
	}

	// A bound the query never stated decodes as zero; only stated bounds
	// may widen the envelope.
	if query.PriceRange != nil {
		if query.PriceRange.Min > 0 && query.PriceRange.Min < pref.PriceRange.Min {
			pref.PriceRange.Min = query.PriceRange.Min
		}
		if query.PriceRange.Max > 0 && query.PriceRange.Max > pref.PriceRange.Max {
			pref.PriceRange.Max = query.PriceRange.Max
		}
	}

	if query.Guests != nil {
		pref.GroupSize.Adults = *query.Guests
	}

	return s.preferences.Replace(ctx, pref)
}

func (s *interactionService) loadOrCreate(ctx context.Context, userID string) (*model.UserPreference, error) {
	pref, err := s.preferences.FindByUser(ctx, userID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, interrors.ErrPreferenceNotFound) {
		return nil, err
	}

	pref = defaultPreference(userID)
	if _, err := s.preferences.Create(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func defaultPreference(userID string) *model.UserPreference {
	return &model.UserPreference{
		UserID:           userID,
		PreferredCities:  []model.CityWeight{},
		PreferredTypes:   []model.TypeWeight{},
		PriceRange:       model.PriceRange{Min: config.DefaultPriceRangeMin, Max: config.DefaultPriceRangeMax},
		RatingPreference: config.DefaultRatingPref,
		TravelStyle:      config.DefaultTravelStyle,
		GroupSize:        model.GroupSize{Adults: config.DefaultGroupAdults, Children: config.DefaultGroupChildren},
		BookingPatterns: model.BookingPatterns{
			AdvanceBookingDays:  config.DefaultAdvanceBookDays,
			AverageStayDuration: config.DefaultAvgStayDuration,
		},
	}
}

func (s *interactionService) GetUserInteractions(ctx context.Context, userID, interactionType string, days, limit int) ([]model.UserInteraction, error) {
	var since time.Time
	if days > 0 {
		since = time.Now().UTC().AddDate(0, 0, -days)
	}

	interactions, err := s.interactions.FindByUser(ctx, userID, interactionType, since, config.NormalizePaginationLimit(limit))
	if err != nil {
		return nil, apperrors.Internal("failed to load interactions", err)
	}
	return interactions, nil
}

func (s *interactionService) GetPreferences(ctx context.Context, userID string) (*model.UserPreference, error) {
	pref, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load preference profile", err)
	}
	return pref, nil
}

// SetPreferences is the explicit override path: provided fields replace
// stored ones instead of merging.
func (s *interactionService) SetPreferences(ctx context.Context, userID string, override *model.PreferenceOverride) (*model.UserPreference, error) {
	if err := s.validator.ValidateOverride(override); err != nil {
		return nil, err
	}

	pref, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load preference profile", err)
	}

	if override.PreferredCities != nil {
		pref.PreferredCities = *override.PreferredCities
	}
	if override.PreferredTypes != nil {
		pref.PreferredTypes = *override.PreferredTypes
	}
	if override.PriceRange != nil {
		pref.PriceRange = *override.PriceRange
	}
	if override.PreferredAmenities != nil {
		pref.PreferredAmenities = *override.PreferredAmenities
	}
	if override.RatingPreference != nil {
		pref.RatingPreference = *override.RatingPreference
	}
	if override.TravelStyle != "" {
		pref.TravelStyle = override.TravelStyle
	}
	if override.GroupSize != nil {
		pref.GroupSize = *override.GroupSize
	}
	if override.BookingPatterns != nil {
		pref.BookingPatterns = *override.BookingPatterns
	}

	if err := s.preferences.Replace(ctx, pref); err != nil {
		return nil, apperrors.Internal("failed to store preference profile", err)
	}
	return pref, nil
}
