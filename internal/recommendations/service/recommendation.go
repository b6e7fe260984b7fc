package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	catalogrepo "stayfinder/internal/catalog/repository"
	interactionsrepo "stayfinder/internal/interactions/repository"
	"stayfinder/internal/recommendations/oracle"
	"stayfinder/pkg/cache"
	"stayfinder/pkg/config"
	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
	"stayfinder/pkg/sanitizer"
)

const (
	explainPersonalized = "Recommended for you based on your recent activity"
	explainSimilar      = "Similar to places you have viewed"
	explainTrending     = "Trending with travellers this week"
	explainPopular      = "Highly rated by guests"

	trendingWindowDays = 7

	// The oracle scores a wider candidate pool than one search page so the
	// reranking covers every local result.
	searchScoreLimit = 50
)

// Oracle reason codes become visitor-facing explanations; unknown codes
// fall back to the endpoint's default wording.
var reasonExplanations = map[string]string{
	"content_similarity":      "Based on hotels you have viewed before",
	"collaborative_filtering": "Users with similar preferences also liked this",
	"trending":                "Popular choice this week",
	"popular":                 "Highly rated by other users",
}

type RecommendationService interface {
	Personalized(ctx context.Context, userID string, limit int) ([]model.RankedHotel, error)
	Similar(ctx context.Context, hotelID string, limit int) ([]model.RankedHotel, error)
	Trending(ctx context.Context, city string, limit int) ([]model.RankedHotel, error)
	EnhancedSearch(ctx context.Context, search *model.HotelSearch, userID string, limit int) ([]model.RankedHotel, error)
	HomePage(ctx context.Context, userID string, limit int) (*model.HomePage, error)
	UserProfile(ctx context.Context, userID string) (map[string]any, error)
	Retrain(ctx context.Context) error
}

type recommendationService struct {
	oracle       oracle.Client
	hotels       catalogrepo.HotelRepository
	interactions interactionsrepo.InteractionRepository
	preferences  interactionsrepo.PreferenceRepository
	cache        *cache.Cache
	trendingTTL  time.Duration
	log          *logger.Logger
}

func NewRecommendationService(
	oracleClient oracle.Client,
	hotels catalogrepo.HotelRepository,
	interactions interactionsrepo.InteractionRepository,
	preferences interactionsrepo.PreferenceRepository,
	c *cache.Cache,
	trendingTTL time.Duration,
	log *logger.Logger,
) RecommendationService {
	return &recommendationService{
		oracle:       oracleClient,
		hotels:       hotels,
		interactions: interactions,
		preferences:  preferences,
		cache:        c,
		trendingTTL:  trendingTTL,
		log:          log,
	}
}

// Personalized asks the oracle for user-specific scores and falls back to
// the visitor's preferred city, then to trending, when the oracle is out.
func (s *recommendationService) Personalized(ctx context.Context, userID string, limit int) ([]model.RankedHotel, error) {
	limit = config.NormalizePaginationLimit(limit)

	scored, err := s.oracle.Personalized(ctx, userID, limit, nil)
	if err == nil {
		return s.materialize(ctx, scored, explainPersonalized)
	}
	s.log.Warn("oracle unavailable for personalized recommendations", "user_id", userID, "error", err)

	if ranked, ok := s.preferredCityFallback(ctx, userID, limit); ok {
		return ranked, nil
	}
	return s.trendingFor(ctx, "", limit)
}

func (s *recommendationService) preferredCityFallback(ctx context.Context, userID string, limit int) ([]model.RankedHotel, bool) {
	pref, err := s.preferences.FindByUser(ctx, userID)
	if err != nil || len(pref.PreferredCities) == 0 {
		return nil, false
	}

	best := pref.PreferredCities[0]
	for _, cw := range pref.PreferredCities[1:] {
		if cw.Weight > best.Weight {
			best = cw
		}
	}

	hotels, err := s.hotels.FindByCity(ctx, best.City, limit)
	if err != nil || len(hotels) == 0 {
		return nil, false
	}
	return wrap(RankByPopularity(hotels), nil, "Top rated in "+best.City), true
}

func (s *recommendationService) Similar(ctx context.Context, hotelID string, limit int) ([]model.RankedHotel, error) {
	limit = config.NormalizePaginationLimit(limit)

	scored, err := s.oracle.Similar(ctx, hotelID, limit)
	if err == nil {
		return s.materialize(ctx, scored, explainSimilar)
	}
	s.log.Warn("oracle unavailable for similar hotels", "hotel_id", hotelID, "error", err)

	// Same city, popularity ranked, excluding the hotel itself.
	hotel, err := s.hotels.FindByID(ctx, hotelID)
	if err != nil {
		return nil, apperrors.NotFoundWithID("hotel", hotelID)
	}
	neighbors, err := s.hotels.FindByCity(ctx, hotel.City, limit+1)
	if err != nil {
		return nil, apperrors.Internal("failed to load fallback hotels", err)
	}
	kept := make([]model.Hotel, 0, len(neighbors))
	for _, h := range neighbors {
		if h.ID != hotelID {
			kept = append(kept, h)
		}
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return wrap(RankByPopularity(kept), nil, "More places in "+hotel.City), nil
}

// Trending serves from cache when possible; a trending list a few minutes
// stale is fine.
func (s *recommendationService) Trending(ctx context.Context, city string, limit int) ([]model.RankedHotel, error) {
	return s.trendingFor(ctx, sanitizer.SanitizeCity(city), limit)
}

func (s *recommendationService) trendingFor(ctx context.Context, city string, limit int) ([]model.RankedHotel, error) {
	limit = config.NormalizePaginationLimit(limit)
	key := fmt.Sprintf("trending:%s:%d", city, limit)

	var cached []model.RankedHotel
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	ranked, err := s.computeTrending(ctx, city, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, ranked, s.trendingTTL); err != nil {
		s.log.Warn("failed to cache trending list", "error", err)
	}
	return ranked, nil
}

func (s *recommendationService) computeTrending(ctx context.Context, city string, limit int) ([]model.RankedHotel, error) {
	scored, err := s.oracle.Trending(ctx, city, limit)
	if err == nil {
		return s.materialize(ctx, scored, explainTrending)
	}
	s.log.Warn("oracle unavailable for trending", "city", city, "error", err)

	// A city shelf can fall back straight to the catalog's top hotels in
	// that city.
	if city != "" {
		hotels, err := s.hotels.FindByCity(ctx, city, limit)
		if err != nil {
			return nil, apperrors.Internal("failed to load city trending fallback", err)
		}
		return wrap(RankByPopularity(hotels), nil, "Popular in "+city), nil
	}

	// Interaction volume over the recent window stands in for the oracle.
	since := time.Now().UTC().AddDate(0, 0, -trendingWindowDays)
	counts, err := s.interactions.CountByHotel(ctx, since)
	if err != nil {
		return nil, apperrors.Internal("failed to compute local trending", err)
	}

	if len(counts) == 0 {
		hotels, err := s.hotels.FindFeatured(ctx, limit)
		if err != nil {
			return nil, apperrors.Internal("failed to load featured fallback", err)
		}
		return wrap(RankByPopularity(hotels), nil, explainPopular), nil
	}

	ids := make([]string, 0, len(counts))
	scores := make(map[string]float64, len(counts))
	for id, count := range counts {
		ids = append(ids, id)
		scores[id] = float64(count)
	}
	hotels, err := s.hotels.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load trending hotels", err)
	}

	ranked := RankByScores(hotels, scores)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return wrap(ranked, scores, explainTrending), nil
}

// EnhancedSearch applies the hard constraints locally and lets the oracle
// only reorder within them; an unavailable oracle degrades to popularity
// order, never to an error.
func (s *recommendationService) EnhancedSearch(ctx context.Context, search *model.HotelSearch, userID string, limit int) ([]model.RankedHotel, error) {
	limit = config.NormalizePaginationLimit(limit)
	search.City = sanitizer.SanitizeCity(search.City)
	if search.City == "" {
		return nil, apperrors.InvalidInput("city is required")
	}
	if search.MinPrice != nil && search.MaxPrice != nil && *search.MinPrice > *search.MaxPrice {
		return nil, apperrors.InvalidInput("min_price cannot exceed max_price")
	}

	hotels, err := s.hotels.Search(ctx, search, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to search hotels", err)
	}
	if len(hotels) == 0 {
		return []model.RankedHotel{}, nil
	}

	if userID != "" {
		filters := &oracle.Filters{City: search.City}
		if search.MinPrice != nil || search.MaxPrice != nil {
			filters.PriceRange = &oracle.PriceBound{Min: search.MinPrice, Max: search.MaxPrice}
		}
		scored, err := s.oracle.Personalized(ctx, userID, searchScoreLimit, filters)
		if err == nil {
			scores := make(map[string]float64, len(scored))
			for _, sc := range scored {
				scores[sc.HotelID] = sc.Score
			}
			return wrap(RankByScores(hotels, scores), scores, explainPersonalized), nil
		}
		s.log.Warn("oracle unavailable for search ranking", "user_id", userID, "error", err)
	}

	return wrap(RankByPopularity(hotels), nil, explainPopular), nil
}

// HomePage aggregates the landing feed. Each section degrades
// independently; a failed section comes back empty rather than failing
// the page.
func (s *recommendationService) HomePage(ctx context.Context, userID string, limit int) (*model.HomePage, error) {
	limit = config.NormalizePaginationLimit(limit)
	page := &model.HomePage{
		Featured:    []model.Hotel{},
		Recommended: []model.RankedHotel{},
		Trending:    []model.RankedHotel{},
	}

	featured, err := s.hotels.FindFeatured(ctx, limit)
	if err != nil {
		s.log.Warn("failed to load featured hotels for home page", "error", err)
	} else {
		page.Featured = featured
	}

	if userID != "" {
		if recommended, err := s.Personalized(ctx, userID, limit); err == nil {
			page.Recommended = recommended
		} else {
			s.log.Warn("failed to load recommendations for home page", "user_id", userID, "error", err)
		}
		page.ByCity = s.cityShelves(ctx, userID, limit)
	}

	if trending, err := s.trendingFor(ctx, "", limit); err == nil {
		page.Trending = trending
	} else {
		s.log.Warn("failed to load trending for home page", "error", err)
	}

	return page, nil
}

const maxCityShelves = 3

// cityShelves builds a trending shelf per preferred city, strongest
// interest first.
func (s *recommendationService) cityShelves(ctx context.Context, userID string, limit int) map[string][]model.RankedHotel {
	pref, err := s.preferences.FindByUser(ctx, userID)
	if err != nil || len(pref.PreferredCities) == 0 {
		return nil
	}

	cities := make([]model.CityWeight, len(pref.PreferredCities))
	copy(cities, pref.PreferredCities)
	sort.SliceStable(cities, func(i, j int) bool { return cities[i].Weight > cities[j].Weight })
	if len(cities) > maxCityShelves {
		cities = cities[:maxCityShelves]
	}

	shelves := make(map[string][]model.RankedHotel, len(cities))
	for _, cw := range cities {
		ranked, err := s.trendingFor(ctx, cw.City, limit)
		if err != nil || len(ranked) == 0 {
			s.log.Warn("failed to build city shelf for home page", "city", cw.City, "error", err)
			continue
		}
		shelves[cw.City] = ranked
	}
	if len(shelves) == 0 {
		return nil
	}
	return shelves
}

func (s *recommendationService) UserProfile(ctx context.Context, userID string) (map[string]any, error) {
	profile, err := s.oracle.UserProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	s.log.Warn("oracle unavailable for user profile", "user_id", userID, "error", err)

	pref, perr := s.preferences.FindByUser(ctx, userID)
	if perr != nil {
		return nil, apperrors.NotFoundWithID("user profile", userID)
	}
	return map[string]any{
		"source":      "local",
		"preferences": pref,
	}, nil
}

// Retrain is an operator action; oracle failures surface here instead of
// degrading.
func (s *recommendationService) Retrain(ctx context.Context) error {
	return s.oracle.Retrain(ctx)
}

// materialize resolves oracle score rows into hotels, preserving the
// oracle's order and dropping ids the catalog no longer has.
func (s *recommendationService) materialize(ctx context.Context, scored []model.ScoredHotel, explanation string) ([]model.RankedHotel, error) {
	if len(scored) == 0 {
		return []model.RankedHotel{}, nil
	}

	ids := make([]string, len(scored))
	for i, sc := range scored {
		ids[i] = sc.HotelID
	}
	hotels, err := s.hotels.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load recommended hotels", err)
	}

	byID := make(map[string]model.Hotel, len(hotels))
	for _, h := range hotels {
		byID[h.ID] = h
	}

	ranked := make([]model.RankedHotel, 0, len(scored))
	for _, sc := range scored {
		hotel, ok := byID[sc.HotelID]
		if !ok {
			continue
		}
		explain, ok := reasonExplanations[sc.Reason]
		if !ok {
			explain = explanation
		}
		ranked = append(ranked, model.RankedHotel{
			Hotel:       hotel,
			Score:       sc.Score,
			Explanation: explain,
		})
	}
	return ranked, nil
}

func wrap(hotels []model.Hotel, scores map[string]float64, explanation string) []model.RankedHotel {
	ranked := make([]model.RankedHotel, len(hotels))
	for i, h := range hotels {
		ranked[i] = model.RankedHotel{
			Hotel:       h,
			Score:       scores[h.ID],
			Explanation: explanation,
		}
	}
	return ranked
}
