package service

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	interrors "stayfinder/internal/interactions/errors"
	"stayfinder/internal/interactions/validator"
	"stayfinder/pkg/config"
	"stayfinder/pkg/kafka"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
)

const (
	testUserID  = "64a7b2c8e4b0f5a3d2c1b0a9"
	testHotelID = "64a7b2c8e4b0f5a3d2c1b0aa"
)

type memInteractionRepo struct {
	created   []*model.UserInteraction
	createErr error
}

func (m *memInteractionRepo) Create(_ context.Context, interaction *model.UserInteraction) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, interaction)
	return "64a7b2c8e4b0f5a3d2c1b0ff", nil
}

func (m *memInteractionRepo) FindByUser(context.Context, string, string, time.Time, int) ([]model.UserInteraction, error) {
	return nil, nil
}

func (m *memInteractionRepo) CountByHotel(context.Context, time.Time) (map[string]int64, error) {
	return nil, nil
}

type memPreferenceRepo struct {
	byUser     map[string]*model.UserPreference
	findErr    error
	replaceErr error
}

func newMemPreferenceRepo() *memPreferenceRepo {
	return &memPreferenceRepo{byUser: map[string]*model.UserPreference{}}
}

func (m *memPreferenceRepo) FindByUser(_ context.Context, userID string) (*model.UserPreference, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	pref, ok := m.byUser[userID]
	if !ok {
		return nil, interrors.ErrPreferenceNotFound
	}
	copied := *pref
	return &copied, nil
}

func (m *memPreferenceRepo) Create(_ context.Context, pref *model.UserPreference) (string, error) {
	m.byUser[pref.UserID] = pref
	return "64a7b2c8e4b0f5a3d2c1b0fe", nil
}

func (m *memPreferenceRepo) Replace(_ context.Context, pref *model.UserPreference) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	if _, ok := m.byUser[pref.UserID]; !ok {
		return interrors.ErrPreferenceNotFound
	}
	m.byUser[pref.UserID] = pref
	return nil
}

type memPublisher struct {
	published []kafka.Message
	err       error
}

func (m *memPublisher) Publish(_ context.Context, msg kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

func testService(interactions *memInteractionRepo, prefs *memPreferenceRepo, pub EventPublisher) InteractionService {
	log := logger.New(logger.Config{Output: io.Discard})
	return NewInteractionService(interactions, prefs, validator.NewInteractionValidator(), pub, log)
}

func viewWithSearch(userID string, query *model.SearchQuery) *model.UserInteraction {
	return &model.UserInteraction{
		UserID:          userID,
		HotelID:         testHotelID,
		InteractionType: config.InteractionView,
		SearchQuery:     query,
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrackAssignsSessionID(t *testing.T) {
	repo := &memInteractionRepo{}
	svc := testService(repo, newMemPreferenceRepo(), nil)

	tracked, err := svc.Track(context.Background(), &model.UserInteraction{
		HotelID:         testHotelID,
		InteractionType: config.InteractionClick,
	})
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if tracked.SessionID == "" {
		t.Error("SessionID not assigned")
	}
	if len(repo.created) != 1 {
		t.Errorf("interactions persisted = %d, want 1", len(repo.created))
	}
}

func TestTrackRepeatedCityAccumulatesWeight(t *testing.T) {
	prefs := newMemPreferenceRepo()
	svc := testService(&memInteractionRepo{}, prefs, nil)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		query := &model.SearchQuery{City: "Lisbon"}
		if i%2 == 1 {
			query.City = "lisbon" // city matching is case-insensitive
		}
		if _, err := svc.Track(ctx, viewWithSearch(testUserID, query)); err != nil {
			t.Fatalf("Track() #%d error = %v", i, err)
		}
	}

	pref := prefs.byUser[testUserID]
	if pref == nil {
		t.Fatal("no preference profile created")
	}
	if len(pref.PreferredCities) != 1 {
		t.Fatalf("preferred cities = %d, want 1 (case-insensitive merge)", len(pref.PreferredCities))
	}
	want := config.InitialCityWeight + 3*config.CityWeightIncrement
	if got := pref.PreferredCities[0].Weight; !approxEqual(got, want) {
		t.Errorf("city weight = %v, want %v", got, want)
	}
}

func TestTrackWidensPriceEnvelope(t *testing.T) {
	prefs := newMemPreferenceRepo()
	svc := testService(&memInteractionRepo{}, prefs, nil)
	ctx := context.Background()

	seed := defaultPreference(testUserID)
	seed.PriceRange = model.PriceRange{Min: 50, Max: 200}
	prefs.byUser[testUserID] = seed

	if _, err := svc.Track(ctx, viewWithSearch(testUserID, &model.SearchQuery{
		PriceRange: &model.PriceRange{Min: 30, Max: 150},
	})); err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	pref := prefs.byUser[testUserID]
	if pref.PriceRange.Min != 30 {
		t.Errorf("price min = %v, want 30 (widened down)", pref.PriceRange.Min)
	}
	if pref.PriceRange.Max != 200 {
		t.Errorf("price max = %v, want 200 (never narrows)", pref.PriceRange.Max)
	}
}

func TestTrackIgnoresUnstatedPriceBounds(t *testing.T) {
	prefs := newMemPreferenceRepo()
	svc := testService(&memInteractionRepo{}, prefs, nil)
	ctx := context.Background()

	seed := defaultPreference(testUserID)
	seed.PriceRange = model.PriceRange{Min: 100, Max: 300}
	prefs.byUser[testUserID] = seed

	// A max-only query decodes with Min zero; the zero must not drag the
	// stored lower bound down.
	if _, err := svc.Track(ctx, viewWithSearch(testUserID, &model.SearchQuery{
		PriceRange: &model.PriceRange{Max: 500},
	})); err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	pref := prefs.byUser[testUserID]
	if pref.PriceRange.Min != 100 {
		t.Errorf("price min = %v, want 100 (unstated bound left alone)", pref.PriceRange.Min)
	}
	if pref.PriceRange.Max != 500 {
		t.Errorf("price max = %v, want 500 (stated bound widened)", pref.PriceRange.Max)
	}
}

func TestTrackGroupSizeLastWriteWins(t *testing.T) {
	prefs := newMemPreferenceRepo()
	svc := testService(&memInteractionRepo{}, prefs, nil)
	ctx := context.Background()

	for _, guests := range []int{4, 2} {
		g := guests
		if _, err := svc.Track(ctx, viewWithSearch(testUserID, &model.SearchQuery{Guests: &g})); err != nil {
			t.Fatalf("Track() error = %v", err)
		}
	}

	if got := prefs.byUser[testUserID].GroupSize.Adults; got != 2 {
		t.Errorf("group size adults = %d, want 2 (latest search)", got)
	}
}

func TestTrackAnonymousBuildsNoProfile(t *testing.T) {
	prefs := newMemPreferenceRepo()
	repo := &memInteractionRepo{}
	svc := testService(repo, prefs, nil)

	if _, err := svc.Track(context.Background(), viewWithSearch("", &model.SearchQuery{City: "Porto"})); err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if len(prefs.byUser) != 0 {
		t.Errorf("profiles created = %d, want 0 for anonymous interaction", len(prefs.byUser))
	}
	if len(repo.created) != 1 {
		t.Errorf("interactions persisted = %d, want 1", len(repo.created))
	}
}

func TestTrackSurvivesProfileFailure(t *testing.T) {
	prefs := newMemPreferenceRepo()
	prefs.findErr = errors.New("connection reset")
	repo := &memInteractionRepo{}
	svc := testService(repo, prefs, nil)

	tracked, err := svc.Track(context.Background(), viewWithSearch(testUserID, &model.SearchQuery{City: "Madrid"}))
	if err != nil {
		t.Fatalf("Track() error = %v, profile failures must be swallowed", err)
	}
	if tracked == nil || len(repo.created) != 1 {
		t.Error("interaction not persisted despite profile failure")
	}
}

func TestTrackSurvivesPublishFailure(t *testing.T) {
	repo := &memInteractionRepo{}
	pub := &memPublisher{err: errors.New("broker down")}
	svc := testService(repo, newMemPreferenceRepo(), pub)

	if _, err := svc.Track(context.Background(), viewWithSearch(testUserID, nil)); err != nil {
		t.Fatalf("Track() error = %v, publish failures must be swallowed", err)
	}
	if len(repo.created) != 1 {
		t.Error("interaction not persisted despite publish failure")
	}
}

func TestSetPreferencesReplacesProvidedFields(t *testing.T) {
	prefs := newMemPreferenceRepo()
	svc := testService(&memInteractionRepo{}, prefs, nil)
	ctx := context.Background()

	seed := defaultPreference(testUserID)
	seed.PreferredCities = []model.CityWeight{{City: "Lisbon", Weight: 1.4}}
	prefs.byUser[testUserID] = seed

	newCities := []model.CityWeight{{City: "Rome", Weight: 2}}
	style := "business"
	pref, err := svc.SetPreferences(ctx, testUserID, &model.PreferenceOverride{
		PreferredCities: &newCities,
		TravelStyle:     style,
	})
	if err != nil {
		t.Fatalf("SetPreferences() error = %v", err)
	}
	if len(pref.PreferredCities) != 1 || pref.PreferredCities[0].City != "Rome" {
		t.Errorf("preferred cities = %v, want replaced with Rome", pref.PreferredCities)
	}
	if pref.TravelStyle != style {
		t.Errorf("travel style = %q, want %q", pref.TravelStyle, style)
	}
	if pref.PriceRange.Max != config.DefaultPriceRangeMax {
		t.Errorf("untouched price range changed: %v", pref.PriceRange)
	}
}

func TestGetPreferencesCreatesDefaultProfile(t *testing.T) {
	prefs := newMemPreferenceRepo()
	svc := testService(&memInteractionRepo{}, prefs, nil)

	pref, err := svc.GetPreferences(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if pref.PriceRange.Min != config.DefaultPriceRangeMin || pref.PriceRange.Max != config.DefaultPriceRangeMax {
		t.Errorf("default price range = %v", pref.PriceRange)
	}
	if pref.TravelStyle != config.DefaultTravelStyle {
		t.Errorf("default travel style = %q", pref.TravelStyle)
	}
	if _, ok := prefs.byUser[testUserID]; !ok {
		t.Error("profile not persisted on lazy creation")
	}
}
