// Package oracle wraps the external scoring service. Every error out of
// this package is an ORACLE_UNAVAILABLE application error; callers on the
// visitor path degrade to the local ranking fallback instead of failing.
package oracle

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"stayfinder/pkg/client"
	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/model"
	"stayfinder/pkg/observability"
)

type Client interface {
	Personalized(ctx context.Context, userID string, limit int, filters *Filters) ([]model.ScoredHotel, error)
	Similar(ctx context.Context, hotelID string, limit int) ([]model.ScoredHotel, error)
	Trending(ctx context.Context, city string, limit int) ([]model.ScoredHotel, error)
	UserProfile(ctx context.Context, userID string) (map[string]any, error)
	Retrain(ctx context.Context) error
}

// Filters narrows personalized scoring to the caller's hard constraints.
// The oracle drops rows that miss any provided bound.
type Filters struct {
	City       string      `json:"city,omitempty"`
	PriceRange *PriceBound `json:"priceRange,omitempty"`
}

// PriceBound bounds are optional; the oracle only enforces the keys that
// are present.
type PriceBound struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type httpOracle struct {
	http *client.HttpClient
}

func New(baseURL string, timeout time.Duration) Client {
	return &httpOracle{http: client.NewHttpClient(baseURL, timeout)}
}

// The oracle keys each ranking list differently; decode picks the one
// the endpoint promises.
type scoresResponse struct {
	Recommendations []scoreRow `json:"recommendations"`
	SimilarHotels   []scoreRow `json:"similar_hotels"`
	TrendingHotels  []scoreRow `json:"trending_hotels"`
}

// scoreRow is the oracle's wire row. It embeds a full hotel document, of
// which only the id is trusted; the score key and the reason shape vary
// by endpoint, so every variant is decoded and normalize picks the one
// that is set.
type scoreRow struct {
	Hotel struct {
		ID string `json:"_id"`
	} `json:"hotel"`
	Score           float64  `json:"score"`
	SimilarityScore float64  `json:"similarity_score"`
	TrendingScore   float64  `json:"trending_score"`
	Reasons         []string `json:"reasons"`
	Reason          string   `json:"reason"`
}

func (r scoreRow) normalize() model.ScoredHotel {
	score := r.Score
	if score == 0 {
		score = r.SimilarityScore
	}
	if score == 0 {
		score = r.TrendingScore
	}
	reason := r.Reason
	if len(r.Reasons) > 0 {
		reason = r.Reasons[0]
	}
	return model.ScoredHotel{HotelID: r.Hotel.ID, Score: score, Reason: reason}
}

func normalizeRows(rows []scoreRow) []model.ScoredHotel {
	out := make([]model.ScoredHotel, len(rows))
	for i, r := range rows {
		out[i] = r.normalize()
	}
	return out
}

func (o *httpOracle) Personalized(ctx context.Context, userID string, limit int, filters *Filters) ([]model.ScoredHotel, error) {
	body := map[string]any{"userId": userID, "limit": limit}
	if filters != nil {
		body["filters"] = filters
	}
	resp, err := o.call(ctx, "personalized", "/recommendations/personalized", body)
	if err != nil {
		return nil, err
	}
	return normalizeRows(resp.Recommendations), nil
}

func (o *httpOracle) Similar(ctx context.Context, hotelID string, limit int) ([]model.ScoredHotel, error) {
	body := map[string]any{"hotelId": hotelID, "limit": limit}
	resp, err := o.call(ctx, "similar", "/recommendations/similar", body)
	if err != nil {
		return nil, err
	}
	return normalizeRows(resp.SimilarHotels), nil
}

func (o *httpOracle) Trending(ctx context.Context, city string, limit int) ([]model.ScoredHotel, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if city != "" {
		query.Set("city", city)
	}

	start := time.Now()
	resp, err := o.http.GET(ctx, "/recommendations/trending", query)
	if err != nil {
		observability.ObserveOracle("trending", 0, time.Since(start))
		return nil, apperrors.OracleUnavailable(err)
	}
	observability.ObserveOracle("trending", resp.StatusCode, time.Since(start))

	body, err := decodeScores(resp)
	if err != nil {
		return nil, err
	}
	return normalizeRows(body.TrendingHotels), nil
}

func (o *httpOracle) call(ctx context.Context, endpoint, path string, body any) (*scoresResponse, error) {
	start := time.Now()
	resp, err := o.http.POST(ctx, path, body)
	if err != nil {
		observability.ObserveOracle(endpoint, 0, time.Since(start))
		return nil, apperrors.OracleUnavailable(err)
	}
	observability.ObserveOracle(endpoint, resp.StatusCode, time.Since(start))
	return decodeScores(resp)
}

func decodeScores(resp *client.Response) (*scoresResponse, error) {
	if !resp.IsSuccess() {
		return nil, apperrors.OracleUnavailable(fmt.Errorf("oracle returned status %d", resp.StatusCode))
	}
	var body scoresResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, apperrors.OracleUnavailable(fmt.Errorf("malformed oracle response: %w", err))
	}
	return &body, nil
}

func (o *httpOracle) UserProfile(ctx context.Context, userID string) (map[string]any, error) {
	start := time.Now()
	resp, err := o.http.POST(ctx, "/analytics/user-profile", map[string]any{"userId": userID})
	if err != nil {
		observability.ObserveOracle("user_profile", 0, time.Since(start))
		return nil, apperrors.OracleUnavailable(err)
	}
	observability.ObserveOracle("user_profile", resp.StatusCode, time.Since(start))

	if !resp.IsSuccess() {
		return nil, apperrors.OracleUnavailable(fmt.Errorf("oracle returned status %d", resp.StatusCode))
	}

	var body struct {
		UserProfile map[string]any `json:"user_profile"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, apperrors.OracleUnavailable(fmt.Errorf("malformed oracle response: %w", err))
	}
	return body.UserProfile, nil
}

func (o *httpOracle) Retrain(ctx context.Context) error {
	start := time.Now()
	resp, err := o.http.POST(ctx, "/models/retrain", map[string]any{"model_type": "all"})
	if err != nil {
		observability.ObserveOracle("retrain", 0, time.Since(start))
		return apperrors.OracleUnavailable(err)
	}
	observability.ObserveOracle("retrain", resp.StatusCode, time.Since(start))

	if !resp.IsSuccess() {
		return apperrors.OracleUnavailable(fmt.Errorf("oracle returned status %d", resp.StatusCode))
	}
	return nil
}
