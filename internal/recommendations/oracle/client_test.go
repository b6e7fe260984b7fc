package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "stayfinder/pkg/errors"
)

const (
	testUserID  = "64a7b2c8e4b0f5a3d2c1b0a9"
	testHotelID = "64a7b2c8e4b0f5a3d2c1b001"
)

func newTestOracle(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second)
}

func TestPersonalizedDecodesEmbeddedHotelRows(t *testing.T) {
	var gotBody map[string]any
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommendations/personalized" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s, want POST /recommendations/personalized", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("request body: %v", err)
		}
		// Rows embed the full hotel document with the id inside, plus a
		// list of reason codes.
		w.Write([]byte(`{"recommendations":[
			{"hotel":{"_id":"` + testHotelID + `","name":"Harbor View","city":"Lisbon"},
			 "score":0.9,"reasons":["content_similarity","trending"]}
		],"total":1,"userId":"` + testUserID + `"}`))
	})

	scored, err := o.Personalized(context.Background(), testUserID, 10, &Filters{City: "Lisbon"})
	if err != nil {
		t.Fatalf("Personalized() error = %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("len = %d, want 1", len(scored))
	}
	if scored[0].HotelID != testHotelID {
		t.Errorf("hotel id = %q, want %q from the embedded document", scored[0].HotelID, testHotelID)
	}
	if scored[0].Score != 0.9 {
		t.Errorf("score = %v, want 0.9", scored[0].Score)
	}
	if scored[0].Reason != "content_similarity" {
		t.Errorf("reason = %q, want the strongest code", scored[0].Reason)
	}

	if gotBody["userId"] != testUserID {
		t.Errorf("userId = %v, want %s", gotBody["userId"], testUserID)
	}
	if gotBody["limit"] != float64(10) {
		t.Errorf("limit = %v, want 10", gotBody["limit"])
	}
	filters, _ := gotBody["filters"].(map[string]any)
	if filters["city"] != "Lisbon" {
		t.Errorf("filters = %v, want city Lisbon", gotBody["filters"])
	}
}

func TestSimilarDecodesSimilarityScore(t *testing.T) {
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"similar_hotels":[
			{"hotel":{"_id":"` + testHotelID + `"},"similarity_score":0.77,"reason":"content_similarity"}
		],"total":1}`))
	})

	scored, err := o.Similar(context.Background(), "64a7b2c8e4b0f5a3d2c1b002", 5)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if len(scored) != 1 || scored[0].HotelID != testHotelID {
		t.Fatalf("rows = %+v, want one row for %s", scored, testHotelID)
	}
	if scored[0].Score != 0.77 {
		t.Errorf("score = %v, want similarity_score 0.77", scored[0].Score)
	}
	if scored[0].Reason != "content_similarity" {
		t.Errorf("reason = %q, want content_similarity", scored[0].Reason)
	}
}

func TestTrendingDecodesTrendingScore(t *testing.T) {
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("city"); got != "Lisbon" {
			t.Errorf("city query = %q, want Lisbon", got)
		}
		w.Write([]byte(`{"trending_hotels":[
			{"hotel":{"_id":"` + testHotelID + `"},"trending_score":12.5,"interaction_count":40,"reason":"trending"}
		],"total":1}`))
	})

	scored, err := o.Trending(context.Background(), "Lisbon", 5)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if len(scored) != 1 || scored[0].HotelID != testHotelID {
		t.Fatalf("rows = %+v, want one row for %s", scored, testHotelID)
	}
	if scored[0].Score != 12.5 {
		t.Errorf("score = %v, want trending_score 12.5", scored[0].Score)
	}
}

func TestOracleErrorsAreUnavailable(t *testing.T) {
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := o.Personalized(context.Background(), testUserID, 10, nil)
	if err == nil {
		t.Fatal("Personalized() succeeded on a 500")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeOracleUnavailable {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeOracleUnavailable)
	}
}
