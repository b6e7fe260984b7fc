package service

import (
	"sort"

	"stayfinder/pkg/model"
)

// RankByScores orders hotels by descending score, treating hotels absent
// from the score map as zero. The sort is stable so unscored hotels keep
// their incoming order behind the scored ones.
func RankByScores(hotels []model.Hotel, scores map[string]float64) []model.Hotel {
	ranked := append([]model.Hotel(nil), hotels...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].ID] > scores[ranked[j].ID]
	})
	return ranked
}

// RankByPopularity is the zero-knowledge fallback: rating first, review
// count as the tiebreaker.
func RankByPopularity(hotels []model.Hotel) []model.Hotel {
	ranked := append([]model.Hotel(nil), hotels...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].ReviewCount > ranked[j].ReviewCount
	})
	return ranked
}
