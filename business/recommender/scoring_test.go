//go:build !integration

package recommender

import (
	"math"
	"testing"

	"animeRecommendator/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestGenreSimilarity(t *testing.T) {
	tests := []struct {
		name             string
		target, cand     string
		want             float64
	}{
		{"one shared of four", "Action, Drama, Fantasy", "Comedy, Drama", 0.25},
		{"two shared of four", "Action, Drama, Fantasy", "Action, Drama, Romance", 0.5},
		{"identical", "Action, Drama", "Drama, Action", 1},
		{"disjoint", "Action", "Comedy", 0},
		{"target empty", "", "Comedy", 0},
		{"candidate empty", "Action", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := genreSimilarity(
				domain.Anime{Genre: tt.target},
				domain.Anime{Genre: tt.cand},
			)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("genreSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRatingProximity(t *testing.T) {
	tests := []struct {
		name         string
		target, cand *float64
		want         float64
	}{
		{"one point apart", floatPtr(8), floatPtr(9), 0.9},
		{"equal", floatPtr(7.5), floatPtr(7.5), 1},
		{"symmetric", floatPtr(9), floatPtr(8), 0.9},
		{"far apart", floatPtr(2), floatPtr(9.5), 0.25},
		{"target unknown", nil, floatPtr(8), 0},
		{"candidate unknown", floatPtr(8), nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ratingProximity(
				domain.Anime{Rating: tt.target},
				domain.Anime{Rating: tt.cand},
			)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ratingProximity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFinalScoreBlend(t *testing.T) {
	// 0.7*0.5 + 0.2*0.25 + 0.1*0.9
	got := finalScore(0.5, 0.25, 0.9, 0.2, 0.1)
	want := 0.49
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("finalScore = %v, want %v", got, want)
	}
}

func TestFinalScoreZeroWeightsIsPureSimilarity(t *testing.T) {
	got := finalScore(0.73, 1, 1, 0, 0)
	if math.Abs(got-0.73) > 1e-9 {
		t.Errorf("finalScore = %v, want 0.73", got)
	}
}

func TestFinalScoreOversizedWeightsFlipSimilarity(t *testing.T) {
	// Weights summing above 1 give the similarity term a negative share.
	// They are passed through on purpose.
	got := finalScore(1, 0, 0, 0.8, 0.4)
	want := -0.2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("finalScore = %v, want %v", got, want)
	}
}
