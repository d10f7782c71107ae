package trainer

import (
	"math"
	"sort"
	"time"

	"animeRecommendator/domain"
)

// DefaultMinCoRatings is the minimum number of users who rated both anime
// of a pair before the pair's correlation is trusted.
const DefaultMinCoRatings = 10

// BuildModel computes the pairwise item-item Pearson correlation matrix for
// a rating matrix. A pair is present only when at least minCoRatings users
// rated both anime and both co-rated vectors have nonzero variance; an
// absent entry means "no signal", not "dissimilar". The diagonal is not
// stored. The returned model carries no version; the caller assigns one
// before persisting.
func BuildModel(matrix RatingMatrix, minCoRatings int) (*domain.SimilarityModel, error) {
	if minCoRatings <= 0 {
		minCoRatings = DefaultMinCoRatings
	}

	userCount := matrix.UserCount()
	itemCount := matrix.ItemCount()
	if userCount < 2 || itemCount < 2 {
		return nil, domain.ErrInsufficientData
	}

	// Transpose into item vectors: animeID -> userID -> rating.
	itemVectors := make(map[int]map[int]float64, itemCount)
	for userID, row := range matrix {
		for animeID, rating := range row {
			vec, ok := itemVectors[animeID]
			if !ok {
				vec = make(map[int]float64)
				itemVectors[animeID] = vec
			}
			vec[userID] = rating
		}
	}

	itemIDs := make([]int, 0, len(itemVectors))
	for animeID := range itemVectors {
		itemIDs = append(itemIDs, animeID)
	}
	sort.Ints(itemIDs)

	sim := make(map[int]map[int]float64, len(itemIDs))
	for i := 0; i < len(itemIDs); i++ {
		for j := i + 1; j < len(itemIDs); j++ {
			a, b := itemIDs[i], itemIDs[j]
			r, ok := pearson(itemVectors[a], itemVectors[b], minCoRatings)
			if !ok {
				continue
			}
			putSim(sim, a, b, r)
			putSim(sim, b, a, r)
		}
	}

	return &domain.SimilarityModel{
		Matrix: sim,
		Meta: domain.ModelMeta{
			UserCount: userCount,
			ItemCount: itemCount,
			TrainedAt: time.Now(),
		},
	}, nil
}

func putSim(m map[int]map[int]float64, a, b int, v float64) {
	row, ok := m[a]
	if !ok {
		row = make(map[int]float64)
		m[a] = row
	}
	row[b] = v
}

// pearson computes the correlation between two item rating vectors over the
// users present in both. It reports false when the co-rating population is
// below minCoRatings or either centered vector has zero variance.
func pearson(a, b map[int]float64, minCoRatings int) (float64, bool) {
	// Iterate the smaller vector when collecting co-raters.
	if len(b) < len(a) {
		a, b = b, a
	}

	common := make([]int, 0, len(a))
	for userID := range a {
		if _, ok := b[userID]; ok {
			common = append(common, userID)
		}
	}
	if len(common) < minCoRatings {
		return 0, false
	}

	var sumA, sumB float64
	for _, userID := range common {
		sumA += a[userID]
		sumB += b[userID]
	}
	n := float64(len(common))
	meanA := sumA / n
	meanB := sumB / n

	var num, denA, denB float64
	for _, userID := range common {
		diffA := a[userID] - meanA
		diffB := b[userID] - meanB
		num += diffA * diffB
		denA += diffA * diffA
		denB += diffB * diffB
	}

	if denA == 0 || denB == 0 {
		return 0, false
	}

	return num / (math.Sqrt(denA) * math.Sqrt(denB)), true
}
