package trainer

import "animeRecommendator/domain"

// RatingMatrix is a sparse user x anime rating table. A missing cell means
// "unwatched", which is distinct from a rating of zero.
type RatingMatrix map[int]map[int]float64

// BuildMatrix pivots filtered rating events into rows keyed by user and
// columns keyed by anime. Duplicate (user, anime) pairs are not expected;
// when present the last event wins.
func BuildMatrix(ratings []domain.Rating) RatingMatrix {
	matrix := make(RatingMatrix)
	for _, r := range ratings {
		row, ok := matrix[r.UserID]
		if !ok {
			row = make(map[int]float64)
			matrix[r.UserID] = row
		}
		row[r.AnimeID] = float64(r.Rating)
	}
	return matrix
}

// UserCount returns the number of distinct users contributing rows.
func (m RatingMatrix) UserCount() int {
	return len(m)
}

// ItemCount returns the number of distinct anime contributing columns.
func (m RatingMatrix) ItemCount() int {
	items := make(map[int]struct{})
	for _, row := range m {
		for animeID := range row {
			items[animeID] = struct{}{}
		}
	}
	return len(items)
}
