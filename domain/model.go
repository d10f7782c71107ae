package domain

import "time"

// VersionNone is the model version pointer value before any training run.
const VersionNone = "none"

// ModelMeta describes the training run that produced a similarity model.
type ModelMeta struct {
	UserCount int       `json:"num_users"`
	ItemCount int       `json:"num_anime"`
	TrainedAt time.Time `json:"trained_on"`
}

// SimilarityModel is an immutable, versioned item-item Pearson correlation
// matrix. Matrix[a][b] is defined only for pairs with enough co-ratings;
// a missing entry means "no signal", never "dissimilar". The matrix is
// symmetric and does not store the diagonal.
type SimilarityModel struct {
	Version string                  `json:"version"`
	Matrix  map[int]map[int]float64 `json:"matrix"`
	Meta    ModelMeta               `json:"meta"`
}

// Similarity returns the correlation between two anime, reporting whether
// the pair has a defined entry.
func (m *SimilarityModel) Similarity(a, b int) (float64, bool) {
	row, ok := m.Matrix[a]
	if !ok {
		return 0, false
	}
	sim, ok := row[b]
	return sim, ok
}

// Row returns the similarity row for an anime, or nil if the anime never
// trained into the model.
func (m *SimilarityModel) Row(animeID int) map[int]float64 {
	return m.Matrix[animeID]
}

// ScoredAnime is a ranked recommendation candidate. Ephemeral, never persisted.
type ScoredAnime struct {
	AnimeID         int      `json:"anime_id"`
	Name            string   `json:"name"`
	Genre           string   `json:"genre"`
	Rating          *float64 `json:"rating,omitempty"`
	Similarity      float64  `json:"similarity"`
	GenreSimilarity float64  `json:"genre_similarity"`
	RatingProximity float64  `json:"rating_proximity"`
	FinalScore      float64  `json:"final_score"`
}
