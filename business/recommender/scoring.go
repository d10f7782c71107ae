package recommender

import "animeRecommendator/domain"

// ratingScale is the span of the 0-10 global rating scale used to normalize
// rating proximity.
const ratingScale = 10.0

// genreSimilarity is the Jaccard index of the two anime's genre tag sets.
// Unknown genre on either side contributes no signal.
func genreSimilarity(target, candidate domain.Anime) float64 {
	a := target.GenreTags()
	b := candidate.GenreTags()
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for tag := range a {
		if _, ok := b[tag]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// ratingProximity rewards candidates whose global average rating sits close
// to the target's. Unknown rating on either side contributes no signal.
func ratingProximity(target, candidate domain.Anime) float64 {
	if target.Rating == nil || candidate.Rating == nil {
		return 0
	}
	diff := *candidate.Rating - *target.Rating
	if diff < 0 {
		diff = -diff
	}
	return 1 - diff/ratingScale
}

// finalScore blends statistical similarity with content and rating signals.
// Weights are caller-supplied and deliberately unvalidated; weights summing
// above 1 give similarity a negative share.
func finalScore(similarity, genreSim, ratingProx, genreWeight, ratingWeight float64) float64 {
	return (1-genreWeight-ratingWeight)*similarity +
		genreWeight*genreSim +
		ratingWeight*ratingProx
}
