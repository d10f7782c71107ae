package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"animeRecommendator/domain"
)

// AnimeRepository serves the catalog from the flat anime.csv layout
// (anime_id,name,genre,type,episodes,rating,members). The file is read
// wholesale on every call; the catalog is reference data with no diffing.
type AnimeRepository struct {
	path string
}

func NewAnimeRepository(path string) *AnimeRepository {
	return &AnimeRepository{path: path}
}

func (r *AnimeRepository) FindAll(ctx context.Context) ([]domain.Anime, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open anime csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read anime csv: %w", err)
	}
	if len(records) == 0 {
		return []domain.Anime{}, nil
	}

	cols := headerIndex(records[0])
	idCol, ok := cols["anime_id"]
	if !ok {
		return nil, fmt.Errorf("anime csv missing anime_id column")
	}

	animes := make([]domain.Anime, 0, len(records)-1)
	for _, rec := range records[1:] {
		animeID, err := intField(rec, idCol)
		if err != nil {
			continue // malformed row, skip
		}

		anime := domain.Anime{
			AnimeID: animeID,
			Name:    stringField(rec, cols, "name"),
			Genre:   stringField(rec, cols, "genre"),
		}
		if rating, ok := floatFieldOK(rec, cols, "rating"); ok {
			anime.Rating = &rating
		}
		if episodes, ok := intFieldOK(rec, cols, "episodes"); ok {
			anime.Episodes = &episodes
		}
		if members, ok := intFieldOK(rec, cols, "members"); ok {
			anime.Members = &members
		}

		animes = append(animes, anime)
	}

	return animes, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func stringField(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func intField(rec []string, i int) (int, error) {
	if i >= len(rec) {
		return 0, fmt.Errorf("column %d out of range", i)
	}
	return strconv.Atoi(strings.TrimSpace(rec[i]))
}

func intFieldOK(rec []string, cols map[string]int, name string) (int, bool) {
	v := stringField(rec, cols, name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func floatFieldOK(rec []string, cols map[string]int, name string) (float64, bool) {
	v := stringField(rec, cols, name)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
