package domain

import "strings"

type Anime struct {
	AnimeID  int      `gorm:"column:anime_id;primaryKey" json:"anime_id"`
	Name     string   `gorm:"column:name;not null" json:"name"`
	Genre    string   `gorm:"column:genre" json:"genre"`
	Rating   *float64 `gorm:"column:rating" json:"rating,omitempty"`
	Episodes *int     `gorm:"column:episodes" json:"episodes,omitempty"`
	Members  *int     `gorm:"column:members" json:"members,omitempty"`
}

func (Anime) TableName() string {
	return "animes"
}

// GenreTags splits the delimited genre string into a set of trimmed tags.
// An empty or missing genre yields an empty set.
func (a Anime) GenreTags() map[string]struct{} {
	tags := make(map[string]struct{})
	if a.Genre == "" {
		return tags
	}
	for _, tag := range strings.Split(a.Genre, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags[tag] = struct{}{}
		}
	}
	return tags
}
