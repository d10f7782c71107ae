package domain

// SentinelRating marks an anime as watched but never rated. Events carrying
// it are excluded from similarity math.
const SentinelRating = -1

type Rating struct {
	ID      uint `gorm:"primaryKey" json:"-"`
	UserID  int  `gorm:"column:user_id;not null;index" json:"user_id"`
	AnimeID int  `gorm:"column:anime_id;not null;index" json:"anime_id"`
	Rating  int  `gorm:"column:rating;not null" json:"rating"`
}

func (Rating) TableName() string {
	return "ratings"
}

// WatchedAnime is a rating event joined with the catalog name, returned by
// the watched-history endpoint.
type WatchedAnime struct {
	AnimeID int    `json:"anime_id"`
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
}
