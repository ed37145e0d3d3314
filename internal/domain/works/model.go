package works

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TypeBook   = "book"
	TypeScreen = "screen"
)

// Genres accepted on a work record.
var Genres = []string{
	"Romance", "Drama", "Comedy", "Tragedy", "Action", "Adventure",
	"Fantasy", "Science Fiction", "Mystery", "Historical", "Horror",
	"War", "Thriller", "Crime", "SliceOfLife", "Psychological",
	"Philosophical", "ComingOfAge", "Political", "Satire", "Nature",
	"Other",
}

type Work struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Title       string `gorm:"not null;index" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Type        string `gorm:"not null;index" json:"type"` // book | screen
	Year        int    `gorm:"not null;index" json:"year"`

	Genres      datatypes.JSONSlice[string] `json:"genres"`
	Language    string                      `json:"language"`
	CoverImages datatypes.JSONSlice[string] `json:"cover_images"`

	// book specific
	Author string `json:"author,omitempty"`

	// screen specific
	Director    string                      `json:"director,omitempty"`
	Actors      datatypes.JSONSlice[string] `json:"actors,omitempty"`
	ReleaseDate *time.Time                  `json:"release_date,omitempty"`

	AverageRating float64 `gorm:"not null;default:0" json:"average_rating"`
	RatingCount   int     `gorm:"not null;default:0" json:"rating_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Work) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

func IsValidType(t string) bool {
	return t == TypeBook || t == TypeScreen
}

func IsValidGenre(g string) bool {
	for _, v := range Genres {
		if v == g {
			return true
		}
	}
	return false
}
