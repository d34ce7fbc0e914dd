package models

import "time"

// DateLayout is the wire format of release dates
const DateLayout = "2006-01-02"

// Movie is a production the agency casts for
type Movie struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	ReleaseDate time.Time  `json:"release_date" db:"release_date"`
	Actors      []ActorRef `json:"actors" db:"-"`
}

// MovieRef is the short form of a movie embedded in an actor
type MovieRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// MovieView is the JSON representation of a movie
type MovieView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	ReleaseDate string     `json:"release_date"`
	Actors      []ActorRef `json:"actors"`
}

// TableName returns the table name for the Movie model
func (Movie) TableName() string {
	return "movies"
}

// NewMovie creates a new, unsaved Movie
func NewMovie(title string, releaseDate time.Time) *Movie {
	return &Movie{
		Title:       title,
		ReleaseDate: releaseDate,
		Actors:      []ActorRef{},
	}
}

// Ref returns the short form of the movie
func (m *Movie) Ref() MovieRef {
	return MovieRef{ID: m.ID, Title: m.Title}
}

// Format returns the JSON view of the movie. Actors is never null.
func (m *Movie) Format() MovieView {
	actors := m.Actors
	if actors == nil {
		actors = []ActorRef{}
	}
	return MovieView{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate.Format(DateLayout),
		Actors:      actors,
	}
}

// ParseReleaseDate parses a YYYY-MM-DD date
func ParseReleaseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
