package models

// Actor is a performer that can be cast in movies
type Actor struct {
	ID     int64      `json:"id" db:"id"`
	Name   string     `json:"name" db:"name"`
	Age    int        `json:"age" db:"age"`
	Gender string     `json:"gender" db:"gender"`
	Movies []MovieRef `json:"movies" db:"-"`
}

// ActorRef is the short form of an actor embedded in a movie
type ActorRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ActorView is the JSON representation of an actor
type ActorView struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Age    int        `json:"age"`
	Gender string     `json:"gender"`
	Movies []MovieRef `json:"movies"`
}

// TableName returns the table name for the Actor model
func (Actor) TableName() string {
	return "actors"
}

// NewActor creates a new, unsaved Actor
func NewActor(name string, age int, gender string) *Actor {
	return &Actor{
		Name:   name,
		Age:    age,
		Gender: gender,
		Movies: []MovieRef{},
	}
}

// Ref returns the short form of the actor
func (a *Actor) Ref() ActorRef {
	return ActorRef{ID: a.ID, Name: a.Name}
}

// Format returns the JSON view of the actor. Movies is never null.
func (a *Actor) Format() ActorView {
	movies := a.Movies
	if movies == nil {
		movies = []MovieRef{}
	}
	return ActorView{
		ID:     a.ID,
		Name:   a.Name,
		Age:    a.Age,
		Gender: a.Gender,
		Movies: movies,
	}
}
