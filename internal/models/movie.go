package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Movie is a catalog entry. Title is the lookup key for updates and deletes.
type Movie struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id,omitempty"`
	Title       string             `json:"title"       bson:"title"`
	ReleaseDate string             `json:"releaseDate" bson:"releaseDate"`
	Genre       string             `json:"genre"       bson:"genre"`
	Actors      []string           `json:"actors"      bson:"actors"`
}

// MovieWithReviews is a Movie joined with every review that references it.
type MovieWithReviews struct {
	Movie   `bson:",inline"`
	Reviews []Review `json:"reviews" bson:"reviews"`
}

// CreateMovieRequest is the JSON body for POST /movies.
type CreateMovieRequest struct {
	Title       string   `json:"title"       validate:"required"`
	ReleaseDate string   `json:"releaseDate" validate:"required"`
	Genre       string   `json:"genre"       validate:"required"`
	Actors      []string `json:"actors"      validate:"required,min=1,dive,required"`
}

// UpdateMovieRequest is the JSON body for PUT /movies.
// Nil fields are left untouched.
type UpdateMovieRequest struct {
	Title       string    `json:"title"       validate:"required"`
	ReleaseDate *string   `json:"releaseDate" validate:"omitnil,min=1"`
	Genre       *string   `json:"genre"       validate:"omitnil,min=1"`
	Actors      *[]string `json:"actors"      validate:"omitnil,min=1,dive,required"`
}

// MoviePatch is the set of fields an update writes.
type MoviePatch struct {
	ReleaseDate *string
	Genre       *string
	Actors      []string
}

// Empty reports whether the patch would change nothing.
func (p MoviePatch) Empty() bool {
	return p.ReleaseDate == nil && p.Genre == nil && p.Actors == nil
}

// Patch extracts the fields to write from the request.
func (r *UpdateMovieRequest) Patch() MoviePatch {
	p := MoviePatch{ReleaseDate: r.ReleaseDate, Genre: r.Genre}
	if r.Actors != nil {
		p.Actors = *r.Actors
	}
	return p
}
