package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review is user feedback on a movie. MovieID is not checked against the catalog.
type Review struct {
	ID       primitive.ObjectID `json:"_id"      bson:"_id,omitempty"`
	MovieID  string             `json:"movieId"  bson:"movieId"`
	Username string             `json:"username" bson:"username"`
	Review   string             `json:"review"   bson:"review"`
	Rating   float64            `json:"rating"   bson:"rating"`
}

// CreateReviewRequest is the JSON body for POST /reviews.
type CreateReviewRequest struct {
	MovieID  string   `json:"movieId"  validate:"required"`
	Username string   `json:"username" validate:"required"`
	Review   string   `json:"review"   validate:"required"`
	Rating   *float64 `json:"rating"   validate:"required,min=0,max=5"`
}
