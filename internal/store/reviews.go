package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/movie-review-api/internal/models"
)

// ReviewStore handles reviews in MongoDB.
type ReviewStore struct {
	col *mongo.Collection
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{col: db.Collection(ReviewsCollection)}
}

func (s *ReviewStore) Insert(ctx context.Context, r *models.Review) (string, error) {
	res, err := s.col.InsertOne(ctx, r)
	if err != nil {
		return "", fmt.Errorf("mongo insert review: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	r.ID = oid
	return oid.Hex(), nil
}

func (s *ReviewStore) List(ctx context.Context) ([]models.Review, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo find reviews: %w", err)
	}
	defer cur.Close(ctx)

	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("mongo decode reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes the review with the given hex id. A malformed id matches nothing.
func (s *ReviewStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
