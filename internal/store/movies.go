package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/movie-review-api/internal/models"
)

// MovieStore handles the movie catalog in MongoDB.
type MovieStore struct {
	col *mongo.Collection
}

func NewMovieStore(db *mongo.Database) *MovieStore {
	return &MovieStore{col: db.Collection(MoviesCollection)}
}

func (s *MovieStore) Insert(ctx context.Context, m *models.Movie) (string, error) {
	res, err := s.col.InsertOne(ctx, m)
	if err != nil {
		return "", fmt.Errorf("mongo insert movie: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	m.ID = oid
	return oid.Hex(), nil
}

func (s *MovieStore) List(ctx context.Context) ([]models.Movie, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo find movies: %w", err)
	}
	defer cur.Close(ctx)

	movies := []models.Movie{}
	if err := cur.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("mongo decode movies: %w", err)
	}
	return movies, nil
}

// ReviewLookupPipeline left-joins reviews onto movies. Review movieId values are
// strings, so the movie _id is compared in its hex form.
func ReviewLookupPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ReviewsCollection},
			{Key: "let", Value: bson.D{{Key: "movieId", Value: bson.D{{Key: "$toString", Value: "$_id"}}}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$movieId", "$$movieId"}},
				}}}}},
			}},
			{Key: "as", Value: "reviews"},
		}}},
	}
}

func (s *MovieStore) ListWithReviews(ctx context.Context) ([]models.MovieWithReviews, error) {
	cur, err := s.col.Aggregate(ctx, ReviewLookupPipeline())
	if err != nil {
		return nil, fmt.Errorf("mongo aggregate movies: %w", err)
	}
	defer cur.Close(ctx)

	movies := []models.MovieWithReviews{}
	if err := cur.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("mongo decode movies: %w", err)
	}
	for i := range movies {
		if movies[i].Reviews == nil {
			movies[i].Reviews = []models.Review{}
		}
	}
	return movies, nil
}

func (s *MovieStore) GetByTitle(ctx context.Context, title string) (*models.Movie, error) {
	var m models.Movie
	err := s.col.FindOne(ctx, bson.M{"title": title}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find movie: %w", err)
	}
	return &m, nil
}

// UpdateByTitle applies patch to the first movie titled title.
func (s *MovieStore) UpdateByTitle(ctx context.Context, title string, patch models.MoviePatch) error {
	set := bson.D{}
	if patch.ReleaseDate != nil {
		set = append(set, bson.E{Key: "releaseDate", Value: *patch.ReleaseDate})
	}
	if patch.Genre != nil {
		set = append(set, bson.E{Key: "genre", Value: *patch.Genre})
	}
	if patch.Actors != nil {
		set = append(set, bson.E{Key: "actors", Value: patch.Actors})
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"title": title}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("mongo update movie: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MovieStore) DeleteByTitle(ctx context.Context, title string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"title": title})
	if err != nil {
		return fmt.Errorf("mongo delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
