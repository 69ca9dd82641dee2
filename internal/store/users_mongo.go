package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/movie-review-api/internal/models"
)

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Username string             `bson:"username"`
	Password string             `bson:"password"`
}

func (d *userDoc) toModel() *models.User {
	return &models.User{ID: d.ID.Hex(), Name: d.Name, Username: d.Username, Password: d.Password}
}

// UserMongoStore keeps accounts in the users collection.
type UserMongoStore struct {
	col *mongo.Collection
}

func NewUserMongoStore(db *mongo.Database) *UserMongoStore {
	return &UserMongoStore{col: db.Collection(UsersCollection)}
}

// Migrate creates the unique username index the duplicate check relies on.
func (s *UserMongoStore) Migrate(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo users index: %w", err)
	}
	return nil
}

func (s *UserMongoStore) CreateUser(ctx context.Context, name, username, hashedPw string) (*models.User, error) {
	doc := userDoc{Name: name, Username: username, Password: hashedPw}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("create user %q: %w", username, ErrDuplicate)
		}
		return nil, fmt.Errorf("mongo insert user: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

func (s *UserMongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDoc
	err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return doc.toModel(), nil
}
