package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/employee-records/internal/common"
	"github.com/isdelr/employee-records/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (d userDocument) toModel() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoRepository stores users as documents. Uniqueness relies on the indexes
// created by database.EnsureMongoIndexes.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a new MongoRepository over coll.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// FindByUsername returns the user with username or common.ErrNotFound.
func (r *MongoRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByEmail returns the user with email or common.ErrNotFound.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID returns the user with id or common.ErrNotFound.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, common.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, common.ErrNotFound
		}
		return models.User{}, fmt.Errorf("mongo error: %w", err)
	}
	return doc.toModel(), nil
}

// Create inserts user with a fresh ID. A taken username or email yields
// common.ErrDuplicateUsername or common.ErrDuplicateEmail.
func (r *MongoRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, mongoDuplicateError(err)
		}
		return models.User{}, fmt.Errorf("mongo error: %w", err)
	}
	return doc.toModel(), nil
}

func mongoDuplicateError(err error) error {
	if strings.Contains(err.Error(), "index: username_1") {
		return common.ErrDuplicateUsername
	}
	return common.ErrDuplicateEmail
}
