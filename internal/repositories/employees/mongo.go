package employees

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/employee-records/internal/common"
	"github.com/isdelr/employee-records/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type employeeDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	FirstName  string             `bson:"firstName"`
	LastName   string             `bson:"lastName"`
	Department string             `bson:"department"`
	StartDate  time.Time          `bson:"startDate"`
	JobTitle   string             `bson:"jobTitle"`
	Salary     float64            `bson:"salary"`
}

func newEmployeeDocument(e models.Employee) employeeDocument {
	return employeeDocument{
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Department: e.Department,
		StartDate:  e.StartDate.UTC(),
		JobTitle:   e.JobTitle,
		Salary:     e.Salary,
	}
}

func (d employeeDocument) toModel() models.Employee {
	return models.Employee{
		ID:         d.ID.Hex(),
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Department: d.Department,
		StartDate:  d.StartDate.UTC(),
		JobTitle:   d.JobTitle,
		Salary:     d.Salary,
	}
}

// MongoRepository stores employees as documents in the employee collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a new MongoRepository over coll.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// List returns every employee in insertion order.
func (r *MongoRepository) List(ctx context.Context) ([]models.Employee, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	employees := make([]models.Employee, 0, len(docs))
	for _, d := range docs {
		employees = append(employees, d.toModel())
	}
	return employees, nil
}

// Get returns the employee with id or common.ErrNotFound.
func (r *MongoRepository) Get(ctx context.Context, id string) (models.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Employee{}, common.ErrNotFound
	}
	var doc employeeDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Employee{}, common.ErrNotFound
		}
		return models.Employee{}, fmt.Errorf("mongo error: %w", err)
	}
	return doc.toModel(), nil
}

// Create inserts e with a fresh ID and returns the stored record.
func (r *MongoRepository) Create(ctx context.Context, e models.Employee) (models.Employee, error) {
	doc := newEmployeeDocument(e)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Employee{}, fmt.Errorf("mongo error: %w", err)
	}
	return doc.toModel(), nil
}

// Update replaces the fields of employee id. Unknown ids yield common.ErrNotFound.
func (r *MongoRepository) Update(ctx context.Context, id string, e models.Employee) (models.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Employee{}, common.ErrNotFound
	}
	doc := newEmployeeDocument(e)
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": doc})
	if err != nil {
		return models.Employee{}, fmt.Errorf("mongo error: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Employee{}, common.ErrNotFound
	}
	doc.ID = oid
	return doc.toModel(), nil
}

// Delete removes employee id. Unknown ids yield common.ErrNotFound.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
