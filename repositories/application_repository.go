package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agriconnect/agriconnect_backend/config"
	"github.com/agriconnect/agriconnect_backend/models"
)

type ApplicationRepository struct {
	collection *mongo.Collection
}

func NewApplicationRepository(db *mongo.Client) *ApplicationRepository {
	return &ApplicationRepository{
		collection: config.GetCollection(db, "applications"),
	}
}

// Create inserts the application. The unique (jobId, labourerId) index stops
// double-applying.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	app.ID = primitive.NewObjectID()
	app.Status = models.ApplicationPending
	app.AppliedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, app)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.JobApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var app models.JobApplication
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) FindByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.JobApplication, error) {
	return r.findAll(ctx, bson.M{"jobId": jobID})
}

func (r *ApplicationRepository) FindByLabourer(ctx context.Context, labourerID primitive.ObjectID) ([]models.JobApplication, error) {
	return r.findAll(ctx, bson.M{"labourerId": labourerID})
}

func (r *ApplicationRepository) findAll(ctx context.Context, filter bson.M) ([]models.JobApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "appliedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	apps := []models.JobApplication{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateStatus records the farmer's response and stamps respondedAt.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "respondedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
