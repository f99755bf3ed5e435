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

type JobRepository struct {
	collection *mongo.Collection
}

func NewJobRepository(db *mongo.Client) *JobRepository {
	return &JobRepository{
		collection: config.GetCollection(db, "jobs"),
	}
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	job.ID = primitive.NewObjectID()
	job.Status = models.JobStatusOpen
	job.ApplicationsCount = 0
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, job)
	return err
}

func (r *JobRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var job models.Job
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) FindByFarmer(ctx context.Context, farmerID primitive.ObjectID, limit, skip int64) ([]models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit).SetSkip(skip)
	cursor, err := r.collection.Find(ctx, bson.M{"farmerId": farmerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	jobs := []models.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Search is a filter pass-through: the query document is assembled from the
// request filters and handed to Mongo as-is.
func (r *JobRepository) Search(ctx context.Context, filters models.JobSearchFilters) ([]models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{"status": models.JobStatusOpen}
	if filters.State != "" {
		query["location.state"] = filters.State
	}
	if filters.District != "" {
		query["location.district"] = filters.District
	}
	if len(filters.CropTypes) > 0 {
		query["cropType"] = bson.M{"$in": filters.CropTypes}
	}
	if len(filters.WorkTypes) > 0 {
		query["workType"] = bson.M{"$in": filters.WorkTypes}
	}
	if filters.ExperienceLevel != "" {
		query["requirements.experienceRequired"] = filters.ExperienceLevel
	}
	if filters.MinWage > 0 || filters.MaxWage > 0 {
		wage := bson.M{}
		if filters.MinWage > 0 {
			wage["$gte"] = filters.MinWage
		}
		if filters.MaxWage > 0 {
			wage["$lte"] = filters.MaxWage
		}
		query["wages.amount"] = wage
	}

	sortField := "createdAt"
	if filters.SortBy == "wage" {
		sortField = "wages.amount"
	}
	sortOrder := -1
	if filters.SortOrder == "asc" {
		sortOrder = 1
	}

	limit := filters.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetLimit(limit).
		SetSkip(filters.Skip)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	jobs := []models.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementApplications bumps the denormalized counter when a labourer
// applies.
func (r *JobRepository) IncrementApplications(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"applicationsCount": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	return err
}

// AddHiredWorker records an accepted labourer on the job.
func (r *JobRepository) AddHiredWorker(ctx context.Context, jobID, labourerID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": jobID}, bson.M{
		"$addToSet": bson.M{"hiredWorkers": labourerID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	return err
}
