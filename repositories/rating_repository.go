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

type RatingRepository struct {
	collection *mongo.Collection
}

func NewRatingRepository(db *mongo.Client) *RatingRepository {
	return &RatingRepository{
		collection: config.GetCollection(db, "ratings"),
	}
}

// Create inserts the rating. The unique (raterId, jobId) index stops rating
// the same job twice.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rating.ID = primitive.NewObjectID()
	rating.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, rating)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *RatingRepository) FindForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ratedUserId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ratings := []models.Rating{}
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// AverageForUser computes the user's current average rating and count with an
// aggregation.
func (r *RatingRepository) AverageForUser(ctx context.Context, userID primitive.ObjectID) (float64, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ratedUserId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, err
		}
	}
	return result.Average, result.Count, nil
}
