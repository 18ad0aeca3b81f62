package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	courseserrors "coursedesk/internal/courses/errors"
	"coursedesk/pkg/config"
	mongotx "coursedesk/pkg/db/mongo"
	"coursedesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Courses"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id string) (*model.Course, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Course, error)
	FindByStatus(ctx context.Context, status model.CourseStatus, limit int, offset int64) ([]*model.Course, error)
	Update(ctx context.Context, id string, course *model.Course) (*mongo.UpdateResult, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.CourseStatus) (int64, error)
	CountByTrainer(ctx context.Context, trainerID string) (int64, error)
	CountByTrainerAndStatusIn(ctx context.Context, trainerID string, statuses []model.CourseStatus) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoCourseRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoCourseRepository(cfg *config.Config) CourseRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCourseRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction. A SessionContext cannot be wrapped without breaking
// transaction semantics, so it is returned unchanged with a no-op cancel.
func (r *mongoCourseRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCourseRepository) Create(ctx context.Context, course *model.Course) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	course.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		course.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", courseserrors.ErrInvalidID, id)
	}

	var course model.Course
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, courseserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find course: %w", err)
	}

	return &course, nil
}

func (r *mongoCourseRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Course, error) {
	return r.find(ctx, bson.M{}, limit, offset)
}

func (r *mongoCourseRepository) FindByStatus(ctx context.Context, status model.CourseStatus, limit int, offset int64) ([]*model.Course, error) {
	return r.find(ctx, bson.M{"status": status}, limit, offset)
}

func (r *mongoCourseRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Course, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []*model.Course
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}

	return courses, nil
}

func (r *mongoCourseRepository) Update(ctx context.Context, id string, course *model.Course) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", courseserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":        course.Name,
			"description": course.Description,
			"start_date":  course.StartDate,
			"end_date":    course.EndDate,
			"max_seats":   course.MaxSeats,
			"status":      course.Status,
			"trainer_id":  course.TrainerID,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, courseserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoCourseRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{})
}

func (r *mongoCourseRepository) CountByStatus(ctx context.Context, status model.CourseStatus) (int64, error) {
	return r.count(ctx, bson.M{"status": status})
}

func (r *mongoCourseRepository) CountByTrainer(ctx context.Context, trainerID string) (int64, error) {
	return r.count(ctx, bson.M{"trainer_id": trainerID})
}

func (r *mongoCourseRepository) CountByTrainerAndStatusIn(ctx context.Context, trainerID string, statuses []model.CourseStatus) (int64, error) {
	return r.count(ctx, bson.M{
		"trainer_id": trainerID,
		"status":     bson.M{"$in": statuses},
	})
}

func (r *mongoCourseRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}

	return count, nil
}

func (r *mongoCourseRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
