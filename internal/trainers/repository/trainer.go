package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	trainerserrors "coursedesk/internal/trainers/errors"
	"coursedesk/pkg/config"
	mongotx "coursedesk/pkg/db/mongo"
	"coursedesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Trainers"
)

type TrainerRepository interface {
	Create(ctx context.Context, trainer *model.Trainer) error
	FindByID(ctx context.Context, id string) (*model.Trainer, error)
	FindByEmail(ctx context.Context, email string) (*model.Trainer, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Trainer, error)
	Update(ctx context.Context, id string, trainer *model.Trainer) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoTrainerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoTrainerRepository(cfg *config.Config) TrainerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTrainerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoTrainerRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTrainerRepository) Create(ctx context.Context, trainer *model.Trainer) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	trainer.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, trainer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return trainerserrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create trainer: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		trainer.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTrainerRepository) FindByID(ctx context.Context, id string) (*model.Trainer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", trainerserrors.ErrInvalidID, id)
	}

	var trainer model.Trainer
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&trainer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, trainerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find trainer: %w", err)
	}

	return &trainer, nil
}

func (r *mongoTrainerRepository) FindByEmail(ctx context.Context, email string) (*model.Trainer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var trainer model.Trainer
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&trainer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, trainerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find trainer by email: %w", err)
	}

	return &trainer, nil
}

func (r *mongoTrainerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Trainer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find trainers: %w", err)
	}
	defer cursor.Close(ctx)

	var trainers []*model.Trainer
	if err = cursor.All(ctx, &trainers); err != nil {
		return nil, fmt.Errorf("failed to decode trainers: %w", err)
	}

	return trainers, nil
}

func (r *mongoTrainerRepository) Update(ctx context.Context, id string, trainer *model.Trainer) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", trainerserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"first_name":    trainer.FirstName,
			"last_name":     trainer.LastName,
			"email":         trainer.Email,
			"qualification": trainer.Qualification,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, trainerserrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update trainer: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, trainerserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoTrainerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", trainerserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete trainer: %w", err)
	}

	if result.DeletedCount == 0 {
		return trainerserrors.ErrNotFound
	}

	return nil
}

func (r *mongoTrainerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count trainers: %w", err)
	}

	return count, nil
}

func (r *mongoTrainerRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
