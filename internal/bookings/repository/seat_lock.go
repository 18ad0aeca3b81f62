package repository

import (
	"context"
	"time"

	"coursedesk/pkg/config"
	"coursedesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	SeatLockCollectionName = "SeatLocks"
)

// SeatLockRepository provides advisory locks keyed per course. A unique
// _id insert either succeeds (lock held) or fails with a duplicate key
// error (someone else is booking the same course). A TTL index on
// expires_at reaps locks abandoned by crashed processes.
type SeatLockRepository interface {
	Create(ctx context.Context, lock *model.SeatLock) (*model.SeatLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoSeatLockRepository struct {
	collection *mongo.Collection
}

func NewSeatLockRepository(cfg *config.Config) SeatLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSeatLockRepository{
		collection: db.Collection(SeatLockCollectionName),
	}
}

// Create returns a duplicate key error if the lock already exists.
func (r *mongoSeatLockRepository) Create(ctx context.Context, lock *model.SeatLock) (*model.SeatLock, error) {
	if lock.ExpiresAt.IsZero() {
		lock.ExpiresAt = time.Now().Add(config.DefaultSeatLockTTL)
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoSeatLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
