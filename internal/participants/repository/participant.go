package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	participantserrors "coursedesk/internal/participants/errors"
	"coursedesk/pkg/config"
	mongotx "coursedesk/pkg/db/mongo"
	"coursedesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Participants"
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *model.Participant) error
	FindByID(ctx context.Context, id string) (*model.Participant, error)
	FindByEmail(ctx context.Context, email string) (*model.Participant, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Participant, error)
	Update(ctx context.Context, id string, participant *model.Participant) (*mongo.UpdateResult, error)
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoParticipantRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoParticipantRepository(cfg *config.Config) ParticipantRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoParticipantRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoParticipantRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoParticipantRepository) Create(ctx context.Context, participant *model.Participant) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	participant.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, participant)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return participantserrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		participant.ID = oid.Hex()
	}
	return nil
}

func (r *mongoParticipantRepository) FindByID(ctx context.Context, id string) (*model.Participant, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", participantserrors.ErrInvalidID, id)
	}

	var participant model.Participant
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&participant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, participantserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}

	return &participant, nil
}

func (r *mongoParticipantRepository) FindByEmail(ctx context.Context, email string) (*model.Participant, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var participant model.Participant
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&participant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, participantserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find participant by email: %w", err)
	}

	return &participant, nil
}

func (r *mongoParticipantRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Participant, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find participants: %w", err)
	}
	defer cursor.Close(ctx)

	var participants []*model.Participant
	if err = cursor.All(ctx, &participants); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}

	return participants, nil
}

func (r *mongoParticipantRepository) Update(ctx context.Context, id string, participant *model.Participant) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", participantserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"first_name": participant.FirstName,
			"last_name":  participant.LastName,
			"email":      participant.Email,
			"phone":      participant.Phone,
			"status":     participant.Status,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, participantserrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, participantserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoParticipantRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}

	return count, nil
}

func (r *mongoParticipantRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
