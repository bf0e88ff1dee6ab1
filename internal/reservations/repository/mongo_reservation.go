package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reserrors "seatsaga/internal/reservations/errors"
	"seatsaga/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Reservations"

	defaultReadTimeout = 5 * time.Second
)

type mongoReservationRepository struct {
	collection  *mongo.Collection
	readTimeout time.Duration
}

func NewMongoReservationRepository(client *mongo.Client, databaseName string) ReservationRepository {
	return &mongoReservationRepository{
		collection:  client.Database(databaseName).Collection(CollectionName),
		readTimeout: defaultReadTimeout,
	}
}

// withTimeout bounds ctx by timeout unless it already has an earlier deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// Save inserts the reservation keyed by its saga id. A duplicate key counts as
// success only when the stored document is the same reservation, meaning an
// earlier attempt already landed.
func (r *mongoReservationRepository) Save(ctx context.Context, reservation *model.Reservation) error {
	if reservation == nil || reservation.ID == "" {
		return fmt.Errorf("%w: %w", reserrors.ErrRejected, reserrors.ErrInvalidID)
	}

	_, err := r.collection.InsertOne(ctx, reservation)
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return r.matchStored(ctx, reservation)
	}
	return classifyWriteError(err)
}

func (r *mongoReservationRepository) matchStored(ctx context.Context, reservation *model.Reservation) error {
	var stored model.Reservation
	if err := r.collection.FindOne(ctx, bson.M{"_id": reservation.ID}).Decode(&stored); err != nil {
		return classifyWriteError(err)
	}
	if !sameReservation(&stored, reservation) {
		return idInUse(reservation.ID)
	}
	return nil
}

func classifyWriteError(err error) error {
	switch {
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", reserrors.ErrTransient, err)
	case errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %w", reserrors.ErrTransient, err)
	default:
		return fmt.Errorf("%w: %w", reserrors.ErrRejected, err)
	}
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &reservation, nil
}

func (r *mongoReservationRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}
