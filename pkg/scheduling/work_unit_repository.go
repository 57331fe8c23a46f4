package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WorkUnitRepositoryInterface is the key-addressed interval store the engine schedules into
type WorkUnitRepositoryInterface interface {
	Add(ctx context.Context, workUnit *WorkUnit) error
	AddMultiple(ctx context.Context, workUnits []WorkUnit, userID primitive.ObjectID) error
	FindByID(ctx context.Context, workUnitID string, userID string) (*WorkUnit, error)
	FindByDateRange(ctx context.Context, userID string, from time.Time, to time.Time) (WorkUnits, error)
	FindByCalendarEventID(ctx context.Context, calendarEventID string, userID string) (*WorkUnit, error)
	FindSyncPending(ctx context.Context, userID string) (WorkUnits, error)
	Update(ctx context.Context, workUnit *WorkUnit) error
	Delete(ctx context.Context, workUnitID string, userID string) error
	DeleteByTask(ctx context.Context, taskID string, userID string) error
}

// WorkUnitService does everything related to storing and finding work units
type WorkUnitService struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// Add adds a work unit
func (s *WorkUnitService) Add(ctx context.Context, workUnit *WorkUnit) error {
	workUnit.CreatedAt = time.Now()
	workUnit.LastModifiedAt = time.Now()

	if workUnit.ID.IsZero() {
		workUnit.ID = primitive.NewObjectID()
	}

	_, err := s.DB.InsertOne(ctx, workUnit)
	return err
}

// AddMultiple adds multiple work units in one write
func (s *WorkUnitService) AddMultiple(ctx context.Context, workUnits []WorkUnit, userID primitive.ObjectID) error {
	var docs []interface{}

	for _, workUnit := range workUnits {
		workUnit.CreatedAt = time.Now()
		workUnit.LastModifiedAt = time.Now()
		if workUnit.ID.IsZero() {
			workUnit.ID = primitive.NewObjectID()
		}
		workUnit.UserID = userID
		docs = append(docs, workUnit)
	}

	if len(docs) == 0 {
		return nil
	}

	_, err := s.DB.InsertMany(ctx, docs)
	return err
}

// FindByID finds a specific work unit by ID
func (s *WorkUnitService) FindByID(ctx context.Context, workUnitID string, userID string) (*WorkUnit, error) {
	t := WorkUnit{}

	workUnitObjectID, err := primitive.ObjectIDFromHex(workUnitID)
	if err != nil {
		return nil, err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	result := s.DB.FindOne(ctx, bson.M{"_id": workUnitObjectID, "userId": userObjectID})

	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, result.Err()
	}

	err = result.Decode(&t)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// FindByDateRange finds all work units whose scheduled time starts in [from, to)
func (s *WorkUnitService) FindByDateRange(ctx context.Context, userID string, from time.Time, to time.Time) (WorkUnits, error) {
	var t WorkUnits

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"scheduledAt.start": 1})

	filter := bson.M{
		"userId":            userObjectID,
		"scheduledAt.start": bson.M{"$gte": from, "$lt": to},
	}

	cursor, err := s.DB.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}

	err = cursor.All(ctx, &t)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// FindByCalendarEventID finds the work unit imported from an external calendar event
func (s *WorkUnitService) FindByCalendarEventID(ctx context.Context, calendarEventID string, userID string) (*WorkUnit, error) {
	t := WorkUnit{}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	result := s.DB.FindOne(ctx, bson.M{"calendarEventID": calendarEventID, "userId": userObjectID})

	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, result.Err()
	}

	err = result.Decode(&t)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// FindSyncPending finds all work units waiting to be synced by the persistence collaborator
func (s *WorkUnitService) FindSyncPending(ctx context.Context, userID string) (WorkUnits, error) {
	var t WorkUnits

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"scheduledAt.start": 1})

	cursor, err := s.DB.Find(ctx, bson.M{"userId": userObjectID, "syncPending": true}, findOptions)
	if err != nil {
		return nil, err
	}

	err = cursor.All(ctx, &t)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Update updates a work unit
func (s *WorkUnitService) Update(ctx context.Context, workUnit *WorkUnit) error {
	workUnit.LastModifiedAt = time.Now()

	result, err := s.DB.UpdateOne(ctx, bson.M{"_id": workUnit.ID, "userId": workUnit.UserID}, bson.M{"$set": workUnit})
	if err != nil {
		return err
	}

	if result.MatchedCount != 1 {
		return errors.New("updated count != 1")
	}

	return nil
}

// Delete deletes a work unit
func (s *WorkUnitService) Delete(ctx context.Context, workUnitID string, userID string) error {
	workUnitObjectID, err := primitive.ObjectIDFromHex(workUnitID)
	if err != nil {
		return err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = s.DB.DeleteOne(ctx, bson.M{"_id": workUnitObjectID, "userId": userObjectID})
	if err != nil {
		return err
	}

	return nil
}

// DeleteByTask deletes all work units linked to a task
func (s *WorkUnitService) DeleteByTask(ctx context.Context, taskID string, userID string) error {
	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = s.DB.DeleteMany(ctx, bson.M{"taskId": taskObjectID, "userId": userObjectID})
	if err != nil {
		return err
	}

	return nil
}
