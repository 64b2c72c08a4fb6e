package audit

import (
	"context"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/app/models"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type AuditMongoRepository struct {
	Collection *mongo.Collection
	Log        *zap.Logger
}

func NewAuditMongoRepository(db *mongo.Client, dbName, collectionName string, logger *zap.Logger) contracts.AuditRepository {
	return &AuditMongoRepository{
		Collection: db.Database(dbName).Collection(collectionName),
		Log:        logger,
	}
}

func (r *AuditMongoRepository) InsertEvent(ctx context.Context, event *models.AuditEvent) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, event)
	if err != nil {
		r.Log.Error("AuditMongoRepository.InsertEvent error inserting document",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOperationKey, event.Action),
			zap.Error(err),
		)
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}

	r.Log.Info("AuditMongoRepository.InsertEvent succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAuditIDKey, event.ID),
		zap.String(constvars.LoggingOperationKey, event.Action),
	)
	return event.ID, nil
}

// FindByResource returns the newest events first.
func (r *AuditMongoRepository) FindByResource(ctx context.Context, level, resourceID string, limit int64) ([]models.AuditEvent, error) {
	filter := bson.M{"level": level, "resourceId": resourceID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	events := make([]models.AuditEvent, 0)
	err = cursor.All(ctx, &events)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return events, nil
}
