package database

import (
	"context"
	"fmt"
	"mindhub-service/internal/pkg/constvars"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// IndexModels lists the indexes each collection needs, keyed by collection.
func IndexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		constvars.MongoCollectionAssessmentSessions: {
			{
				Keys:    bson.D{{Key: "patient_id", Value: 1}, {Key: "updated_at", Value: -1}},
				Options: options.Index().SetName("patient_updated"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: 1}},
				Options: options.Index().SetName("status_updated"),
			},
			{
				Keys:    bson.D{{Key: "clinic_id", Value: 1}, {Key: "clinician_id", Value: 1}, {Key: "updated_at", Value: -1}},
				Options: options.Index().SetName("clinic_clinician_updated"),
			},
		},
		constvars.MongoCollectionFormDrafts: {
			{
				Keys:    bson.D{{Key: "clinic_id", Value: 1}, {Key: "created_by", Value: 1}, {Key: "updated_at", Value: -1}},
				Options: options.Index().SetName("creator_updated"),
			},
			{
				Keys:    bson.D{{Key: "remote_template_id", Value: 1}},
				Options: options.Index().SetName("remote_template").SetSparse(true),
			},
		},
	}
}

// EnsureIndexes creates any missing index. Existing indexes with the same
// name and keys are left alone by the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	for collection, models := range IndexModels() {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
		log.Info("Ensured mongodb indexes",
			zap.String("collection", collection),
			zap.Strings("indexes", names),
		)
	}
	return nil
}
