package assessments

import (
	"context"
	"errors"
	"fmt"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type assessmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewAssessmentMongoRepository(db *mongo.Database) contracts.AssessmentRepository {
	return &assessmentMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionAssessmentSessions),
	}
}

func (repo *assessmentMongoRepository) Create(ctx context.Context, session *models.AssessmentSession) error {
	_, err := repo.Collection.InsertOne(ctx, session)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *assessmentMongoRepository) FindByID(ctx context.Context, assessmentID string) (*models.AssessmentSession, error) {
	session := new(models.AssessmentSession)
	err := repo.Collection.FindOne(ctx, bson.M{"_id": assessmentID}).Decode(session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrMongoDBNotDocument(err, assessmentID)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return session, nil
}

func (repo *assessmentMongoRepository) FindAll(ctx context.Context, request *requests.FindAllAssessments) ([]models.AssessmentSession, int, error) {
	filter := bson.M{}
	if request.PatientID != "" {
		filter["patient_id"] = request.PatientID
	}
	if request.Status != "" {
		filter["status"] = request.Status
	}
	if !request.Scope.Unrestricted {
		filter["clinic_id"] = request.Scope.ClinicID
		if !request.Scope.ClinicWide {
			filter["clinician_id"] = request.Scope.OwnerID
		}
	}

	total, err := repo.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(int64((request.Page - 1) * request.PageSize)).
		SetLimit(int64(request.PageSize))

	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}
	var sessions []models.AssessmentSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, 0, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return sessions, int(total), nil
}

// UpdateState never touches saved_revision or last_saved_at; those belong to
// MarkSaved so a slow save cannot be undone by a concurrent answer.
func (repo *assessmentMongoRepository) UpdateState(ctx context.Context, session *models.AssessmentSession, expectedRevision int64) error {
	filter := bson.M{"_id": session.ID, "revision": expectedRevision}
	update := bson.M{"$set": bson.M{
		"state":                session.State,
		"status":               session.Status,
		"revision":             session.Revision,
		"remote_assessment_id": session.RemoteAssessmentID,
		"results":              session.Results,
		"report_object_key":    session.ReportObjectKey,
		"completed_at":         session.CompletedAt,
		"updated_at":           session.UpdatedAt,
	}}

	result, err := repo.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrAssessmentModified(
			fmt.Errorf("no session %s at revision %d", session.ID, expectedRevision),
			session.ID,
			expectedRevision,
		)
	}
	return nil
}

// MarkSaved moves saved_revision forward only. It reports false when a save
// of the same or a newer revision already landed.
func (repo *assessmentMongoRepository) MarkSaved(ctx context.Context, assessmentID string, revision int64, savedAt time.Time, auto bool) (bool, error) {
	filter := bson.M{"_id": assessmentID, "saved_revision": bson.M{"$lt": revision}}
	set := bson.M{
		"saved_revision": revision,
		"last_saved_at":  savedAt,
	}
	if auto {
		set["last_auto_save_at"] = savedAt
	}

	result, err := repo.Collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount > 0, nil
}

func (repo *assessmentMongoRepository) FindIdleDirty(ctx context.Context, idleBefore time.Time, limit int) ([]models.AssessmentSession, error) {
	filter := bson.M{
		"status":     models.AssessmentStatusInProgress,
		"updated_at": bson.M{"$lt": idleBefore},
		"$expr":      bson.M{"$gt": bson.A{"$revision", "$saved_revision"}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	var sessions []models.AssessmentSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return sessions, nil
}
