package forms

import (
	"context"
	"errors"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type formDraftMongoRepository struct {
	Collection *mongo.Collection
}

func NewFormDraftMongoRepository(db *mongo.Database) contracts.FormDraftRepository {
	return &formDraftMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionFormDrafts),
	}
}

func (repo *formDraftMongoRepository) Create(ctx context.Context, draft *models.FormDraft) error {
	_, err := repo.Collection.InsertOne(ctx, draft)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *formDraftMongoRepository) FindByID(ctx context.Context, draftID string) (*models.FormDraft, error) {
	draft := new(models.FormDraft)
	err := repo.Collection.FindOne(ctx, bson.M{"_id": draftID}).Decode(draft)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrMongoDBNotDocument(err, draftID)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return draft, nil
}

func (repo *formDraftMongoRepository) Update(ctx context.Context, draft *models.FormDraft) error {
	result, err := repo.Collection.ReplaceOne(ctx, bson.M{"_id": draft.ID}, draft)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrMongoDBNotDocument(mongo.ErrNoDocuments, draft.ID)
	}
	return nil
}

func (repo *formDraftMongoRepository) Delete(ctx context.Context, draftID string) error {
	result, err := repo.Collection.DeleteOne(ctx, bson.M{"_id": draftID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	if result.DeletedCount == 0 {
		return exceptions.ErrMongoDBNotDocument(mongo.ErrNoDocuments, draftID)
	}
	return nil
}
