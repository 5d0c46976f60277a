package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SiteDocumentID is the _id of the one content document in the collection.
const SiteDocumentID = "site"

// mongoDocument is the stored shape: the content plus bookkeeping fields.
type mongoDocument struct {
	ID               string            `bson:"_id"`
	HeroTitle        string            `bson:"hero_title"`
	HeroSubtitle     string            `bson:"hero_subtitle"`
	HeroDescription  string            `bson:"hero_description"`
	AboutTitle       string            `bson:"about_title"`
	AboutDescription string            `bson:"about_description"`
	Services         []content.Service `bson:"services"`
	UpdatedAt        time.Time         `bson:"updatedAt"`
}

func (d *mongoDocument) toContent() *content.Document {
	return &content.Document{
		HeroTitle:        d.HeroTitle,
		HeroSubtitle:     d.HeroSubtitle,
		HeroDescription:  d.HeroDescription,
		AboutTitle:       d.AboutTitle,
		AboutDescription: d.AboutDescription,
		Services:         content.CloneServices(d.Services),
	}
}

func fromContent(doc *content.Document) *mongoDocument {
	return &mongoDocument{
		ID:               SiteDocumentID,
		HeroTitle:        doc.HeroTitle,
		HeroSubtitle:     doc.HeroSubtitle,
		HeroDescription:  doc.HeroDescription,
		AboutTitle:       doc.AboutTitle,
		AboutDescription: doc.AboutDescription,
		Services:         content.CloneServices(doc.Services),
		UpdatedAt:        time.Now().UTC(),
	}
}

// MongoRepo stores the content document in a MongoDB collection under a
// fixed _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Get(ctx context.Context) (*content.Document, error) {
	var d mongoDocument
	err := m.col.FindOne(ctx, bson.M{"_id": SiteDocumentID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d.toContent(), nil
}

func (m *MongoRepo) SetField(ctx context.Context, key, value string) error {
	if !content.IsFieldKey(key) {
		return &content.UnknownKeyError{Key: key}
	}
	return m.update(ctx, bson.M{key: value, "updatedAt": time.Now().UTC()})
}

func (m *MongoRepo) ReplaceServices(ctx context.Context, services []content.Service) error {
	return m.update(ctx, bson.M{"services": content.CloneServices(services), "updatedAt": time.Now().UTC()})
}

func (m *MongoRepo) update(ctx context.Context, set bson.M) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": SiteDocumentID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Replace swaps the whole document in a single ReplaceOne; a single-document
// write is atomic in MongoDB.
func (m *MongoRepo) Replace(ctx context.Context, doc *content.Document) error {
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": SiteDocumentID}, fromContent(doc), options.Replace().SetUpsert(true))
	return err
}

func (m *MongoRepo) SeedIfEmpty(ctx context.Context, doc *content.Document) (bool, error) {
	_, err := m.col.InsertOne(ctx, fromContent(doc))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
