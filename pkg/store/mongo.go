package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ideamap/ideamap/pkg/document"
	"github.com/ideamap/ideamap/pkg/errors"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string
	Database   string // defaults to "ideamap"
	Collection string // defaults to "maps"
}

// mapRecord is the stored shape: the document plus its lookup key.
type mapRecord struct {
	Name string            `bson:"name"`
	Doc  document.Document `bson:"doc"`
}

// MongoStore stores one record per map in a collection, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "ideamap"
	}
	if cfg.Collection == "" {
		cfg.Collection = "maps"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (document.Document, error) {
	if err := errors.ValidateMapName(name); err != nil {
		return document.Document{}, err
	}
	var rec mapRecord
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return document.Document{}, notFound(name)
	}
	if err != nil {
		return document.Document{}, errors.Wrap(errors.ErrCodeStore, err, "load map %q", name)
	}
	return rec.Doc, nil
}

func (s *MongoStore) Save(ctx context.Context, name string, doc document.Document) error {
	if err := errors.ValidateMapName(name); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"name": name},
		mapRecord{Name: name, Doc: doc},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save map %q", name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list maps")
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var rec struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode map record")
		}
		names = append(names, rec.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list maps")
	}
	return names, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateMapName(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete map %q", name)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
