package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/project"
)

const projectCollection = "projects"

// MongoStore is a MongoDB-backed project store for server deployments.
// Projects live in the "projects" collection keyed by their ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "mongodb is not reachable")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(projectCollection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, p *project.Project) error {
	doc := encodeProject(p)
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to save project")
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (*project.Project, error) {
	var doc projectDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkgerrors.New(pkgerrors.ErrCodeProjectNotFound,
			"project %s not found", id)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to load project")
	}
	return decodeProject(&doc)
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "name": 1, "created_at": 1, "modified_at": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to list projects")
	}
	defer cursor.Close(ctx)

	var docs []projectDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to decode project list")
	}

	infos := make([]Info, len(docs))
	for i, doc := range docs {
		infos[i] = Info{
			ID:         doc.ID,
			Name:       doc.Name,
			CreatedAt:  doc.CreatedAt,
			ModifiedAt: doc.ModifiedAt,
		}
	}
	return infos, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to delete project")
	}
	if res.DeletedCount == 0 {
		return pkgerrors.New(pkgerrors.ErrCodeProjectNotFound,
			"project %s not found", id)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to disconnect from mongodb")
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
