package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo opens a client, verifies the connection and returns a store
// bound to the given database.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Get(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.M(filter))
	if err != nil {
		return nil, fmt.Errorf("find on %s failed: %w", collection, err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode from %s failed: %w", collection, err)
	}

	docs := make([]Document, len(raw))
	for i, m := range raw {
		docs[i] = normalizeDoc(Document(m))
	}
	return docs, nil
}

func (s *MongoStore) GetOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M(filter)).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find one on %s failed: %w", collection, err)
	}
	return normalizeDoc(Document(raw)), nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if _, err := s.db.Collection(collection).InsertOne(ctx, bson.M(doc)); err != nil {
		return "", fmt.Errorf("insert into %s failed: %w", collection, err)
	}
	if id, ok := doc["id"].(string); ok {
		return id, nil
	}
	return "", nil
}

func (s *MongoStore) Update(ctx context.Context, collection string, filter Filter, patch Document, upsert bool) (int64, error) {
	res, err := s.db.Collection(collection).UpdateOne(
		ctx,
		bson.M(filter),
		bson.M{"$set": bson.M(patch)},
		options.UpdateOne().SetUpsert(upsert),
	)
	if err != nil {
		return 0, fmt.Errorf("update on %s failed: %w", collection, err)
	}

	affected := res.MatchedCount
	if res.UpsertedCount > 0 {
		affected += res.UpsertedCount
	}
	return affected, nil
}

func (s *MongoStore) Delete(ctx context.Context, collection string, filter Filter) (int64, error) {
	res, err := s.db.Collection(collection).DeleteMany(ctx, bson.M(filter))
	if err != nil {
		return 0, fmt.Errorf("delete on %s failed: %w", collection, err)
	}
	return res.DeletedCount, nil
}

// normalizeDoc rewrites driver types into the neutral representations the
// Store contract promises: bson.DateTime becomes time.Time and bson.A
// becomes []interface{}, recursively, so repositories see the same shapes
// from Mongo and from the in-memory store.
func normalizeDoc(doc Document) Document {
	for k, v := range doc {
		doc[k] = normalizeValue(v)
	}
	return doc
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.DateTime:
		return t.Time()
	case bson.A:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = normalizeValue(item)
		}
		return out
	case []interface{}:
		for i, item := range t {
			t[i] = normalizeValue(item)
		}
		return t
	case bson.M:
		return map[string]interface{}(normalizeDoc(Document(t)))
	default:
		return v
	}
}
