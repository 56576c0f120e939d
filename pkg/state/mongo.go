package state

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

func (c MongoConfig) withDefaults() MongoConfig {
	if c.Database == "" {
		c.Database = "pianoxl"
	}
	if c.Collection == "" {
		c.Collection = "state"
	}
	return c
}

// MongoStore keeps one document per key, with the key as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	ID    string `bson:"_id"`
	State State  `bson:"state"`
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	cfg = cfg.withDefaults()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, unavailable("mongo", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, unavailable("mongo", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func byID(key string) bson.D { return bson.D{{Key: "_id", Value: key}} }

func (s *MongoStore) Load(ctx context.Context, key string) (State, error) {
	if err := checkKey(key); err != nil {
		return State{}, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, byID(key)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, unavailable("mongo", err)
	}
	return doc.State, nil
}

func (s *MongoStore) Save(ctx context.Context, key string, st State) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := checkState(st); err != nil {
		return err
	}
	st.UpdatedAt = time.Now().UTC()
	doc := mongoDoc{ID: key, State: st}
	_, err := s.coll.ReplaceOne(ctx, byID(key), doc, options.Replace().SetUpsert(true))
	if err != nil {
		return unavailable("mongo", fmt.Errorf("upsert %s: %w", key, err))
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, byID(key)); err != nil {
		return unavailable("mongo", err)
	}
	return nil
}

// Close disconnects the client, waiting at most five seconds.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
