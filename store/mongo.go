package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raushankrgupta/printlabs/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionsCollection holds one document per installed shop, keyed by domain
const SessionsCollection = "sessions"

// Connect initializes the MongoDB connection and pings it
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// MongoStore is a SessionStore backed by a MongoDB collection
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Get(ctx context.Context, shop string) (*models.Session, error) {
	var session models.Session
	err := s.coll.FindOne(ctx, bson.M{"_id": shop}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

// Save upserts the session; created_at is only set on insert.
func (s *MongoStore) Save(ctx context.Context, session *models.Session) error {
	now := time.Now().UTC()
	session.UpdatedAt = now
	update := bson.M{
		"$set": bson.M{
			"access_token": session.AccessToken,
			"scope":        session.Scope,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": session.Shop}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, shop string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": shop}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
