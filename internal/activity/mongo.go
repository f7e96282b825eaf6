package activity

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	actionsCollection = "user_actions"
	usersCollection   = "users"
	writeTimeout      = 5 * time.Second
)

// MongoLogger stores actions in the user_actions collection and keeps a
// per-user summary in users.
type MongoLogger struct {
	db  *mongo.Database
	now func() time.Time
}

// NewMongoLogger creates a logger on a connected database.
func NewMongoLogger(db *mongo.Database) *MongoLogger {
	return &MongoLogger{db: db, now: time.Now}
}

// LogUserAction inserts an entry and upserts the user summary.
func (m *MongoLogger) LogUserAction(ctx context.Context, userID int, action string, details map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := m.now()
	_, err := m.db.Collection(actionsCollection).InsertOne(ctx, Entry{
		UserID:  userID,
		Action:  action,
		Details: details,
		Time:    now,
	})
	if err != nil {
		return fmt.Errorf("failed to insert user action log for user %d: %w", userID, err)
	}

	if err := m.touchUser(ctx, userID, action, now); err != nil {
		return err
	}
	return nil
}

func (m *MongoLogger) touchUser(ctx context.Context, userID int, action string, now time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"last_seen":   now,
			"last_action": action,
		},
		"$inc": bson.M{
			"actions_count": 1,
		},
		"$setOnInsert": bson.M{
			"first_seen": now,
			"user_id":    userID,
		},
	}
	_, err := m.db.Collection(usersCollection).UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update user summary %d: %w", userID, err)
	}
	return nil
}

// Recent returns up to limit entries for userID, newest first.
func (m *MongoLogger) Recent(ctx context.Context, userID int, limit int64) ([]Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}}).SetLimit(limit)
	cur, err := m.db.Collection(actionsCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions for user %d: %w", userID, err)
	}
	defer cur.Close(ctx)

	entries := []Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode actions for user %d: %w", userID, err)
	}
	return entries, nil
}

// Connect connects to uri, verifies the connection and returns the client
// and the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if disconnectErr := client.Disconnect(disconnectCtx); disconnectErr != nil {
			log.Printf("Error disconnecting MongoDB after ping failure: %v", disconnectErr)
		}
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("Successfully connected to MongoDB database: %s", database)
	return client, client.Database(database), nil
}
