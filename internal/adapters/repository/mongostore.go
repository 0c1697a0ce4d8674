package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okian/scoreboard/internal/adapters/storage"
	"github.com/okian/scoreboard/internal/domain/model"
)

// mongoScore is the document layout of a score record.
type mongoScore struct {
	Name      string    `bson:"name"`
	Score     float64   `bson:"score"`
	Timestamp time.Time `bson:"timestamp"`
}

// MongoStore persists records in a MongoDB collection reached through a Connector.
type MongoStore struct {
	conn *storage.Connector[*mongo.Collection]
}

// NewMongoStore builds a MongoDB backed store.
func NewMongoStore(conn *storage.Connector[*mongo.Collection]) *MongoStore {
	return &MongoStore{conn: conn}
}

// Backend implements Store.
func (s *MongoStore) Backend() string { return string(storage.BackendMongo) }

// Insert implements Store.
func (s *MongoStore) Insert(ctx context.Context, rec model.ScoreRecord) error {
	coll, err := s.conn.Get(ctx)
	if err != nil {
		return err
	}
	doc := mongoScore{Name: rec.Name, Score: rec.Score, Timestamp: rec.Timestamp}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// Top implements Store.
func (s *MongoStore) Top(ctx context.Context, n int) ([]model.ScoreRecord, error) {
	coll, err := s.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}}).
		SetLimit(int64(n)).
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "score", Value: 1}, {Key: "timestamp", Value: 1}})

	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	var docs []mongoScore
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read leaderboard documents: %w", err)
	}

	records := make([]model.ScoreRecord, len(docs))
	for i, d := range docs {
		records[i] = model.ScoreRecord{Name: d.Name, Score: d.Score, Timestamp: d.Timestamp.UTC()}
	}
	return records, nil
}

// Count implements Store.
func (s *MongoStore) Count(ctx context.Context) (int, error) {
	coll, err := s.conn.Get(ctx)
	if err != nil {
		return 0, err
	}
	n, err := coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return int(n), nil
}

// Ready implements Store.
func (s *MongoStore) Ready() bool { return s.conn.Ready() }

// Close implements Store.
func (s *MongoStore) Close(ctx context.Context) error { return s.conn.Close(ctx) }
