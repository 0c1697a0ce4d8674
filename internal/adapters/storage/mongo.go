package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/okian/scoreboard/pkg/logger"
)

const (
	// LeaderboardCollection is the collection and table holding score records.
	LeaderboardCollection = "leaderboard"

	defaultMongoDatabase = "portfolio"
)

// OpenMongo returns an OpenFunc that connects to MongoDB, verifies the
// connection with a ping and returns the leaderboard collection.
func OpenMongo(uri string, log logger.Logger) OpenFunc[*mongo.Collection] {
	return func(ctx context.Context) (*mongo.Collection, error) {
		cs, err := connstring.ParseAndValidate(uri)
		if err != nil {
			return nil, fmt.Errorf("parse mongodb uri: %w", err)
		}
		dbName := cs.Database
		if dbName == "" {
			dbName = defaultMongoDatabase
		}

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("ping mongodb: %w", err)
		}

		coll := client.Database(dbName).Collection(LeaderboardCollection)

		// The score index only speeds up reads; failing to create it is not fatal.
		_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "score", Value: -1}},
		})
		if err != nil && log != nil {
			log.Warn(ctx, "could not ensure score index",
				logger.String("collection", LeaderboardCollection),
				logger.Error(err),
			)
		}
		return coll, nil
	}
}

// CloseMongo disconnects the client behind coll.
func CloseMongo(ctx context.Context, coll *mongo.Collection) error {
	return coll.Database().Client().Disconnect(ctx)
}
