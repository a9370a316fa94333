package repository

import (
	"context"
	"time"

	"github.com/example/retailshop/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditEntry records one completed order operation.
type AuditEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Service   string             `bson:"service" json:"service"`
	Action    string             `bson:"action" json:"action"`
	UserID    string             `bson:"user_id" json:"user_id"`
	EntityID  string             `bson:"entity_id" json:"entity_id"`
	Data      bson.M             `bson:"data" json:"data"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type MongoAuditLog struct {
	client     *mongo.Client
	collection *mongo.Collection
	service    string
}

func NewMongoAuditLog(cfg *config.MongoDBConfig, service string) (*MongoAuditLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoAuditLog{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		service:    service,
	}, nil
}

func (m *MongoAuditLog) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoAuditLog) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoAuditLog) Record(ctx context.Context, entry *AuditEntry) error {
	if entry.Service == "" {
		entry.Service = m.service
	}
	entry.CreatedAt = time.Now()
	_, err := m.collection.InsertOne(ctx, entry)
	return err
}

// History returns the newest entries for entityID first.
func (m *MongoAuditLog) History(ctx context.Context, entityID string, limit int64) ([]*AuditEntry, error) {
	filter := bson.M{"entity_id": entityID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*AuditEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
