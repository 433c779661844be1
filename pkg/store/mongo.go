package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/bilateral/pkg/team"
)

// Collection is the MongoDB collection holding records.
const Collection = "solves"

// MongoStore keeps records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// mongoRecord is the document layout. IDs are stored as strings so they
// read naturally in the mongo shell.
type mongoRecord struct {
	ID             string        `bson:"_id"`
	CreatedAt      time.Time     `bson:"created_at"`
	Friend         int           `bson:"friend"`
	Teams          [][2]int      `bson:"teams"`
	Members        []int         `bson:"members"`
	Size           int           `bson:"size"`
	OptimalCount   int           `bson:"optimal_count"`
	PreferredCount int           `bson:"preferred_count"`
	FriendIncluded bool          `bson:"friend_included"`
	ProjectsHash   string        `bson:"projects_hash"`
	CacheHit       bool          `bson:"cache_hit"`
	Elapsed        time.Duration `bson:"elapsed"`
}

func toDocument(rec *Record) mongoRecord {
	teams := make([][2]int, len(rec.Teams))
	for i, t := range rec.Teams {
		teams[i] = [2]int{int(t[0]), int(t[1])}
	}
	members := make([]int, len(rec.Members))
	for i, id := range rec.Members {
		members[i] = int(id)
	}
	return mongoRecord{
		ID:             rec.ID.String(),
		CreatedAt:      rec.CreatedAt,
		Friend:         int(rec.Friend),
		Teams:          teams,
		Members:        members,
		Size:           rec.Size,
		OptimalCount:   rec.OptimalCount,
		PreferredCount: rec.PreferredCount,
		FriendIncluded: rec.FriendIncluded,
		ProjectsHash:   rec.ProjectsHash,
		CacheHit:       rec.CacheHit,
		Elapsed:        rec.Elapsed,
	}
}

func (d mongoRecord) record() (*Record, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("stored record id %q: %w", d.ID, err)
	}
	teams := make([][2]team.ID, len(d.Teams))
	for i, t := range d.Teams {
		teams[i] = [2]team.ID{team.ID(t[0]), team.ID(t[1])}
	}
	members := make([]team.ID, len(d.Members))
	for i, m := range d.Members {
		members[i] = team.ID(m)
	}
	return &Record{
		ID:             id,
		CreatedAt:      d.CreatedAt,
		Friend:         team.ID(d.Friend),
		Teams:          teams,
		Members:        members,
		Size:           d.Size,
		OptimalCount:   d.OptimalCount,
		PreferredCount: d.PreferredCount,
		FriendIncluded: d.FriendIncluded,
		ProjectsHash:   d.ProjectsHash,
		CacheHit:       d.CacheHit,
		Elapsed:        d.Elapsed,
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	doc := toDocument(rec)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	return doc.record()
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]*Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(listLimit(limit)))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	out := make([]*Record, 0, len(docs))
	for _, d := range docs {
		rec, err := d.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
