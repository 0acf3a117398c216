package catalogue

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mlerrors "github.com/matzehuels/mlviz/pkg/errors"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "mlviz"
	DefaultMongoCollection = "methods"
)

// mongoConnectTimeout bounds the initial connection and each operation.
const mongoConnectTimeout = 10 * time.Second

// MongoSource loads the catalogue from a MongoDB collection. Each document is
// a MethodRecord plus an integer "order" field that fixes display order.
type MongoSource struct {
	URI        string
	Database   string
	Collection string
}

// mongoRecord is the stored document shape.
type mongoRecord struct {
	Order        int `bson:"order"`
	MethodRecord `bson:",inline"`
}

func (s MongoSource) names() (string, string) {
	db, coll := s.Database, s.Collection
	if db == "" {
		db = DefaultMongoDatabase
	}
	if coll == "" {
		coll = DefaultMongoCollection
	}
	return db, coll
}

func (s MongoSource) connect(ctx context.Context) (*mongo.Client, *mongo.Collection, error) {
	if s.URI == "" {
		return nil, nil, mlerrors.New(mlerrors.ErrCodeInvalidConfig, "mongo source requires a URI")
	}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(s.URI).
		SetConnectTimeout(mongoConnectTimeout).
		SetTimeout(mongoConnectTimeout))
	if err != nil {
		return nil, nil, mlerrors.Wrap(mlerrors.ErrCodeInternal, err, "connect to mongo")
	}
	db, coll := s.names()
	return client, client.Database(db).Collection(coll), nil
}

// Load reads every document sorted by order.
func (s MongoSource) Load(ctx context.Context) (*Catalogue, error) {
	client, coll, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, mlerrors.Wrap(mlerrors.ErrCodeInternal, err, "query %s", coll.Name())
	}
	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mlerrors.Wrap(mlerrors.ErrCodeInternal, err, "decode %s", coll.Name())
	}
	if len(docs) == 0 {
		return nil, mlerrors.New(mlerrors.ErrCodeNotFound, "collection %s is empty", coll.Name())
	}

	records := make([]MethodRecord, len(docs))
	for i, d := range docs {
		records[i] = d.MethodRecord
	}
	return New(records)
}

// Seed replaces the collection's contents with cat, preserving its order.
func (s MongoSource) Seed(ctx context.Context, cat *Catalogue) error {
	client, coll, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return mlerrors.Wrap(mlerrors.ErrCodeInternal, err, "clear %s", coll.Name())
	}
	docs := make([]any, 0, cat.Len())
	for i, r := range cat.Methods() {
		docs = append(docs, mongoRecord{Order: i, MethodRecord: r})
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return mlerrors.Wrap(mlerrors.ErrCodeInternal, err, "insert into %s", coll.Name())
	}
	return nil
}

var (
	_ Source = MongoSource{}
	_ Source = FileSource{}
)
