package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps each collection in a MongoDB collection keyed by a string _id.
type MongoStore struct {
	db  *mongo.Database
	now func() time.Time
}

// NewMongoStore returns a store over db. A nil clock defaults to time.Now.
func NewMongoStore(db *mongo.Database, clock func() time.Time) *MongoStore {
	if clock == nil {
		clock = time.Now
	}
	return &MongoStore{db: db, now: clock}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return classifyMongo("ping", "", "", err)
	}
	return nil
}

func (s *MongoStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	return s.find(ctx, "getAll", collection, bson.M{})
}

func (s *MongoStore) GetWhere(ctx context.Context, collection, field string, op Operator, value any) ([]Document, error) {
	if err := checkQuery(collection, field, op); err != nil {
		return nil, err
	}
	return s.find(ctx, "getWhere", collection, whereFilter(field, op, value))
}

func (s *MongoStore) GetByID(ctx context.Context, collection, id string) (Document, bool, error) {
	if err := checkID("getById", collection, id); err != nil {
		return Document{}, false, err
	}
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, classifyMongo("getById", collection, id, err)
	}
	return fromBSON(raw), true, nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.New().String()
	if _, err := s.db.Collection(collection).InsertOne(ctx, s.stamp(id, data)); err != nil {
		return "", classifyMongo("add", collection, id, err)
	}
	return id, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	if err := checkID("update", collection, id); err != nil {
		return err
	}
	set := bson.M{}
	for k, v := range stripAudit(partial) {
		set[k] = v
	}
	set[FieldUpdatedAt] = s.now().UTC()

	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return classifyMongo("update", collection, id, err)
	}
	if result.MatchedCount == 0 {
		return newError("update", collection, id, ErrNotFound, nil)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkID("delete", collection, id); err != nil {
		return err
	}
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return classifyMongo("delete", collection, id, err)
	}
	return nil
}

func (s *MongoStore) SetWithID(ctx context.Context, collection, id string, data map[string]any) error {
	if err := checkID("set", collection, id); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, s.stamp(id, data), opts); err != nil {
		return classifyMongo("set", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	if err := checkID("create", collection, id); err != nil {
		return err
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, s.stamp(id, data)); err != nil {
		return classifyMongo("create", collection, id, err)
	}
	return nil
}

// CreateBatch needs a replica set or sharded cluster for the transaction.
func (s *MongoStore) CreateBatch(ctx context.Context, collection string, entries []Entry) ([]string, error) {
	ids := make([]string, 0, len(entries))
	data := make(map[string]map[string]any, len(entries))
	for _, e := range entries {
		if err := checkID("createBatch", collection, e.ID); err != nil {
			return nil, err
		}
		if _, dup := data[e.ID]; dup {
			continue
		}
		ids = append(ids, e.ID)
		data[e.ID] = e.Data
	}
	if len(ids) == 0 {
		return nil, nil
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return nil, classifyMongo("createBatch", collection, "", err)
	}
	defer session.EndSession(ctx)

	coll := s.db.Collection(collection)
	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		cursor, err := coll.Find(sc, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return nil, err
		}
		var existing []bson.M
		if err := cursor.All(sc, &existing); err != nil {
			return nil, err
		}
		present := make(map[string]bool, len(existing))
		for _, doc := range existing {
			if id, ok := doc["_id"].(string); ok {
				present[id] = true
			}
		}

		var created []string
		var docs []interface{}
		for _, id := range ids {
			if present[id] {
				continue
			}
			docs = append(docs, s.stamp(id, data[id]))
			created = append(created, id)
		}
		if len(docs) == 0 {
			return created, nil
		}
		if _, err := coll.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return nil, classifyMongo("createBatch", collection, "", err)
	}
	created, _ := result.([]string)
	return created, nil
}

func (s *MongoStore) find(ctx context.Context, op, collection string, filter bson.M) ([]Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, classifyMongo(op, collection, "", err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, classifyMongo(op, collection, "", err)
	}
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

func (s *MongoStore) stamp(id string, data map[string]any) bson.M {
	doc := bson.M{"_id": id}
	for k, v := range stripAudit(data) {
		doc[k] = v
	}
	now := s.now().UTC()
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now
	return doc
}

func whereFilter(field string, op Operator, value any) bson.M {
	switch op {
	case OpNotEqual:
		return bson.M{field: bson.M{"$ne": value}}
	case OpLess:
		return bson.M{field: bson.M{"$lt": value}}
	case OpLessEqual:
		return bson.M{field: bson.M{"$lte": value}}
	case OpGreater:
		return bson.M{field: bson.M{"$gt": value}}
	case OpGreaterEqual:
		return bson.M{field: bson.M{"$gte": value}}
	default:
		return bson.M{field: value}
	}
}

func fromBSON(raw bson.M) Document {
	id := fmt.Sprint(raw["_id"])
	data := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		data[k] = normalizeBSON(v)
	}
	return Document{ID: id, Data: data}
}

// normalizeBSON converts driver value types to the plain Go types the other
// backends return.
func normalizeBSON(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeBSON(item)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalizeBSON(item)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	default:
		return v
	}
}

func classifyMongo(op, collection, id string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return newError(op, collection, id, ErrAlreadyExists, err)
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && (serverErr.HasErrorCode(13) || serverErr.HasErrorCode(18)) {
		return newError(op, collection, id, ErrUnauthorized, err)
	}
	return newError(op, collection, id, ErrStoreUnavailable, err)
}

var _ RecordStore = (*MongoStore)(nil)
