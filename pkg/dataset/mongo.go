package dataset

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// mongoConnectTimeout bounds server selection when the caller's context has
// no deadline.
const mongoConnectTimeout = 10 * time.Second

// LoadMongo reads every document of a MongoDB collection as one row. Columns
// are the numeric top-level fields in first-seen order; a field holding any
// non-numeric value is skipped entirely. Missing fields become NaN.
func LoadMongo(ctx context.Context, uri, database, collection string) (*Table, error) {
	if err := errors.ValidateMongoURI(uri); err != nil {
		return nil, err
	}
	if err := errors.ValidateIdentifier(database); err != nil {
		return nil, err
	}
	if err := errors.ValidateIdentifier(collection); err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, mongoConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "connect")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	cur, err := client.Database(database).Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "find %s.%s", database, collection)
	}
	defer cur.Close(ctx)

	var docs []bson.D
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "decode document %d", len(docs)+1)
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "cursor")
	}
	return fromDocuments(docs)
}

// fromDocuments builds a table from decoded documents.
func fromDocuments(docs []bson.D) (*Table, error) {
	var order []string
	skip := map[string]bool{"_id": true}
	seen := make(map[string]bool)
	for _, doc := range docs {
		for _, e := range doc {
			if skip[e.Key] {
				continue
			}
			if _, ok := bsonValue(e.Value); !ok {
				skip[e.Key] = true
				continue
			}
			if !seen[e.Key] {
				seen[e.Key] = true
				order = append(order, e.Key)
			}
		}
	}

	cols := make(map[string][]float64, len(order))
	for _, key := range order {
		if skip[key] {
			continue
		}
		col := make([]float64, len(docs))
		for i := range col {
			col[i] = math.NaN()
		}
		cols[key] = col
	}
	for i, doc := range docs {
		for _, e := range doc {
			if col, ok := cols[e.Key]; ok {
				col[i], _ = bsonValue(e.Value)
			}
		}
	}

	b := NewBuilder()
	for _, key := range order {
		if col, ok := cols[key]; ok {
			b.Add(key, col)
		}
	}
	return b.Done()
}

func bsonValue(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
