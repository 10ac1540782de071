// Package mongo implements the repositories on top of MongoDB.
//
// Documents keep the field names of the board's original collections
// (snake_case fields, camelCase timestamps), so existing databases can be
// served without migration.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-taskboard/internal/repository"
)

const (
	usersCollection    = "users"
	rolesCollection    = "roles"
	statusesCollection = "statuses"
	tasksCollection    = "tasks"
)

type Storage struct {
	db *mongo.Database
}

func NewStorage(db *mongo.Database) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:    &userRepository{coll: s.db.Collection(usersCollection)},
		Roles:    &roleRepository{coll: s.db.Collection(rolesCollection)},
		Statuses: &statusRepository{coll: s.db.Collection(statusesCollection)},
		Tasks:    &taskRepository{coll: s.db.Collection(tasksCollection)},
	}
}

// EnsureIndexes creates the unique indexes backing the uniqueness
// invariants. Role names, status names and status orders are unique among
// non-deleted documents only.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	activeOnly := bson.D{{Key: "is_deleted", Value: false}}
	caseInsensitive := &options.Collation{Locale: "en", Strength: 2}

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		rolesCollection: {
			{
				Keys: bson.D{{Key: "name", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(activeOnly),
			},
		},
		statusesCollection: {
			{
				Keys: bson.D{{Key: "order", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(activeOnly),
			},
			{
				Keys: bson.D{{Key: "name", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetCollation(caseInsensitive).
					SetPartialFilterExpression(activeOnly),
			},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "assignee", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}

	for name, models := range indexes {
		_, err := s.db.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// parseID converts a hex id. Malformed ids cannot match any document.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

func parseIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

// optionalID converts an empty string to a nil reference.
func optionalID(id string) (*primitive.ObjectID, error) {
	if id == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid object id %q: %w", id, err)
	}
	return &oid, nil
}

func hexOrEmpty(oid *primitive.ObjectID) string {
	if oid == nil || oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

// scoped adds the soft-delete predicate selected by scope to filter.
func scoped(filter bson.D, scope repository.DeletedScope) bson.D {
	if scope == repository.NotDeleted {
		filter = append(filter, bson.E{Key: "is_deleted", Value: false})
	}
	return filter
}

func translateError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

// softDelete flips is_deleted on a non-deleted document.
func softDelete(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "is_deleted", Value: false}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "is_deleted", Value: true},
			{Key: "updatedAt", Value: now()},
		}}},
	)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func decodeAll[D any, M any](ctx context.Context, cur *mongo.Cursor, convert func(*D) *M) ([]*M, error) {
	defer func() { _ = cur.Close(ctx) }()

	var docs []D
	err := cur.All(ctx, &docs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	items := make([]*M, len(docs))
	for i := range docs {
		items[i] = convert(&docs[i])
	}
	return items, nil
}
