package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type statusDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Order     int                `bson:"order"`
	IsDeleted bool               `bson:"is_deleted"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *statusDocument) model() *models.Status {
	return &models.Status{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Order:     d.Order,
		IsDeleted: d.IsDeleted,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type statusRepository struct {
	coll *mongo.Collection
}

func (r *statusRepository) Create(ctx context.Context, status *models.Status) error {
	ts := now()
	res, err := r.coll.InsertOne(ctx, statusDocument{
		Name:      status.Name,
		Order:     status.Order,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		return translateError(err)
	}

	status.ID = res.InsertedID.(primitive.ObjectID).Hex()
	status.CreatedAt, status.UpdatedAt = ts, ts
	return nil
}

func (r *statusRepository) FindByID(ctx context.Context, id string) (*models.Status, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *statusRepository) FindByName(ctx context.Context, name string) (*models.Status, error) {
	return r.findOne(ctx, bson.D{{Key: "name", Value: exactInsensitive(name)}})
}

func (r *statusRepository) FindByOrder(ctx context.Context, order int) (*models.Status, error) {
	return r.findOne(ctx, bson.D{{Key: "order", Value: order}})
}

func (r *statusRepository) findOne(ctx context.Context, filter bson.D) (*models.Status, error) {
	var doc statusDocument
	err := r.coll.FindOne(ctx, scoped(filter, repository.NotDeleted)).Decode(&doc)
	if err != nil {
		return nil, translateError(err)
	}
	return doc.model(), nil
}

func (r *statusRepository) FindByIDs(ctx context.Context, ids []string, scope repository.DeletedScope) ([]*models.Status, error) {
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: parseIDs(ids)}}}}
	cur, err := r.coll.Find(ctx, scoped(filter, scope))
	if err != nil {
		return nil, translateError(err)
	}
	return decodeAll(ctx, cur, (*statusDocument).model)
}

func (r *statusRepository) FindAll(ctx context.Context) ([]*models.Status, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := r.coll.Find(ctx, scoped(bson.D{}, repository.NotDeleted), opts)
	if err != nil {
		return nil, translateError(err)
	}
	return decodeAll(ctx, cur, (*statusDocument).model)
}

func (r *statusRepository) Update(ctx context.Context, id string, update repository.StatusUpdate) (*models.Status, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.D{{Key: "updatedAt", Value: now()}}
	appendSet(&set, "name", update.Name)
	appendSet(&set, "order", update.Order)

	var doc statusDocument
	err = r.coll.FindOneAndUpdate(ctx,
		scoped(bson.D{{Key: "_id", Value: oid}}, repository.NotDeleted),
		bson.D{{Key: "$set", Value: set}},
		returnAfter,
	).Decode(&doc)
	if err != nil {
		return nil, translateError(err)
	}
	return doc.model(), nil
}

func (r *statusRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.coll, id)
}

// exactInsensitive matches the whole value case-insensitively, treating s
// as a literal.
func exactInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func containsInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
