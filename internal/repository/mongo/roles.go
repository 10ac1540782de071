package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type roleDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	IsDeleted bool               `bson:"is_deleted"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *roleDocument) model() *models.Role {
	return &models.Role{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		IsDeleted: d.IsDeleted,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type roleRepository struct {
	coll *mongo.Collection
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	ts := now()
	res, err := r.coll.InsertOne(ctx, roleDocument{
		Name:      role.Name,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		return translateError(err)
	}

	role.ID = res.InsertedID.(primitive.ObjectID).Hex()
	role.CreatedAt, role.UpdatedAt = ts, ts
	return nil
}

func (r *roleRepository) FindByID(ctx context.Context, id string) (*models.Role, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	return r.findOne(ctx, bson.D{{Key: "name", Value: name}})
}

func (r *roleRepository) findOne(ctx context.Context, filter bson.D) (*models.Role, error) {
	var doc roleDocument
	err := r.coll.FindOne(ctx, scoped(filter, repository.NotDeleted)).Decode(&doc)
	if err != nil {
		return nil, translateError(err)
	}
	return doc.model(), nil
}

func (r *roleRepository) FindByIDs(ctx context.Context, ids []string, scope repository.DeletedScope) ([]*models.Role, error) {
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: parseIDs(ids)}}}}
	cur, err := r.coll.Find(ctx, scoped(filter, scope))
	if err != nil {
		return nil, translateError(err)
	}
	return decodeAll(ctx, cur, (*roleDocument).model)
}

func (r *roleRepository) FindAll(ctx context.Context) ([]*models.Role, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, scoped(bson.D{}, repository.NotDeleted), opts)
	if err != nil {
		return nil, translateError(err)
	}
	return decodeAll(ctx, cur, (*roleDocument).model)
}

func (r *roleRepository) Update(ctx context.Context, id, name string) (*models.Role, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc roleDocument
	err = r.coll.FindOneAndUpdate(ctx,
		scoped(bson.D{{Key: "_id", Value: oid}}, repository.NotDeleted),
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: name},
			{Key: "updatedAt", Value: now()},
		}}},
		returnAfter,
	).Decode(&doc)
	if err != nil {
		return nil, translateError(err)
	}
	return doc.model(), nil
}

func (r *roleRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.coll, id)
}
