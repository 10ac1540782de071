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

type userDocument struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	FirstName      string              `bson:"first_name"`
	LastName       string              `bson:"last_name"`
	Mobile         string              `bson:"mobile,omitempty"`
	Email          string              `bson:"email"`
	Password       string              `bson:"password"`
	Role           *primitive.ObjectID `bson:"role,omitempty"`
	ProfilePicture *string             `bson:"profile_picture"`
	Token          *string             `bson:"token"`
	TokenExpiresAt *time.Time          `bson:"token_expires_at,omitempty"`
	IsDeleted      bool                `bson:"is_deleted"`
	CreatedAt      time.Time           `bson:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt"`
}

func (d *userDocument) model() *models.User {
	u := &models.User{
		ID:             d.ID.Hex(),
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Mobile:         d.Mobile,
		Email:          d.Email,
		Password:       d.Password,
		RoleID:         hexOrEmpty(d.Role),
		TokenExpiresAt: d.TokenExpiresAt,
		IsDeleted:      d.IsDeleted,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.ProfilePicture != nil {
		u.ProfilePicture = *d.ProfilePicture
	}
	if d.Token != nil {
		u.Token = *d.Token
	}
	return u
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type userRepository struct {
	coll *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	role, err := optionalID(user.RoleID)
	if err != nil {
		return err
	}

	ts := now()
	doc := userDocument{
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Mobile:         user.Mobile,
		Email:          user.Email,
		Password:       user.Password,
		Role:           role,
		ProfilePicture: nullableString(user.ProfilePicture),
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return translateError(err)
	}

	user.ID = res.InsertedID.(primitive.ObjectID).Hex()
	user.CreatedAt, user.UpdatedAt = ts, ts
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, scoped(filter, repository.NotDeleted)).Decode(&doc)
	if err != nil {
		return nil, translateError(err)
	}
	return doc.model(), nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string, scope repository.DeletedScope) ([]*models.User, error) {
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: parseIDs(ids)}}}}
	cur, err := r.coll.Find(ctx, scoped(filter, scope))
	if err != nil {
		return nil, translateError(err)
	}
	return decodeAll(ctx, cur, (*userDocument).model)
}

func (r *userRepository) FindAll(ctx context.Context, f repository.UserFilter) ([]*models.User, error) {
	filter := bson.D{}
	if f.OnlyID != "" {
		oid, err := parseID(f.OnlyID)
		if err != nil {
			return []*models.User{}, nil
		}
		filter = append(filter, bson.E{Key: "_id", Value: oid})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, scoped(filter, f.Deleted), opts)
	if err != nil {
		return nil, translateError(err)
	}
	return decodeAll(ctx, cur, (*userDocument).model)
}

func (r *userRepository) Update(ctx context.Context, id string, update repository.UserUpdate) (*models.User, error) {
	set := bson.D{{Key: "updatedAt", Value: now()}}
	appendSet(&set, "first_name", update.FirstName)
	appendSet(&set, "last_name", update.LastName)
	appendSet(&set, "email", update.Email)
	appendSet(&set, "mobile", update.Mobile)
	appendSet(&set, "password", update.Password)
	appendSet(&set, "profile_picture", update.ProfilePicture)
	if update.RoleID != nil {
		role, err := optionalID(*update.RoleID)
		if err != nil {
			return nil, err
		}
		set = append(set, bson.E{Key: "role", Value: role})
	}

	return r.findOneAndSet(ctx, id, set)
}

func (r *userRepository) SetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	_, err := r.findOneAndSet(ctx, id, bson.D{
		{Key: "token", Value: token},
		{Key: "token_expires_at", Value: expiresAt.UTC()},
		{Key: "updatedAt", Value: now()},
	})
	return err
}

func (r *userRepository) findOneAndSet(ctx context.Context, id string, set bson.D) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
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

func (r *userRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.coll, id)
}

func appendSet[T any](set *bson.D, key string, value *T) {
	if value != nil {
		*set = append(*set, bson.E{Key: key, Value: *value})
	}
}
