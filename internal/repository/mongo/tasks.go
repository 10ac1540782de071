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

type taskDocument struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       string              `bson:"title"`
	Description string              `bson:"description,omitempty"`
	Status      primitive.ObjectID  `bson:"status"`
	Assignee    *primitive.ObjectID `bson:"assignee,omitempty"`
	DueDate     *time.Time          `bson:"dueDate,omitempty"`
	Priority    string              `bson:"priority"`
	IsDeleted   bool                `bson:"is_deleted"`
	CreatedAt   time.Time           `bson:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt"`
}

func (d *taskDocument) model() *models.Task {
	return &models.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		StatusID:    d.Status.Hex(),
		AssigneeID:  hexOrEmpty(d.Assignee),
		DueDate:     d.DueDate,
		Priority:    models.Priority(d.Priority),
		IsDeleted:   d.IsDeleted,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

var sortKeys = map[repository.SortField]string{
	repository.SortCreatedAt: "createdAt",
	repository.SortUpdatedAt: "updatedAt",
	repository.SortTitle:     "title",
	repository.SortPriority:  "priority",
	repository.SortDueDate:   "dueDate",
}

type taskRepository struct {
	coll *mongo.Collection
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	status, err := primitive.ObjectIDFromHex(task.StatusID)
	if err != nil {
		return repository.ErrNotFound
	}
	assignee, err := optionalID(task.AssigneeID)
	if err != nil {
		return err
	}

	ts := now()
	res, err := r.coll.InsertOne(ctx, taskDocument{
		Title:       task.Title,
		Description: task.Description,
		Status:      status,
		Assignee:    assignee,
		DueDate:     task.DueDate,
		Priority:    string(task.Priority),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
	if err != nil {
		return translateError(err)
	}

	task.ID = res.InsertedID.(primitive.ObjectID).Hex()
	task.CreatedAt, task.UpdatedAt = ts, ts
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	err = r.coll.FindOne(ctx, scoped(bson.D{{Key: "_id", Value: oid}}, repository.NotDeleted)).Decode(&doc)
	if err != nil {
		return nil, translateError(err)
	}
	return doc.model(), nil
}

func (r *taskRepository) Find(ctx context.Context, query repository.TaskQuery) ([]*models.Task, error) {
	filter, ok := taskFilter(query.Filter)
	if !ok {
		return []*models.Task{}, nil
	}

	opts := options.Find().SetSort(taskSort(query.Sort))
	if query.Skip > 0 {
		opts.SetSkip(query.Skip)
	}
	if query.Limit > 0 {
		opts.SetLimit(query.Limit)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateError(err)
	}
	return decodeAll(ctx, cur, (*taskDocument).model)
}

func (r *taskRepository) Count(ctx context.Context, f repository.TaskFilter) (int64, error) {
	filter, ok := taskFilter(f)
	if !ok {
		return 0, nil
	}

	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, update repository.TaskUpdate) (*models.Task, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.D{{Key: "updatedAt", Value: now()}}
	appendSet(&set, "title", update.Title)
	appendSet(&set, "description", update.Description)
	appendSet(&set, "dueDate", update.DueDate)
	if update.Priority != nil {
		set = append(set, bson.E{Key: "priority", Value: string(*update.Priority)})
	}
	if update.StatusID != nil {
		status, err := primitive.ObjectIDFromHex(*update.StatusID)
		if err != nil {
			return nil, repository.ErrNotFound
		}
		set = append(set, bson.E{Key: "status", Value: status})
	}
	if update.AssigneeID != nil {
		assignee, err := optionalID(*update.AssigneeID)
		if err != nil {
			return nil, err
		}
		set = append(set, bson.E{Key: "assignee", Value: assignee})
	}

	var doc taskDocument
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

func (r *taskRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.coll, id)
}

// taskFilter translates f into a query document. It reports false when f
// references an id that cannot exist, in which case nothing matches.
func taskFilter(f repository.TaskFilter) (bson.D, bool) {
	filter := scoped(bson.D{}, f.Deleted)

	if f.AssigneeID != "" {
		oid, err := primitive.ObjectIDFromHex(f.AssigneeID)
		if err != nil {
			return nil, false
		}
		filter = append(filter, bson.E{Key: "assignee", Value: oid})
	}
	if f.StatusID != "" {
		oid, err := primitive.ObjectIDFromHex(f.StatusID)
		if err != nil {
			return nil, false
		}
		filter = append(filter, bson.E{Key: "status", Value: oid})
	}
	if f.Priority != "" {
		filter = append(filter, bson.E{Key: "priority", Value: string(f.Priority)})
	}
	if f.DueFrom != nil || f.DueTo != nil {
		due := bson.D{}
		if f.DueFrom != nil {
			due = append(due, bson.E{Key: "$gte", Value: *f.DueFrom})
		}
		if f.DueTo != nil {
			due = append(due, bson.E{Key: "$lte", Value: *f.DueTo})
		}
		filter = append(filter, bson.E{Key: "dueDate", Value: due})
	}
	if f.Search != "" {
		pattern := containsInsensitive(f.Search)
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: pattern}},
			bson.D{{Key: "description", Value: pattern}},
			bson.D{{Key: "priority", Value: pattern}},
		}})
	}
	return filter, true
}

func taskSort(order []repository.SortOrder) bson.D {
	if len(order) == 0 {
		order = repository.DefaultTaskSort
	}

	sort := make(bson.D, 0, len(order)+1)
	for _, o := range order {
		key, ok := sortKeys[o.Field]
		if !ok {
			continue
		}
		dir := 1
		if o.Descending {
			dir = -1
		}
		sort = append(sort, bson.E{Key: key, Value: dir})
	}
	// Stable pagination across equal keys.
	return append(sort, bson.E{Key: "_id", Value: 1})
}
