package query

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/policy"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

var sortFields = map[string]repository.SortField{
	"createdAt": repository.SortCreatedAt,
	"updatedAt": repository.SortUpdatedAt,
	"title":     repository.SortTitle,
	"priority":  repository.SortPriority,
	"dueDate":   repository.SortDueDate,
}

// TaskPage is a caller-scoped page request.
type TaskPage struct {
	Page     int
	PageSize int
	Query    repository.TaskQuery
	// Empty is set when the supplied filter contradicts the caller's scope,
	// so the page is known to be empty without asking the store.
	Empty bool
}

// BuildTaskPage scopes p to what c may see. The supplied filter is AND-ed
// with the scope: it may narrow the result but never widen it.
func BuildTaskPage(c policy.Caller, p Params) (TaskPage, error) {
	base := policy.ScopeTasks(c, repository.TaskFilter{Deleted: repository.NotDeleted})

	filter, empty, err := mergeFilter(base, p.Filter)
	if err != nil {
		return TaskPage{}, err
	}
	filter.Search = p.Search

	order, err := parseSort(p.Sort)
	if err != nil {
		return TaskPage{}, err
	}

	return TaskPage{
		Page:     p.Page,
		PageSize: p.PageSize,
		Query: repository.TaskQuery{
			Filter: filter,
			Sort:   order,
			Skip:   int64(p.Page-1) * int64(p.PageSize),
			Limit:  int64(p.PageSize),
		},
		Empty: empty,
	}, nil
}

type taskFilterParams struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
	Assignee *string `json:"assignee"`
	DueDate  *struct {
		From *string `json:"$gte"`
		To   *string `json:"$lte"`
	} `json:"dueDate"`
}

func mergeFilter(base repository.TaskFilter, raw json.RawMessage) (repository.TaskFilter, bool, error) {
	if raw == nil {
		return base, false, nil
	}

	var fp taskFilterParams
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	err := dec.Decode(&fp)
	if err != nil {
		return base, false, invalid("filter: %v", err)
	}

	f := base
	empty := false
	if fp.Status != nil {
		if !models.IsObjectID(*fp.Status) {
			return base, false, invalid("filter.status must be a 24 character hex id")
		}
		f.StatusID = *fp.Status
	}
	if fp.Priority != nil {
		p := models.Priority(*fp.Priority)
		if !p.Valid() {
			return base, false, invalid("filter.priority must be one of low, medium, high")
		}
		f.Priority = p
	}
	if fp.Assignee != nil {
		if !models.IsObjectID(*fp.Assignee) {
			return base, false, invalid("filter.assignee must be a 24 character hex id")
		}
		if base.AssigneeID != "" && base.AssigneeID != *fp.Assignee {
			empty = true
		}
		f.AssigneeID = base.AssigneeID
		if f.AssigneeID == "" {
			f.AssigneeID = *fp.Assignee
		}
	}
	if fp.DueDate != nil {
		if f.DueFrom, err = parseDate(fp.DueDate.From); err != nil {
			return base, false, invalid("filter.dueDate.$gte: %v", err)
		}
		if f.DueTo, err = parseDate(fp.DueDate.To); err != nil {
			return base, false, invalid("filter.dueDate.$lte: %v", err)
		}
	}
	return f, empty, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		t, err := time.Parse(layout, *s)
		if err == nil {
			return &t, nil
		}
	}
	return nil, invalid("%q is neither RFC 3339 nor YYYY-MM-DD", *s)
}

// parseSort reads a JSON object of field -> direction, keeping the key
// order. "asc", 1 and "1" sort ascending; anything else sorts descending.
func parseSort(raw json.RawMessage) ([]repository.SortOrder, error) {
	if raw == nil {
		return repository.DefaultTaskSort, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, invalid("sort: %v", err)
	}

	var order []repository.SortOrder
	seen := make(map[repository.SortField]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, invalid("sort: %v", err)
		}
		key, _ := tok.(string)
		field, ok := sortFields[key]
		if !ok {
			return nil, invalid("sort: unknown field %q", key)
		}

		var dir json.RawMessage
		err = dec.Decode(&dir)
		if err != nil && err != io.EOF {
			return nil, invalid("sort: %v", err)
		}
		// A repeated key keeps its first position and takes the last direction.
		o := repository.SortOrder{Field: field, Descending: !ascending(dir)}
		if i, ok := seen[field]; ok {
			order[i] = o
			continue
		}
		seen[field] = len(order)
		order = append(order, o)
	}

	if len(order) == 0 {
		return repository.DefaultTaskSort, nil
	}
	return order, nil
}

func ascending(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case `"asc"`, `1`, `"1"`:
		return true
	}
	return false
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Page         int
	PageSize     int
	TotalRecords int64
	TotalPages   int64
}

func NewPagination(page, pageSize int, total int64) Pagination {
	return Pagination{
		Page:         page,
		PageSize:     pageSize,
		TotalRecords: total,
		TotalPages:   (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
