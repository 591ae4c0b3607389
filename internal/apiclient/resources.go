package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spec-kit/freight-console/internal/domain"
)

// Upstream resource groups.
const (
	GroupUser   = "user"
	GroupAgency = "customer"
	GroupJob    = "job"
	GroupCharge = "charge"
	GroupRefund = "refund"
)

// ListQuery narrows a list call.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// Values renders the query string.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	for k, v := range q.Filters {
		if v != "" {
			values.Set(k, v)
		}
	}
	return values
}

// Page is one page of a list. The back office answers lists either as a bare
// array or as an object with items and totals; both decode here.
type Page[T any] struct {
	Items    []T `json:"items" validate:"dive"`
	Total    int `json:"totalCount"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// UnmarshalJSON accepts both list shapes.
func (p *Page[T]) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = Page[T]{Items: items, Total: len(items)}
		return nil
	}

	var obj struct {
		Items    []T `json:"items"`
		Total    int `json:"totalCount"`
		Page     int `json:"page"`
		PageSize int `json:"pageSize"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	*p = Page[T]{Items: obj.Items, Total: obj.Total, Page: obj.Page, PageSize: obj.PageSize}
	return nil
}

// Resource is the CRUD surface of one upstream group.
type Resource[T any] struct {
	client *Client
	group  string
}

// NewResource binds a CRUD surface to group.
func NewResource[T any](client *Client, group string) *Resource[T] {
	return &Resource[T]{client: client, group: group}
}

// Group returns the upstream path segment.
func (r *Resource[T]) Group() string {
	return r.group
}

// List fetches a page.
func (r *Resource[T]) List(ctx context.Context, q ListQuery) (Page[T], error) {
	var page Page[T]
	err := r.client.call(ctx, http.MethodGet, r.group, q.Values(), nil, &page)
	return page, err
}

// Get fetches one record.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.client.call(ctx, http.MethodGet, r.group+"/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// Create records a new entity and returns the stored version.
func (r *Resource[T]) Create(ctx context.Context, payload T) (T, error) {
	var out T
	err := r.client.call(ctx, http.MethodPost, r.group, nil, payload, &out)
	return out, err
}

// Update replaces an entity and returns the stored version.
func (r *Resource[T]) Update(ctx context.Context, id string, payload T) (T, error) {
	var out T
	err := r.client.call(ctx, http.MethodPut, r.group+"/"+url.PathEscape(id), nil, payload, &out)
	return out, err
}

// Delete removes an entity.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.call(ctx, http.MethodDelete, r.group+"/"+url.PathEscape(id), nil, nil, nil)
}

// Records groups the CRUD surfaces the console administers.
type Records struct {
	Users    *Resource[domain.User]
	Agencies *Resource[domain.Agency]
	Jobs     *Resource[domain.Job]
	Charges  *Resource[domain.Charge]
	Refunds  *Resource[domain.Refund]
}

// NewRecords binds every CRUD group to client.
func NewRecords(client *Client) *Records {
	return &Records{
		Users:    NewResource[domain.User](client, GroupUser),
		Agencies: NewResource[domain.Agency](client, GroupAgency),
		Jobs:     NewResource[domain.Job](client, GroupJob),
		Charges:  NewResource[domain.Charge](client, GroupCharge),
		Refunds:  NewResource[domain.Refund](client, GroupRefund),
	}
}
