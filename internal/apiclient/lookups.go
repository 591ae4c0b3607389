package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spec-kit/freight-console/internal/domain"
)

// Lookups serves the reference tables forms bind to.
type Lookups struct {
	client *Client
}

// NewLookups binds the lookup endpoints to client.
func NewLookups(client *Client) *Lookups {
	return &Lookups{client: client}
}

// ChargeCategories lists charge categories.
func (l *Lookups) ChargeCategories(ctx context.Context) ([]domain.ChargeCategory, error) {
	var out []domain.ChargeCategory
	err := l.client.call(ctx, http.MethodGet, "charge/category", nil, nil, &out)
	return out, err
}

// ChargeSubcategories lists subcategories, narrowed to one category when categoryID > 0.
func (l *Lookups) ChargeSubcategories(ctx context.Context, categoryID int64) ([]domain.ChargeSubcategory, error) {
	var query url.Values
	if categoryID > 0 {
		query = url.Values{"categoryId": {strconv.FormatInt(categoryID, 10)}}
	}
	var out []domain.ChargeSubcategory
	err := l.client.call(ctx, http.MethodGet, "charge/subcategory", query, nil, &out)
	return out, err
}

// ChargeStatuses lists charge lifecycle states.
func (l *Lookups) ChargeStatuses(ctx context.Context) ([]domain.ChargeStatus, error) {
	var out []domain.ChargeStatus
	err := l.client.call(ctx, http.MethodGet, "charge/status", nil, nil, &out)
	return out, err
}

// Configuration returns the rows of one configuration category.
// Rows answered for a different category are rejected.
func (l *Lookups) Configuration(ctx context.Context, category string) ([]domain.ConfigurationOption, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errors.New("configuration category is required")
	}
	var out []domain.ConfigurationOption
	if err := l.client.call(ctx, http.MethodGet, "configuration", url.Values{"category": {category}}, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		switch out[i].Category {
		case "":
			out[i].Category = category
		case category:
		default:
			return nil, &TransportError{
				Op:  "GET configuration",
				Err: errors.New("row " + strconv.FormatInt(out[i].OptionID, 10) + " belongs to category " + out[i].Category),
			}
		}
	}
	return out, nil
}
