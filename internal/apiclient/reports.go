package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/spec-kit/freight-console/internal/domain"
)

const reportDateLayout = "2006-01-02"

// Reports reads the back office's report group.
type Reports struct {
	client *Client
}

// NewReports binds the report endpoints to client.
func NewReports(client *Client) *Reports {
	return &Reports{client: client}
}

// PettyCash fetches the petty-cash statement for [from, to].
func (r *Reports) PettyCash(ctx context.Context, from, to time.Time) (domain.PettyCashReport, error) {
	query := url.Values{
		"from": {from.Format(reportDateLayout)},
		"to":   {to.Format(reportDateLayout)},
	}
	var report domain.PettyCashReport
	err := r.client.call(ctx, http.MethodGet, "report/petty-cash", query, nil, &report)
	return report, err
}
