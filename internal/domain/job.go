package domain

import "time"

// Job is a shipment tracked by the back office.
type Job struct {
	JobID         int64      `json:"jobId"`
	JobGUID       string     `json:"jobGuid,omitempty"`
	JobNumber     string     `json:"jobNumber" validate:"required"`
	AgencyID      int64      `json:"agencyId" validate:"required"`
	Consignee     string     `json:"consignee"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	BillOfLading  string     `json:"billOfLading,omitempty"`
	ContainerNo   string     `json:"containerNumber,omitempty"`
	StatusID      int64      `json:"statusId"`
	EstimatedDate *time.Time `json:"estimatedArrival,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	IsActive      bool       `json:"isActive"`
}
