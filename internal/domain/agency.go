package domain

// Agency is a customer account served by the forwarder.
type Agency struct {
	AgencyID      int64  `json:"agencyId"`
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	IsActive      bool   `json:"isActive"`
}
