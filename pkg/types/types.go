package types

import "time"

// Unit is one documented API unit: the class stub its method docs are
// assembled into.
type Unit struct {
	Name      string    `json:"name"`
	Group     string    `json:"group"`
	DocCount  int       `json:"doc_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MethodDoc is one rendered endpoint doc belonging to a unit.
type MethodDoc struct {
	UnitName   string    `json:"unit_name"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	Doc        string    `json:"doc"`
	CreatedAt  time.Time `json:"created_at"`
}
