// Package office holds the organizational reference data officers attach to:
// offices and designations. Transfers and promotions validate against these
// rows inside their transactions, so referential failures roll the whole
// state change back.
package office

import (
	"time"

	id "bigoffice/pkg/domain"
)

// Office is a physical or organizational unit an officer is posted to.
type Office struct {
	ID        id.OfficeID `json:"id"`
	Name      string      `json:"name"`
	Code      string      `json:"code"`
	District  string      `json:"district,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Designation is a rank in the service hierarchy. GradeLevel follows the
// civil-service convention: a LOWER number is a HIGHER rank, so a promotion
// moves to a designation with a smaller grade level.
type Designation struct {
	ID         id.DesignationID `json:"id"`
	Title      string           `json:"title"`
	GradeLevel int              `json:"grade_level"`
	CreatedAt  time.Time        `json:"created_at"`
}
