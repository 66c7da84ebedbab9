// Package transition implements the atomic life-cycle operations on officer
// records: office transfers and grade promotions. Each operation appends an
// immutable history event, updates the officer's current posting when the
// event is already effective, and logs the activity — all inside one
// transaction engine call, so no partial state can survive a failure.
package transition

import (
	"time"

	id "bigoffice/pkg/domain"
)

// TransferEvent is one immutable office change in an officer's history. A
// transfer order may also carry a new designation; when it does, the posting
// update covers both.
type TransferEvent struct {
	ID              id.TransferEventID `json:"id"`
	OfficerID       id.OfficerID       `json:"officer_id"`
	FromOfficeID    id.OfficeID        `json:"from_office_id,omitzero"`
	ToOfficeID      id.OfficeID        `json:"to_office_id"`
	ToDesignationID id.DesignationID   `json:"to_designation_id,omitzero"`
	EffectiveDate   time.Time          `json:"effective_date"`
	OrderRef        string             `json:"order_ref,omitempty"`
	Remarks         string             `json:"remarks,omitempty"`
	CreatedBy       id.UserID          `json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
}

// PromotionEvent is one immutable designation/grade change in an officer's
// history.
type PromotionEvent struct {
	ID                id.PromotionEventID `json:"id"`
	OfficerID         id.OfficerID        `json:"officer_id"`
	FromDesignationID id.DesignationID    `json:"from_designation_id,omitzero"`
	ToDesignationID   id.DesignationID    `json:"to_designation_id"`
	FromGrade         int                 `json:"from_grade,omitempty"`
	ToGrade           int                 `json:"to_grade,omitempty"`
	NewSalary         int64               `json:"new_salary,omitempty"`
	EffectiveDate     time.Time           `json:"effective_date"`
	OrderRef          string              `json:"order_ref,omitempty"`
	Remarks           string              `json:"remarks,omitempty"`
	CreatedBy         id.UserID           `json:"created_by"`
	CreatedAt         time.Time           `json:"created_at"`
}

// TransferInput carries one transfer order. ToDesignationID is optional and,
// when set, changes the officer's designation alongside the office.
type TransferInput struct {
	OfficerID       id.OfficerID     `json:"officer_id"`
	ToOfficeID      id.OfficeID      `json:"to_office_id"`
	ToDesignationID id.DesignationID `json:"to_designation_id"`
	EffectiveDate   time.Time        `json:"effective_date"`
	OrderRef        string           `json:"order_ref"`
	Remarks         string           `json:"remarks"`
}

// PromotionInput carries one promotion order. FromGrade/ToGrade are optional
// explicit grade numbers; when both are given the new grade must be strictly
// higher.
type PromotionInput struct {
	OfficerID       id.OfficerID     `json:"officer_id"`
	ToDesignationID id.DesignationID `json:"to_designation_id"`
	FromGrade       int              `json:"from_grade"`
	ToGrade         int              `json:"to_grade"`
	NewSalary       int64            `json:"new_salary"`
	EffectiveDate   time.Time        `json:"effective_date"`
	OrderRef        string           `json:"order_ref"`
	Remarks         string           `json:"remarks"`
}
