package appointment

import (
	"time"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var statuses = []Status{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow}

func (s Status) Valid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

type MemberSummary struct {
	ID       string  `json:"id"`
	FullName string  `json:"fullName"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email,omitempty"`
}

type StaffSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

type ServiceSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

type Appointment struct {
	ID              string    `json:"id"`
	MemberID        string    `json:"memberId"`
	StaffID         string    `json:"staffId"`
	ServiceID       string    `json:"serviceId"`
	AppointmentDate time.Time `json:"appointmentDate"`
	Duration        int       `json:"duration"`
	Status          Status    `json:"status"`
	TotalPrice      *float64  `json:"totalPrice,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// populated on reads through left joins; nil when the referenced row is gone
	Member  *MemberSummary  `json:"member,omitempty"`
	Staff   *StaffSummary   `json:"staff,omitempty"`
	Service *ServiceSummary `json:"service,omitempty"`
}

type CreateAppointmentRequest struct {
	MemberID        string    `json:"memberId" binding:"required,uuid"`
	StaffID         string    `json:"staffId" binding:"required,uuid"`
	ServiceID       string    `json:"serviceId" binding:"required,uuid"`
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
	Duration        int       `json:"duration" binding:"required,min=5,max=720"`
	Notes           *string   `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateAppointmentRequest struct {
	StaffID         *string    `json:"staffId" binding:"omitempty,uuid"`
	ServiceID       *string    `json:"serviceId" binding:"omitempty,uuid"`
	AppointmentDate *time.Time `json:"appointmentDate"`
	Duration        *int       `json:"duration" binding:"omitempty,min=5,max=720"`
	Status          *Status    `json:"status" binding:"omitempty,apptstatus"`
	TotalPrice      *float64   `json:"totalPrice" binding:"omitempty,gte=0"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
}

type StatusUpdateRequest struct {
	Status Status `json:"status" binding:"required,apptstatus"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	Status  *Status
	From    *time.Time
	To      *time.Time
	StaffID *string
	Limit   int
	Offset  int
}
