package staff

import "time"

type Staff struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	HourlyRate *float64  `json:"hourlyRate,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CreateStaffRequest struct {
	FullName   string   `json:"fullName" binding:"required,min=1,max=100"`
	Phone      string   `json:"phone" binding:"required,min=3,max=20"`
	Email      string   `json:"email" binding:"required,email,max=255"`
	Position   string   `json:"position" binding:"required,max=50"`
	HourlyRate *float64 `json:"hourlyRate" binding:"omitempty,gte=0"`
}
