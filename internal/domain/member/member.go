package member

import "time"

type Member struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateMemberRequest struct {
	FullName string  `json:"fullName" binding:"required,min=1,max=100"`
	Phone    string  `json:"phone" binding:"required,min=3,max=20"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
}

// pointer fields stay nil when the client leaves them out
type UpdateMemberRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,min=3,max=20"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type ListFilter struct {
	Limit  int
	Offset int
}
