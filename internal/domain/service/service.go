package service

import (
	"time"

	"github.com/gosimple/slug"
)

type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Duration    int       `json:"duration"` // minutes
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Category    string  `json:"category" binding:"required,max=50"`
	Price       float64 `json:"price" binding:"gte=0"`
	Duration    int     `json:"duration" binding:"required,min=5,max=720"`
}

type ListFilter struct {
	Category *string
}

// SlugFor derives the URL slug stored alongside a service name.
func SlugFor(name string) string {
	return slug.Make(name)
}
