package model

import "time"

// Task represents a to-do item owned by exactly one user.
// UserID is immutable after creation; CreatedAt drives the default
// newest-first listing order.
type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
