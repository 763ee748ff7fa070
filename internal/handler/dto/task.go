package dto

import (
	"time"

	"github.com/taskforge/taskforge/internal/model"
)

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required"`
}

// UpdateTaskRequest represents the request body for partially updating
// a task. Absent fields are left untouched; a title, if present, must
// be non-empty.
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitnil,min=1"`
	Completed *bool   `json:"completed,omitempty"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Meta describes a windowed listing result.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// TaskListResponse represents a paginated list of tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Meta  Meta           `json:"meta"`
}

// ToTaskResponse converts a Task model to TaskResponse DTO.
func ToTaskResponse(task *model.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		UserID:    task.UserID,
		CreatedAt: task.CreatedAt,
	}
}

// ToTaskListResponse converts a page of tasks plus the unwindowed total
// into a TaskListResponse. totalPages is ceil(total/limit).
func ToTaskListResponse(tasks []*model.Task, total int64, page, limit int) TaskListResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = ToTaskResponse(task)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return TaskListResponse{
		Tasks: responses,
		Meta: Meta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}
