package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// Fields are pointers so that an absent field can be told apart from an
// empty one: absent fails the shape check (422), empty fails validation (400).

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Email    *string `json:"email"    validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    *string `json:"email"    validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// CreateTaskRequest is the payload of POST /tasks.
type CreateTaskRequest struct {
	Title *string `json:"title" validate:"required"`
}

// UpdateTaskRequest is the payload of PUT /tasks/{id}. Omitted fields keep
// their current values.
type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// Patch converts the request to a domain patch.
func (r UpdateTaskRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{Title: r.Title, Completed: r.Completed}
}

// UserResponse is the public view of a user. The password hash is never
// serialized.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaginatedTasksResponse is one page of a task listing.
type PaginatedTasksResponse struct {
	Data       []TaskResponse    `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

func tasksToResponse(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskToResponse(&tasks[i]))
	}
	return out
}
