//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

type registerResponse struct {
	Message string `json:"message"`
	User    struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type taskResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Meta  struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalPages int64 `json:"totalPages"`
	} `json:"meta"`
}

// TestE2ESmoke walks the full user journey: register, obtain a token,
// create a task, update it, and delete it.
func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("TASKFORGE_BASE_URL", "http://localhost:8080")

	email := uniqueEmail()
	password := "senha123"

	// Register
	var registered registerResponse
	status := doJSON(t, http.MethodPost, baseURL+"/auth/register", "",
		map[string]any{"email": email, "password": password}, &registered)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from register, got %d", status)
	}
	if registered.User.ID == 0 || registered.User.Email != email {
		t.Fatalf("register response missing fields: %+v", registered)
	}

	// Duplicate registration must conflict
	status = doJSON(t, http.MethodPost, baseURL+"/auth/register", "",
		map[string]any{"email": email, "password": password}, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 from duplicate register, got %d", status)
	}

	// Obtain a token
	var issued tokenResponse
	status = doJSON(t, http.MethodPost, baseURL+"/auth/generateToken", "",
		map[string]any{"email": email, "password": password}, &issued)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from generateToken, got %d", status)
	}
	if issued.Token == "" {
		t.Fatal("token response missing token")
	}
	token := issued.Token

	// Unauthenticated task access is rejected
	status = doJSON(t, http.MethodGet, baseURL+"/tasks", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	// Create a task
	var created taskResponse
	status = doJSON(t, http.MethodPost, baseURL+"/tasks", token,
		map[string]any{"title": "Task de teste"}, &created)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from task create, got %d", status)
	}
	if created.ID == 0 || created.Title != "Task de teste" || created.Completed {
		t.Fatalf("task create response unexpected: %+v", created)
	}
	if created.UserID != registered.User.ID {
		t.Fatalf("task owner mismatch: got %d, want %d", created.UserID, registered.User.ID)
	}

	// List includes it
	var listing taskListResponse
	status = doJSON(t, http.MethodGet, baseURL+"/tasks", token, nil, &listing)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from task list, got %d", status)
	}
	if listing.Meta.Total != 1 || len(listing.Tasks) != 1 {
		t.Fatalf("expected exactly one task, got %+v", listing)
	}

	// Update title and completion
	var updated taskResponse
	taskURL := fmt.Sprintf("%s/tasks/%d", baseURL, created.ID)
	status = doJSON(t, http.MethodPatch, taskURL, token,
		map[string]any{"title": "Task atualizada", "completed": true}, &updated)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from task update, got %d", status)
	}
	if updated.Title != "Task atualizada" || !updated.Completed {
		t.Fatalf("task update response unexpected: %+v", updated)
	}

	// Completed filter finds it
	var completedOnly taskListResponse
	status = doJSON(t, http.MethodGet, baseURL+"/tasks?completed=true", token, nil, &completedOnly)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from filtered list, got %d", status)
	}
	if len(completedOnly.Tasks) != 1 || completedOnly.Tasks[0].ID != created.ID {
		t.Fatalf("completed filter missed the task: %+v", completedOnly)
	}

	// Delete it
	status = doJSON(t, http.MethodDelete, taskURL, token, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 from task delete, got %d", status)
	}

	// Gone from the listing
	var after taskListResponse
	status = doJSON(t, http.MethodGet, baseURL+"/tasks", token, nil, &after)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from task list, got %d", status)
	}
	if after.Meta.Total != 0 || len(after.Tasks) != 0 {
		t.Fatalf("deleted task still listed: %+v", after)
	}

	// Deleting again is a 404
	status = doJSON(t, http.MethodDelete, taskURL, token, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 from second delete, got %d", status)
	}
}

// TestE2EOwnershipIsolation verifies one user cannot see or touch
// another user's tasks.
func TestE2EOwnershipIsolation(t *testing.T) {
	baseURL := envOrDefault("TASKFORGE_BASE_URL", "http://localhost:8080")

	ownerToken := registerAndLogin(t, baseURL, uniqueEmail())
	intruderToken := registerAndLogin(t, baseURL, uniqueEmail())

	var created taskResponse
	status := doJSON(t, http.MethodPost, baseURL+"/tasks", ownerToken,
		map[string]any{"title": "segredo"}, &created)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from task create, got %d", status)
	}

	taskURL := fmt.Sprintf("%s/tasks/%d", baseURL, created.ID)

	status = doJSON(t, http.MethodPatch, taskURL, intruderToken,
		map[string]any{"completed": true}, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 updating a foreign task, got %d", status)
	}

	status = doJSON(t, http.MethodDelete, taskURL, intruderToken, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 deleting a foreign task, got %d", status)
	}

	var listing taskListResponse
	status = doJSON(t, http.MethodGet, baseURL+"/tasks", intruderToken, nil, &listing)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from task list, got %d", status)
	}
	for _, task := range listing.Tasks {
		if task.ID == created.ID {
			t.Fatalf("foreign task leaked into listing: %+v", task)
		}
	}

	// The owner's task survived the intrusion attempts.
	var reloaded taskResponse
	status = doJSON(t, http.MethodPatch, taskURL, ownerToken, map[string]any{}, &reloaded)
	if status != http.StatusOK {
		t.Fatalf("expected 200 reloading own task, got %d", status)
	}
	if reloaded.Completed || reloaded.Title != "segredo" {
		t.Fatalf("task was modified by an intruder: %+v", reloaded)
	}
}

func registerAndLogin(t *testing.T, baseURL, email string) string {
	t.Helper()

	password := "senha123"
	status := doJSON(t, http.MethodPost, baseURL+"/auth/register", "",
		map[string]any{"email": email, "password": password}, nil)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from register, got %d", status)
	}

	var issued tokenResponse
	status = doJSON(t, http.MethodPost, baseURL+"/auth/generateToken", "",
		map[string]any{"email": email, "password": password}, &issued)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from generateToken, got %d", status)
	}
	return issued.Token
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func uniqueEmail() string {
	return fmt.Sprintf("e2e-%s@example.com", strings.ToLower(ulid.Make().String()))
}

func doJSON(t *testing.T, method, url, token string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		buf = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && resp.ContentLength != 0 {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp.StatusCode
}
