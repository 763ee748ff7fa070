//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/taskforge/taskforge/internal/model"
	"github.com/taskforge/taskforge/internal/testutil"
)

func TestIntegrationTaskRepository_CreateTask(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)

	task := testutil.NewTestTask(t, owner.ID, "write report")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID == 0 {
		t.Error("expected a generated id")
	}

	retrieved, err := repo.GetTaskByOwner(ctx, task.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetTaskByOwner failed: %v", err)
	}
	if retrieved.Title != "write report" {
		t.Errorf("Title mismatch: got %q", retrieved.Title)
	}
	if retrieved.Completed {
		t.Error("new task should not be completed")
	}
	if retrieved.UserID != owner.ID {
		t.Errorf("UserID mismatch: got %d, want %d", retrieved.UserID, owner.ID)
	}
}

func TestIntegrationTaskRepository_GetTaskByOwner_ForeignOwner(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)
	other := seedUser(t, repo)

	task := testutil.NewTestTask(t, owner.ID, "private")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := repo.GetTaskByOwner(ctx, task.ID, other.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for foreign owner, got: %v", err)
	}
}

func TestIntegrationTaskRepository_ListTasks(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)
	other := seedUser(t, repo)

	for i := 0; i < 5; i++ {
		task := testutil.NewTestTask(t, owner.ID, fmt.Sprintf("task-%d", i))
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}
	foreign := testutil.NewTestTask(t, other.ID, "not mine")
	if err := repo.CreateTask(ctx, foreign); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	tasks, err := repo.ListTasks(ctx, TaskFilter{OwnerID: owner.ID, Limit: 3, Offset: 0})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	// Newest first.
	if tasks[0].Title != "task-4" {
		t.Errorf("expected newest task first, got %q", tasks[0].Title)
	}
	for _, task := range tasks {
		if task.UserID != owner.ID {
			t.Errorf("listing leaked a foreign task: %+v", task)
		}
	}

	total, err := repo.CountTasks(ctx, TaskFilter{OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("CountTasks failed: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
}

func TestIntegrationTaskRepository_ListTasks_CompletedFilter(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)

	open := testutil.NewTestTask(t, owner.ID, "open")
	if err := repo.CreateTask(ctx, open); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	done := testutil.NewTestTask(t, owner.ID, "done")
	if err := repo.CreateTask(ctx, done); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	done.Completed = true
	if err := repo.UpdateTask(ctx, done); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	completed := true
	tasks, err := repo.ListTasks(ctx, TaskFilter{OwnerID: owner.ID, Completed: &completed, Limit: 10})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "done" {
		t.Errorf("unexpected filtered result: %+v", tasks)
	}

	total, err := repo.CountTasks(ctx, TaskFilter{OwnerID: owner.ID, Completed: &completed})
	if err != nil {
		t.Fatalf("CountTasks failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected filtered total 1, got %d", total)
	}
}

func TestIntegrationTaskRepository_ListTasks_Empty(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)

	tasks, err := repo.ListTasks(ctx, TaskFilter{OwnerID: owner.ID, Limit: 10})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if tasks == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(tasks))
	}
}

func TestIntegrationTaskRepository_UpdateTask(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)

	task := testutil.NewTestTask(t, owner.ID, "before")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	task.Title = "after"
	task.Completed = true
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	retrieved, err := repo.GetTaskByOwner(ctx, task.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetTaskByOwner failed: %v", err)
	}
	if retrieved.Title != "after" || !retrieved.Completed {
		t.Errorf("update not persisted: %+v", retrieved)
	}
}

func TestIntegrationTaskRepository_UpdateTask_ForeignOwner(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)
	other := seedUser(t, repo)

	task := testutil.NewTestTask(t, owner.ID, "original")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	hijacked := &model.Task{ID: task.ID, Title: "hijacked", Completed: true, UserID: other.ID}
	if err := repo.UpdateTask(ctx, hijacked); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for foreign owner, got: %v", err)
	}

	retrieved, err := repo.GetTaskByOwner(ctx, task.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetTaskByOwner failed: %v", err)
	}
	if retrieved.Title != "original" {
		t.Errorf("foreign update modified the task: %+v", retrieved)
	}
}

func TestIntegrationTaskRepository_DeleteTask(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)

	task := testutil.NewTestTask(t, owner.ID, "doomed")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := repo.DeleteTask(ctx, task.ID, owner.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	if _, err := repo.GetTaskByOwner(ctx, task.ID, owner.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound after delete, got: %v", err)
	}

	if err := repo.DeleteTask(ctx, task.ID, owner.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound on second delete, got: %v", err)
	}
}

func TestIntegrationTaskRepository_DeleteTask_ForeignOwner(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)
	other := seedUser(t, repo)

	task := testutil.NewTestTask(t, owner.ID, "protected")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := repo.DeleteTask(ctx, task.ID, other.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for foreign owner, got: %v", err)
	}

	if _, err := repo.GetTaskByOwner(ctx, task.ID, owner.ID); err != nil {
		t.Errorf("foreign delete removed the task: %v", err)
	}
}

func TestIntegrationTaskRepository_CascadeOnUserDelete(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := seedUser(t, repo)

	task := testutil.NewTestTask(t, owner.ID, "cascades")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := repo.Pool().Exec(ctx, "DELETE FROM users WHERE id = $1", owner.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := repo.GetTaskByOwner(ctx, task.ID, owner.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected task to cascade with user, got: %v", err)
	}
}

func seedUser(t *testing.T, repo *Repository) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, testutil.UniqueEmail("task-owner"))
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}
