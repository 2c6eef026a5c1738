package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/me/studyplan/pkg/model"
)

func createTestTask(t *testing.T, srv *Server, title string, priority, estimate int, deadline string) model.Task {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"priority":%d,"estimated_minutes":%d,"deadline":%q}`,
		title, priority, estimate, deadline)
	code, env := doJSON(t, srv, "POST", "/api/v1/tasks/", body)
	if code != http.StatusCreated {
		t.Fatalf("POST /tasks: status=%d, error=%v", code, env.Error)
	}
	var task model.Task
	if err := json.Unmarshal(env.Data, &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	return task
}

func TestCreateTask(t *testing.T) {
	srv := testServer(t)
	task := createTestTask(t, srv, "Read chapter 4", 3, 60, "2024-05-10")

	if !strings.HasPrefix(task.ID, "task_") {
		t.Errorf("id = %q, want task_ prefix", task.ID)
	}
	if task.Status != model.TaskStatusPending {
		t.Errorf("status = %q, want pending", task.Status)
	}
	if task.Deadline != "2024-05-10" {
		t.Errorf("deadline = %q, want 2024-05-10", task.Deadline)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"estimated_minutes":60}`},
		{"zero estimate", `{"title":"x","estimated_minutes":0}`},
		{"negative estimate", `{"title":"x","estimated_minutes":-30}`},
		{"bad deadline", `{"title":"x","estimated_minutes":60,"deadline":"10/05/2024"}`},
		{"priority out of range", `{"title":"x","estimated_minutes":60,"priority":9}`},
		{"unknown status", `{"title":"x","estimated_minutes":60,"status":"paused"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := doJSON(t, srv, "POST", "/api/v1/tasks/", tt.body)
			if code != http.StatusBadRequest {
				t.Fatalf("status=%d, want 400", code)
			}
			if env.Error == nil || env.Error.Code != model.ErrValidation {
				t.Errorf("error = %v, want VALIDATION_ERROR", env.Error)
			}
		})
	}
}

func TestCreateTask_InvalidJSON(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest("POST", "/api/v1/tasks/", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestGetTask(t *testing.T) {
	srv := testServer(t)
	created := createTestTask(t, srv, "Essay draft", 4, 120, "")

	env := doGet(t, srv, "/api/v1/tasks/"+created.ID)
	var task model.Task
	json.Unmarshal(env.Data, &task)
	if task.ID != created.ID || task.Title != "Essay draft" {
		t.Errorf("task = %+v", task)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest("GET", "/api/v1/tasks/task_ghost", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	if env.Error == nil || env.Error.Code != model.ErrNotFound {
		t.Errorf("error = %v, want NOT_FOUND", env.Error)
	}
}

func TestListTasks(t *testing.T) {
	srv := testServer(t)
	createTestTask(t, srv, "Task one", 2, 30, "")
	createTestTask(t, srv, "Task two", 5, 60, "2024-05-05")

	env := doGet(t, srv, "/api/v1/tasks/")
	if env.Pagination == nil || env.Pagination.Total != 2 {
		t.Fatalf("pagination = %+v, want total 2", env.Pagination)
	}

	var tasks []model.Task
	json.Unmarshal(env.Data, &tasks)
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
	if tasks[0].Title != "Task two" {
		t.Errorf("first task = %q, want highest priority first", tasks[0].Title)
	}
}

func TestListTasks_StatusFilter(t *testing.T) {
	srv := testServer(t)
	createTestTask(t, srv, "Pending task", 3, 30, "")

	env := doGet(t, srv, "/api/v1/tasks/?status=completed")
	var tasks []model.Task
	json.Unmarshal(env.Data, &tasks)
	if len(tasks) != 0 {
		t.Errorf("completed tasks = %d, want 0", len(tasks))
	}

	code, _ := doJSON(t, srv, "GET", "/api/v1/tasks/?status=bogus", "")
	if code != http.StatusBadRequest {
		t.Errorf("bogus filter status=%d, want 400", code)
	}
}

func TestUpdateTask(t *testing.T) {
	srv := testServer(t)
	created := createTestTask(t, srv, "Old title", 2, 45, "")

	body := `{"title":"New title","priority":5,"estimated_minutes":90,"status":"completed"}`
	code, env := doJSON(t, srv, "PUT", "/api/v1/tasks/"+created.ID, body)
	if code != http.StatusOK {
		t.Fatalf("status=%d, error=%v", code, env.Error)
	}

	var task model.Task
	json.Unmarshal(env.Data, &task)
	if task.Title != "New title" || task.Priority != 5 || task.Status != model.TaskStatusCompleted {
		t.Errorf("task = %+v", task)
	}
}

func TestDeleteTask(t *testing.T) {
	srv := testServer(t)
	created := createTestTask(t, srv, "Doomed", 1, 30, "")

	code, _ := doJSON(t, srv, "DELETE", "/api/v1/tasks/"+created.ID, "")
	if code != http.StatusOK {
		t.Fatalf("delete status=%d, want 200", code)
	}

	req := httptest.NewRequest("GET", "/api/v1/tasks/"+created.ID, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status=%d after delete, want 404", w.Code)
	}
}
