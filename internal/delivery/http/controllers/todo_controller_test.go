package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sharedtodo/internal/delivery/http/helpers"
	"sharedtodo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeTodoService implements domain.TodoService for handler tests.
type fakeTodoService struct {
	listResult     []*domain.Todo
	listErr        error
	getResult      *domain.Todo
	getErr         error
	createResult   *domain.Todo
	createErr      error
	updateResult   *domain.Todo
	updateErr      error
	deleteErr      error
	classifyResult string
	classifyErr    error
	exportResult   string
	exportErr      error

	lastGetID       int64
	lastCreateInput *domain.TodoInput
	lastUpdateID    int64
	lastUpdateInput *domain.TodoInput
	lastDeleteID    int64
	lastClassified  string
}

func (f *fakeTodoService) List(_ context.Context) ([]*domain.Todo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listResult != nil {
		return f.listResult, nil
	}
	return []*domain.Todo{}, nil
}

func (f *fakeTodoService) GetByID(_ context.Context, id int64) (*domain.Todo, error) {
	f.lastGetID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func (f *fakeTodoService) Create(_ context.Context, input *domain.TodoInput) (*domain.Todo, error) {
	f.lastCreateInput = input
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeTodoService) Update(_ context.Context, id int64, input *domain.TodoInput) (*domain.Todo, error) {
	f.lastUpdateID = id
	f.lastUpdateInput = input
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateResult, nil
}

func (f *fakeTodoService) Delete(_ context.Context, id int64) error {
	f.lastDeleteID = id
	return f.deleteErr
}

func (f *fakeTodoService) Classify(_ context.Context, title string) (string, error) {
	f.lastClassified = title
	if f.classifyErr != nil {
		return "", f.classifyErr
	}
	return f.classifyResult, nil
}

func (f *fakeTodoService) ExportCSV(_ context.Context) (string, error) {
	if f.exportErr != nil {
		return "", f.exportErr
	}
	return f.exportResult, nil
}

// sampleTodo returns a fully populated todo for response-shape assertions.
func sampleTodo() *domain.Todo {
	finished := time.Date(2025, 6, 20, 9, 30, 0, 0, time.UTC)
	return &domain.Todo{
		ID:          7,
		Title:       "Buy milk",
		Description: "two bottles",
		Finished:    true,
		Assignees: []*domain.Assignee{
			{ID: 1, Prename: "Ana", Name: "Franco", Email: "ana@uni-stuttgart.de"},
		},
		CreatedDate:  time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		FinishedDate: &finished,
		Category:     "household",
	}
}

// idRequest builds a request with the {id} path value set, the way the
// ServeMux would after matching "/todos/{id}".
func idRequest(method, id string, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, "/todos/"+id, reader)
	req.SetPathValue("id", id)
	return req
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	return envelope
}

func TestTodoController_List(t *testing.T) {
	tests := []struct {
		name       string
		fake       *fakeTodoService
		wantStatus int
		wantCode   string
		wantLen    int
	}{
		{
			name:       "success",
			fake:       &fakeTodoService{listResult: []*domain.Todo{sampleTodo()}},
			wantStatus: http.StatusOK,
			wantLen:    1,
		},
		{
			name:       "empty list is an empty array",
			fake:       &fakeTodoService{},
			wantStatus: http.StatusOK,
			wantLen:    0,
		},
		{
			name:       "service error",
			fake:       &fakeTodoService{listErr: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewTodoController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodGet, "/todos", nil)
			rr := httptest.NewRecorder()

			ctrl.List(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus != http.StatusOK {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			var todos []TodoResponse
			dataBytes, err := json.Marshal(envelope.Data)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(dataBytes, &todos))
			assert.Len(t, todos, tt.wantLen)
		})
	}
}

func TestTodoController_Get(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		fake       *fakeTodoService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			id:         "7",
			fake:       &fakeTodoService{getResult: sampleTodo()},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-numeric id",
			id:         "abc",
			fake:       &fakeTodoService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "not found",
			id:         "99",
			fake:       &fakeTodoService{getErr: fmt.Errorf("todo not found: %w", domain.ErrNotFound)},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewTodoController(testLogger, tt.fake)
			rr := httptest.NewRecorder()

			ctrl.Get(rr, idRequest(http.MethodGet, tt.id, ""))

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus != http.StatusOK {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			var todo TodoResponse
			dataBytes, err := json.Marshal(envelope.Data)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(dataBytes, &todo))
			assert.Equal(t, int64(7), todo.ID)
			assert.Equal(t, "2025-06-01", todo.CreatedDate)
			assert.Equal(t, "2025-06-30", todo.DueDate)
			require.NotNil(t, todo.FinishedDate)
			assert.Equal(t, "2025-06-20", *todo.FinishedDate)
			assert.Equal(t, "household", todo.Category)
		})
	}
}

func TestTodoController_Get_NilFinishedDateOmitted(t *testing.T) {
	todo := sampleTodo()
	todo.Finished = false
	todo.FinishedDate = nil
	todo.Assignees = nil
	ctrl := NewTodoController(testLogger, &fakeTodoService{getResult: todo})
	rr := httptest.NewRecorder()

	ctrl.Get(rr, idRequest(http.MethodGet, "7", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"finishedDate":null`)
	assert.Contains(t, rr.Body.String(), `"assigneeList":[]`)
}

func TestTodoController_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fake           *fakeTodoService
		wantStatus     int
		wantCode       string
		wantBodySubstr string
		checkInput     func(t *testing.T, input *domain.TodoInput)
	}{
		{
			name:       "success",
			body:       `{"title":"Buy milk","description":"two bottles","dueDate":1751241600000,"assigneeIdList":[1]}`,
			fake:       &fakeTodoService{createResult: sampleTodo()},
			wantStatus: http.StatusCreated,
			checkInput: func(t *testing.T, input *domain.TodoInput) {
				assert.Equal(t, "Buy milk", input.Title)
				assert.Equal(t, int64(1751241600000), input.DueDate)
				assert.Equal(t, []int64{1}, input.AssigneeIDs)
			},
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			fake:           &fakeTodoService{},
			wantStatus:     http.StatusBadRequest,
			wantCode:       helpers.ErrCodeBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "unknown field rejected",
			body:           `{"title":"Buy milk","bogus":true}`,
			fake:           &fakeTodoService{},
			wantStatus:     http.StatusBadRequest,
			wantCode:       helpers.ErrCodeBadRequest,
			wantBodySubstr: "unknown field",
		},
		{
			name:           "validation error from service",
			body:           `{"title":""}`,
			fake:           &fakeTodoService{createErr: fmt.Errorf("title must not be empty: %w", domain.ErrInvalidInput)},
			wantStatus:     http.StatusBadRequest,
			wantCode:       helpers.ErrCodeBadRequest,
			wantBodySubstr: "title must not be empty",
		},
		{
			name:       "service error",
			body:       `{"title":"Buy milk","dueDate":1751241600000}`,
			fake:       &fakeTodoService{createErr: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewTodoController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "/todos", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Create(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				if tt.checkInput != nil {
					require.NotNil(t, tt.fake.lastCreateInput)
					tt.checkInput(t, tt.fake.lastCreateInput)
				}
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			if tt.wantBodySubstr != "" {
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
		})
	}
}

func TestTodoController_Create_IgnoresServerManagedFields(t *testing.T) {
	fake := &fakeTodoService{createResult: sampleTodo()}
	ctrl := NewTodoController(testLogger, fake)
	body := `{"title":"Buy milk","dueDate":1751241600000,"createdDate":1,"finishedDate":2,"category":"work"}`
	req := httptest.NewRequest(http.MethodPost, "/todos", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	ctrl.Create(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, fake.lastCreateInput)
	assert.Equal(t, "Buy milk", fake.lastCreateInput.Title)
}

func TestTodoController_Update(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		fake       *fakeTodoService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			id:         "7",
			body:       `{"title":"Buy oat milk","dueDate":1751241600000}`,
			fake:       &fakeTodoService{updateResult: sampleTodo()},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-numeric id",
			id:         "abc",
			body:       `{"title":"Buy oat milk"}`,
			fake:       &fakeTodoService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "not found",
			id:         "99",
			body:       `{"title":"Buy oat milk","dueDate":1751241600000}`,
			fake:       &fakeTodoService{updateErr: fmt.Errorf("todo not found: %w", domain.ErrNotFound)},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewTodoController(testLogger, tt.fake)
			rr := httptest.NewRecorder()

			ctrl.Update(rr, idRequest(http.MethodPut, tt.id, tt.body))

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, int64(7), tt.fake.lastUpdateID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestTodoController_Delete(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		fake       *fakeTodoService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			id:         "7",
			fake:       &fakeTodoService{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found",
			id:         "99",
			fake:       &fakeTodoService{deleteErr: fmt.Errorf("todo not found: %w", domain.ErrNotFound)},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "non-numeric id",
			id:         "abc",
			fake:       &fakeTodoService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewTodoController(testLogger, tt.fake)
			rr := httptest.NewRecorder()

			ctrl.Delete(rr, idRequest(http.MethodDelete, tt.id, ""))

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, int64(7), tt.fake.lastDeleteID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestTodoController_Classify(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *fakeTodoService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       `{"title":"Buy milk"}`,
			fake:       &fakeTodoService{classifyResult: "household"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty title still classifies",
			body:       `{"title":""}`,
			fake:       &fakeTodoService{classifyResult: "leisure"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid json",
			body:       `{invalid`,
			fake:       &fakeTodoService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "classifier failure",
			body:       `{"title":"Buy milk"}`,
			fake:       &fakeTodoService{classifyErr: errors.New("model unavailable")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewTodoController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "/classify", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Classify(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				var resp ClassifyResponse
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				require.NoError(t, json.Unmarshal(dataBytes, &resp))
				assert.Equal(t, tt.fake.classifyResult, resp.Category)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestTodoController_ExportCSV(t *testing.T) {
	csv := "id,title,description,finished,assignees,createdDate,dueDate,finishedDate,category\n" +
		"1,Buy milk,two bottles,false,Ana Franco,2025-06-01,2025-06-30,,household\n"
	ctrl := NewTodoController(testLogger, &fakeTodoService{exportResult: csv})
	req := httptest.NewRequest(http.MethodGet, "/csv-downloads/todos", nil)
	rr := httptest.NewRecorder()

	ctrl.ExportCSV(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=todos.csv", rr.Header().Get("Content-Disposition"))
	assert.Equal(t, csv, rr.Body.String())
}

func TestTodoController_ExportCSV_Error(t *testing.T) {
	ctrl := NewTodoController(testLogger, &fakeTodoService{exportErr: errors.New("db down")})
	req := httptest.NewRequest(http.MethodGet, "/csv-downloads/todos", nil)
	rr := httptest.NewRecorder()

	ctrl.ExportCSV(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeInternalError, envelope.Error.Code)
}
