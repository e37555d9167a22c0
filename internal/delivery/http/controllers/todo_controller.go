package controllers

import (
	"log/slog"
	"net/http"

	"sharedtodo/internal/delivery/http/helpers"
	"sharedtodo/internal/domain"
)

// dateLayout is the day-granularity format used for date fields in todo
// responses.
const dateLayout = "2006-01-02"

type TodoController struct {
	Logger  *slog.Logger
	Service domain.TodoService
}

func NewTodoController(logger *slog.Logger, svc domain.TodoService) *TodoController {
	return &TodoController{
		Logger:  logger,
		Service: svc,
	}
}

// TodoRequest is the request body for POST /todos and PUT /todos/{id}.
// DueDate is expressed in epoch milliseconds. CreatedDate, FinishedDate,
// and Category are accepted for compatibility but ignored: createdDate is
// immutable after creation and the other two are derived server-side.
type TodoRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Finished     bool    `json:"finished"`
	AssigneeIDs  []int64 `json:"assigneeIdList"`
	DueDate      int64   `json:"dueDate"`
	CreatedDate  int64   `json:"createdDate"`
	FinishedDate int64   `json:"finishedDate"`
	Category     string  `json:"category"`
}

func (req *TodoRequest) toInput() *domain.TodoInput {
	return &domain.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Finished:    req.Finished,
		AssigneeIDs: req.AssigneeIDs,
		DueDate:     req.DueDate,
	}
}

// TodoResponse is a todo with its date fields rendered at day granularity.
// swagger:model TodoResponse
type TodoResponse struct {
	ID           int64              `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Finished     bool               `json:"finished"`
	AssigneeList []*domain.Assignee `json:"assigneeList"`
	CreatedDate  string             `json:"createdDate"`
	DueDate      string             `json:"dueDate"`
	FinishedDate *string            `json:"finishedDate"`
	Category     string             `json:"category"`
}

func newTodoResponse(todo *domain.Todo) *TodoResponse {
	resp := &TodoResponse{
		ID:           todo.ID,
		Title:        todo.Title,
		Description:  todo.Description,
		Finished:     todo.Finished,
		AssigneeList: todo.Assignees,
		CreatedDate:  todo.CreatedDate.Format(dateLayout),
		DueDate:      todo.DueDate.Format(dateLayout),
		Category:     todo.Category,
	}
	if resp.AssigneeList == nil {
		resp.AssigneeList = []*domain.Assignee{}
	}
	if todo.FinishedDate != nil {
		s := todo.FinishedDate.Format(dateLayout)
		resp.FinishedDate = &s
	}
	return resp
}

func newTodoListResponse(todos []*domain.Todo) []*TodoResponse {
	responses := make([]*TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, newTodoResponse(todo))
	}
	return responses
}

// List godoc
// @Summary List all todos
// @Tags todos
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /todos [get]
func (c *TodoController) List(w http.ResponseWriter, r *http.Request) {
	todos, err := c.Service.List(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newTodoListResponse(todos))
}

// Get godoc
// @Summary Get a todo by ID
// @Tags todos
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /todos/{id} [get]
func (c *TodoController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	todo, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newTodoResponse(todo))
}

// Create godoc
// @Summary Create a new todo
// @Description The category is computed from the title by the classifier; createdDate is set server-side.
// @Tags todos
// @Accept json
// @Produce json
// @Param body body controllers.TodoRequest true "Todo fields"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /todos [post]
func (c *TodoController) Create(w http.ResponseWriter, r *http.Request) {
	var req TodoRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	todo, err := c.Service.Create(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, newTodoResponse(todo))
}

// Update godoc
// @Summary Update an existing todo
// @Description Recomputes the category from the title; createdDate is left untouched.
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param body body controllers.TodoRequest true "Todo fields"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /todos/{id} [put]
func (c *TodoController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req TodoRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	todo, err := c.Service.Update(r.Context(), id, req.toInput())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newTodoResponse(todo))
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /todos/{id} [delete]
func (c *TodoController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}

// ClassifyRequest is the request body for POST /classify.
type ClassifyRequest struct {
	Title string `json:"title"`
}

// ClassifyResponse carries the predicted category for a title.
type ClassifyResponse struct {
	Category string `json:"category"`
}

// Classify godoc
// @Summary Predict the category for a todo title
// @Tags todos
// @Accept json
// @Produce json
// @Param body body controllers.ClassifyRequest true "Title to classify"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /classify [post]
func (c *TodoController) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category, err := c.Service.Classify(r.Context(), req.Title)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ClassifyResponse{Category: category})
}

// ExportCSV godoc
// @Summary Download all todos as a CSV file
// @Tags todos
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /csv-downloads/todos [get]
func (c *TodoController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	csv, err := c.Service.ExportCSV(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=todos.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}
