package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"sharedtodo/internal/delivery/http/helpers"
	"sharedtodo/internal/domain"
)

type AssigneeController struct {
	Logger  *slog.Logger
	Service domain.AssigneeService
}

func NewAssigneeController(logger *slog.Logger, svc domain.AssigneeService) *AssigneeController {
	return &AssigneeController{
		Logger:  logger,
		Service: svc,
	}
}

// AssigneeRequest is the request body for POST /assignees and PUT /assignees/{id}.
type AssigneeRequest struct {
	Prename string `json:"prename"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

func (req *AssigneeRequest) toInput() *domain.AssigneeInput {
	return &domain.AssigneeInput{
		Prename: req.Prename,
		Name:    req.Name,
		Email:   req.Email,
	}
}

// AssigneeSuccessResponse is the success response envelope for single-assignee endpoints.
type AssigneeSuccessResponse struct {
	Data  *domain.Assignee  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// List godoc
// @Summary List all assignees
// @Tags assignees
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignees [get]
func (c *AssigneeController) List(w http.ResponseWriter, r *http.Request) {
	assignees, err := c.Service.List(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assignees)
}

// Get godoc
// @Summary Get an assignee by ID
// @Tags assignees
// @Produce json
// @Param id path int true "Assignee ID"
// @Success 200 {object} controllers.AssigneeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignees/{id} [get]
func (c *AssigneeController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	assignee, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assignee)
}

// Create godoc
// @Summary Create a new assignee
// @Tags assignees
// @Accept json
// @Produce json
// @Param body body controllers.AssigneeRequest true "Assignee fields"
// @Success 201 {object} controllers.AssigneeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignees [post]
func (c *AssigneeController) Create(w http.ResponseWriter, r *http.Request) {
	var req AssigneeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	assignee, err := c.Service.Create(r.Context(), req.toInput())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, assignee)
}

// Update godoc
// @Summary Update an existing assignee
// @Tags assignees
// @Accept json
// @Produce json
// @Param id path int true "Assignee ID"
// @Param body body controllers.AssigneeRequest true "Assignee fields"
// @Success 200 {object} controllers.AssigneeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignees/{id} [put]
func (c *AssigneeController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req AssigneeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	assignee, err := c.Service.Update(r.Context(), id, req.toInput())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assignee)
}

// Delete godoc
// @Summary Delete an assignee
// @Description Deletes the assignee and removes it from every todo's assignee list.
// @Tags assignees
// @Produce json
// @Param id path int true "Assignee ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assignees/{id} [delete]
func (c *AssigneeController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}

func (c *AssigneeController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(c.Logger, w, r, err)
}

// pathID parses the {id} path segment. On failure it writes a 400 JSON
// error and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// writeServiceError maps service errors onto the stable error taxonomy:
// not found → 404, invalid input → 400, anything else → 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}
