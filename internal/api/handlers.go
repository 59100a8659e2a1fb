package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/objectives/internal/repository"
	"github.com/alexanderramin/objectives/internal/service"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

// Handlers adapts the objective and comment services to HTTP.
type Handlers struct {
	objectives service.ObjectiveService
	comments   service.CommentService
	logger     *slog.Logger
}

func NewHandlers(objectives service.ObjectiveService, comments service.CommentService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{objectives: objectives, comments: comments, logger: logger}
}

func (h *Handlers) log(c *gin.Context, handler string) *slog.Logger {
	return h.logger.With("request_id", requestID(c), "handler", handler)
}

// HandleCreateObjective handles POST /objectives.
func (h *Handlers) HandleCreateObjective(c *gin.Context) {
	logger := h.log(c, "HandleCreateObjective")

	var req ObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		badRequest(c, logger, err)
		return
	}

	o, err := h.objectives.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	logger.Info("Objective created", "objective_id", o.ID)
	c.JSON(http.StatusCreated, toObjectiveResponse(o))
}

// HandleListObjectives handles GET /objectives. ?tree=1 returns the forest.
func (h *Handlers) HandleListObjectives(c *gin.Context) {
	logger := h.log(c, "HandleListObjectives")

	asTree, err := boolQuery(c, "tree")
	if err != nil {
		badRequest(c, logger, err)
		return
	}
	if asTree {
		h.HandleObjectiveForest(c)
		return
	}

	objs, err := h.objectives.List(c.Request.Context())
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, toObjectiveResponses(objs))
}

// HandleObjectiveForest handles GET /objectives/tree.
func (h *Handlers) HandleObjectiveForest(c *gin.Context) {
	logger := h.log(c, "HandleObjectiveForest")

	forest, err := h.objectives.ListTree(c.Request.Context())
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, toForestResponse(forest))
}

// HandleGetObjective handles GET /objectives/:id.
func (h *Handlers) HandleGetObjective(c *gin.Context) {
	logger := h.log(c, "HandleGetObjective")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	o, err := h.objectives.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, toObjectiveResponse(o))
}

// HandleGetSubtree handles GET /objectives/:id/tree.
func (h *Handlers) HandleGetSubtree(c *gin.Context) {
	logger := h.log(c, "HandleGetSubtree")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	node, err := h.objectives.GetTree(c.Request.Context(), id)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, toNodeResponse(node))
}

// HandleGetHistory handles GET /objectives/:id/history, newest first.
func (h *Handlers) HandleGetHistory(c *gin.Context) {
	logger := h.log(c, "HandleGetHistory")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	entries, err := h.objectives.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, toHistoryResponses(entries))
}

// HandleReplaceObjective handles PUT /objectives/:id.
func (h *Handlers) HandleReplaceObjective(c *gin.Context) {
	logger := h.log(c, "HandleReplaceObjective")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	var req ObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		badRequest(c, logger, err)
		return
	}

	o, err := h.objectives.Replace(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, toObjectiveResponse(o))
}

// HandlePatchStatus handles PATCH /objectives/:id.
func (h *Handlers) HandlePatchStatus(c *gin.Context) {
	logger := h.log(c, "HandlePatchStatus")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	o, err := h.objectives.PatchStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, toObjectiveResponse(o))
}

// HandleDeleteObjective handles DELETE /objectives/:id[?cascade=true].
func (h *Handlers) HandleDeleteObjective(c *gin.Context) {
	logger := h.log(c, "HandleDeleteObjective")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}
	cascade, err := boolQuery(c, "cascade")
	if err != nil {
		badRequest(c, logger, err)
		return
	}

	deleted, err := h.objectives.Delete(c.Request.Context(), id, cascade)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	logger.Info("Objective deleted", "objective_id", id, "cascade", cascade, "removed", len(deleted))
	c.Status(http.StatusNoContent)
}

// HandleRollup handles POST /objectives/:id/rollup.
func (h *Handlers) HandleRollup(c *gin.Context) {
	logger := h.log(c, "HandleRollup")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	o, err := h.objectives.Rollup(c.Request.Context(), id)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, toObjectiveResponse(o))
}

// HandleListComments handles GET /objectives/:id/comments.
func (h *Handlers) HandleListComments(c *gin.Context) {
	logger := h.log(c, "HandleListComments")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	comments, err := h.comments.List(c.Request.Context(), id)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	out := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentResponse(cm))
	}
	c.JSON(http.StatusOK, out)
}

// HandleAddComment handles POST /objectives/:id/comments.
func (h *Handlers) HandleAddComment(c *gin.Context) {
	logger := h.log(c, "HandleAddComment")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	cm, err := h.comments.Add(c.Request.Context(), id, req.Content)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, toCommentResponse(cm))
}

// HandleDeleteComment handles DELETE /comments/:id.
func (h *Handlers) HandleDeleteComment(c *gin.Context) {
	logger := h.log(c, "HandleDeleteComment")
	id, ok := pathID(c, logger, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		writeError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func pathID(c *gin.Context, logger *slog.Logger, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, logger, fmt.Errorf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

func boolQuery(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("query parameter %s: %q is not a boolean", name, raw)
	}
	return v, nil
}

func badRequest(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Invalid request", "error", err)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidInput})
}

// writeError maps service and store errors onto status codes. Unexpected
// errors are logged and reported without detail.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status, code := http.StatusInternalServerError, CodeInternal
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, service.ErrInvalidInput):
		status, code = http.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, repository.ErrConstraint):
		status, code = http.StatusConflict, CodeConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		c.JSON(status, ErrorResponse{Error: "internal error", Code: code})
		return
	}
	logger.Warn("Request rejected", "status", status, "error", err)
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
