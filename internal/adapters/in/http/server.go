// Package http exposes the fulfillment engine over a JSON API.
// It coordinates between HTTP handlers and application use cases, translating
// typed engine errors into status codes.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/services"
	"warehouse/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP interface of the fulfillment engine.
type Server struct {
	// Command handlers
	createTaskHandler  commands.CreateTaskCommandHandler
	advanceItemHandler commands.AdvanceItemCommandHandler
	cancelItemHandler  commands.CancelItemCommandHandler
	shipTaskHandler    commands.ShipTaskCommandHandler

	// Query handlers
	listTasksHandler      queries.ListTasksQueryHandler
	stockSnapshotHandler  queries.StockSnapshotQueryHandler
	findCandidatesHandler queries.FindCandidatesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createTaskHandler commands.CreateTaskCommandHandler,
	advanceItemHandler commands.AdvanceItemCommandHandler,
	cancelItemHandler commands.CancelItemCommandHandler,
	shipTaskHandler commands.ShipTaskCommandHandler,
	listTasksHandler queries.ListTasksQueryHandler,
	stockSnapshotHandler queries.StockSnapshotQueryHandler,
	findCandidatesHandler queries.FindCandidatesQueryHandler,
) *Server {
	return &Server{
		createTaskHandler:     createTaskHandler,
		advanceItemHandler:    advanceItemHandler,
		cancelItemHandler:     cancelItemHandler,
		shipTaskHandler:       shipTaskHandler,
		listTasksHandler:      listTasksHandler,
		stockSnapshotHandler:  stockSnapshotHandler,
		findCandidatesHandler: findCandidatesHandler,
	}
}

// RegisterRoutes mounts every API route on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/tasks", s.CreateTask)
	api.GET("/tasks", s.ListTasks)
	api.POST("/tasks/:taskId/items/:itemId/advance", s.AdvanceItem)
	api.POST("/items/:itemId/cancel", s.CancelItem)
	api.POST("/tasks/:taskId/ship", s.ShipTask)
	api.GET("/stock/snapshot", s.StockSnapshot)
	api.GET("/stock/candidates", s.FindCandidates)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateTask handles POST /api/v1/tasks - enqueues a new fulfillment task.
func (s *Server) CreateTask(ctx echo.Context) error {
	var req CreateTaskRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	items := make([]commands.TaskItemSpec, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, commands.TaskItemSpec{
			SKU:  item.SKU,
			Qty1: item.Qty1,
			Qty2: item.Qty2,
			Qty3: item.Qty3,
		})
	}

	taskID := kernel.NewUUID()
	cmd, err := commands.NewCreateTaskCommand(
		taskID, req.SourceRef, req.SourceType, req.Priority, req.DueDate, items)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid task data: "+err.Error())
	}

	if err := s.createTaskHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return engineError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateTaskResponse{ID: taskID.String()})
}

// ListTasks handles GET /api/v1/tasks - lists tasks with their items,
// optionally filtered by status and source type.
func (s *Server) ListTasks(ctx echo.Context) error {
	statuses := ctx.QueryParams()["status"]
	sourceType := ctx.QueryParam("sourceType")

	query, err := queries.NewListTasksQuery(statuses, sourceType)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid filter: "+err.Error())
	}

	tasks, err := s.listTasksHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return engineError(ctx, err)
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, taskResponseFrom(task))
	}

	return ctx.JSON(http.StatusOK, response)
}

// AdvanceItem handles POST /api/v1/tasks/:taskId/items/:itemId/advance -
// moves one item through its state machine.
func (s *Server) AdvanceItem(ctx echo.Context) error {
	taskID, err := kernel.UUIDFromString(ctx.Param("taskId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid task id")
	}

	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid item id")
	}

	var req AdvanceItemRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	target, err := fulfillment.ItemStatusFromString(req.Target)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid target status: "+req.Target)
	}

	cmd, err := commands.NewAdvanceItemCommand(taskID, itemID, target)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid advance request: "+err.Error())
	}

	if err := s.advanceItemHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return engineError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelItem handles POST /api/v1/items/:itemId/cancel - withdraws one item,
// resolving the owning task from the item identifier.
func (s *Server) CancelItem(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid item id")
	}

	cmd, err := commands.NewCancelItemCommandByItem(itemID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid cancel request: "+err.Error())
	}

	if err := s.cancelItemHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return engineError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ShipTask handles POST /api/v1/tasks/:taskId/ship - performs the explicit
// terminal transition of a completed task.
func (s *Server) ShipTask(ctx echo.Context) error {
	taskID, err := kernel.UUIDFromString(ctx.Param("taskId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid task id")
	}

	cmd, err := commands.NewShipTaskCommand(taskID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid ship request: "+err.Error())
	}

	if err := s.shipTaskHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return engineError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StockSnapshot handles GET /api/v1/stock/snapshot - returns aggregated stock
// per slot and SKU, optionally filtered by location code and SKU.
func (s *Server) StockSnapshot(ctx echo.Context) error {
	query, err := queries.NewStockSnapshotQuery(ctx.QueryParam("location"), ctx.QueryParam("sku"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid filter: "+err.Error())
	}

	snapshot, err := s.stockSnapshotHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return engineError(ctx, err)
	}

	response := make([]StockSnapshotRow, 0, len(snapshot))
	for _, row := range snapshot {
		response = append(response, StockSnapshotRow{
			Location:       row.Location,
			SKU:            row.SKU,
			Qty1:           row.Qty1,
			Qty2:           row.Qty2,
			Qty3:           row.Qty3,
			BaseUnits:      row.BaseUnits,
			AvailableBase:  row.AvailableBase,
			UtilizationPct: row.UtilizationPct,
			Warehouse:      row.Warehouse,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// FindCandidates handles GET /api/v1/stock/candidates - previews allocation
// candidates for a SKU and quantity without committing anything.
func (s *Server) FindCandidates(ctx echo.Context) error {
	qty, err := parseQty(ctx.QueryParam("qty"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid qty")
	}

	query, err := queries.NewFindCandidatesQuery(ctx.QueryParam("sku"), qty)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid filter: "+err.Error())
	}

	candidates, err := s.findCandidatesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return engineError(ctx, err)
	}

	response := make([]CandidateRow, 0, len(candidates))
	for _, candidate := range candidates {
		response = append(response, CandidateRow{
			Location:        candidate.Location,
			Lot:             candidate.Lot,
			ManufactureDate: candidate.ManufactureDate,
			AvailableBase:   candidate.AvailableBase,
			Insufficient:    candidate.Insufficient,
			Shortage:        candidate.Shortage,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// taskResponseFrom maps one query row to its JSON shape.
func taskResponseFrom(task queries.ListTasksResponse) TaskResponse {
	items := make([]TaskItemResponse, 0, len(task.Items))
	for _, item := range task.Items {
		items = append(items, TaskItemResponse{
			ID:                item.ID.String(),
			SKU:               item.SKU,
			RequestedQty1:     item.RequestedQty1,
			RequestedQty2:     item.RequestedQty2,
			RequestedQty3:     item.RequestedQty3,
			RequestedBase:     item.RequestedBase,
			AllocatedLocation: item.AllocatedLocation,
			FulfilledBase:     item.FulfilledBase,
			Status:            item.Status,
		})
	}

	return TaskResponse{
		ID:         task.ID.String(),
		SourceRef:  task.SourceRef,
		SourceType: task.SourceType,
		Priority:   task.Priority,
		DueDate:    task.DueDate,
		Status:     task.Status,
		Shipped:    task.Shipped,
		RetiredAt:  task.RetiredAt,
		Items:      items,
	}
}

// engineError maps typed engine errors onto status codes:
// missing aggregates are 404, lost updates and illegal transitions are 409,
// stock shortages are 422, validation failures are 400.
func engineError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError
	var version *errs.VersionIsInvalidError
	var insufficient *services.InsufficientStockError
	var required *errs.ValueIsRequiredError
	var invalid *errs.ValueIsInvalidError
	var outOfRange *errs.ValueIsOutOfRangeError

	switch {
	case errors.As(err, &notFound), errors.Is(err, fulfillment.ErrItemNotFoundInTask):
		return errorJSON(ctx, http.StatusNotFound, err.Error())
	case errors.As(err, &version), errors.Is(err, fulfillment.ErrInvalidTransition):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	case errors.As(err, &insufficient):
		return errorJSON(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &required), errors.As(err, &invalid), errors.As(err, &outOfRange):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, "Internal error")
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func parseQty(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// CreateTaskRequest is the body of POST /api/v1/tasks.
type CreateTaskRequest struct {
	SourceRef  string                  `json:"sourceRef"`
	SourceType string                  `json:"sourceType"`
	Priority   int                     `json:"priority"`
	DueDate    *time.Time              `json:"dueDate,omitempty"`
	Items      []CreateTaskItemRequest `json:"items"`
}

// CreateTaskItemRequest is one requested line of a new task.
type CreateTaskItemRequest struct {
	SKU  string `json:"sku"`
	Qty1 int64  `json:"qty1"`
	Qty2 int64  `json:"qty2"`
	Qty3 int64  `json:"qty3"`
}

// CreateTaskResponse carries the identifier of the created task.
type CreateTaskResponse struct {
	ID string `json:"id"`
}

// AdvanceItemRequest is the body of the item advance endpoint.
type AdvanceItemRequest struct {
	Target string `json:"target"`
}

// TaskResponse is one task with its items as returned by the list endpoint.
type TaskResponse struct {
	ID         string             `json:"id"`
	SourceRef  string             `json:"sourceRef"`
	SourceType string             `json:"sourceType"`
	Priority   int                `json:"priority"`
	DueDate    *time.Time         `json:"dueDate,omitempty"`
	Status     string             `json:"status"`
	Shipped    bool               `json:"shipped"`
	RetiredAt  *time.Time         `json:"retiredAt,omitempty"`
	Items      []TaskItemResponse `json:"items"`
}

// TaskItemResponse is one line item within a TaskResponse.
type TaskItemResponse struct {
	ID                string `json:"id"`
	SKU               string `json:"sku"`
	RequestedQty1     int64  `json:"requestedQty1"`
	RequestedQty2     int64  `json:"requestedQty2"`
	RequestedQty3     int64  `json:"requestedQty3"`
	RequestedBase     int64  `json:"requestedBase"`
	AllocatedLocation string `json:"allocatedLocation,omitempty"`
	FulfilledBase     int64  `json:"fulfilledBase"`
	Status            string `json:"status"`
}

// StockSnapshotRow is one aggregated slot/SKU row of the snapshot endpoint.
type StockSnapshotRow struct {
	Location       string  `json:"location"`
	SKU            string  `json:"sku"`
	Qty1           int64   `json:"qty1"`
	Qty2           int64   `json:"qty2"`
	Qty3           int64   `json:"qty3"`
	BaseUnits      int64   `json:"baseUnits"`
	AvailableBase  int64   `json:"availableBase"`
	UtilizationPct float64 `json:"utilizationPct"`
	Warehouse      string  `json:"warehouse"`
}

// CandidateRow is one allocation candidate of the candidates endpoint.
type CandidateRow struct {
	Location        string     `json:"location"`
	Lot             string     `json:"lot,omitempty"`
	ManufactureDate *time.Time `json:"manufactureDate,omitempty"`
	AvailableBase   int64      `json:"availableBase"`
	Insufficient    bool       `json:"insufficient"`
	Shortage        int64      `json:"shortage,omitempty"`
}

// ErrorResponse is the uniform error body of every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
