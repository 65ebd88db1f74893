package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"warehouse/internal/core/domain/model/kernel"
)

// ListTasksQueryHandler retrieves fulfillment tasks and their items from the
// database. The derived task status is read from the denormalized status
// column the task repository maintains on every save.
type ListTasksQueryHandler struct {
	db *gorm.DB
}

// NewListTasksQueryHandler creates a handler for task listing queries.
// Requires a GORM database connection for query execution.
func NewListTasksQueryHandler(db *gorm.DB) ListTasksQueryHandler {
	return ListTasksQueryHandler{db: db}
}

// Handle executes the query. Tasks are ordered by priority descending then
// source reference; items follow their stored order. An empty status filter
// matches every task.
func (h ListTasksQueryHandler) Handle(
	ctx context.Context,
	query ListTasksQuery,
) ([]ListTasksResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tasks, taskIDs, err := h.loadTasks(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	items, err := h.loadItems(ctx, taskIDs)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		tasks[i].Items = items[tasks[i].ID.String()]
	}

	return tasks, nil
}

func (h ListTasksQueryHandler) loadTasks(
	ctx context.Context,
	query ListTasksQuery,
) ([]ListTasksResponse, []string, error) {
	tasks := make([]ListTasksResponse, 0)
	taskIDs := make([]string, 0)

	// a nil slice would encode as SQL NULL and null out the cardinality
	// check; an empty array matches everything
	statuses := query.Statuses()
	if statuses == nil {
		statuses = []string{}
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			source_ref,
			source_type,
			priority,
			due_date,
			status,
			shipped,
			retired_at
		FROM tasks
		WHERE (cardinality(?::text[]) = 0 OR status = ANY(?::text[]))
		  AND (? = '' OR source_type = ?)
		ORDER BY priority DESC, source_ref
	`, pq.Array(statuses), pq.Array(statuses),
		query.SourceType(), query.SourceType()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var taskResp ListTasksResponse
		var id uuid.UUID
		var dueDate, retiredAt sql.NullTime

		err = rows.Scan(
			&id,
			&taskResp.SourceRef,
			&taskResp.SourceType,
			&taskResp.Priority,
			&dueDate,
			&taskResp.Status,
			&taskResp.Shipped,
			&retiredAt,
		)
		if err != nil {
			return nil, nil, err
		}

		taskID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, nil, idErr
		}
		taskResp.ID = taskID
		taskResp.DueDate = nullTimePtr(dueDate)
		taskResp.RetiredAt = nullTimePtr(retiredAt)

		tasks = append(tasks, taskResp)
		taskIDs = append(taskIDs, taskID.String())
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return tasks, taskIDs, nil
}

func (h ListTasksQueryHandler) loadItems(
	ctx context.Context,
	taskIDs []string,
) (map[string][]ListTasksItemResponse, error) {
	items := make(map[string][]ListTasksItemResponse)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			task_id,
			sku,
			requested_qty1,
			requested_qty2,
			requested_qty3,
			requested_base,
			allocated_location,
			fulfilled_base,
			status
		FROM task_items
		WHERE task_id = ANY(?::uuid[])
		ORDER BY task_id, sku
	`, pq.Array(taskIDs)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var itemResp ListTasksItemResponse
		var id, taskID uuid.UUID
		var allocatedLocation sql.NullString

		err = rows.Scan(
			&id,
			&taskID,
			&itemResp.SKU,
			&itemResp.RequestedQty1,
			&itemResp.RequestedQty2,
			&itemResp.RequestedQty3,
			&itemResp.RequestedBase,
			&allocatedLocation,
			&itemResp.FulfilledBase,
			&itemResp.Status,
		)
		if err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		itemResp.ID = itemID
		if allocatedLocation.Valid {
			itemResp.AllocatedLocation = allocatedLocation.String
		}

		key := taskID.String()
		items[key] = append(items[key], itemResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
