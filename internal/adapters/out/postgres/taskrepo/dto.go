// Package taskrepo provides data transfer objects and mapping functions for
// fulfillment task persistence. A task and its items form one consistency
// boundary and are always written together; the task row additionally carries
// a denormalized copy of the derived status so queries can filter without
// reassembling aggregates.
package taskrepo

import (
	"time"

	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// TaskDTO represents the database structure for persisting task aggregates.
// The version column backs optimistic concurrency control; the status column
// is derived from the items on every save.
type TaskDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SourceRef  string    `gorm:"type:varchar(255);not null;index"`
	SourceType string    `gorm:"type:varchar(64);index"`
	Priority   int
	DueDate    *time.Time
	Status     string `gorm:"type:varchar(32);not null;index"`
	Shipped    bool
	RetiredAt  *time.Time `gorm:"index"`
	Version    int64      `gorm:"not null"`
	UpdatedAt  time.Time

	Items []ItemDTO `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for task entities.
// Overrides GORM's default naming convention to use "tasks".
func (TaskDTO) TableName() string {
	return "tasks"
}

// ItemDTO represents the database structure for persisting task line items.
// Links to the owning task via foreign key; the allocated slot is stored as
// its normalized code and the commitment reference as a nullable UUID.
type ItemDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskID            uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU               string    `gorm:"type:varchar(64);not null"`
	RequestedQty1     int64
	RequestedQty2     int64
	RequestedQty3     int64
	RequestedBase     int64
	AllocatedLocation *string    `gorm:"type:varchar(16)"`
	CommitID          *uuid.UUID `gorm:"type:uuid"`
	FulfilledBase     int64
	Status            string `gorm:"type:varchar(32);not null"`
}

// TableName specifies the database table name for task line items.
func (ItemDTO) TableName() string {
	return "task_items"
}

// fromDomain converts a task domain aggregate to its database representation.
// Maps all items and freezes the derived status into the status column.
func fromDomain(task *fulfillment.Task) TaskDTO {
	taskID := task.ID().Bytes()
	items := make([]ItemDTO, 0, len(task.Items()))
	for _, item := range task.Items() {
		items = append(items, itemFromDomain(taskID, item))
	}

	return TaskDTO{
		ID:         taskID,
		SourceRef:  task.SourceRef(),
		SourceType: task.SourceType(),
		Priority:   task.Priority(),
		DueDate:    task.DueDate(),
		Status:     task.Status().String(),
		Shipped:    task.Status() == fulfillment.TaskStatusShipped,
		RetiredAt:  task.RetiredAt(),
		Version:    task.Version(),
		Items:      items,
	}
}

func itemFromDomain(taskID uuid.UUID, item *fulfillment.Item) ItemDTO {
	qty1, qty2, qty3 := item.RequestedQuantities()

	var allocatedLocation *string
	if loc := item.AllocatedLocation(); loc != nil {
		code := loc.Code()
		allocatedLocation = &code
	}

	var commitID *uuid.UUID
	if id := item.CommitID(); id != nil {
		raw := id.Bytes()
		commitID = &raw
	}

	return ItemDTO{
		ID:                item.ID().Bytes(),
		TaskID:            taskID,
		SKU:               item.SKU(),
		RequestedQty1:     qty1,
		RequestedQty2:     qty2,
		RequestedQty3:     qty3,
		RequestedBase:     item.RequestedBase(),
		AllocatedLocation: allocatedLocation,
		CommitID:          commitID,
		FulfilledBase:     item.FulfilledBase(),
		Status:            item.Status().String(),
	}
}

// toDomain converts a database DTO to a task domain aggregate.
// Reconstructs the complete aggregate including all items using RestoreTask.
func toDomain(dto TaskDTO) (*fulfillment.Task, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]*fulfillment.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		item, itemErr := itemToDomain(itemDto)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return fulfillment.RestoreTask(
		id,
		dto.SourceRef,
		dto.SourceType,
		dto.Priority,
		dto.DueDate,
		items,
		dto.Shipped,
		dto.RetiredAt,
		dto.Version,
	)
}

// itemToDomain converts an item DTO to a domain entity.
// Uses RestoreItem to reconstruct the entity with its persisted state.
func itemToDomain(dto ItemDTO) (*fulfillment.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	taskID, err := kernel.UUIDFromBytes(dto.TaskID[:])
	if err != nil {
		return nil, err
	}

	var allocatedLocation *kernel.Location
	if dto.AllocatedLocation != nil {
		loc, locErr := kernel.ParseLocation(*dto.AllocatedLocation)
		if locErr != nil {
			return nil, locErr
		}
		allocatedLocation = &loc
	}

	var commitID *kernel.UUID
	if dto.CommitID != nil {
		cID, commitErr := kernel.UUIDFromBytes((*dto.CommitID)[:])
		if commitErr != nil {
			return nil, commitErr
		}
		commitID = &cID
	}

	status, err := fulfillment.ItemStatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return fulfillment.RestoreItem(
		id,
		taskID,
		dto.SKU,
		dto.RequestedQty1, dto.RequestedQty2, dto.RequestedQty3,
		dto.RequestedBase,
		allocatedLocation,
		commitID,
		dto.FulfilledBase,
		status,
	)
}
