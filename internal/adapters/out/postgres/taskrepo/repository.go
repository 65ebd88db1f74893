package taskrepo

import (
	"context"
	"errors"
	"time"

	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"

	"gorm.io/gorm"
)

// initialVersion is the version stored for a freshly created task.
const initialVersion = 1

// GormTaskRepository implements TaskRepository using GORM.
type GormTaskRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTaskRepository creates a new GORM task repository.
func NewGormTaskRepository(db *gorm.DB, tracker aggregateTracker) *GormTaskRepository {
	return &GormTaskRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new task aggregate with all of its items.
func (r *GormTaskRepository) Add(ctx context.Context, aggregate *fulfillment.Task) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if dto.Version == 0 {
		dto.Version = initialVersion
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing task aggregate under an optimistic version check.
// The task row is written only when the stored version still matches the
// aggregate's version; the stored version is bumped in the same statement.
// On mismatch nothing is written and a VersionIsInvalidError is returned.
func (r *GormTaskRepository) Update(ctx context.Context, aggregate *fulfillment.Task) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expectedVersion := dto.Version
	dto.Version = expectedVersion + 1

	result := r.db.WithContext(ctx).Model(&TaskDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Select("source_ref", "source_type", "priority", "due_date",
			"status", "shipped", "retired_at", "version", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause("task version")
	}

	for _, item := range dto.Items {
		if err := r.saveItem(ctx, item); err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// saveItem writes one item row, inserting it if the task gained a new item.
// All columns are written so cleared allocations and commitment references
// persist as NULL.
func (r *GormTaskRepository) saveItem(ctx context.Context, dto ItemDTO) error {
	result := r.db.WithContext(ctx).Model(&ItemDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.db.WithContext(ctx).Create(&dto).Error
	}

	return nil
}

// Get retrieves a task aggregate by ID, items included.
func (r *GormTaskRepository) Get(ctx context.Context, id kernel.UUID) (*fulfillment.Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TaskDTO
	if err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByItem retrieves the task aggregate owning the given item.
func (r *GormTaskRepository) GetByItem(ctx context.Context, itemID kernel.UUID) (*fulfillment.Task, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var itemDto ItemDTO
	if err := r.db.WithContext(ctx).First(&itemDto, "id = ?", itemID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task item", itemID.String())
		}
		return nil, err
	}

	taskID, err := kernel.UUIDFromBytes(itemDto.TaskID[:])
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, taskID)
}

// GetAllInProgress retrieves every task whose derived status is in_progress.
// Used to re-arm the commitment registry after a restart.
func (r *GormTaskRepository) GetAllInProgress(ctx context.Context) ([]*fulfillment.Task, error) {
	var dtos []TaskDTO
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Order("priority DESC, source_ref").
		Find(&dtos, "status = ?", fulfillment.TaskStatusInProgress.String()).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetRetirable retrieves unretired tasks whose items all reached a terminal
// status and that have not been touched since the cutoff.
func (r *GormTaskRepository) GetRetirable(ctx context.Context, cutoff time.Time) ([]*fulfillment.Task, error) {
	terminal := []string{
		fulfillment.TaskStatusCompleted.String(),
		fulfillment.TaskStatusCancelled.String(),
		fulfillment.TaskStatusShipped.String(),
	}

	var dtos []TaskDTO
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("retired_at IS NULL AND status IN ? AND updated_at <= ?", terminal, cutoff).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []TaskDTO) ([]*fulfillment.Task, error) {
	tasks := make([]*fulfillment.Task, 0, len(dtos))
	for _, dto := range dtos {
		task, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}
