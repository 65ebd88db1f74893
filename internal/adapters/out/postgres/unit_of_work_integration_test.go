package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "warehouse/internal/adapters/out/postgres"
	"warehouse/internal/adapters/out/postgres/inventoryrepo"
	"warehouse/internal/adapters/out/postgres/productrepo"
	"warehouse/internal/adapters/out/postgres/taskrepo"
	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/product"
	"warehouse/internal/core/domain/model/stock"
	"warehouse/internal/core/ports"
	"warehouse/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides comprehensive integration testing
// for the GORM-based Unit of Work implementation with real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(
		&productrepo.ProductDTO{},
		&inventoryrepo.InventoryRecordDTO{},
		&inventoryrepo.StorageLocationDTO{},
		&taskrepo.TaskDTO{},
		&taskrepo.ItemDTO{},
	)
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
// Truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE tasks, task_items, products, inventory_records, storage_locations").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work instances
// with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.ProductRepository(), "First instance should provide product repository")
	suite.NotNil(uow1.InventoryRepository(), "First instance should provide inventory repository")
	suite.NotNil(uow1.TaskRepository(), "First instance should provide task repository")
	suite.NotNil(uow2.TaskRepository(), "Second instance should provide task repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_SingleRepositoryTransaction verifies repository operations
// within a single transaction boundary work correctly.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SingleRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testTask := createTestTask(suite.T(), "ORD-1001")

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.TaskRepository().Add(ctx, testTask)
	suite.Require().NoError(err)

	// Visible within the transaction
	retrieved, err := uow.TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	suite.Equal(testTask.ID(), retrieved.ID())

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Persists after commit using new unit of work
	newUow := suite.factory.Create()
	retrieved, err = newUow.TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	suite.Equal(testTask.ID(), retrieved.ID())
	suite.Equal("ORD-1001", retrieved.SourceRef())
	suite.Equal(fulfillment.TaskStatusPending, retrieved.Status())
	suite.Equal(int64(1), retrieved.Version(), "Fresh tasks should be stored at version 1")
}

// TestUnitOfWork_MultiRepositoryTransaction verifies multiple repository operations
// within a single transaction work atomically.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_MultiRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testProduct := createTestProduct(suite.T(), "SKU-1")
	testSlot := createTestStorageLocation(suite.T(), "A/1/1")
	testRecord := createTestRecord(suite.T(), "SKU-1", "A/1/1")
	testTask := createTestTask(suite.T(), "ORD-2001")

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.ProductRepository().Add(ctx, testProduct)
	suite.Require().NoError(err)

	err = uow.InventoryRepository().AddStorageLocation(ctx, testSlot)
	suite.Require().NoError(err)

	err = uow.InventoryRepository().Add(ctx, testRecord)
	suite.Require().NoError(err)

	err = uow.TaskRepository().Add(ctx, testTask)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	retrievedProduct, err := newUow.ProductRepository().Get(ctx, "SKU-1")
	suite.Require().NoError(err)
	suite.Equal(int64(product.DefaultRate1), retrievedProduct.Rate1())

	slots, err := newUow.InventoryRepository().GetStorageLocations(ctx)
	suite.Require().NoError(err)
	suite.Len(slots, 1)
	suite.Equal("A/1/1", slots[0].Location().Code())

	records, err := newUow.InventoryRepository().GetBySKU(ctx, "SKU-1")
	suite.Require().NoError(err)
	suite.Len(records, 1)
	suite.Equal(testRecord.ID(), records[0].ID())

	retrievedTask, err := newUow.TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	suite.Equal(testTask.ID(), retrievedTask.ID())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across multiple repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testProduct := createTestProduct(suite.T(), "SKU-9")
	testTask := createTestTask(suite.T(), "ORD-3001")

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.ProductRepository().Add(ctx, testProduct)
	suite.Require().NoError(err)

	err = uow.TaskRepository().Add(ctx, testTask)
	suite.Require().NoError(err)

	// Visible within the transaction
	_, err = uow.TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	_, err = newUow.ProductRepository().Get(ctx, "SKU-9")
	suite.Require().Error(err, "Product should not exist after rollback")

	_, err = newUow.TaskRepository().Get(ctx, testTask.ID())
	suite.Require().Error(err, "Task should not exist after rollback")
}

// TestUnitOfWork_OptimisticVersionConflict verifies that the second writer of
// the same task version loses with a VersionIsInvalidError and changes nothing.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OptimisticVersionConflict() {
	ctx := context.Background()

	testTask := createTestTask(suite.T(), "ORD-4001")
	setupUow := suite.factory.Create()
	err := setupUow.TaskRepository().Add(ctx, testTask)
	suite.Require().NoError(err)

	// Two writers load the same stored version
	uow1 := suite.factory.Create()
	first, err := uow1.TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)

	uow2 := suite.factory.Create()
	second, err := uow2.TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	suite.Equal(first.Version(), second.Version())

	err = uow1.TaskRepository().Update(ctx, first)
	suite.Require().NoError(err, "First writer should win")

	err = uow2.TaskRepository().Update(ctx, second)
	suite.Require().Error(err, "Second writer should lose the version check")

	var versionErr *errs.VersionIsInvalidError
	suite.ErrorAs(err, &versionErr)

	// The stored version advanced exactly once
	reloaded, err := suite.factory.Create().TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	suite.Equal(first.Version()+1, reloaded.Version())
}

// TestUnitOfWork_FulfillmentWorkflow walks one item through its full life:
// assign, pick, complete, ship, retire, checking persisted state at each step.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_FulfillmentWorkflow() {
	ctx := context.Background()

	testTask := createTestTask(suite.T(), "ORD-5001")
	item := testTask.Items()[0]

	setupUow := suite.factory.Create()
	err := setupUow.TaskRepository().Add(ctx, testTask)
	suite.Require().NoError(err)

	// Assign: stock committed at a slot
	location, err := kernel.ParseLocation("B/2/3")
	suite.Require().NoError(err)
	commitID := kernel.NewUUID()

	current, err := suite.factory.Create().TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	currentItem, err := current.Item(item.ID())
	suite.Require().NoError(err)

	err = currentItem.Assign(location, commitID)
	suite.Require().NoError(err)
	err = suite.factory.Create().TaskRepository().Update(ctx, current)
	suite.Require().NoError(err)

	reloaded, err := suite.factory.Create().TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	reloadedItem, err := reloaded.Item(item.ID())
	suite.Require().NoError(err)
	suite.Equal(fulfillment.ItemStatusAssigned, reloadedItem.Status())
	suite.Require().NotNil(reloadedItem.AllocatedLocation())
	suite.Equal("B/2/3", reloadedItem.AllocatedLocation().Code())
	suite.Require().NotNil(reloadedItem.CommitID())
	suite.True(reloadedItem.CommitID().IsEqual(commitID))
	suite.Equal(fulfillment.TaskStatusInProgress, reloaded.Status())

	// Pick and complete
	err = reloadedItem.StartPicking()
	suite.Require().NoError(err)
	err = reloadedItem.Complete(reloadedItem.RequestedBase())
	suite.Require().NoError(err)
	err = reloaded.Ship()
	suite.Require().NoError(err)
	err = suite.factory.Create().TaskRepository().Update(ctx, reloaded)
	suite.Require().NoError(err)

	shipped, err := suite.factory.Create().TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	suite.Equal(fulfillment.TaskStatusShipped, shipped.Status())
	shippedItem, err := shipped.Item(item.ID())
	suite.Require().NoError(err)
	suite.Equal(shippedItem.RequestedBase(), shippedItem.FulfilledBase())

	// Retire: logical only, the row stays readable
	retiredAt := time.Now().UTC().Truncate(time.Second)
	err = shipped.Retire(retiredAt)
	suite.Require().NoError(err)
	err = suite.factory.Create().TaskRepository().Update(ctx, shipped)
	suite.Require().NoError(err)

	retired, err := suite.factory.Create().TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retired.RetiredAt())
	suite.Equal(fulfillment.TaskStatusShipped, retired.Status())
}

// TestUnitOfWork_GetByItem verifies the owning task can be resolved from an
// item identifier alone.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetByItem() {
	ctx := context.Background()

	testTask := createTestTask(suite.T(), "ORD-6001")
	item := testTask.Items()[0]

	err := suite.factory.Create().TaskRepository().Add(ctx, testTask)
	suite.Require().NoError(err)

	found, err := suite.factory.Create().TaskRepository().GetByItem(ctx, item.ID())
	suite.Require().NoError(err)
	suite.Equal(testTask.ID(), found.ID())

	_, err = suite.factory.Create().TaskRepository().GetByItem(ctx, kernel.NewUUID())
	suite.Require().Error(err)
	var notFound *errs.ObjectNotFoundError
	suite.ErrorAs(err, &notFound)
}

// TestUnitOfWork_GetAllInProgress verifies only tasks with in-flight items are
// returned for commitment re-arming.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetAllInProgress() {
	ctx := context.Background()
	repo := suite.factory.Create().TaskRepository()

	pendingTask := createTestTask(suite.T(), "ORD-7001")
	err := repo.Add(ctx, pendingTask)
	suite.Require().NoError(err)

	inProgressTask := createTestTask(suite.T(), "ORD-7002")
	location, err := kernel.ParseLocation("C/1/1")
	suite.Require().NoError(err)
	err = inProgressTask.Items()[0].Assign(location, kernel.NewUUID())
	suite.Require().NoError(err)
	err = repo.Add(ctx, inProgressTask)
	suite.Require().NoError(err)

	inProgress, err := repo.GetAllInProgress(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(inProgress, 1)
	suite.Equal(inProgressTask.ID(), inProgress[0].ID())
}

// TestUnitOfWork_GetRetirable verifies only unretired, fully terminal tasks
// are offered for retirement.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetRetirable() {
	ctx := context.Background()
	repo := suite.factory.Create().TaskRepository()

	liveTask := createTestTask(suite.T(), "ORD-8001")
	err := repo.Add(ctx, liveTask)
	suite.Require().NoError(err)

	cancelledTask := createTestTask(suite.T(), "ORD-8002")
	err = cancelledTask.Items()[0].Cancel()
	suite.Require().NoError(err)
	err = repo.Add(ctx, cancelledTask)
	suite.Require().NoError(err)

	retirable, err := repo.GetRetirable(ctx, time.Now().Add(time.Minute))
	suite.Require().NoError(err)
	suite.Require().Len(retirable, 1)
	suite.Equal(cancelledTask.ID(), retirable[0].ID())

	// Once retired it drops out of the candidate set
	err = retirable[0].Retire(time.Now())
	suite.Require().NoError(err)
	err = repo.Update(ctx, retirable[0])
	suite.Require().NoError(err)

	retirable, err = repo.GetRetirable(ctx, time.Now().Add(time.Minute))
	suite.Require().NoError(err)
	suite.Empty(retirable)
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	task1 := createTestTask(suite.T(), "ORD-9001")
	task2 := createTestTask(suite.T(), "ORD-9002")

	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	err = uow1.TaskRepository().Add(ctx, task1)
	suite.Require().NoError(err)

	err = uow2.TaskRepository().Add(ctx, task2)
	suite.Require().NoError(err)

	// Each transaction should only see its own changes
	_, err = uow1.TaskRepository().Get(ctx, task1.ID())
	suite.Require().NoError(err, "UOW1 should see task1")

	_, err = uow1.TaskRepository().Get(ctx, task2.ID())
	suite.Require().Error(err, "UOW1 should not see task2")

	_, err = uow2.TaskRepository().Get(ctx, task2.ID())
	suite.Require().NoError(err, "UOW2 should see task2")

	_, err = uow2.TaskRepository().Get(ctx, task1.ID())
	suite.Require().Error(err, "UOW2 should not see task1")

	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.TaskRepository().Get(ctx, task1.ID())
	suite.Require().NoError(err, "Task1 should persist after commit")

	_, err = newUow.TaskRepository().Get(ctx, task2.ID())
	suite.Require().Error(err, "Task2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testTask := createTestTask(suite.T(), "ORD-9101")

	// Add task without beginning transaction (should auto-commit)
	err := uow.TaskRepository().Add(ctx, testTask)
	suite.Require().NoError(err)

	retrieved, err := uow.TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	suite.Equal(testTask.ID(), retrieved.ID())

	newUow := suite.factory.Create()
	retrieved, err = newUow.TaskRepository().Get(ctx, testTask.ID())
	suite.Require().NoError(err)
	suite.Equal(testTask.ID(), retrieved.ID())
}

// createTestProduct creates a catalog entry with default conversion rates.
func createTestProduct(t *testing.T, sku string) *product.Product {
	t.Helper()
	p, err := product.NewProductWithDefaultRates(sku, "general", "carton", "box", "piece")
	if err != nil {
		t.Fatalf("create test product: %v", err)
	}
	return p
}

// createTestStorageLocation declares a slot with room for plenty of stock.
func createTestStorageLocation(t *testing.T, code string) *stock.StorageLocation {
	t.Helper()
	location, err := kernel.ParseLocation(code)
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	sl, err := stock.NewStorageLocation(location, 10_000, "MAIN")
	if err != nil {
		t.Fatalf("create test storage location: %v", err)
	}
	return sl
}

// createTestRecord creates one lot of stock at the given slot.
func createTestRecord(t *testing.T, sku, code string) *stock.InventoryRecord {
	t.Helper()
	location, err := kernel.ParseLocation(code)
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	manufactured := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	record, err := stock.NewInventoryRecord(
		kernel.NewUUID(), sku, location, "LOT-1", &manufactured, 2, 3, 5, "MAIN")
	if err != nil {
		t.Fatalf("create test record: %v", err)
	}
	return record
}

// createTestTask creates a pending task with a single 329 base unit item.
func createTestTask(t *testing.T, sourceRef string) *fulfillment.Task {
	t.Helper()
	taskID := kernel.NewUUID()
	item, err := fulfillment.NewItem(kernel.NewUUID(), taskID, "SKU-1", 2, 3, 5, 329)
	if err != nil {
		t.Fatalf("create test item: %v", err)
	}
	task, err := fulfillment.NewTask(taskID, sourceRef, "sales_order", 10, nil, []*fulfillment.Item{item})
	if err != nil {
		t.Fatalf("create test task: %v", err)
	}
	return task
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
