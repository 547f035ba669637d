package repositories

import (
	"context"
	"time"

	"example.com/edueat/services/cafeteria/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// MenuRepository provides access to the menu catalog
type MenuRepository interface {
	Upsert(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	ListByCategory(ctx context.Context, category models.MenuCategory) ([]models.MenuItem, error)
}

// OrderRepository provides access to orders
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ListByChild(ctx context.Context, parentID uuid.UUID, childName string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]models.Order, error)
}

// InventoryRepository provides access to inventory items
type InventoryRepository interface {
	Upsert(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context) ([]models.InventoryItem, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta float64) error
}

// WasteRepository provides append-only access to waste records. Append
// also decrements the referenced item's stock in the same transaction so
// a recorded loss is always reflected in quantity on hand.
type WasteRepository interface {
	Append(ctx context.Context, record *models.WasteRecord) error
	List(ctx context.Context) ([]models.WasteRecord, error)
	ListSince(ctx context.Context, since time.Time) ([]models.WasteRecord, error)
}

// SupplierRepository provides access to the supplier directory
type SupplierRepository interface {
	Upsert(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context) ([]models.Supplier, error)
}

// UserRepository provides access to user accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func translate(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// menuRepository implements MenuRepository on gorm
type menuRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB, readOnlyDB *gorm.DB) MenuRepository {
	return &menuRepository{db: db, readOnlyDB: readOnlyDB}
}

func (r *menuRepository) Upsert(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return errors.Wrap(err, "failed to upsert menu item")
	}
	return nil
}

func (r *menuRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.readOnlyDB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get menu item")
	}
	return &item, nil
}

func (r *menuRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.readOnlyDB.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list menu items")
	}
	return items, nil
}

func (r *menuRepository) ListByCategory(ctx context.Context, category models.MenuCategory) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.readOnlyDB.WithContext(ctx).
		Where("category = ?", category).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list menu items by category")
	}
	return items, nil
}

// orderRepository implements OrderRepository on gorm
type orderRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB, readOnlyDB *gorm.DB) OrderRepository {
	return &orderRepository{db: db, readOnlyDB: readOnlyDB}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return errors.Wrap(err, "failed to create order")
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.readOnlyDB.WithContext(ctx).Preload("Lines").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "failed to get order")
	}
	return &order, nil
}

func (r *orderRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Lines").
		Where("parent_id = ?", parentID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by parent")
	}
	return orders, nil
}

func (r *orderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Lines").
		Where("status = ?", status).
		Order("created_at").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by status")
	}
	return orders, nil
}

func (r *orderRepository) ListByChild(ctx context.Context, parentID uuid.UUID, childName string) ([]models.Order, error) {
	var orders []models.Order
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Lines").
		Where("parent_id = ? AND child_name = ?", parentID, childName).
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by child")
	}
	return orders, nil
}

// UpdateStatus writes the given status unconditionally. There is no
// version check: two racing writers produce last-write-wins, matching the
// documented workflow behavior.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	var count int64
	err := r.readOnlyDB.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count orders by status")
	}
	return count, nil
}

func (r *orderRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Lines").
		Where("created_at >= ?", since).
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recent orders")
	}
	return orders, nil
}

// inventoryRepository implements InventoryRepository on gorm
type inventoryRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB, readOnlyDB *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db, readOnlyDB: readOnlyDB}
}

func (r *inventoryRepository) Upsert(ctx context.Context, item *models.InventoryItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return errors.Wrap(err, "failed to upsert inventory item")
	}
	return nil
}

func (r *inventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.readOnlyDB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get inventory item")
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.readOnlyDB.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list inventory items")
	}
	return items, nil
}

// AdjustStock applies delta in a single UPDATE, clamping at zero so stock
// can never go negative regardless of delta magnitude.
func (r *inventoryRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta float64) error {
	return adjustStock(r.db.WithContext(ctx), id, delta)
}

// clampedStock builds the UPDATE expression for a stock delta. GREATEST
// floors the result at zero: applying a decrement larger than the current
// stock leaves the row at 0, never negative.
func clampedStock(delta float64) clause.Expr {
	return gorm.Expr("GREATEST(stock + ?, 0)", delta)
}

func adjustStock(tx *gorm.DB, id uuid.UUID, delta float64) error {
	result := tx.Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("stock", clampedStock(delta))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to adjust stock")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// wasteRepository implements WasteRepository on gorm
type wasteRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewWasteRepository creates a new waste repository
func NewWasteRepository(db *gorm.DB, readOnlyDB *gorm.DB) WasteRepository {
	return &wasteRepository{db: db, readOnlyDB: readOnlyDB}
}

func (r *wasteRepository) Append(ctx context.Context, record *models.WasteRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return errors.Wrap(err, "failed to create waste record")
		}
		return adjustStock(tx, record.ItemID, -record.Quantity)
	})
	return err
}

func (r *wasteRepository) List(ctx context.Context) ([]models.WasteRecord, error) {
	var records []models.WasteRecord
	if err := r.readOnlyDB.WithContext(ctx).Order("date desc").Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list waste records")
	}
	return records, nil
}

func (r *wasteRepository) ListSince(ctx context.Context, since time.Time) ([]models.WasteRecord, error) {
	var records []models.WasteRecord
	err := r.readOnlyDB.WithContext(ctx).
		Where("date >= ?", since).
		Order("date desc").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list waste records since date")
	}
	return records, nil
}

// supplierRepository implements SupplierRepository on gorm
type supplierRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB, readOnlyDB *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db, readOnlyDB: readOnlyDB}
}

func (r *supplierRepository) Upsert(ctx context.Context, supplier *models.Supplier) error {
	if err := r.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return errors.Wrap(err, "failed to upsert supplier")
	}
	return nil
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.readOnlyDB.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get supplier")
	}
	return &supplier, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.readOnlyDB.WithContext(ctx).Order("name").Find(&suppliers).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list suppliers")
	}
	return suppliers, nil
}

// userRepository implements UserRepository on gorm
type userRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, readOnlyDB *gorm.DB) UserRepository {
	return &userRepository{db: db, readOnlyDB: readOnlyDB}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.readOnlyDB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, "failed to get user by email")
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.readOnlyDB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get user by id")
	}
	return &user, nil
}
