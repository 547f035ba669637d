package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Role identifies the kind of account a user holds
type Role string

const (
	RoleParent Role = "PARENT"
	RoleStaff  Role = "STAFF"
)

// MenuCategory classifies menu items
type MenuCategory string

const (
	CategoryBreakfast MenuCategory = "Desayuno"
	CategoryLunch     MenuCategory = "Almuerzo"
	CategorySnack     MenuCategory = "Snack"
	CategoryDrink     MenuCategory = "Bebida"
)

// SupplyCategory classifies inventory items
type SupplyCategory string

const (
	SupplyDairy    SupplyCategory = "Lácteos"
	SupplyBakery   SupplyCategory = "Panadería"
	SupplyDrinks   SupplyCategory = "Bebidas"
	SupplyCleaning SupplyCategory = "Limpieza"
	SupplyProtein  SupplyCategory = "Proteínas"
	SupplyProduce  SupplyCategory = "Frutas/Verduras"
)

// WasteReason is the closed set of accepted loss causes
type WasteReason string

const (
	WasteExpiry   WasteReason = "Caducidad"
	WasteAccident WasteReason = "Accidente"
	WasteSpoilage WasteReason = "Mal estado"
	WasteTheft    WasteReason = "Robo/Extravío"
)

// OrderStatus is the state of an order in the kitchen workflow
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pendiente"
	StatusPreparing OrderStatus = "Preparando"
	StatusReady     OrderStatus = "Listo"
	StatusDelivered OrderStatus = "Entregado"
	StatusCancelled OrderStatus = "Cancelado"
)

// ErrTerminalStatus is returned when a transition is requested on a finished order.
var ErrTerminalStatus = errors.New("order is in a terminal status")

// Next returns the single following status in the linear kitchen flow.
// Cancelado is never produced here; it is only reachable through an
// explicit cancellation.
func (s OrderStatus) Next() (OrderStatus, error) {
	switch s {
	case StatusPending:
		return StatusPreparing, nil
	case StatusPreparing:
		return StatusReady, nil
	case StatusReady:
		return StatusDelivered, nil
	default:
		return s, ErrTerminalStatus
	}
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// User represents a parent or staff account
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"not null" json:"role"`
	Phone        string         `json:"phone"`
	AvatarURL    string         `json:"avatar_url"`
}

// MenuItem represents a purchasable catalog entry
type MenuItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Cost        float64        `gorm:"not null" json:"cost"`
	Category    MenuCategory   `gorm:"not null" json:"category"`
	Available   bool           `gorm:"not null;default:true" json:"available"`
	ImageURL    string         `json:"image_url"`
	Calories    float64        `gorm:"not null;default:0" json:"calories"`
	Protein     float64        `gorm:"not null;default:0" json:"protein"`
	Carbs       float64        `gorm:"not null;default:0" json:"carbs"`
	Fat         float64        `gorm:"not null;default:0" json:"fat"`
	Ingredients []string       `gorm:"serializer:json" json:"ingredients"`
	Tags        []string       `gorm:"serializer:json" json:"tags"`
}

// Margin returns the profit margin ratio (price - cost) / price.
// Items priced at zero report 0.
func (m *MenuItem) Margin() float64 {
	if m.Price == 0 {
		return 0
	}
	return (m.Price - m.Cost) / m.Price
}

// Order represents a submitted meal order. Everything but Status is
// immutable after creation; orders are never deleted, only moved to a
// terminal status.
type Order struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	ParentID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"parent_id"`
	ChildName     string         `gorm:"not null" json:"child_name"`
	Total         float64        `gorm:"not null" json:"total"`
	Status        OrderStatus    `gorm:"not null;index" json:"status"`
	ScheduledDate time.Time      `gorm:"not null" json:"scheduled_date"`
	Lines         []OrderLine    `gorm:"foreignKey:OrderID" json:"lines"`
}

// OrderLine is one line of an order's snapshot. Name and unit price are
// copied from the catalog at submission time so later catalog edits never
// change a stored total.
type OrderLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null" json:"menu_item_id"`
	Name       string    `gorm:"not null" json:"name"`
	UnitPrice  float64   `gorm:"not null" json:"unit_price"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Notes      string    `json:"notes"`
}

// InventoryItem represents a tracked supply
type InventoryItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Name       string         `gorm:"not null" json:"name"`
	Category   SupplyCategory `gorm:"not null" json:"category"`
	Stock      float64        `gorm:"not null;default:0" json:"stock"`
	MinStock   float64        `gorm:"not null;default:0" json:"min_stock"`
	Unit       string         `gorm:"not null" json:"unit"`
	Cost       float64        `gorm:"not null" json:"cost"`
	ExpiryDate time.Time      `json:"expiry_date"`
	SupplierID uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
}

// Critical reports whether the item has fallen below its minimum stock.
func (i *InventoryItem) Critical() bool {
	return i.Stock < i.MinStock
}

// ExpirySeverity grades how close an item is to its expiry date
type ExpirySeverity string

const (
	ExpiryOverdue ExpirySeverity = "overdue"
	ExpiryNear    ExpirySeverity = "near"
	ExpiryNormal  ExpirySeverity = "normal"
)

// Expiry returns the severity of the item's expiry date relative to now.
// Items expiring within three days are flagged as near.
func (i *InventoryItem) Expiry(now time.Time) ExpirySeverity {
	diff := i.ExpiryDate.Sub(now)
	if diff < 0 {
		return ExpiryOverdue
	}
	if diff < 3*24*time.Hour {
		return ExpiryNear
	}
	return ExpiryNormal
}

// WasteRecord is an append-only record of a registered loss. LossValue is
// computed from the item's unit cost at recording time and never updated.
type WasteRecord struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	ItemID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"item_id"`
	ItemName  string      `gorm:"not null" json:"item_name"`
	Quantity  float64     `gorm:"not null" json:"quantity"`
	Reason    WasteReason `gorm:"not null" json:"reason"`
	Date      time.Time   `gorm:"not null" json:"date"`
	LossValue float64     `gorm:"not null" json:"loss_value"`
}

// Supplier represents an entry in the supplier directory
type Supplier struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Phone        string         `json:"phone"`
	Email        string         `json:"email"`
	Category     string         `json:"category"`
	DeliveryDays []string       `gorm:"serializer:json" json:"delivery_days"`
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&MenuItem{},
		&Order{},
		&OrderLine{},
		&InventoryItem{},
		&WasteRecord{},
		&Supplier{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
