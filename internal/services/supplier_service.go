package services

import (
	"context"

	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"

	"github.com/google/uuid"
)

// SupplierService handles the supplier directory
type SupplierService struct {
	supplierRepo repositories.SupplierRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo repositories.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// SaveSupplier creates or updates a supplier entry
func (s *SupplierService) SaveSupplier(ctx context.Context, supplier *models.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	return s.supplierRepo.Upsert(ctx, supplier)
}

// GetSupplier returns a single supplier
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, id)
}

// ListSuppliers returns the supplier directory
func (s *SupplierService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.supplierRepo.List(ctx)
}
