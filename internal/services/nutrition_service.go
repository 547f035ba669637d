package services

import (
	"context"

	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Daily-equivalent intake goals the progress ratios are measured against.
const (
	GoalCalories = 3500.0
	GoalProtein  = 150.0
	GoalCarbs    = 450.0
	GoalFat      = 100.0
)

// NutrientTotals accumulates the four tracked nutrients
type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// NutritionSummary reports a child's accumulated intake and progress
// toward each goal. Progress is a 0..100 percentage, capped at 100.
type NutritionSummary struct {
	ChildName string         `json:"child_name"`
	Totals    NutrientTotals `json:"totals"`
	Progress  NutrientTotals `json:"progress"`
}

// NutritionService aggregates nutrient intake across a child's orders
type NutritionService struct {
	orderRepo repositories.OrderRepository
	menuRepo  repositories.MenuRepository
}

// NewNutritionService creates a new nutrition service
func NewNutritionService(orderRepo repositories.OrderRepository, menuRepo repositories.MenuRepository) *NutritionService {
	return &NutritionService{orderRepo: orderRepo, menuRepo: menuRepo}
}

// Summary aggregates nutrients over the child's non-cancelled orders.
// Nutrient values come from the current catalog, not from any snapshot,
// so menu corrections retroactively improve the numbers. Lines whose item
// has left the menu contribute nothing.
func (s *NutritionService) Summary(ctx context.Context, parentID uuid.UUID, childName string) (*NutritionSummary, error) {
	orders, err := s.orderRepo.ListByChild(ctx, parentID, childName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list child orders")
	}

	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load menu catalog")
	}
	catalog := make(map[uuid.UUID]models.MenuItem, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}

	summary := &NutritionSummary{ChildName: childName}
	for _, order := range orders {
		if order.Status == models.StatusCancelled {
			continue
		}
		for _, line := range order.Lines {
			item, ok := catalog[line.MenuItemID]
			if !ok {
				continue
			}
			qty := float64(line.Quantity)
			summary.Totals.Calories += item.Calories * qty
			summary.Totals.Protein += item.Protein * qty
			summary.Totals.Carbs += item.Carbs * qty
			summary.Totals.Fat += item.Fat * qty
		}
	}

	summary.Progress = NutrientTotals{
		Calories: progress(summary.Totals.Calories, GoalCalories),
		Protein:  progress(summary.Totals.Protein, GoalProtein),
		Carbs:    progress(summary.Totals.Carbs, GoalCarbs),
		Fat:      progress(summary.Totals.Fat, GoalFat),
	}
	return summary, nil
}

func progress(total, goal float64) float64 {
	pct := total / goal * 100
	if pct > 100 {
		return 100
	}
	return pct
}
