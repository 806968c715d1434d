package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"rawwealthy.backend/internal/infrastructure/models"
)

// Migrate creates or updates the tables backing users, their devices and
// the plan catalogue.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.UserDevice{}, &models.InvestmentPlan{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
