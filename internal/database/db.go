package database

import (
	"tradeportal-backend/internal/config"
	"tradeportal-backend/internal/logger"
	"tradeportal-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}

	err = DB.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Contact{},
		&models.Inquiry{},
		&models.InquiryItem{},
		&models.InquiryAttachment{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderAttachment{},
		&models.Message{},
		&models.MessageAttachment{},
		&models.AuditLog{},
	)
	if err != nil {
		logger.L().Fatal("auto-migration failed", zap.Error(err))
	}

	logger.L().Info("database connected, migration complete")
}

// Ping verifies the underlying connection, used by the health endpoint.
func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
