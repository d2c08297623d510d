package database

import (
	"fmt"
	"log"
	"time"

	"fitledger/internal/config"
	"fitledger/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitMySQL opens the connection pool and migrates the schema.
func InitMySQL(cfg *config.MySQLConfig) *gorm.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("falha ao conectar ao MySQL: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("falha ao obter conexão SQL: %v", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = AutoMigrate(db)
	if err != nil {
		log.Fatalf("falha ao migrar o esquema: %v", err)
	}

	log.Println("MySQL conectado")
	return db
}

// AutoMigrate creates/updates every table this service owns. Shared
// with the test harness, which runs it against sqlite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.FranchiseAssociation{},
		&model.Booking{},
		&model.ProfHourBalance{},
		&model.StudentClassBalance{},
		&model.HourTransaction{},
		&model.StudentClassTransaction{},
		&model.CreditGrant{},
		&model.CheckinRecord{},
		&model.OutboxMessage{},
	)
}
