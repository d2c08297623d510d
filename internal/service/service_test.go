package service

import (
	"context"
	"fmt"
	"testing"

	"fitledger/internal/config"
	"fitledger/internal/infrastructure/database"
	"fitledger/internal/model"
	"fitledger/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Shared fixtures for the service tests. Each test gets its own
// in-memory database to avoid cross-test interference.

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Kafka: config.KafkaConfig{
			Topic: config.KafkaTopicConfig{
				CheckinCompleted: "test.checkin.completed",
				CreditGranted:    "test.credit.granted",
			},
		},
		Business: config.BusinessConfig{
			HighQuantityThreshold: 100,
			MaxRetryCount:         5,
		},
	}
}

func seedUser(t *testing.T, db *gorm.DB, name, email, role string) *model.User {
	t.Helper()
	user := &model.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedAssociation(t *testing.T, db *gorm.DB, userID, franchiseID, assocType string) {
	t.Helper()
	err := repository.NewUserRepository(db).CreateAssociation(context.Background(), &model.FranchiseAssociation{
		UserID:      userID,
		FranchiseID: franchiseID,
		Type:        assocType,
	})
	require.NoError(t, err)
}

type bookingSeed struct {
	teacherID      string
	studentID      string
	franchiseID    string
	franqueadoraID string
	duration       int
	status         string
	canonical      string
}

func seedBooking(t *testing.T, db *gorm.DB, seed bookingSeed) *model.Booking {
	t.Helper()
	booking := &model.Booking{
		ID:              uuid.NewString(),
		TeacherID:       seed.teacherID,
		FranchiseID:     seed.franchiseID,
		FranqueadoraID:  seed.franqueadoraID,
		DurationMinutes: seed.duration,
		Status:          seed.status,
		StatusCanonical: seed.canonical,
	}
	if seed.studentID != "" {
		studentID := seed.studentID
		booking.StudentID = &studentID
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func seedProfessorBalance(t *testing.T, db *gorm.DB, professorID, franqueadoraID string, available, locked float64) {
	t.Helper()
	require.NoError(t, db.Create(&model.ProfHourBalance{
		ProfessorID:    professorID,
		FranqueadoraID: franqueadoraID,
		AvailableHours: available,
		LockedHours:    locked,
	}).Error)
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var total int64
	require.NoError(t, db.Model(value).Count(&total).Error)
	return total
}

func requireDomainCode(t *testing.T, err error, code string) *DomainError {
	t.Helper()
	require.Error(t, err)
	domainErr, ok := err.(*DomainError)
	require.True(t, ok, "expected *DomainError, got %T: %v", err, err)
	require.Equal(t, code, domainErr.Code)
	return domainErr
}
