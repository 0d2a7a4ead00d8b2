package services

import (
	"testing"

	"github.com/walpass/health-tracker-app/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Group{}, &models.HealthRecord{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant",
		Role:     models.RoleMember,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedGroup creates a group and wires the founder as its leader, the same
// state GroupService.Create leaves behind.
func seedGroup(t *testing.T, db *gorm.DB, name string, leader *models.User) *models.Group {
	t.Helper()

	group := &models.Group{Name: name, LeaderID: &leader.ID}
	require.NoError(t, db.Create(group).Error)

	leader.GroupID = &group.ID
	leader.Role = models.RoleLeader
	require.NoError(t, db.Save(leader).Error)
	return group
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }
