package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/coffeeshop-server/models"
)

func TestMigrateAndSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:database_test?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Migrate(db))
	for _, table := range []string{"products", "customers", "employees", "orders", "order_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn(&models.OrderItem{}, "price"))
	assert.True(t, db.Migrator().HasColumn(&models.OrderItem{}, "total"))

	require.NoError(t, Seed(db))
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(len(demoCatalogue())), count)

	// second run leaves the catalogue alone
	require.NoError(t, Seed(db))
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(len(demoCatalogue())), count)
}
