package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"rental-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory sqlite database. The shared-cache
// DSN keeps the schema visible across the pool's connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Payment{},
		&models.Payout{},
		&models.Review{},
		&models.KYC{},
		&models.Message{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{Name: "Test " + role, Email: email, Password: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedListing(t *testing.T, db *gorm.DB, ownerID uint) models.Listing {
	t.Helper()
	images, _ := json.Marshal([]models.ListingImage{{PublicID: "img1", URL: "https://img.test/1.jpg"}})
	listing := models.Listing{
		OwnerID:      ownerID,
		Title:        "Downtown flat",
		Description:  "Two rooms near the station",
		Status:       models.ListingAvailable,
		Price:        120,
		Location:     "Berlin",
		Latitude:     52.52,
		Longitude:    13.405,
		PropertyType: "apartment",
		Rooms:        2,
		Beds:         2,
		Bathrooms:    1,
		Images:       datatypes.JSON(images),
	}
	require.NoError(t, db.Create(&listing).Error)
	return listing
}

func listingStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var listing models.Listing
	require.NoError(t, db.First(&listing, id).Error)
	return listing.Status
}
