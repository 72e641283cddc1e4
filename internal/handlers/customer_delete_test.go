package handlers

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appdb "github.com/BruksfildServices01/garage-manager/internal/db"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

// Runs against TEST_DATABASE_URL; skipped without it.
func customerDB(t *testing.T) (*gorm.DB, models.Customer, models.Vehicle, models.ServiceType) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	// one schema per package, go test runs packages in parallel
	require.NoError(t, gdb.Exec("CREATE SCHEMA IF NOT EXISTS handlers_test").Error)
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}

	gdb, err = gorm.Open(postgres.Open(withSearchPath(dsn, "handlers_test")), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, appdb.Migrate(gdb))
	require.NoError(t, gdb.Exec(`TRUNCATE service_reminders, payments, service_items, photos,
		services, vehicles, customers, service_types RESTART IDENTITY CASCADE`).Error)

	cu := models.Customer{Name: "Ana"}
	st := models.ServiceType{Name: "Alinhamento", DefaultPrice: "90.00", Active: true}
	require.NoError(t, gdb.Create(&cu).Error)
	require.NoError(t, gdb.Create(&st).Error)
	v := models.Vehicle{CustomerID: cu.ID, Plate: "BRA2E19"}
	require.NoError(t, gdb.Create(&v).Error)
	return gdb, cu, v, st
}

func deleteCustomerTx(ctx context.Context, gdb *gorm.DB, id uint) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCustomer(tx, id)
	})
}

func TestDeleteCustomer_OpenServicesBlock(t *testing.T) {
	gdb, cu, v, st := customerDB(t)
	ctx := context.Background()

	s := models.Service{CustomerID: cu.ID, VehicleID: v.ID, ServiceTypeID: st.ID, Status: models.StatusScheduled}
	require.NoError(t, gdb.Create(&s).Error)

	err := deleteCustomerTx(ctx, gdb, cu.ID)
	assert.True(t, httperr.IsBusiness(err, "customer_has_open_services"))

	require.NoError(t, gdb.Model(&s).Update("status", models.StatusCompleted).Error)
	require.NoError(t, deleteCustomerTx(ctx, gdb, cu.ID))

	var count int64
	require.NoError(t, gdb.Model(&models.Vehicle{}).Where("customer_id = ?", cu.ID).Count(&count).Error)
	assert.Zero(t, count)

	err = deleteCustomerTx(ctx, gdb, cu.ID)
	assert.True(t, httperr.IsBusiness(err, "customer_not_found"))
}

func TestDeleteCustomer_WaitsForConcurrentServiceInsert(t *testing.T) {
	gdb, cu, v, st := customerDB(t)

	tx := gdb.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, tx.Create(&models.Service{
		CustomerID: cu.ID, VehicleID: v.ID, ServiceTypeID: st.ID, Status: models.StatusScheduled,
	}).Error)

	result := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		result <- deleteCustomerTx(ctx, gdb, cu.ID)
	}()

	select {
	case err := <-result:
		_ = tx.Rollback()
		t.Fatalf("delete did not wait for the insert: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, tx.Commit().Error)

	select {
	case err := <-result:
		assert.True(t, httperr.IsBusiness(err, "customer_has_open_services"), "got %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("delete never finished")
	}
}

// withSearchPath adds search_path as a runtime parameter to a URL or
// key=value DSN.
func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}
