package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appdb "github.com/BruksfildServices01/garage-manager/internal/db"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

// testDB connects to TEST_DATABASE_URL, migrates and empties the garage
// tables. Tests are skipped without it.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	// one schema per package, go test runs packages in parallel
	require.NoError(t, gdb.Exec("CREATE SCHEMA IF NOT EXISTS repository_test").Error)
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}

	gdb, err = gorm.Open(postgres.Open(withSearchPath(dsn, "repository_test")), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, appdb.Migrate(gdb))
	require.NoError(t, gdb.Exec(`TRUNCATE service_reminders, payments, service_items, photos,
		services, vehicles, customers, service_types, push_subscriptions RESTART IDENTITY CASCADE`).Error)
	return gdb
}

type fixture struct {
	customer    models.Customer
	vehicle     models.Vehicle
	serviceType models.ServiceType
}

func newFixture(t *testing.T, gdb *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		customer:    models.Customer{Name: "Ana"},
		serviceType: models.ServiceType{Name: "Troca de óleo", DefaultPrice: "150.00", LoyaltyPoints: 10, Active: true},
	}
	require.NoError(t, gdb.Create(&f.customer).Error)
	require.NoError(t, gdb.Create(&f.serviceType).Error)

	f.vehicle = models.Vehicle{CustomerID: f.customer.ID, Plate: "ABC1D23"}
	require.NoError(t, gdb.Create(&f.vehicle).Error)
	return f
}

func (f fixture) service(status string) *models.Service {
	final := "150.00"
	return &models.Service{
		CustomerID:    f.customer.ID,
		VehicleID:     f.vehicle.ID,
		ServiceTypeID: f.serviceType.ID,
		Status:        status,
		FinalValue:    &final,
		PixPaid:       "0",
		CashPaid:      "0",
		CheckPaid:     "0",
		CardPaid:      "0",
	}
}

func createService(t *testing.T, gdb *gorm.DB, s *models.Service) *models.Service {
	t.Helper()
	require.NoError(t, NewServiceGormRepository(gdb).CreateService(context.Background(), s))
	return s
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
