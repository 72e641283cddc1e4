package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

func TestDeleteVehicle_OpenServicesBlock(t *testing.T) {
	gdb := testDB(t)
	f := newFixture(t, gdb)
	repo := NewVehicleGormRepository(gdb)
	ctx := context.Background()

	open := createService(t, gdb, f.service(models.StatusInProgress))
	done := createService(t, gdb, f.service(models.StatusCompleted))
	require.NoError(t, NewServiceGormRepository(gdb).UpsertReminder(ctx, open.ID, time.Now().Add(time.Hour)))

	err := repo.DeleteVehicle(ctx, f.vehicle.ID)
	assert.True(t, httperr.IsBusiness(err, "vehicle_has_open_services"))

	var count int64
	require.NoError(t, gdb.Model(&models.Service{}).Where("vehicle_id = ?", f.vehicle.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	require.NoError(t, gdb.Model(open).Update("status", models.StatusCancelled).Error)
	require.NoError(t, repo.DeleteVehicle(ctx, f.vehicle.ID))

	v, err := repo.GetVehicle(ctx, f.vehicle.ID)
	require.NoError(t, err)
	assert.Nil(t, v)
	require.NoError(t, gdb.Model(&models.Service{}).Where("id IN ?", []uint{open.ID, done.ID}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, gdb.Model(&models.ServiceReminder{}).Count(&count).Error)
	assert.Zero(t, count)

	err = repo.DeleteVehicle(ctx, f.vehicle.ID)
	assert.True(t, httperr.IsBusiness(err, "vehicle_not_found"))
}

// A service insert that is still uncommitted when the delete starts
// must be seen by the open service check.
func TestDeleteVehicle_WaitsForConcurrentServiceInsert(t *testing.T) {
	gdb := testDB(t)
	f := newFixture(t, gdb)
	repo := NewVehicleGormRepository(gdb)

	tx := gdb.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, tx.Create(f.service(models.StatusScheduled)).Error)

	result := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		result <- repo.DeleteVehicle(ctx, f.vehicle.ID)
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
		assert.True(t, httperr.IsBusiness(err, "vehicle_has_open_services"), "got %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("delete never finished")
	}

	v, err := repo.GetVehicle(context.Background(), f.vehicle.ID)
	require.NoError(t, err)
	assert.NotNil(t, v)
}
