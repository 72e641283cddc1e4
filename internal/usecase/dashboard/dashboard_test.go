package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/garage-manager/internal/cache"
	servicedomain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/logger"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

const today = "2024-05-10"

func ptr[T any](v T) *T { return &v }

type fakeRepo struct {
	services []models.Service
	vehicles []models.Vehicle
	err      error

	calls    int
	lastTech *uint
}

func (f *fakeRepo) ListServices(_ context.Context, technicianID *uint) ([]models.Service, error) {
	f.calls++
	f.lastTech = technicianID
	if f.err != nil {
		return nil, f.err
	}
	return f.services, nil
}

func (f *fakeRepo) ListCustomers(context.Context) ([]models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Customer{{ID: 1, Name: "Ana"}}, nil
}

func (f *fakeRepo) ListVehicles(context.Context) ([]models.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vehicles, nil
}

func fixture() *fakeRepo {
	return &fakeRepo{
		services: []models.Service{
			{ID: 1, CustomerID: 1, ServiceTypeID: 1, Status: models.StatusScheduled, ScheduledDate: ptr(today), EstimatedValue: ptr("100.00")},
			{ID: 2, CustomerID: 1, ServiceTypeID: 1, Status: models.StatusCompleted, ScheduledDate: ptr(today), EstimatedValue: ptr("20.00")},
		},
		vehicles: []models.Vehicle{{ID: 1, CustomerID: 1, Brand: "fiat"}},
	}
}

func newTestDashboard(t *testing.T, repo *fakeRepo, c cache.Cache) *Dashboard {
	t.Helper()
	d := NewDashboard(repo, c, 30*time.Second, logger.Discard())
	d.today = func() string { return today }
	return d
}

func newRedis(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestStats_CachedPerTechnician(t *testing.T) {
	repo := fixture()
	c, _ := newRedis(t)
	d := newTestDashboard(t, repo, c)
	ctx := context.Background()

	s := d.Stats(ctx, servicedomain.Scope{})
	assert.Equal(t, 120.0, s.DailyRevenue)
	assert.Equal(t, 2, s.TotalServices)
	assert.Equal(t, 1, repo.calls)

	again := d.Stats(ctx, servicedomain.Scope{})
	assert.Equal(t, s, again)
	assert.Equal(t, 1, repo.calls)

	d.Stats(ctx, servicedomain.Scope{TechnicianID: ptr(uint(7))})
	assert.Equal(t, 2, repo.calls)
	require.NotNil(t, repo.lastTech)
	assert.Equal(t, uint(7), *repo.lastTech)
}

func TestStats_InvalidationForcesRecompute(t *testing.T) {
	repo := fixture()
	c, _ := newRedis(t)
	d := newTestDashboard(t, repo, c)
	ctx := context.Background()

	d.Stats(ctx, servicedomain.Scope{})
	require.NoError(t, c.Invalidate(ctx, cache.NamespaceDashboard))
	d.Stats(ctx, servicedomain.Scope{})

	assert.Equal(t, 2, repo.calls)
}

func TestStats_ExpiresWithTTL(t *testing.T) {
	repo := fixture()
	c, mr := newRedis(t)
	d := newTestDashboard(t, repo, c)
	ctx := context.Background()

	d.Stats(ctx, servicedomain.Scope{})
	mr.FastForward(31 * time.Second)
	d.Stats(ctx, servicedomain.Scope{})

	assert.Equal(t, 2, repo.calls)
}

func TestQueryErrorsDegradeToZero(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	d := newTestDashboard(t, repo, cache.Nop{})
	ctx := context.Background()

	assert.Equal(t, 0.0, d.Stats(ctx, servicedomain.Scope{}).DailyRevenue)

	series := d.Revenue(ctx, servicedomain.Scope{}, 3, "estimated")
	require.Len(t, series, 3)
	assert.Equal(t, today, series[2].Date)
	assert.Equal(t, 0.0, series[2].Revenue)

	assert.NotNil(t, d.TopServices(ctx, servicedomain.Scope{}, 5))
	assert.NotNil(t, d.RecentServices(ctx, servicedomain.Scope{}, 5))
	assert.NotNil(t, d.UpcomingAppointments(ctx, servicedomain.Scope{}, 5))

	ca := d.CustomerAnalytics(ctx, 5)
	assert.Equal(t, 0, ca.TotalCustomers)
	assert.NotNil(t, ca.TopCustomers)

	va := d.VehicleAnalytics(ctx, 5)
	assert.NotNil(t, va.TopBrands)
}

func TestErrorsAreNotCached(t *testing.T) {
	repo := &fakeRepo{err: errors.New("timeout")}
	c, _ := newRedis(t)
	d := newTestDashboard(t, repo, c)
	ctx := context.Background()

	d.Stats(ctx, servicedomain.Scope{})
	repo.err = nil
	repo.services = fixture().services

	assert.Equal(t, 120.0, d.Stats(ctx, servicedomain.Scope{}).DailyRevenue)
}

func TestRevenue_ClampsAndCachesPerVariant(t *testing.T) {
	repo := fixture()
	c, _ := newRedis(t)
	d := newTestDashboard(t, repo, c)
	ctx := context.Background()

	assert.Len(t, d.Revenue(ctx, servicedomain.Scope{}, 0, "estimated"), 7)

	est := d.Revenue(ctx, servicedomain.Scope{}, 1, "estimated")
	require.Len(t, est, 1)
	assert.Equal(t, 120.0, est[0].Revenue)

	realized := d.Revenue(ctx, servicedomain.Scope{}, 1, "realized")
	require.Len(t, realized, 1)
	assert.Equal(t, 20.0, realized[0].Revenue)

	assert.Len(t, d.Revenue(ctx, servicedomain.Scope{}, 1000, "estimated"), 365)
}

func TestAnalytics(t *testing.T) {
	d := newTestDashboard(t, fixture(), cache.Nop{})
	ctx := context.Background()

	va := d.VehicleAnalytics(ctx, 0)
	assert.Equal(t, 1, va.TotalVehicles)
	require.Len(t, va.TopBrands, 1)
	assert.Equal(t, "FIAT", va.TopBrands[0].Brand)

	ca := d.CustomerAnalytics(ctx, 0)
	assert.Equal(t, 1, ca.TotalCustomers)
	require.Len(t, ca.TopCustomers, 1)
	assert.Equal(t, 20.0, ca.TopCustomers[0].Revenue)

	up := d.UpcomingAppointments(ctx, servicedomain.Scope{}, 0)
	require.Len(t, up, 1)
	assert.Equal(t, uint(1), up[0].ID)
}
