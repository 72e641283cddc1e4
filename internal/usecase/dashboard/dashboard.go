package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/garage-manager/internal/cache"
	domain "github.com/BruksfildServices01/garage-manager/internal/domain/dashboard"
	servicedomain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

const DefaultLimit = 5

// Dashboard serves every dashboard read. Results are cached per day and
// technician; a failed query is logged and answered with zero values.
type Dashboard struct {
	repo  domain.Repository
	cache cache.Cache
	ttl   time.Duration
	log   logrus.FieldLogger
	today func() string
}

func NewDashboard(
	repo domain.Repository,
	c cache.Cache,
	ttl time.Duration,
	log logrus.FieldLogger,
) *Dashboard {
	return &Dashboard{
		repo:  repo,
		cache: c,
		ttl:   ttl,
		log:   log,
		today: timezone.Today,
	}
}

// ======================================================
// READS
// ======================================================

func (d *Dashboard) Stats(ctx context.Context, scope servicedomain.Scope) domain.Stats {
	today := d.today()
	return cached(ctx, d, d.key("stats", today, scope), func() (domain.Stats, error) {
		services, err := d.repo.ListServices(ctx, scope.TechnicianID)
		if err != nil {
			return domain.Stats{}, err
		}
		return domain.ComputeStats(services, today), nil
	})
}

func (d *Dashboard) Revenue(
	ctx context.Context,
	scope servicedomain.Scope,
	days int,
	variant domain.Variant,
) []domain.RevenuePoint {

	today := d.today()
	days = domain.ClampDays(days)

	key := d.key(fmt.Sprintf("revenue:%s:%d", variant, days), today, scope)
	out := cached(ctx, d, key, func() ([]domain.RevenuePoint, error) {
		services, err := d.repo.ListServices(ctx, scope.TechnicianID)
		if err != nil {
			return nil, err
		}
		return domain.RevenueSeries(services, today, days, variant), nil
	})
	if out == nil {
		// keep the shape even when the query failed
		return domain.RevenueSeries(nil, today, days, variant)
	}
	return out
}

func (d *Dashboard) TopServices(ctx context.Context, scope servicedomain.Scope, limit int) []domain.TopService {
	limit = normalizeLimit(limit)
	key := d.key(fmt.Sprintf("top:%d", limit), d.today(), scope)
	return orEmpty(cached(ctx, d, key, func() ([]domain.TopService, error) {
		services, err := d.repo.ListServices(ctx, scope.TechnicianID)
		if err != nil {
			return nil, err
		}
		return domain.TopServices(services, limit), nil
	}))
}

func (d *Dashboard) RecentServices(ctx context.Context, scope servicedomain.Scope, limit int) []domain.ServiceSummary {
	limit = normalizeLimit(limit)
	key := d.key(fmt.Sprintf("recent:%d", limit), d.today(), scope)
	return orEmpty(cached(ctx, d, key, func() ([]domain.ServiceSummary, error) {
		services, err := d.repo.ListServices(ctx, scope.TechnicianID)
		if err != nil {
			return nil, err
		}
		return domain.RecentServices(services, limit), nil
	}))
}

func (d *Dashboard) UpcomingAppointments(ctx context.Context, scope servicedomain.Scope, limit int) []domain.ServiceSummary {
	limit = normalizeLimit(limit)
	today := d.today()
	key := d.key(fmt.Sprintf("upcoming:%d", limit), today, scope)
	return orEmpty(cached(ctx, d, key, func() ([]domain.ServiceSummary, error) {
		services, err := d.repo.ListServices(ctx, scope.TechnicianID)
		if err != nil {
			return nil, err
		}
		return domain.UpcomingAppointments(services, today, limit), nil
	}))
}

// CustomerAnalytics and VehicleAnalytics are shop-wide.
func (d *Dashboard) CustomerAnalytics(ctx context.Context, limit int) domain.CustomerAnalytics {
	limit = normalizeLimit(limit)
	today := d.today()
	key := d.key(fmt.Sprintf("customers:%d", limit), today, servicedomain.Scope{})
	out := cached(ctx, d, key, func() (domain.CustomerAnalytics, error) {
		customers, err := d.repo.ListCustomers(ctx)
		if err != nil {
			return domain.CustomerAnalytics{}, err
		}
		services, err := d.repo.ListServices(ctx, nil)
		if err != nil {
			return domain.CustomerAnalytics{}, err
		}
		return domain.ComputeCustomerAnalytics(customers, services, today, limit), nil
	})
	out.TopCustomers = orEmpty(out.TopCustomers)
	out.DueForReturn = orEmpty(out.DueForReturn)
	return out
}

func (d *Dashboard) VehicleAnalytics(ctx context.Context, limit int) domain.VehicleAnalytics {
	limit = normalizeLimit(limit)
	key := d.key(fmt.Sprintf("vehicles:%d", limit), d.today(), servicedomain.Scope{})
	out := cached(ctx, d, key, func() (domain.VehicleAnalytics, error) {
		vehicles, err := d.repo.ListVehicles(ctx)
		if err != nil {
			return domain.VehicleAnalytics{}, err
		}
		services, err := d.repo.ListServices(ctx, nil)
		if err != nil {
			return domain.VehicleAnalytics{}, err
		}
		return domain.ComputeVehicleAnalytics(vehicles, services, limit), nil
	})
	out.TopBrands = orEmpty(out.TopBrands)
	return out
}

// ======================================================
// HELPERS
// ======================================================

func (d *Dashboard) key(kind, today string, scope servicedomain.Scope) string {
	tech := "all"
	if scope.TechnicianID != nil {
		tech = fmt.Sprintf("t%d", *scope.TechnicianID)
	}
	return fmt.Sprintf("%s:%s:%s", kind, today, tech)
}

// cached reads through the dashboard namespace. Cache failures only cost a
// recompute; compute failures return the zero value and are not cached.
func cached[T any](ctx context.Context, d *Dashboard, key string, compute func() (T, error)) T {
	var out T

	hit, err := d.cache.Get(ctx, cache.NamespaceDashboard, key, &out)
	if err != nil {
		d.log.WithError(err).WithField("key", key).Warn("dashboard cache read failed")
	}
	if hit {
		return out
	}

	out, err = compute()
	if err != nil {
		d.log.WithError(err).WithField("key", key).Warn("dashboard query failed")
		var zero T
		return zero
	}

	if err := d.cache.Set(ctx, cache.NamespaceDashboard, key, out, d.ttl); err != nil {
		d.log.WithError(err).WithField("key", key).Warn("dashboard cache write failed")
	}
	return out
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > 50 {
		return 50
	}
	return limit
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
