package dashboard

import (
	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

const (
	DefaultSeriesDays = 7
	MaxSeriesDays     = 365
)

func ClampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultSeriesDays
	case days > MaxSeriesDays:
		return MaxSeriesDays
	default:
		return days
	}
}

// RevenueSeries buckets revenue by scheduled date over the trailing days
// ending today. The result always has exactly days entries, oldest first.
func RevenueSeries(services []models.Service, today string, days int, variant Variant) []RevenuePoint {
	days = ClampDays(days)

	points := make([]RevenuePoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := timezone.AddDays(today, i-days+1)
		points[i] = RevenuePoint{Date: d}
		index[d] = i
	}

	for i := range services {
		s := &services[i]
		if s.ScheduledDate == nil || !counts(s, variant) {
			continue
		}
		pos, ok := index[*s.ScheduledDate]
		if !ok {
			continue
		}
		points[pos].Revenue += domain.RealizedValue(s)
	}

	for i := range points {
		points[i].Revenue = money.Round(points[i].Revenue)
	}
	return points
}

func counts(s *models.Service, variant Variant) bool {
	status := domain.Status(s.Status)
	if variant == VariantRealized {
		return status == domain.StatusCompleted
	}
	return status != domain.StatusCancelled
}
