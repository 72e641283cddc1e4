package dashboard

import (
	"sort"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
)

// TopServices groups non-cancelled services by type and ranks them by
// count, then revenue, then name.
func TopServices(services []models.Service, limit int) []TopService {
	byType := make(map[uint]*TopService)

	for i := range services {
		s := &services[i]
		if domain.Status(s.Status) == domain.StatusCancelled {
			continue
		}

		ts, ok := byType[s.ServiceTypeID]
		if !ok {
			ts = &TopService{ServiceTypeID: s.ServiceTypeID}
			if s.ServiceType != nil {
				ts.Name = s.ServiceType.Name
			}
			byType[s.ServiceTypeID] = ts
		}
		ts.Count++
		ts.Revenue += domain.RealizedValue(s)
	}

	out := make([]TopService, 0, len(byType))
	for _, ts := range byType {
		ts.Revenue = money.Round(ts.Revenue)
		out = append(out, *ts)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})

	return truncate(out, limit)
}

func truncate[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

func Summarize(s *models.Service) ServiceSummary {
	out := ServiceSummary{
		ID:            s.ID,
		Status:        s.Status,
		ScheduledDate: s.ScheduledDate,
		ScheduledTime: s.ScheduledTime,
		Value:         money.Round(domain.RealizedValue(s)),
		TechnicianID:  s.TechnicianID,
	}
	if s.Customer != nil {
		out.CustomerName = s.Customer.Name
	}
	if s.Vehicle != nil {
		out.VehiclePlate = s.Vehicle.Plate
		out.VehicleModel = s.Vehicle.Model
	}
	if s.ServiceType != nil {
		out.ServiceType = s.ServiceType.Name
	}
	return out
}

// RecentServices returns the newest services by creation time.
func RecentServices(services []models.Service, limit int) []ServiceSummary {
	sorted := make([]*models.Service, len(services))
	for i := range services {
		sorted[i] = &services[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	sorted = truncate(sorted, limit)
	out := make([]ServiceSummary, 0, len(sorted))
	for _, s := range sorted {
		out = append(out, Summarize(s))
	}
	return out
}

// UpcomingAppointments lists scheduled services from today on, by date
// then time. Services with no time sort last within their day.
func UpcomingAppointments(services []models.Service, today string, limit int) []ServiceSummary {
	var upcoming []*models.Service
	for i := range services {
		s := &services[i]
		if domain.Status(s.Status) != domain.StatusScheduled || s.ScheduledDate == nil {
			continue
		}
		if *s.ScheduledDate < today {
			continue
		}
		upcoming = append(upcoming, s)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		a, b := upcoming[i], upcoming[j]
		if *a.ScheduledDate != *b.ScheduledDate {
			return *a.ScheduledDate < *b.ScheduledDate
		}
		return timeKey(a) < timeKey(b)
	})

	upcoming = truncate(upcoming, limit)
	out := make([]ServiceSummary, 0, len(upcoming))
	for _, s := range upcoming {
		out = append(out, Summarize(s))
	}
	return out
}

func timeKey(s *models.Service) string {
	if s.ScheduledTime == nil {
		return "99:99"
	}
	return *s.ScheduledTime
}
