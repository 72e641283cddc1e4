package dashboard

import (
	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

// ComputeStats reduces the given services into the dashboard summary.
// today is YYYY-MM-DD in shop time. Services without a scheduled date
// count toward totals but never toward a date bucket.
func ComputeStats(services []models.Service, today string) Stats {
	var st Stats
	weekStart := timezone.AddDays(today, -6)
	customers := make(map[uint]struct{})

	for i := range services {
		s := &services[i]
		status := domain.Status(s.Status)

		st.TotalServices++

		if status != domain.StatusCancelled {
			customers[s.CustomerID] = struct{}{}
		}
		if status.IsOpen() {
			st.PendingServices++
			st.PredictedRevenue += money.ParsePtr(s.EstimatedValue)
		}
		if status == domain.StatusCompleted {
			st.CompletedRevenue += domain.RealizedValue(s)
		}

		if s.ScheduledDate == nil {
			continue
		}
		date := *s.ScheduledDate

		if date == today {
			if status != domain.StatusCancelled {
				st.TodayAppointments++
				st.DailyRevenue += money.ParsePtr(s.EstimatedValue)
			}
			if status == domain.StatusCompleted {
				st.CompletedToday++
			}
		}

		if status != domain.StatusCancelled && date >= weekStart && date <= today {
			st.WeeklyRevenue += money.ParsePtr(s.EstimatedValue)
		}
	}

	st.ActiveCustomers = len(customers)
	st.DailyRevenue = money.Round(st.DailyRevenue)
	st.WeeklyRevenue = money.Round(st.WeeklyRevenue)
	st.CompletedRevenue = money.Round(st.CompletedRevenue)
	st.PredictedRevenue = money.Round(st.PredictedRevenue)

	return st
}
