package dashboard

import (
	"sort"
	"strings"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

// ComputeCustomerAnalytics needs services preloaded with Customer and
// ServiceType for names and recurring intervals.
func ComputeCustomerAnalytics(
	customers []models.Customer,
	services []models.Service,
	today string,
	limit int,
) CustomerAnalytics {

	out := CustomerAnalytics{
		TotalCustomers: len(customers),
		TopCustomers:   []CustomerRevenue{},
		DueForReturn:   []ReturnDue{},
	}

	monthPrefix := today[:7]
	for _, c := range customers {
		if timezone.DateOf(c.CreatedAt)[:7] == monthPrefix {
			out.NewThisMonth++
		}
	}

	// -------- top by realized revenue --------
	byCustomer := make(map[uint]*CustomerRevenue)
	for i := range services {
		s := &services[i]
		if domain.Status(s.Status) != domain.StatusCompleted {
			continue
		}
		cr, ok := byCustomer[s.CustomerID]
		if !ok {
			cr = &CustomerRevenue{CustomerID: s.CustomerID}
			if s.Customer != nil {
				cr.Name = s.Customer.Name
			}
			byCustomer[s.CustomerID] = cr
		}
		cr.Services++
		cr.Revenue += domain.RealizedValue(s)
	}

	for _, cr := range byCustomer {
		cr.Revenue = money.Round(cr.Revenue)
		out.TopCustomers = append(out.TopCustomers, *cr)
	}
	sort.Slice(out.TopCustomers, func(i, j int) bool {
		a, b := out.TopCustomers[i], out.TopCustomers[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		if a.Services != b.Services {
			return a.Services > b.Services
		}
		return a.Name < b.Name
	})
	out.TopCustomers = truncate(out.TopCustomers, limit)

	// -------- due for return --------
	type pair struct{ customer, serviceType uint }
	last := make(map[pair]*models.Service)
	open := make(map[pair]bool)

	for i := range services {
		s := &services[i]
		k := pair{s.CustomerID, s.ServiceTypeID}
		status := domain.Status(s.Status)

		if status.IsOpen() {
			open[k] = true
			continue
		}
		if status != domain.StatusCompleted || s.ScheduledDate == nil {
			continue
		}
		if s.ServiceType == nil || s.ServiceType.RecurringIntervalDays == nil || *s.ServiceType.RecurringIntervalDays <= 0 {
			continue
		}
		if prev, ok := last[k]; !ok || *s.ScheduledDate > *prev.ScheduledDate {
			last[k] = s
		}
	}

	for k, s := range last {
		// already booked again
		if open[k] {
			continue
		}
		due := timezone.AddDays(*s.ScheduledDate, *s.ServiceType.RecurringIntervalDays)
		if due > today {
			continue
		}
		rd := ReturnDue{
			CustomerID:    s.CustomerID,
			ServiceTypeID: s.ServiceTypeID,
			ServiceType:   s.ServiceType.Name,
			LastDate:      *s.ScheduledDate,
			DueDate:       due,
		}
		if s.Customer != nil {
			rd.CustomerName = s.Customer.Name
			rd.Phone = s.Customer.Phone
		}
		out.DueForReturn = append(out.DueForReturn, rd)
	}
	sort.Slice(out.DueForReturn, func(i, j int) bool {
		a, b := out.DueForReturn[i], out.DueForReturn[j]
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
		return a.CustomerName < b.CustomerName
	})

	return out
}

func ComputeVehicleAnalytics(
	vehicles []models.Vehicle,
	services []models.Service,
	limit int,
) VehicleAnalytics {

	out := VehicleAnalytics{
		TotalVehicles: len(vehicles),
		TopBrands:     []BrandCount{},
	}

	brands := make(map[string]int)
	for _, v := range vehicles {
		b := strings.ToUpper(strings.TrimSpace(v.Brand))
		if b == "" {
			b = "OUTROS"
		}
		brands[b]++
	}
	for b, n := range brands {
		out.TopBrands = append(out.TopBrands, BrandCount{Brand: b, Count: n})
	}
	sort.Slice(out.TopBrands, func(i, j int) bool {
		if out.TopBrands[i].Count != out.TopBrands[j].Count {
			return out.TopBrands[i].Count > out.TopBrands[j].Count
		}
		return out.TopBrands[i].Brand < out.TopBrands[j].Brand
	})
	out.TopBrands = truncate(out.TopBrands, limit)

	withOpen := make(map[uint]struct{})
	for i := range services {
		if domain.Status(services[i].Status).IsOpen() {
			withOpen[services[i].VehicleID] = struct{}{}
		}
	}
	out.WithOpenServices = len(withOpen)

	return out
}
