package dashboard

type Stats struct {
	DailyRevenue      float64 `json:"daily_revenue"`
	WeeklyRevenue     float64 `json:"weekly_revenue"`
	CompletedRevenue  float64 `json:"completed_revenue"`
	PredictedRevenue  float64 `json:"predicted_revenue"`
	TodayAppointments int     `json:"today_appointments"`
	CompletedToday    int     `json:"completed_today"`
	PendingServices   int     `json:"pending_services"`
	TotalServices     int     `json:"total_services"`
	ActiveCustomers   int     `json:"active_customers"`
}

type Variant string

const (
	VariantEstimated Variant = "estimated"
	VariantRealized  Variant = "realized"
)

func ParseVariant(s string) Variant {
	if Variant(s) == VariantRealized {
		return VariantRealized
	}
	return VariantEstimated
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type TopService struct {
	ServiceTypeID uint    `json:"service_type_id"`
	Name          string  `json:"name"`
	Count         int     `json:"count"`
	Revenue       float64 `json:"revenue"`
}

type ServiceSummary struct {
	ID            uint    `json:"id"`
	Status        string  `json:"status"`
	ScheduledDate *string `json:"scheduled_date"`
	ScheduledTime *string `json:"scheduled_time"`
	CustomerName  string  `json:"customer_name"`
	VehiclePlate  string  `json:"vehicle_plate"`
	VehicleModel  string  `json:"vehicle_model"`
	ServiceType   string  `json:"service_type"`
	Value         float64 `json:"value"`
	TechnicianID  *uint   `json:"technician_id"`
}

type CustomerRevenue struct {
	CustomerID uint    `json:"customer_id"`
	Name       string  `json:"name"`
	Services   int     `json:"services"`
	Revenue    float64 `json:"revenue"`
}

type ReturnDue struct {
	CustomerID    uint   `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	Phone         string `json:"phone"`
	ServiceTypeID uint   `json:"service_type_id"`
	ServiceType   string `json:"service_type"`
	LastDate      string `json:"last_date"`
	DueDate       string `json:"due_date"`
}

type CustomerAnalytics struct {
	TotalCustomers int               `json:"total_customers"`
	NewThisMonth   int               `json:"new_this_month"`
	TopCustomers   []CustomerRevenue `json:"top_customers"`
	DueForReturn   []ReturnDue       `json:"due_for_return"`
}

type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

type VehicleAnalytics struct {
	TotalVehicles    int          `json:"total_vehicles"`
	TopBrands        []BrandCount `json:"top_brands"`
	WithOpenServices int          `json:"with_open_services"`
}
