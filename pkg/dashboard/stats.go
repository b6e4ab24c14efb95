package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theAriful7/storefront/pkg/model"
)

// RecentOrderLimit is how many orders the vendor dashboard lists.
const RecentOrderLimit = 4

// DateLayout renders order dates on the dashboard.
const DateLayout = "Jan 2, 2006"

// UnknownDate stands in for an order without a date.
const UnknownDate = "Unknown date"

// Stats are the vendor dashboard figures.
type Stats struct {
	TotalProducts     int
	ProductsThisMonth int
	TotalOrders       int
	PendingOrders     int
	TotalRevenue      decimal.Decimal
	TotalReviews      int
	AverageRating     decimal.Decimal // one decimal place; zero without reviews
	RecentOrders      []RecentOrder
}

// RecentOrder is one row of the recent orders table.
type RecentOrder struct {
	ID           int64
	OrderNumber  string
	CustomerName string
	Amount       decimal.Decimal
	Status       string
	Date         string
}

// ComputeVendorStats aggregates already fetched collections. Orders carry no
// vendor, so every order counts. Only reviews of the given products count.
func ComputeVendorStats(products []model.Product, orders []model.Order, reviews []model.Review, now time.Time) Stats {
	s := Stats{
		TotalProducts:     len(products),
		ProductsThisMonth: CountThisMonth(products, now),
		TotalOrders:       len(orders),
		TotalRevenue:      decimal.Zero,
		AverageRating:     decimal.Zero,
		RecentOrders:      RecentOrders(orders, RecentOrderLimit),
	}
	for _, o := range orders {
		if o.Status == model.OrderPending {
			s.PendingOrders++
		}
		s.TotalRevenue = s.TotalRevenue.Add(decimal.NewFromFloat(o.TotalAmount))
	}

	own := make(map[int64]bool, len(products))
	for _, p := range products {
		own[p.ID] = true
	}
	sum := decimal.Zero
	for _, r := range reviews {
		if !own[r.ProductID] {
			continue
		}
		s.TotalReviews++
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	if s.TotalReviews > 0 {
		s.AverageRating = sum.Div(decimal.NewFromInt(int64(s.TotalReviews))).Round(1)
	}
	return s
}

// CountThisMonth counts products created in the calendar month of now, in
// now's location. Products without a creation time are not counted.
func CountThisMonth(products []model.Product, now time.Time) int {
	year, month, _ := now.Date()
	n := 0
	for _, p := range products {
		if p.CreatedAt == nil || p.CreatedAt.IsZero() {
			continue
		}
		y, m, _ := p.CreatedAt.In(now.Location()).Date()
		if y == year && m == month {
			n++
		}
	}
	return n
}

// RecentOrders returns the newest limit orders by order date. Orders without
// a date sort last; ties keep their input order. The input is not modified.
func RecentOrders(orders []model.Order, limit int) []RecentOrder {
	sorted := make([]model.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderDate.TimeOrZero().After(sorted[j].OrderDate.TimeOrZero())
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]RecentOrder, 0, len(sorted))
	for _, o := range sorted {
		out = append(out, RecentOrder{
			ID:           o.ID,
			OrderNumber:  o.OrderNumber,
			CustomerName: customerName(o),
			Amount:       decimal.NewFromFloat(o.TotalAmount),
			Status:       o.Status,
			Date:         formatDate(o.OrderDate),
		})
	}
	return out
}

func customerName(o model.Order) string {
	if o.CustomerName != "" {
		return o.CustomerName
	}
	return fmt.Sprintf("Customer %d", o.UserID)
}

func formatDate(t *model.Timestamp) string {
	if t == nil || t.IsZero() {
		return UnknownDate
	}
	return t.Format(DateLayout)
}

// AdminSummary are the admin dashboard figures.
type AdminSummary struct {
	TotalProducts    int
	ProductsByStatus map[model.ProductStatus]int
	Categories       int
	SubCategories    int
}

// Count returns the number of products in status.
func (a AdminSummary) Count(status model.ProductStatus) int {
	return a.ProductsByStatus[status]
}

// ComputeAdminSummary counts products per status. Every known status is
// present in the map, with zero when no product has it; unknown statuses
// are counted under their own key.
func ComputeAdminSummary(products []model.Product, categories []model.Category, subCategories []model.SubCategory) AdminSummary {
	a := AdminSummary{
		TotalProducts:    len(products),
		ProductsByStatus: make(map[model.ProductStatus]int, len(model.ProductStatuses)),
		Categories:       len(categories),
		SubCategories:    len(subCategories),
	}
	for _, s := range model.ProductStatuses {
		a.ProductsByStatus[s] = 0
	}
	for _, p := range products {
		a.ProductsByStatus[p.Status]++
	}
	return a
}
