package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/and161185/ordertrack/internal/model"
)

// AnalyticsService derives read-only aggregations from a snapshot of all
// orders at call time. It keeps no state of its own.
type AnalyticsService struct {
	store OrderStore
}

func NewAnalyticsService(store OrderStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

type StatusCount struct {
	Count       int    `json:"count"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

type PeriodSales struct {
	Period string  `json:"period"`
	Sales  float64 `json:"sales"`
}

type CustomerStat struct {
	CustomerName string  `json:"customerName"`
	TotalAmount  float64 `json:"totalAmount"`
	OrderCount   int     `json:"orderCount"`
}

type Dashboard struct {
	TotalOrders        int                               `json:"totalOrders"`
	TotalRevenue       float64                           `json:"totalRevenue"`
	AverageOrderValue  float64                           `json:"averageOrderValue"`
	StatusDistribution map[model.OrderStatus]StatusCount `json:"statusDistribution"`
	MonthlySales       []PeriodSales                     `json:"monthlySales"`
	RecentOrders       []model.Order                     `json:"recentOrders"`
	TopCustomers       []CustomerStat                    `json:"topCustomers"`
}

type SalesChart struct {
	MonthlySales       []PeriodSales                     `json:"monthlySales"`
	DailySales         []PeriodSales                     `json:"dailySales"`
	StatusDistribution map[model.OrderStatus]StatusCount `json:"statusDistribution"`
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (Dashboard, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load orders: %w", err)
	}

	return Dashboard{
		TotalOrders:        len(orders),
		TotalRevenue:       totalRevenue(orders),
		AverageOrderValue:  averageOrderValue(orders),
		StatusDistribution: statusDistribution(orders),
		MonthlySales:       salesByPeriod(orders, "2006-01", time.Time{}),
		RecentOrders:       recentOrders(orders, 5),
		TopCustomers:       topCustomers(orders, 5),
	}, nil
}

func (s *AnalyticsService) SalesChart(ctx context.Context) (SalesChart, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return SalesChart{}, fmt.Errorf("load orders: %w", err)
	}

	return SalesChart{
		MonthlySales:       salesByPeriod(orders, "2006-01", time.Time{}),
		DailySales:         salesByPeriod(orders, "2006-01-02", time.Now().AddDate(0, 0, -30)),
		StatusDistribution: statusDistribution(orders),
	}, nil
}

// выручка считается только по завершённым заказам
func totalRevenue(orders []model.Order) float64 {
	var sum float64
	for _, o := range orders {
		if o.Status == model.StatusCompleted {
			sum += o.OrderAmount
		}
	}
	return sum
}

// averageOrderValue averages over every order regardless of status, a wider
// population than totalRevenue uses.
func averageOrderValue(orders []model.Order) float64 {
	if len(orders) == 0 {
		return 0
	}

	var sum float64
	for _, o := range orders {
		sum += o.OrderAmount
	}
	return sum / float64(len(orders))
}

// statusDistribution is zero-filled: every status of the enumeration gets an
// entry even with no matching orders.
func statusDistribution(orders []model.Order) map[model.OrderStatus]StatusCount {
	counts := make(map[model.OrderStatus]int)
	for _, o := range orders {
		counts[o.Status]++
	}

	distribution := make(map[model.OrderStatus]StatusCount, len(model.OrderStatuses))
	for _, status := range model.OrderStatuses {
		distribution[status] = StatusCount{
			Count:       counts[status],
			DisplayName: status.DisplayName(),
			Color:       status.Color(),
		}
	}
	return distribution
}

func salesByPeriod(orders []model.Order, layout string, since time.Time) []PeriodSales {
	totals := make(map[string]float64)
	for _, o := range orders {
		if o.Status != model.StatusCompleted {
			continue
		}
		if !since.IsZero() && o.OrderDate.Before(since) {
			continue
		}
		totals[o.OrderDate.Format(layout)] += o.OrderAmount
	}

	periods := make([]PeriodSales, 0, len(totals))
	for period, sales := range totals {
		periods = append(periods, PeriodSales{Period: period, Sales: sales})
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Period < periods[j].Period })

	return periods
}

func recentOrders(orders []model.Order, limit int) []model.Order {
	recent := make([]model.Order, len(orders))
	copy(recent, orders)

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].OrderDate.After(recent[j].OrderDate) })
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// topCustomers ranks customers by summed revenue of their completed orders;
// the order count includes every order of that customer. Ties keep the
// customer's first appearance in the snapshot.
func topCustomers(orders []model.Order, limit int) []CustomerStat {
	index := make(map[string]int)
	var stats []CustomerStat

	for _, o := range orders {
		if o.Status != model.StatusCompleted {
			continue
		}
		i, ok := index[o.CustomerName]
		if !ok {
			i = len(stats)
			index[o.CustomerName] = i
			stats = append(stats, CustomerStat{CustomerName: o.CustomerName})
		}
		stats[i].TotalAmount += o.OrderAmount
	}

	for _, o := range orders {
		if i, ok := index[o.CustomerName]; ok {
			stats[i].OrderCount++
		}
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].TotalAmount > stats[j].TotalAmount })
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}
