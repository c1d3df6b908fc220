package report

import (
	"time"

	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/models"
)

const (
	LowStockThreshold = 15
	LowStockLimit     = 7
)

type Service struct {
	DB *gorm.DB
}

type Dashboard struct {
	SalesToday         float64          `json:"sales_today"`
	SalesThisWeek      float64          `json:"sales_this_week"`
	SalesThisMonth     float64          `json:"sales_this_month"`
	SalesLastSixMonths float64          `json:"sales_last_six_months"`
	LowStockProducts   []models.Product `json:"low_stock_products"`
}

// Snapshot aggregates sales over calendar boundaries relative to now and
// lists products running low on stock.
func (s *Service) Snapshot(now time.Time) (*Dashboard, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := startOfISOWeek(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	sixMonthsAgo := dayStart.AddDate(0, -6, 0)

	var d Dashboard
	var err error
	if d.SalesToday, err = s.salesSince(dayStart, now); err != nil {
		return nil, err
	}
	if d.SalesThisWeek, err = s.salesSince(weekStart, now); err != nil {
		return nil, err
	}
	if d.SalesThisMonth, err = s.salesSince(monthStart, now); err != nil {
		return nil, err
	}
	if d.SalesLastSixMonths, err = s.salesSince(sixMonthsAgo, now); err != nil {
		return nil, err
	}

	if err := s.DB.
		Where("stock_quantity < ?", LowStockThreshold).
		Order("stock_quantity ASC").
		Limit(LowStockLimit).
		Find(&d.LowStockProducts).Error; err != nil {
		return nil, err
	}

	return &d, nil
}

func (s *Service) salesSince(from, to time.Time) (float64, error) {
	var total *float64
	err := s.DB.Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func startOfISOWeek(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week started the previous Monday
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
