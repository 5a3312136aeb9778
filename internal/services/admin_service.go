// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gostorefront/storefront-backend/internal/apperrors"
	"github.com/gostorefront/storefront-backend/internal/models"
	"github.com/gostorefront/storefront-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

// DashboardStats is the admin landing page summary. Revenue counts only
// orders that have actually been paid for (paid or shipped); pending and
// cancelled orders contribute nothing.
type DashboardStats struct {
	TotalRevenue     float64        `json:"total_revenue"`
	TotalOrders      int64          `json:"total_orders"`
	PendingOrders    int64          `json:"pending_orders"`
	TotalProducts    int64          `json:"total_products"`
	TotalUsers       int64          `json:"total_users"`
	RevenueChangePct *float64       `json:"revenue_change_pct"`
	RevenueByDay     []DailyRevenue `json:"revenue_by_day"`
	RecentOrders     []models.Order `json:"recent_orders"`
}

type DailyRevenue struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type UpdateUserRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

var revenueStatuses = []models.OrderStatus{models.OrderStatusPaid, models.OrderStatusShipped}

// GetDashboardStats aggregates the storefront numbers in one pass. The
// daily chart covers the trailing 14 days and is zero-filled so the
// frontend can plot it without gap handling.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Order{}).
		Where("status IN ?", revenueStatuses).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}

	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	if err := s.db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	changePct, err := s.revenueChangePct()
	if err != nil {
		return nil, err
	}
	stats.RevenueChangePct = changePct

	daily, err := s.revenueByDay(14)
	if err != nil {
		return nil, err
	}
	stats.RevenueByDay = daily

	if err := s.db.Preload("Items").Preload("User").
		Order("created_at DESC").
		Limit(10).
		Find(&stats.RecentOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent orders: %w", err)
	}

	return stats, nil
}

// revenueChangePct compares this calendar month's paid revenue to last
// month's. Nil means last month had no revenue, so a percentage is
// undefined rather than infinite.
func (s *AdminService) revenueChangePct() (*float64, error) {
	now := time.Now()
	thisMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)

	var thisMonth, lastMonth float64
	if err := s.db.Model(&models.Order{}).
		Where("status IN ? AND created_at >= ?", revenueStatuses, thisMonthStart).
		Select("COALESCE(SUM(total), 0)").
		Scan(&thisMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to compute monthly revenue: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("status IN ? AND created_at >= ? AND created_at < ?", revenueStatuses, lastMonthStart, thisMonthStart).
		Select("COALESCE(SUM(total), 0)").
		Scan(&lastMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to compute monthly revenue: %w", err)
	}

	if lastMonth == 0 {
		return nil, nil
	}
	pct := (thisMonth - lastMonth) / lastMonth * 100
	return &pct, nil
}

func (s *AdminService) revenueByDay(days int) ([]DailyRevenue, error) {
	since := time.Now().AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	var rows []DailyRevenue
	err := s.db.Model(&models.Order{}).
		Where("status IN ? AND created_at >= ?", revenueStatuses, since).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') AS date, COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS orders").
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily revenue: %w", err)
	}

	byDate := make(map[string]DailyRevenue, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}

	out := make([]DailyRevenue, 0, days)
	for i := 0; i < days; i++ {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		if r, ok := byDate[date]; ok {
			out = append(out, r)
		} else {
			out = append(out, DailyRevenue{Date: date})
		}
	}
	return out, nil
}

func (s *AdminService) ListUsers(params utils.PaginationParams, search string) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "email", "last_login_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// UpdateUserRole refuses to demote the caller so an admin cannot lock
// themselves out of the back office.
func (s *AdminService) UpdateUserRole(id, callerID uuid.UUID, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown role %q", role), nil)
	}
	if id == callerID && role != models.UserRoleAdmin {
		return nil, apperrors.Validation("you cannot remove your own admin role", nil)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	user.Role = role

	logrus.WithFields(logrus.Fields{
		"user_id": id,
		"role":    role,
		"by":      callerID,
	}).Info("User role updated")

	return &user, nil
}

// DeleteUser soft-deletes the account. Their orders survive for the order
// history and revenue numbers.
func (s *AdminService) DeleteUser(id, callerID uuid.UUID) error {
	if id == callerID {
		return apperrors.Validation("you cannot delete your own account", nil)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": id,
		"by":      callerID,
	}).Info("User deleted")

	return nil
}
