package services

import (
	"context"
	"errors"
	"time"

	"rewards/config"
	"rewards/constants"
	apperrors "rewards/errors"
	"rewards/models"
	"rewards/services/logger"
	"rewards/services/notification"
	"rewards/utils"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatsCacheKey = "admin:stats"
	StatsCacheTTL = 60 * time.Second

	maxSuggestionPool = 1000
	maxRevenueDays    = 366
)

type DayStats struct {
	Date        string  `json:"date"`
	AdViews     int64   `json:"adViews"`
	Revenue     float64 `json:"revenue"`
	PaidOut     float64 `json:"paidOut"`
	Profit      float64 `json:"profit"`
	ActiveUsers int64   `json:"activeUsers"`
}

type PendingStats struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type TotalStats struct {
	Revenue float64 `json:"revenue"`
	PaidOut float64 `json:"paidOut"`
	Profit  float64 `json:"profit"`
}

type AdminStats struct {
	Today              DayStats     `json:"today"`
	TotalUsers         int64        `json:"totalUsers"`
	ActiveUsersToday   int64        `json:"activeUsersToday"`
	PendingWithdrawals PendingStats `json:"pendingWithdrawals"`
	AllTime            TotalStats   `json:"allTime"`
	GeneratedAt        time.Time    `json:"generatedAt"`
}

type UserFilter struct {
	Query  string
	Status string
	Page   int
	Limit  int
}

type UserSearchResult struct {
	Users       []models.User
	Total       int64
	Suggestions []string
}

type AdminService struct {
	db       *gorm.DB
	redis    *redis.Client
	logger   logger.Logger
	econ     config.Economics
	notifier notification.Service
	now      func() time.Time
}

type AdminServiceOptions struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Logger    logger.Logger
	Economics config.Economics
	Notifier  notification.Service
	Now       func() time.Time
}

func NewAdminService(opts AdminServiceOptions) *AdminService {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notification.NopService{}
	}
	return &AdminService{
		db:       opts.DB,
		redis:    opts.Redis,
		logger:   opts.Logger,
		econ:     opts.Economics,
		notifier: notifier,
		now:      nowFunc(opts.Now),
	}
}

func dayStatsFrom(row models.DailyRevenue) DayStats {
	return DayStats{
		Date:        row.Date.Format("2006-01-02"),
		AdViews:     row.AdViews,
		Revenue:     utils.Money(row.Revenue),
		PaidOut:     utils.Money(row.PaidOut),
		Profit:      utils.Money(row.Profit),
		ActiveUsers: row.ActiveUsers,
	}
}

// Stats serves the dashboard from cache when possible.
func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	var cached AdminStats
	found, err := GetFromRedis(ctx, s.redis, StatsCacheKey, &cached)
	if err != nil {
		s.logger.Error("❌ failed to read stats cache: %v", err)
	}
	if found {
		return &cached, nil
	}
	return s.RefreshStatsCache(ctx)
}

// RefreshStatsCache recomputes the stats and stores them in Redis.
func (s *AdminService) RefreshStatsCache(ctx context.Context) (*AdminStats, error) {
	stats, err := s.ComputeStats(ctx)
	if err != nil {
		return nil, err
	}
	if err := SetToRedis(ctx, s.redis, StatsCacheKey, stats, StatsCacheTTL); err != nil {
		s.logger.Error("❌ failed to write stats cache: %v", err)
	}
	return stats, nil
}

// InvalidateStats drops the cached dashboard so the next read recomputes it.
func (s *AdminService) InvalidateStats(ctx context.Context) {
	if err := DeleteFromRedis(ctx, s.redis, StatsCacheKey); err != nil {
		s.logger.Error("❌ failed to invalidate stats cache: %v", err)
	}
}

// ComputeStats always reads from the store.
func (s *AdminService) ComputeStats(ctx context.Context) (*AdminStats, error) {
	db := s.db.WithContext(ctx)
	now := s.now().UTC()
	key := dayKey(now, s.econ.Location)
	start, end := dayBounds(now, s.econ.Location)

	stats := &AdminStats{GeneratedAt: now}

	var today models.DailyRevenue
	err := db.Where("date = ?", key).First(&today).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		today = models.DailyRevenue{Date: key}
	case err != nil:
		return nil, apperrors.DB("failed to load today's revenue", err)
	}
	stats.Today = dayStatsFrom(today)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, apperrors.DB("failed to count users", err)
	}

	if err := db.Model(&models.AdView{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Distinct("user_id").
		Count(&stats.ActiveUsersToday).Error; err != nil {
		return nil, apperrors.DB("failed to count active users", err)
	}

	var pending struct {
		Count  int64
		Amount decimal.Decimal
	}
	if err := db.Model(&models.Withdrawal{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("status = ?", constants.WithdrawalStatusPending).
		Scan(&pending).Error; err != nil {
		return nil, apperrors.DB("failed to sum pending withdrawals", err)
	}
	stats.PendingWithdrawals = PendingStats{Count: pending.Count, Amount: utils.Money(pending.Amount)}

	var totals struct {
		Revenue decimal.Decimal
		PaidOut decimal.Decimal
		Profit  decimal.Decimal
	}
	if err := db.Model(&models.DailyRevenue{}).
		Select("COALESCE(SUM(revenue), 0) AS revenue, COALESCE(SUM(paid_out), 0) AS paid_out, COALESCE(SUM(profit), 0) AS profit").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.DB("failed to sum revenue", err)
	}
	stats.AllTime = TotalStats{
		Revenue: utils.Money(totals.Revenue),
		PaidOut: utils.Money(totals.PaidOut),
		Profit:  utils.Money(totals.Profit),
	}

	return stats, nil
}

// RevenueHistory returns the most recent days, newest first.
func (s *AdminService) RevenueHistory(ctx context.Context, days int) ([]DayStats, error) {
	if days <= 0 {
		days = 30
	}
	if days > maxRevenueDays {
		days = maxRevenueDays
	}

	var rows []models.DailyRevenue
	if err := s.db.WithContext(ctx).Order("date DESC").Limit(days).Find(&rows).Error; err != nil {
		return nil, apperrors.DB("failed to load revenue history", err)
	}

	out := make([]DayStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, dayStatsFrom(row))
	}
	return out, nil
}

// DayRevenue loads one day's aggregate. A day without views yields a zero row.
func (s *AdminService) DayRevenue(ctx context.Context, day time.Time) (*models.DailyRevenue, error) {
	key := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	var row models.DailyRevenue
	err := s.db.WithContext(ctx).Where("date = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.DailyRevenue{Date: key}, nil
	}
	if err != nil {
		return nil, apperrors.DB("failed to load daily revenue", err)
	}
	return &row, nil
}

// ListUsers filters by status and a diacritic-insensitive substring of username or email.
// When a query matches nothing, close usernames are offered as suggestions.
func (s *AdminService) ListUsers(ctx context.Context, filter UserFilter) (*UserSearchResult, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)
	db := s.db.WithContext(ctx)

	query := db.Model(&models.User{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	q := normalizeSearch(filter.Query)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	result := &UserSearchResult{}
	if err := query.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return nil, apperrors.DB("failed to count users", err)
	}
	if err := query.Session(&gorm.Session{}).
		Order("id ASC").
		Offset(page * limit).Limit(limit).
		Find(&result.Users).Error; err != nil {
		return nil, apperrors.DB("failed to list users", err)
	}

	if result.Total == 0 && q != "" {
		var usernames []string
		if err := db.Model(&models.User{}).Order("id DESC").Limit(maxSuggestionPool).
			Pluck("username", &usernames).Error; err != nil {
			return nil, apperrors.DB("failed to load usernames", err)
		}
		result.Suggestions = suggest(q, usernames, 5)
	}
	return result, nil
}

// SetUserStatus activates or suspends an account.
func (s *AdminService) SetUserStatus(ctx context.Context, userID uint, status string) (*models.User, error) {
	if !constants.IsValidUserStatus(status) {
		return nil, apperrors.Validation("status must be active or suspended")
	}

	db := s.db.WithContext(ctx)
	res := db.Model(&models.User{}).Where("id = ?", userID).Update("status", status)
	if res.Error != nil {
		return nil, apperrors.DB("failed to update user status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, apperrors.DB("failed to reload user", err)
	}
	s.logger.Info("✅ user %d status set to %s", userID, status)
	return &user, nil
}

// Broadcast pushes an announcement to every connected websocket session.
func (s *AdminService) Broadcast(message string) error {
	payload := notification.NewMessageBuilder("announcement").Message("%s", message).Build()
	if err := s.notifier.SendMessage(payload); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
