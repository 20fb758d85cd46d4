package jobs

import (
	"context"
	"time"

	"rewards/models"
	"rewards/services"
	"rewards/services/logger"
	"rewards/utils"

	"github.com/robfig/cron/v3"
)

const (
	StatsRefreshSchedule = "@every 1m"
	DailyReportSchedule  = "5 0 * * *"
	jobTimeout           = 30 * time.Second
)

// StatsRefresher định nghĩa interface cho việc làm mới cache thống kê
type StatsRefresher interface {
	RefreshStatsCache(ctx context.Context) (*services.AdminStats, error)
}

// RevenueReader loads one day's aggregate.
type RevenueReader interface {
	DayRevenue(ctx context.Context, day time.Time) (*models.DailyRevenue, error)
}

type Jobs struct {
	Stats    StatsRefresher
	Revenue  RevenueReader
	Logger   logger.Logger
	Location *time.Location
	Now      func() time.Time
}

func (j Jobs) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// RefreshStats recomputes the admin dashboard cache.
func (j Jobs) RefreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := j.Stats.RefreshStatsCache(ctx); err != nil {
		j.Logger.Error("❌ Lỗi khi làm mới cache thống kê: %v", err)
		return
	}
	j.Logger.Debug("stats cache refreshed")
}

// ReportYesterday logs the aggregate of the previous calendar day.
func (j Jobs) ReportYesterday() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	loc := j.Location
	if loc == nil {
		loc = time.UTC
	}
	yesterday := j.now().In(loc).AddDate(0, 0, -1)

	row, err := j.Revenue.DayRevenue(ctx, yesterday)
	if err != nil {
		j.Logger.Error("❌ Lỗi khi đọc doanh thu ngày %s: %v", yesterday.Format("2006-01-02"), err)
		return
	}
	j.Logger.Info("✅ revenue %s: views=%d revenue=%s paid_out=%s profit=%s",
		row.Date.Format("2006-01-02"), row.AdViews,
		utils.MoneyString(row.Revenue), utils.MoneyString(row.PaidOut), utils.MoneyString(row.Profit))
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, j Jobs) error {
	if _, err := c.AddFunc(StatsRefreshSchedule, j.RefreshStats); err != nil {
		return err
	}
	// Chạy lúc 0h05 mỗi ngày
	if _, err := c.AddFunc(DailyReportSchedule, j.ReportYesterday); err != nil {
		return err
	}

	c.Start()
	j.Logger.Info("✅ Cron jobs initialized successfully")
	return nil
}
