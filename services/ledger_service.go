package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"rewards/config"
	"rewards/constants"
	apperrors "rewards/errors"
	"rewards/models"
	"rewards/monitoring"
	"rewards/services/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdCreditInput struct {
	UserID    uint
	AdType    string
	IPAddress string
	UserAgent string
}

type AdCreditResult struct {
	Earned          decimal.Decimal
	Balance         decimal.Decimal
	TotalEarned     decimal.Decimal
	AdsWatchedToday int64
	DailyLimit      int
	ReferralBonus   decimal.Decimal
	ReferrerID      *uint
}

type AdStatus struct {
	AdsWatchedToday   int64
	DailyLimit        int
	RemainingToday    int64
	CooldownRemaining time.Duration
}

type LedgerService struct {
	db     *gorm.DB
	logger logger.Logger
	econ   config.Economics
	now    func() time.Time
}

type LedgerServiceOptions struct {
	DB        *gorm.DB
	Logger    logger.Logger
	Economics config.Economics
	Now       func() time.Time
}

func NewLedgerService(opts LedgerServiceOptions) *LedgerService {
	return &LedgerService{
		db:     opts.DB,
		logger: opts.Logger,
		econ:   opts.Economics,
		now:    nowFunc(opts.Now),
	}
}

// CreditAd credits one ad view. Eligibility checks and every write run in a
// single transaction holding the user row lock; any failure leaves no trace.
func (s *LedgerService) CreditAd(ctx context.Context, in AdCreditInput) (*AdCreditResult, error) {
	adType := strings.TrimSpace(in.AdType)
	if adType == "" {
		adType = constants.DefaultAdType
	}

	now := s.now().UTC()
	start, end := dayBounds(now, s.econ.Location)
	result := &AdCreditResult{
		Earned:     s.econ.AdEarning,
		DailyLimit: s.econ.DailyAdLimit,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, in.UserID)
		if err != nil {
			return err
		}
		if !user.IsActive() {
			return apperrors.ErrAccountNotActive
		}

		var watched int64
		if err := tx.Model(&models.AdView{}).
			Where("user_id = ? AND created_at >= ? AND created_at < ?", user.ID, start, end).
			Count(&watched).Error; err != nil {
			return apperrors.DB("failed to count today's ad views", err)
		}
		if watched >= int64(s.econ.DailyAdLimit) {
			return apperrors.ErrDailyLimitReached
		}

		var recent int64
		if err := tx.Model(&models.AdView{}).
			Where("user_id = ? AND created_at > ?", user.ID, now.Add(-s.econ.AdCooldown)).
			Count(&recent).Error; err != nil {
			return apperrors.DB("failed to check ad cooldown", err)
		}
		if recent > 0 {
			return apperrors.ErrCooldownNotElapsed
		}

		user.Balance = user.Balance.Add(s.econ.AdEarning)
		user.TotalEarned = user.TotalEarned.Add(s.econ.AdEarning)
		if err := tx.Model(user).Updates(map[string]interface{}{
			"balance":      user.Balance,
			"total_earned": user.TotalEarned,
			"last_ad_date": now,
		}).Error; err != nil {
			return apperrors.DB("failed to credit user", err)
		}

		view := models.AdView{
			UserID:    user.ID,
			AdType:    truncate(adType, 32),
			Earning:   s.econ.AdEarning,
			Revenue:   s.econ.AdRevenue,
			IPAddress: truncate(in.IPAddress, 64),
			UserAgent: truncate(in.UserAgent, 512),
			CreatedAt: now,
		}
		if err := tx.Create(&view).Error; err != nil {
			return apperrors.DB("failed to record ad view", err)
		}

		if err := upsertDailyRevenue(tx, dayKey(now, s.econ.Location), s.econ, now); err != nil {
			return apperrors.DB("failed to update daily revenue", err)
		}

		if user.ReferredBy != nil {
			bonus, err := s.creditReferrer(tx, *user.ReferredBy, user.ID, now)
			if err != nil {
				return err
			}
			if bonus.IsPositive() {
				result.ReferralBonus = bonus
				result.ReferrerID = user.ReferredBy
			}
		}

		result.Balance = user.Balance
		result.TotalEarned = user.TotalEarned
		result.AdsWatchedToday = watched + 1
		return nil
	})

	monitoring.AdCreditsTotal.WithLabelValues(monitoring.Outcome(err)).Inc()
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			s.logger.Error("❌ ad credit failed for user %d: %v", in.UserID, err)
		}
		return nil, err
	}
	if result.ReferrerID != nil {
		monitoring.ReferralBonusesTotal.Inc()
	}

	s.logger.Info("✅ user %d credited %s for %s ad (%d/%d today)",
		in.UserID, result.Earned.StringFixed(2), adType, result.AdsWatchedToday, result.DailyLimit)
	return result, nil
}

// creditReferrer pays the referral bonus. The referrer row is locked after the
// referred user's row; referrers always predate the users they referred so
// this order never cycles.
func (s *LedgerService) creditReferrer(tx *gorm.DB, referrerID, referredID uint, now time.Time) (decimal.Decimal, error) {
	bonus := s.econ.ReferralBonus()
	if !bonus.IsPositive() {
		return decimal.Zero, nil
	}

	referrer, err := lockUser(tx, referrerID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		s.logger.Debug("referrer %d of user %d no longer exists", referrerID, referredID)
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}

	referrer.Balance = referrer.Balance.Add(bonus)
	if err := tx.Model(referrer).Update("balance", referrer.Balance).Error; err != nil {
		return decimal.Zero, apperrors.DB("failed to credit referrer", err)
	}

	earning := models.ReferralEarning{
		ReferrerID: referrerID,
		ReferredID: referredID,
		Amount:     bonus,
		CreatedAt:  now,
	}
	if err := tx.Create(&earning).Error; err != nil {
		return decimal.Zero, apperrors.DB("failed to record referral earning", err)
	}
	return bonus, nil
}

// upsertDailyRevenue opens the day's row on the first view and increments it afterwards.
// active_users grows by one per view, not per distinct user.
func upsertDailyRevenue(tx *gorm.DB, day time.Time, econ config.Economics, now time.Time) error {
	row := models.DailyRevenue{
		Date:        day,
		AdViews:     1,
		Revenue:     econ.AdRevenue,
		PaidOut:     econ.AdEarning,
		Profit:      econ.Profit(),
		ActiveUsers: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"ad_views":     gorm.Expr("daily_revenues.ad_views + ?", 1),
			"revenue":      gorm.Expr("daily_revenues.revenue + ?", econ.AdRevenue),
			"paid_out":     gorm.Expr("daily_revenues.paid_out + ?", econ.AdEarning),
			"profit":       gorm.Expr("daily_revenues.profit + ?", econ.Profit()),
			"active_users": gorm.Expr("daily_revenues.active_users + ?", 1),
			"updated_at":   now,
		}),
	}).Create(&row).Error
}

// Status reports today's progress and the remaining cooldown without taking locks.
func (s *LedgerService) Status(ctx context.Context, userID uint) (*AdStatus, error) {
	db := s.db.WithContext(ctx)
	now := s.now().UTC()
	start, end := dayBounds(now, s.econ.Location)

	var user models.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DB("failed to load user", err)
	}

	var watched int64
	if err := db.Model(&models.AdView{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Count(&watched).Error; err != nil {
		return nil, apperrors.DB("failed to count today's ad views", err)
	}

	status := &AdStatus{
		AdsWatchedToday: watched,
		DailyLimit:      s.econ.DailyAdLimit,
	}
	if remaining := int64(s.econ.DailyAdLimit) - watched; remaining > 0 {
		status.RemainingToday = remaining
	}

	var last models.AdView
	err := db.Where("user_id = ?", userID).Order("created_at DESC").First(&last).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, apperrors.DB("failed to load last ad view", err)
	default:
		if wait := last.CreatedAt.Add(s.econ.AdCooldown).Sub(now); wait > 0 {
			status.CooldownRemaining = wait
		}
	}
	return status, nil
}
