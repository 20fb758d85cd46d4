package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rewards/config"
	"rewards/constants"
	apperrors "rewards/errors"
	"rewards/models"
	"rewards/monitoring"
	"rewards/services/logger"
	"rewards/services/notification"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const WithdrawalDisclaimer = "Withdrawal request submitted. Processing usually takes 3-5 business days."

type WithdrawalInput struct {
	UserID uint
	Method string
	Email  string
}

// ProcessInput carries an administrative status change. Nil fields are left untouched.
type ProcessInput struct {
	ID            uint
	Status        string
	TransactionID *string
	Notes         *string
}

type WithdrawalFilter struct {
	UserID uint
	Status string
	Page   int
	Limit  int
}

type WithdrawalService struct {
	db       *gorm.DB
	logger   logger.Logger
	econ     config.Economics
	notifier notification.Service
	now      func() time.Time
}

type WithdrawalServiceOptions struct {
	DB        *gorm.DB
	Logger    logger.Logger
	Economics config.Economics
	Notifier  notification.Service
	Now       func() time.Time
}

func NewWithdrawalService(opts WithdrawalServiceOptions) *WithdrawalService {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notification.NopService{}
	}
	return &WithdrawalService{
		db:       opts.DB,
		logger:   opts.Logger,
		econ:     opts.Economics,
		notifier: notifier,
		now:      nowFunc(opts.Now),
	}
}

func normalizeMethod(method string) (string, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	switch method {
	case "":
		return constants.WithdrawalMethodPaypal, nil
	case constants.WithdrawalMethodPaypal, constants.WithdrawalMethodBankTransfer:
		return method, nil
	default:
		return "", apperrors.Validation("method must be paypal or bank_transfer")
	}
}

// Request sweeps the user's whole balance into a new pending withdrawal.
func (s *WithdrawalService) Request(ctx context.Context, in WithdrawalInput) (*models.Withdrawal, error) {
	method, err := normalizeMethod(in.Method)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var created models.Withdrawal

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, in.UserID)
		if err != nil {
			return err
		}

		if user.Balance.LessThan(s.econ.MinWithdrawal) {
			return apperrors.NewAppError(apperrors.ErrCodeBelowMinimum,
				fmt.Sprintf("Minimum withdrawal is %s", s.econ.MinWithdrawal.StringFixed(2)), nil)
		}

		var pending int64
		if err := tx.Model(&models.Withdrawal{}).
			Where("user_id = ? AND status = ?", user.ID, constants.WithdrawalStatusPending).
			Count(&pending).Error; err != nil {
			return apperrors.DB("failed to check pending withdrawals", err)
		}
		if pending > 0 {
			return apperrors.ErrPendingWithdrawal
		}

		email := strings.TrimSpace(in.Email)
		if email == "" {
			email = user.PaypalEmail
		}
		if method == constants.WithdrawalMethodPaypal && email == "" {
			return apperrors.ErrMissingDestination
		}

		amount := user.Balance
		if err := tx.Model(user).Update("balance", decimal.Zero).Error; err != nil {
			return apperrors.DB("failed to reset balance", err)
		}

		created = models.Withdrawal{
			UserID:    user.ID,
			Amount:    amount,
			Method:    method,
			Email:     email,
			Status:    constants.WithdrawalStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrPendingWithdrawal
			}
			return apperrors.DB("failed to create withdrawal", err)
		}
		return nil
	})

	monitoring.WithdrawalRequestsTotal.WithLabelValues(monitoring.Outcome(err)).Inc()
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			s.logger.Error("❌ withdrawal request failed for user %d: %v", in.UserID, err)
		}
		return nil, err
	}

	s.logger.Info("✅ user %d requested withdrawal #%d of %s via %s",
		in.UserID, created.ID, created.Amount.StringFixed(2), created.Method)
	return &created, nil
}

// Process applies an administrative status change. The status value is trusted as given.
func (s *WithdrawalService) Process(ctx context.Context, in ProcessInput) (*models.Withdrawal, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, apperrors.Validation("status is required")
	}

	now := s.now().UTC()
	var withdrawal models.Withdrawal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&withdrawal, in.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrWithdrawalNotFound
		}
		if err != nil {
			return apperrors.DB("failed to load withdrawal", err)
		}

		updates := map[string]interface{}{"status": status}
		withdrawal.Status = status
		if in.TransactionID != nil {
			updates["transaction_id"] = *in.TransactionID
			withdrawal.TransactionID = *in.TransactionID
		}
		if in.Notes != nil {
			updates["notes"] = *in.Notes
			withdrawal.Notes = *in.Notes
		}
		if status != constants.WithdrawalStatusPending {
			updates["processed_at"] = now
			withdrawal.ProcessedAt = &now
		} else {
			// Chuyển lại pending thì xóa mốc xử lý cũ
			updates["processed_at"] = nil
			withdrawal.ProcessedAt = nil
		}

		if err := tx.Model(&models.Withdrawal{}).Where("id = ?", withdrawal.ID).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrPendingWithdrawal
			}
			return apperrors.DB("failed to update withdrawal", err)
		}

		note := models.Notification{
			UserID:    withdrawal.UserID,
			Message:   fmt.Sprintf("Your withdrawal #%d of %s is now %s.", withdrawal.ID, withdrawal.Amount.StringFixed(2), status),
			CreatedAt: now,
		}
		if err := tx.Create(&note).Error; err != nil {
			return apperrors.DB("failed to store notification", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			s.logger.Error("❌ processing withdrawal %d failed: %v", in.ID, err)
		}
		return nil, err
	}

	message := notification.NewMessageBuilder("withdrawal.updated").
		Message("Your withdrawal #%d is now %s.", withdrawal.ID, withdrawal.Status).
		With("withdrawalId", withdrawal.ID).
		With("status", withdrawal.Status).
		With("amount", withdrawal.Amount.StringFixed(2)).
		Build()
	if err := s.notifier.SendToUser(withdrawal.UserID, message); err != nil {
		s.logger.Error("❌ failed to notify user %d: %v", withdrawal.UserID, err)
	}

	s.logger.Info("✅ withdrawal #%d set to %s", withdrawal.ID, withdrawal.Status)
	return &withdrawal, nil
}

// ListForUser returns a user's withdrawals, newest first.
func (s *WithdrawalService) ListForUser(ctx context.Context, userID uint, page, limit int) ([]models.Withdrawal, int64, error) {
	return s.List(ctx, WithdrawalFilter{UserID: userID, Page: page, Limit: limit})
}

// List is the admin view; it preloads the owning user.
func (s *WithdrawalService) List(ctx context.Context, filter WithdrawalFilter) ([]models.Withdrawal, int64, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	query := s.db.WithContext(ctx).Model(&models.Withdrawal{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.DB("failed to count withdrawals", err)
	}

	var withdrawals []models.Withdrawal
	if err := query.Session(&gorm.Session{}).Preload("User").
		Order("created_at DESC").Order("id DESC").
		Offset(page * limit).Limit(limit).
		Find(&withdrawals).Error; err != nil {
		return nil, 0, apperrors.DB("failed to list withdrawals", err)
	}
	return withdrawals, total, nil
}
