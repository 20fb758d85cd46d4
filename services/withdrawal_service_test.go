package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"rewards/config"
	"rewards/constants"
	apperrors "rewards/errors"
	"rewards/models"
	"rewards/services/logger"
	"rewards/testutil"

	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu        sync.Mutex
	broadcast []string
	direct    map[uint][]string
}

func (r *recordingNotifier) SendMessage(message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcast = append(r.broadcast, message)
	return nil
}

func (r *recordingNotifier) SendToUser(userID uint, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.direct == nil {
		r.direct = make(map[uint][]string)
	}
	r.direct[userID] = append(r.direct[userID], message)
	return nil
}

func newWithdrawals(t *testing.T) (*WithdrawalService, *gorm.DB, *recordingNotifier, *testutil.Clock) {
	t.Helper()
	db := testutil.NewDB(t)
	clock := testutil.NewClock(time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC))
	notifier := &recordingNotifier{}
	svc := NewWithdrawalService(WithdrawalServiceOptions{
		DB:        db,
		Logger:    logger.Nop(),
		Economics: config.DefaultEconomics(),
		Notifier:  notifier,
		Now:       clock.Now,
	})
	return svc, db, notifier, clock
}

func TestWithdrawalThreshold(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		code    apperrors.ErrorCode
	}{
		{"just below minimum", "4.99", apperrors.ErrCodeBelowMinimum},
		{"exactly minimum", "5.00", ""},
		{"above minimum", "12.3456", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db, _, _ := newWithdrawals(t)
			user := testutil.CreateUser(t, db, "payee", tt.balance, nil)

			w, err := svc.Request(context.Background(), WithdrawalInput{UserID: user.ID, Email: "payee@paypal.test"})
			if tt.code != "" {
				if !apperrors.HasCode(err, tt.code) {
					t.Fatalf("err = %v, want %s", err, tt.code)
				}
				if !strings.Contains(err.Error(), "5.00") {
					t.Errorf("message %q does not name the minimum", err.Error())
				}
				assertMoney(t, "balance untouched", reloadUser(t, db, user.ID).Balance, tt.balance)
				return
			}
			if err != nil {
				t.Fatalf("Request: %v", err)
			}
			assertMoney(t, "amount", w.Amount, tt.balance)
			if w.Status != constants.WithdrawalStatusPending || w.Method != constants.WithdrawalMethodPaypal {
				t.Errorf("withdrawal = %+v", w)
			}
			assertMoney(t, "balance after sweep", reloadUser(t, db, user.ID).Balance, "0")
		})
	}
}

func TestSecondWithdrawalRejectedWhilePending(t *testing.T) {
	svc, db, _, _ := newWithdrawals(t)
	user := testutil.CreateUser(t, db, "nina", "8.00", nil)
	ctx := context.Background()

	if _, err := svc.Request(ctx, WithdrawalInput{UserID: user.ID, Email: "nina@paypal.test"}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	// Refill so the minimum check passes and the pending check is what rejects.
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("balance", dec("6.00"))

	_, err := svc.Request(ctx, WithdrawalInput{UserID: user.ID, Email: "nina@paypal.test"})
	if !apperrors.HasCode(err, apperrors.ErrCodePendingWithdrawal) {
		t.Fatalf("err = %v, want PENDING_WITHDRAWAL_EXISTS", err)
	}
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("kind = %v, want conflict", apperrors.KindOf(err))
	}
	assertMoney(t, "balance", reloadUser(t, db, user.ID).Balance, "6.00")

	var count int64
	db.Model(&models.Withdrawal{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("withdrawals = %d, want 1", count)
	}
}

func TestSecondWithdrawalWithEmptyBalanceIsBelowMinimum(t *testing.T) {
	svc, db, _, _ := newWithdrawals(t)
	user := testutil.CreateUser(t, db, "oscar", "5.50", nil)
	ctx := context.Background()

	if _, err := svc.Request(ctx, WithdrawalInput{UserID: user.ID, Email: "o@paypal.test"}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := svc.Request(ctx, WithdrawalInput{UserID: user.ID, Email: "o@paypal.test"})
	if !apperrors.HasCode(err, apperrors.ErrCodeBelowMinimum) {
		t.Fatalf("err = %v, want BELOW_MINIMUM", err)
	}
}

func TestWithdrawalDestination(t *testing.T) {
	svc, db, _, _ := newWithdrawals(t)
	ctx := context.Background()

	noEmail := testutil.CreateUser(t, db, "pat", "7.00", nil)
	_, err := svc.Request(ctx, WithdrawalInput{UserID: noEmail.ID})
	if !apperrors.HasCode(err, apperrors.ErrCodeMissingDestination) {
		t.Fatalf("err = %v, want MISSING_DESTINATION", err)
	}
	assertMoney(t, "balance untouched", reloadUser(t, db, noEmail.ID).Balance, "7.00")

	saved := testutil.CreateUser(t, db, "quinn", "7.00", nil)
	db.Model(saved).Update("paypal_email", "quinn@paypal.test")
	w, err := svc.Request(ctx, WithdrawalInput{UserID: saved.ID})
	if err != nil {
		t.Fatalf("Request with saved email: %v", err)
	}
	if w.Email != "quinn@paypal.test" {
		t.Errorf("email = %q, want saved paypal email", w.Email)
	}

	bank := testutil.CreateUser(t, db, "rita", "7.00", nil)
	w, err = svc.Request(ctx, WithdrawalInput{UserID: bank.ID, Method: "bank_transfer"})
	if err != nil {
		t.Fatalf("bank transfer without email: %v", err)
	}
	if w.Method != constants.WithdrawalMethodBankTransfer {
		t.Errorf("method = %q", w.Method)
	}

	if _, err := svc.Request(ctx, WithdrawalInput{UserID: bank.ID, Method: "crypto"}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("unknown method err = %v, want validation", err)
	}
	if _, err := svc.Request(ctx, WithdrawalInput{UserID: 777}); !apperrors.HasCode(err, apperrors.ErrCodeUserNotFound) {
		t.Errorf("unknown user err = %v", err)
	}
}

func TestProcessWithdrawal(t *testing.T) {
	svc, db, notifier, clock := newWithdrawals(t)
	user := testutil.CreateUser(t, db, "sam", "9.00", nil)
	ctx := context.Background()

	w, err := svc.Request(ctx, WithdrawalInput{UserID: user.ID, Email: "sam@paypal.test"})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if w.ProcessedAt != nil {
		t.Fatal("pending withdrawal has processed_at")
	}

	clock.Advance(48 * time.Hour)
	txID := "PAYPAL-123"
	notes := "paid"
	processed, err := svc.Process(ctx, ProcessInput{ID: w.ID, Status: constants.WithdrawalStatusCompleted, TransactionID: &txID, Notes: &notes})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if processed.ProcessedAt == nil || !processed.ProcessedAt.Equal(clock.Now()) {
		t.Errorf("processed_at = %v, want %v", processed.ProcessedAt, clock.Now())
	}

	var stored models.Withdrawal
	db.First(&stored, w.ID)
	if stored.Status != constants.WithdrawalStatusCompleted || stored.TransactionID != txID || stored.Notes != notes {
		t.Errorf("stored = %+v", stored)
	}
	if stored.ProcessedAt == nil {
		t.Error("stored processed_at is nil")
	}

	if got := len(notifier.direct[user.ID]); got != 1 {
		t.Errorf("websocket notifications = %d, want 1", got)
	}
	var inbox int64
	db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&inbox)
	if inbox != 1 {
		t.Errorf("stored notifications = %d, want 1", inbox)
	}

	assertMoney(t, "balance", reloadUser(t, db, user.ID).Balance, "0")
}

func TestProcessBackToPendingClearsProcessedAt(t *testing.T) {
	svc, db, _, clock := newWithdrawals(t)
	user := testutil.CreateUser(t, db, "tom", "5.005", nil)
	ctx := context.Background()

	w, err := svc.Request(ctx, WithdrawalInput{UserID: user.ID, Email: "tom@paypal.test"})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	tests := []struct {
		status    string
		processed bool
	}{
		{constants.WithdrawalStatusPending, false},
		{constants.WithdrawalStatusCompleted, true},
		{constants.WithdrawalStatusPending, false},
		{constants.WithdrawalStatusFailed, true},
		{constants.WithdrawalStatusPending, false},
	}
	for i, tt := range tests {
		clock.Advance(time.Hour)
		got, err := svc.Process(ctx, ProcessInput{ID: w.ID, Status: tt.status})
		if err != nil {
			t.Fatalf("step %d Process(%s): %v", i, tt.status, err)
		}
		if (got.ProcessedAt != nil) != tt.processed {
			t.Errorf("step %d %s: returned processed_at = %v", i, tt.status, got.ProcessedAt)
		}

		var stored models.Withdrawal
		db.First(&stored, w.ID)
		if stored.Status != tt.status || (stored.ProcessedAt != nil) != tt.processed {
			t.Errorf("step %d %s: stored status=%s processed_at=%v", i, tt.status, stored.Status, stored.ProcessedAt)
		}
	}
}

func TestProcessUnknownWithdrawal(t *testing.T) {
	svc, _, notifier, _ := newWithdrawals(t)
	_, err := svc.Process(context.Background(), ProcessInput{ID: 404, Status: "completed"})
	if !apperrors.HasCode(err, apperrors.ErrCodeWithdrawalNotFound) {
		t.Fatalf("err = %v, want WITHDRAWAL_NOT_FOUND", err)
	}
	if len(notifier.direct) != 0 {
		t.Error("notification sent for unknown withdrawal")
	}
}

func TestListWithdrawals(t *testing.T) {
	svc, db, _, clock := newWithdrawals(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "uma", "5.00", nil)
	b := testutil.CreateUser(t, db, "vic", "6.00", nil)

	first, _ := svc.Request(ctx, WithdrawalInput{UserID: a.ID, Email: "a@paypal.test"})
	clock.Advance(time.Minute)
	second, _ := svc.Request(ctx, WithdrawalInput{UserID: b.ID, Email: "b@paypal.test"})
	if _, err := svc.Process(ctx, ProcessInput{ID: first.ID, Status: constants.WithdrawalStatusFailed}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	all, total, err := svc.List(ctx, WithdrawalFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("list = %d rows (total %d), first id %d", len(all), total, all[0].ID)
	}
	if all[0].User.Username != "vic" {
		t.Errorf("preloaded user = %q", all[0].User.Username)
	}

	pending, total, _ := svc.List(ctx, WithdrawalFilter{Status: constants.WithdrawalStatusPending})
	if total != 1 || pending[0].ID != second.ID {
		t.Errorf("pending filter returned %d rows", total)
	}

	mine, total, _ := svc.ListForUser(ctx, a.ID, 0, 10)
	if total != 1 || mine[0].ID != first.ID {
		t.Errorf("user list returned %d rows", total)
	}
}
