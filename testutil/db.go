package testutil

import (
	"testing"
	"time"

	"rewards/config"
	"rewards/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database that lives for the duration of t.
// Foreign keys are enforced so the cascade rules behave as on postgres.
// A single connection keeps every query on the same in-memory database and
// serializes transactions the way row locks would.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

var seq int

// CreateUser inserts an active user. Balance is given as a decimal string.
func CreateUser(t testing.TB, db *gorm.DB, username, balance string, referredBy *uint) *models.User {
	t.Helper()
	seq++
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "x",
		Balance:      decimal.RequireFromString(balance),
		TotalEarned:  decimal.RequireFromString(balance),
		ReferralCode: code(seq),
		ReferredBy:   referredBy,
		Status:       "active",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

func code(n int) string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	b := []byte("TEST0000")
	for i := 7; i >= 4 && n > 0; i-- {
		b[i] = alphabet[n%len(alphabet)]
		n /= len(alphabet)
	}
	return string(b)
}

// Clock is a settable time source for services.
type Clock struct {
	T time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{T: t.UTC()}
}

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }
