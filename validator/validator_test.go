package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type signup struct {
	Username string `validate:"required,username"`
	Code     string `validate:"omitempty,referralcode"`
	AdType   string `validate:"omitempty,adtype"`
	Method   string `validate:"omitempty,oneof=paypal bank_transfer"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatalf("RegisterOn: %v", err)
	}
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidate(t)
	tests := []struct {
		name  string
		input signup
		ok    bool
	}{
		{"valid", signup{Username: "an.nguyen_1", Code: "AB12CD34", AdType: "rewarded_video"}, true},
		{"short username", signup{Username: "ab"}, false},
		{"username with space", signup{Username: "an nguyen"}, false},
		{"referral code with dash", signup{Username: "ann", Code: "AB-12CD"}, false},
		{"uppercase ad type", signup{Username: "ann", AdType: "Video"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if (err == nil) != tt.ok {
				t.Errorf("err = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	v := newValidate(t)
	err := v.Struct(signup{Username: "", Method: "crypto"})
	msg := Message(err)
	if !strings.Contains(msg, "username is required") {
		t.Errorf("message %q lacks username", msg)
	}
	if !strings.Contains(msg, "method must be one of: paypal bank_transfer") {
		t.Errorf("message %q lacks method", msg)
	}

	if got := Message(errors.New("unexpected EOF")); got != "Invalid request body" {
		t.Errorf("non-validation message = %q", got)
	}
}
