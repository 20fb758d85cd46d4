package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernameRegex     = regexp.MustCompile(`^[A-Za-z0-9_.]{3,32}$`)
	referralCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{6,16}$`)
	adTypeRegex       = regexp.MustCompile(`^[a-z][a-z0-9_]{0,19}$`)
)

// isValidUsername kiểm tra username hợp lệ
func isValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// isValidReferralCode kiểm tra mã giới thiệu hợp lệ
func isValidReferralCode(code string) bool {
	return referralCodeRegex.MatchString(code)
}

func isValidAdType(adType string) bool {
	return adTypeRegex.MatchString(adType)
}

// Register adds the custom tags to the validator used by gin's binding.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		"username":     isValidUsername,
		"referralcode": isValidReferralCode,
		"adtype":       isValidAdType,
	}
	for tag, fn := range rules {
		check := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}

var tagMessages = map[string]string{
	"required":     "is required",
	"email":        "must be a valid email",
	"min":          "is too short",
	"max":          "is too long",
	"oneof":        "must be one of: %s",
	"username":     "must be 3-32 letters, digits, '_' or '.'",
	"referralcode": "must be 6-16 letters or digits",
	"adtype":       "must be a lowercase identifier",
}

// Message turns a binding error into a short message for the client.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		if strings.Contains(msg, "%s") {
			msg = fmt.Sprintf(msg, fe.Param())
		}
		parts = append(parts, lowerFirst(fe.Field())+" "+msg)
	}
	return strings.Join(parts, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
