package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	TagOTPCode        = "otpcode"
	TagStrongPassword = "strongpassword"

	MinPasswordLength = 8
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpCodePattern = regexp.MustCompile(`^\d{6}$`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`\d`)
)

func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs json field naming and the custom tags on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(TagOTPCode, otpCodeValidator); err != nil {
		log.Fatal("register otpcode validator failed")
	}
	if err := v.RegisterValidation(TagStrongPassword, strongPasswordValidator); err != nil {
		log.Fatal("register strongpassword validator failed")
	}
}

var otpCodeValidator validator.Func = func(fl validator.FieldLevel) bool {
	return IsOTPCode(fl.Field().String())
}

var strongPasswordValidator validator.Func = func(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsEmailValid reports whether email looks like local@domain.tld.
func IsEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

func IsOTPCode(code string) bool {
	return otpCodePattern.MatchString(code)
}

// IsStrongPassword requires at least MinPasswordLength characters with a
// lowercase letter, an uppercase letter and a digit.
func IsStrongPassword(password string) bool {
	if len([]rune(password)) < MinPasswordLength {
		return false
	}

	return lowerPattern.MatchString(password) &&
		upperPattern.MatchString(password) &&
		digitPattern.MatchString(password)
}

// NormalizeEmail trims and lower-cases an address so one mailbox maps to one key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimFunc(email, unicode.IsSpace))
}
