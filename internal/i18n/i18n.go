// Package i18n holds the user-facing notices of the session flows in English and
// Vietnamese, backed by a golang.org/x/text message catalog.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a notice in the catalog.
type Key string

const (
	LoginSuccess          Key = "login.success"
	LoginFailed           Key = "login.failed"
	InvalidCredentials    Key = "login.invalid_credentials"
	OTPSessionMissing     Key = "otp.session_missing"
	OTPSuccess            Key = "otp.success"
	OTPFailed             Key = "otp.failed"
	FieldsRequired        Key = "form.fields_required"
	PasswordTooShort      Key = "password.too_short"
	PasswordMustDiffer    Key = "password.must_differ"
	PasswordsDontMatch    Key = "password.mismatch"
	ChangePasswordSuccess Key = "password.change_success"
	ChangePasswordFailed  Key = "password.change_failed"
	PleaseLogIn           Key = "session.please_log_in"
	LoggedOut             Key = "session.logged_out"
	RegisterSuccess       Key = "register.success"
	RegisterFailed        Key = "register.failed"
	RequestOTPSuccess     Key = "recovery.request_success"
	RequestOTPFailed      Key = "recovery.request_failed"
	ResetPasswordSuccess  Key = "recovery.reset_success"
	ResetPasswordFailed   Key = "recovery.reset_failed"
	RecoveryNotStarted    Key = "recovery.not_started"
	NetworkFailure        Key = "network.failure"
	RequestFailed         Key = "request.failed"
)

var entries = map[Key][2]string{
	LoginSuccess:          {"Logged in. Enter the OTP sent to you.", "Đăng nhập thành công!"},
	LoginFailed:           {"Login failed!", "Đăng nhập thất bại!"},
	InvalidCredentials:    {"Incorrect username or password!", "Tài khoản hoặc mật khẩu không đúng!"},
	OTPSessionMissing:     {"Session not found. Please log in again!", "Không tìm thấy sessionId. Vui lòng đăng nhập lại!"},
	OTPSuccess:            {"OTP verified.", "Xác thực OTP thành công!"},
	OTPFailed:             {"OTP verification failed!", "Xác thực OTP thất bại!"},
	FieldsRequired:        {"Please fill in all fields!", "Vui lòng điền đầy đủ thông tin!"},
	PasswordTooShort:      {"The new password must be at least 6 characters!", "Mật khẩu mới phải có ít nhất 6 ký tự!"},
	PasswordMustDiffer:    {"The new password must differ from the old password!", "Mật khẩu mới phải khác mật khẩu cũ!"},
	PasswordsDontMatch:    {"Passwords do not match!", "Mật khẩu xác nhận không khớp!"},
	ChangePasswordSuccess: {"Password changed. Please log in again.", "Đổi mật khẩu thành công!"},
	ChangePasswordFailed:  {"Could not change the password.", "Đổi mật khẩu thất bại"},
	PleaseLogIn:           {"Please log in!", "Vui lòng đăng nhập!"},
	LoggedOut:             {"Logged out.", "Đã đăng xuất."},
	RegisterSuccess:       {"Registration successful!", "Đăng ký thành công!"},
	RegisterFailed:        {"Registration failed!", "Đăng ký thất bại!"},
	RequestOTPSuccess:     {"OTP sent.", "Gửi OTP thành công"},
	RequestOTPFailed:      {"Could not send the OTP.", "Không thể gửi OTP"},
	ResetPasswordSuccess:  {"Password reset.", "Đặt lại mật khẩu thành công"},
	ResetPasswordFailed:   {"Could not reset the password.", "Không thể reset mật khẩu"},
	RecoveryNotStarted:    {"Request an OTP first.", "Vui lòng yêu cầu mã OTP trước."},
	NetworkFailure:        {"An unexpected error occurred!", "Đã xảy ra lỗi không mong đợi!"},
	RequestFailed:         {"The request failed.", "Yêu cầu thất bại."},
}

var supported = []language.Tag{language.English, language.Vietnamese}

var (
	matcher = language.NewMatcher(supported)
	builder = newCatalog()
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range entries {
		// SetString only fails for malformed messages; the table is static.
		_ = b.SetString(language.English, string(key), text[0])
		_ = b.SetString(language.Vietnamese, string(key), text[1])
	}
	return b
}

// Localizer renders notices for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for lang ("en", "vi", "vi-VN", ...). Unknown languages get English.
func New(lang string) *Localizer {
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, index, confidence := matcher.Match(parsed)
		if confidence != language.No {
			tag = supported[index]
		}
	}
	return &Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(builder))}
}

// Language is the matched language tag.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// T renders the notice for key.
func (l *Localizer) T(key Key) string {
	return l.printer.Sprintf(string(key))
}
