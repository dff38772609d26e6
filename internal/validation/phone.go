package validation

import "regexp"

// Mainland China mobile numbers: 11 digits, 1 then 3-9.
var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// DefaultNickname derives the registration-time display name from the last
// four digits of the phone number.
func DefaultNickname(phone string) string {
	suffix := phone
	if len(phone) >= 4 {
		suffix = phone[len(phone)-4:]
	}
	return "用户" + suffix
}
