package email

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

const maxLength = 254

// Normalize trims surrounding space and lowercases the domain part.
func Normalize(addr string) string {
	addr = strings.TrimSpace(addr)
	at := strings.LastIndexByte(addr, '@')
	if at < 0 {
		return addr
	}
	return addr[:at] + "@" + strings.ToLower(addr[at+1:])
}

// Valid reports whether addr is a syntactically valid email address.
func Valid(addr string) bool {
	addr = Normalize(addr)
	if addr == "" || len(addr) > maxLength {
		return false
	}
	return govalidator.IsEmail(addr)
}
