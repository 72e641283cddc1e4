package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const domainLookupTimeout = 3 * time.Second

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailDomainResolves reports whether the domain after "@" has an MX
// record or, failing that, any address. Lookups give up after a few
// seconds.
func EmailDomainResolves(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(ctx, domainLookupTimeout)
	defer cancel()

	if mx, err := net.DefaultResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, domain)
	return err == nil && len(addrs) > 0
}
