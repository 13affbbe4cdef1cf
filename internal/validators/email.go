package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// Resolver is the part of *net.Resolver used to check mail domains.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// EmailDomains rejects sign-ups whose address domain cannot receive mail.
type EmailDomains struct {
	Resolver Resolver
	Timeout  time.Duration
}

func NewEmailDomains() *EmailDomains {
	return &EmailDomains{Resolver: net.DefaultResolver, Timeout: 3 * time.Second}
}

// DomainOf returns the lower-cased part after the last "@".
func DomainOf(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	return strings.ToLower(email[at+1:]), true
}

// Valid reports whether the domain has an MX record or, failing that, resolves
// to an address.
func (v *EmailDomains) Valid(ctx context.Context, email string) bool {
	domain, ok := DomainOf(email)
	if !ok {
		return false
	}

	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	if mx, err := v.Resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if hosts, err := v.Resolver.LookupHost(ctx, domain); err == nil && len(hosts) > 0 {
		return true
	}
	return false
}
