// Package deeplink converts navigation targets to and from URIs of the form
//
//	scheme://host/<screen>?k1=v1&k2=v2
//
// Parameter order is preserved in both directions and values are
// percent-encoded (spaces become %20, never '+'). Decoding never panics; every
// failure is a *ParseError that matches domain.ErrMalformedLink.
package deeplink

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/pkg/validate"
)

// ParseError reports why a URI could not be decoded into a target.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse deep link %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return domain.ErrMalformedLink }

// Codec encodes and decodes targets for one scheme/host pair.
type Codec struct {
	scheme string
	host   string
}

// New returns a codec for links rooted at scheme://host/.
func New(scheme, host string) *Codec {
	return &Codec{scheme: strings.ToLower(scheme), host: host}
}

// Prefix returns the scheme://host/ prefix every encoded link starts with.
func (c *Codec) Prefix() string {
	return c.scheme + "://" + c.host + "/"
}

// Encode renders t as a URI.
func (c *Codec) Encode(t domain.DeepLinkTarget) (string, error) {
	if err := Validate(t); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(c.Prefix())
	b.WriteString(url.PathEscape(t.Screen))
	for i, p := range t.Params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(escapeValue(p.Value))
	}
	return b.String(), nil
}

// MustEncode is Encode for targets known to be valid at compile time.
func (c *Codec) MustEncode(t domain.DeepLinkTarget) string {
	s, err := c.Encode(t)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode parses a URI produced by Encode (or any equivalent encoder).
func (c *Codec) Decode(uri string) (domain.DeepLinkTarget, error) {
	fail := func(format string, args ...any) (domain.DeepLinkTarget, error) {
		return domain.DeepLinkTarget{}, &ParseError{Input: uri, Reason: fmt.Sprintf(format, args...)}
	}

	u, err := url.Parse(uri)
	if err != nil {
		return fail("invalid uri")
	}
	if !strings.EqualFold(u.Scheme, c.scheme) || !strings.EqualFold(u.Host, c.host) || u.Opaque != "" {
		return fail("expected prefix %s", c.Prefix())
	}
	if u.User != nil {
		return fail("userinfo not allowed")
	}
	if u.Fragment != "" {
		return fail("fragment not allowed")
	}

	screen, err := url.PathUnescape(strings.TrimPrefix(u.EscapedPath(), "/"))
	if err != nil {
		return fail("bad screen escape")
	}
	if screen == "" {
		return fail("empty screen")
	}

	t := domain.DeepLinkTarget{Screen: screen}
	if u.RawQuery == "" {
		return t, nil
	}
	seen := make(map[string]struct{})
	for _, seg := range strings.Split(u.RawQuery, "&") {
		rawKey, rawVal, ok := strings.Cut(seg, "=")
		if !ok {
			return fail("query segment %q has no '='", seg)
		}
		key, err := url.PathUnescape(rawKey)
		if err != nil {
			return fail("bad key escape in %q", seg)
		}
		if !validate.IsQueryKey(key) {
			return fail("invalid key %q", key)
		}
		if _, dup := seen[key]; dup {
			return fail("duplicate key %q", key)
		}
		seen[key] = struct{}{}
		val, err := url.PathUnescape(rawVal)
		if err != nil {
			return fail("bad value escape for %q", key)
		}
		t.Params = append(t.Params, domain.Param{Key: key, Value: val})
	}
	return t, nil
}

// Validate checks that t can be encoded: non-empty screen, unique query-identifier keys.
func Validate(t domain.DeepLinkTarget) error {
	if t.Screen == "" {
		return fmt.Errorf("target has empty screen: %w", domain.ErrMalformedLink)
	}
	seen := make(map[string]struct{}, len(t.Params))
	for _, p := range t.Params {
		if !validate.IsQueryKey(p.Key) {
			return fmt.Errorf("target param key %q: %w", p.Key, domain.ErrMalformedLink)
		}
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("target param key %q repeated: %w", p.Key, domain.ErrMalformedLink)
		}
		seen[p.Key] = struct{}{}
	}
	return nil
}

func escapeValue(v string) string {
	// QueryEscape already turns a literal '+' into %2B, so every '+' left is a space.
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
