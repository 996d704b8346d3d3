// Package verification talks to the call-history service that confirms which
// appointments have documentation on file ("verified" appointments).
package verification

import (
	"context"
	"sort"
	"strings"
)

// Result is the gateway's answer for one batch.
type Result struct {
	Found    []string `json:"found"`
	NotFound []string `json:"notFound"`
	// Degraded marks a fail-safe answer produced because the gateway could not
	// be reached or answered badly.
	Degraded bool `json:"-"`
}

// Set returns the found ids as a Set.
func (r Result) Set() Set {
	return NewSet(r.Found...)
}

// Gateway checks a batch of appointment ids. Implementations never fail: an
// unreachable gateway yields a Result with nothing found.
type Gateway interface {
	Check(ctx context.Context, ids []string) Result
}

// GatewayFunc adapts a function to Gateway.
type GatewayFunc func(ctx context.Context, ids []string) Result

func (f GatewayFunc) Check(ctx context.Context, ids []string) Result { return f(ctx, ids) }

// Set holds the appointment ids verified for a single batch.
type Set map[string]struct{}

// NewSet builds a Set, skipping blank ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Has reports whether id was verified. A nil Set verifies nothing.
func (s Set) Has(id string) bool {
	if s == nil || id == "" {
		return false
	}
	_, ok := s[id]
	return ok
}

// IDs returns the members in sorted order.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// UniqueIDs trims ids, drops blanks and duplicates, and keeps first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// FailSafe is the answer used whenever the gateway cannot be trusted.
func FailSafe(ids []string) Result {
	return Result{Found: []string{}, NotFound: UniqueIDs(ids), Degraded: true}
}

// restrict keeps only the requested ids in the result so one batch can never
// pick up verification facts about another.
func restrict(requested []string, res Result) Result {
	want := NewSet(requested...)
	found := make([]string, 0, len(res.Found))
	foundSet := make(Set, len(res.Found))
	for _, id := range res.Found {
		id = strings.TrimSpace(id)
		if want.Has(id) && !foundSet.Has(id) {
			found = append(found, id)
			foundSet[id] = struct{}{}
		}
	}
	notFound := make([]string, 0, len(requested)-len(found))
	for _, id := range requested {
		if !foundSet.Has(id) {
			notFound = append(notFound, id)
		}
	}
	return Result{Found: found, NotFound: notFound, Degraded: res.Degraded}
}

// SafeCheck runs gw and converts a missing gateway or a panic inside it into
// the fail-safe answer.
func SafeCheck(ctx context.Context, gw Gateway, ids []string) (res Result) {
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return Result{Found: []string{}, NotFound: []string{}}
	}
	if gw == nil {
		return FailSafe(ids)
	}
	defer func() {
		if r := recover(); r != nil {
			res = FailSafe(ids)
		}
	}()
	return restrict(ids, gw.Check(ctx, ids))
}
