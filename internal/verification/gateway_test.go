package verification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetHas(t *testing.T) {
	s := NewSet("a1", " b2 ", "")
	assert.True(t, s.Has("a1"))
	assert.True(t, s.Has("b2"))
	assert.False(t, s.Has(""))
	assert.False(t, s.Has("c3"))
	assert.Equal(t, []string{"a1", "b2"}, s.IDs())

	var empty Set
	assert.False(t, empty.Has("a1"))
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, UniqueIDs([]string{"b", " a", "", "b", "a "}))
	assert.Empty(t, UniqueIDs(nil))
}

func TestFailSafe(t *testing.T) {
	res := FailSafe([]string{"x", "y", "x"})
	assert.Empty(t, res.Found)
	assert.NotNil(t, res.Found)
	assert.Equal(t, []string{"x", "y"}, res.NotFound)
	assert.True(t, res.Degraded)
}

func TestRestrictDropsForeignIDs(t *testing.T) {
	res := restrict([]string{"a", "b", "c"}, Result{Found: []string{"b", "zzz", "b"}})
	assert.Equal(t, []string{"b"}, res.Found)
	assert.Equal(t, []string{"a", "c"}, res.NotFound)
}

func TestSafeCheck(t *testing.T) {
	ctx := context.Background()

	res := SafeCheck(ctx, nil, []string{"A"})
	assert.True(t, res.Degraded)

	panicking := GatewayFunc(func(context.Context, []string) Result { panic("boom") })
	res = SafeCheck(ctx, panicking, []string{"A", "B"})
	assert.Empty(t, res.Found)
	assert.Equal(t, []string{"A", "B"}, res.NotFound)

	called := false
	ok := GatewayFunc(func(_ context.Context, ids []string) Result {
		called = true
		return Result{Found: []string{"A", "Z"}}
	})
	res = SafeCheck(ctx, ok, []string{"A", "B"})
	assert.True(t, called)
	assert.Equal(t, []string{"A"}, res.Found)
	assert.Equal(t, []string{"B"}, res.NotFound)

	called = false
	res = SafeCheck(ctx, ok, nil)
	assert.False(t, called)
	assert.Empty(t, res.Found)
}
