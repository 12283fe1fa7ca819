package cv

import (
	"math"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNewAndIncrement(t *testing.T) {
	v := New()

	require.Equal(t, V1, v.Version())
	require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{16}\.0$`), v.Value())
	require.False(t, v.Sealed())

	next := v.Increment()
	require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{16}\.1$`), next)
	require.Equal(t, next, v.Value())
	require.Equal(t, uint32(1), v.Extension())
}

func TestNewWithVersion(t *testing.T) {
	v, err := NewWithVersion(V2)
	require.NoError(t, err)
	require.Equal(t, V2, v.Version())
	require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9+/]{21}[AQgw]\.0$`), v.Value())

	_, err = NewWithVersion(Version(7))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGeneratorDefaultVersion(t *testing.T) {
	g := NewGenerator(WithVersion(V2))
	require.Equal(t, V2, g.New().Version())

	g = NewGenerator(WithVersion(Version(0)))
	require.Equal(t, V1, g.New().Version())
}

func TestNewFromUUID(t *testing.T) {
	testCases := []struct {
		desc string
		id   uuid.UUID
		base string
	}{
		{
			desc: "nil uuid",
			id:   uuid.Nil,
			base: "AAAAAAAAAAAAAAAAAAAAAA",
		},
		{
			desc: "max uuid",
			id:   uuid.Max,
			base: "/////////////////////w",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			v := NewFromUUID(tc.id)

			require.Equal(t, V2, v.Version())
			require.Equal(t, tc.base, v.Base())
			require.Equal(t, tc.base+".0", v.Value())
			require.True(t, v.Equal(NewFromUUID(tc.id)))
		})
	}

	id := uuid.New()
	require.Equal(t, NewFromUUID(id).Value(), NewFromUUID(id).Value())
	require.Contains(t, "AQgw", NewFromUUID(id).Base()[21:])
}

func TestNewWithSeed(t *testing.T) {
	seed := [16]byte{0xde, 0xad, 0xbe, 0xef}

	v, err := NewWithSeed(V2, seed)
	require.NoError(t, err)
	require.Equal(t, NewFromUUID(uuid.UUID(seed)).Value(), v.Value())

	_, err = NewWithSeed(V1, seed)
	require.ErrorIs(t, err, ErrInvalidOperation)

	_, err = NewWithSeed(Version(3), seed)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExtendText(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		out  string
	}{
		{desc: "v1", in: v1Base + ".5", out: v1Base + ".5.0"},
		{desc: "v1 nested", in: v1Base + ".1.2.3", out: v1Base + ".1.2.3.0"},
		{desc: "v2", in: v2Base + ".0", out: v2Base + ".0.0"},
		{desc: "sealed", in: v1Base + ".5!", out: v1Base + ".5!"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			v, err := Extend(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.out, v.Value())
		})
	}
}

func TestExtendFailures(t *testing.T) {
	for _, in := range []string{"", "bad base!!.0", v1Base + ".05", v1Base + strings.Repeat(".1", 24)} {
		t.Run(in, func(t *testing.T) {
			v, err := Extend(in)
			require.Nil(t, v)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestExtendUntilSealed(t *testing.T) {
	value := v1Base + ".0"

	for i := 0; i < 22; i++ {
		v, err := Extend(value)
		require.NoError(t, err)
		require.False(t, v.Sealed())
		value = v.Value()
	}
	require.Len(t, value, 62)

	sealed, err := Extend(value)
	require.NoError(t, err)
	require.True(t, sealed.Sealed())
	require.Equal(t, value+"!", sealed.Value())

	again, err := Extend(sealed.Value())
	require.NoError(t, err)
	require.Equal(t, sealed.Value(), again.Value())
	require.Equal(t, sealed.Value(), again.Increment())
	require.Equal(t, sealed.Value(), again.Extend().Value())
}

func TestExtendDoesNotMutate(t *testing.T) {
	parent, err := Parse(v1Base + ".3")
	require.NoError(t, err)

	child := parent.Extend()
	require.Equal(t, v1Base+".3", parent.Value())
	require.Equal(t, v1Base+".3.0", child.Value())

	child.Increment()
	require.Equal(t, v1Base+".3", parent.Value())
	require.Equal(t, v1Base+".3.1", child.Value())

	parent.Increment()
	require.Equal(t, v1Base+".4", parent.Value())
	require.Equal(t, v1Base+".3.1", child.Value())
}

func TestIncrementSealsOnLength(t *testing.T) {
	prefix := v1Base + strings.Repeat(".0", 22)
	v, err := Parse(prefix + ".98")
	require.NoError(t, err)

	require.Equal(t, prefix+".99", v.Increment())
	require.False(t, v.Sealed())

	require.Equal(t, prefix+".99!", v.Increment())
	require.True(t, v.Sealed())
	require.Equal(t, prefix+".99!", v.Increment())
	require.Equal(t, uint32(99), v.Extension())
}

func TestIncrementSealsOnOverflow(t *testing.T) {
	v, err := Parse(v2Base + ".4294967294")
	require.NoError(t, err)

	require.Equal(t, v2Base+".4294967295", v.Increment())
	require.Equal(t, v2Base+".4294967295!", v.Increment())
	require.True(t, v.Sealed())
	require.Equal(t, uint32(math.MaxUint32), v.Extension())
}

func TestExtendSealsNearLimit(t *testing.T) {
	prefix := v1Base + strings.Repeat(".0", 22)
	v, err := Parse(prefix + ".1")
	require.NoError(t, err)
	require.Len(t, v.Value(), 62)

	child := v.Extend()
	require.True(t, child.Sealed())
	require.Equal(t, prefix+".1!", child.Value())
	require.False(t, v.Sealed())
}

func TestConcurrentIncrement(t *testing.T) {
	const (
		workers    = 50
		increments = 200
	)

	v, err := Parse(v2Base + ".7")
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*increments)
	)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			values := make([]string, 0, increments)
			for j := 0; j < increments; j++ {
				values = append(values, v.Increment())
			}

			mu.Lock()
			defer mu.Unlock()
			for _, value := range values {
				seen[value] = struct{}{}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, seen, workers*increments)
	require.Equal(t, uint32(7+workers*increments), v.Extension())
	require.False(t, v.Sealed())
}

func TestConcurrentIncrementSeals(t *testing.T) {
	const workers = 20

	prefix := v1Base + strings.Repeat(".0", 22)
	v, err := Parse(prefix + ".0")
	require.NoError(t, err)

	results := make([][]string, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := 0; j < 10; j++ {
				results[i] = append(results[i], v.Increment())
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	active := make(map[string]struct{})
	sealed := 0
	for _, values := range results {
		for _, value := range values {
			if strings.HasSuffix(value, "!") {
				require.Equal(t, prefix+".99!", value)
				sealed++
				continue
			}
			require.NotContains(t, active, value)
			active[value] = struct{}{}
		}
	}

	require.Len(t, active, 99)
	require.Equal(t, workers*10-99, sealed)
	require.True(t, v.Sealed())
}

func TestEqual(t *testing.T) {
	a, err := Parse(v1Base + ".1")
	require.NoError(t, err)
	b, err := Parse(v1Base + ".1")
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	b.Increment()
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(nil))

	var nilVector *Vector
	require.True(t, nilVector.Equal(nil))
}
