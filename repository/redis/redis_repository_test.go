package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer answers commands from a hook so no Redis server is needed.
type fakeServer struct {
	mu        sync.Mutex
	counters  map[string]int64
	pipelines [][]string
	err       error
}

func argString(cmd goredis.Cmder) string {
	parts := make([]string, 0, len(cmd.Args()))
	for _, a := range cmd.Args() {
		parts = append(parts, strings.ToLower(fmt.Sprint(a)))
	}
	return strings.Join(parts, " ")
}

func (f *fakeServer) DialHook(next goredis.DialHook) goredis.DialHook { return next }

func (f *fakeServer) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := cmd.(*goredis.StringCmd); ok && cmd.Name() == "get" {
			n, found := f.counters[fmt.Sprint(cmd.Args()[1])]
			if !found {
				return goredis.Nil
			}
			c.SetVal(fmt.Sprint(n))
		}
		return nil
	}
}

func (f *fakeServer) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.err != nil {
			return f.err
		}
		var seen []string
		for _, cmd := range cmds {
			seen = append(seen, argString(cmd))
			switch c := cmd.(type) {
			case *goredis.IntCmd:
				key := fmt.Sprint(cmd.Args()[1])
				f.counters[key]++
				c.SetVal(f.counters[key])
			case *goredis.BoolCmd:
				c.SetVal(true)
			}
		}
		f.pipelines = append(f.pipelines, seen)
		return nil
	}
}

func newTestRepo(t *testing.T) (*redis, *fakeServer) {
	t.Helper()
	srv := &fakeServer{counters: map[string]int64{}}
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(srv)
	t.Cleanup(func() { _ = client.Close() })
	return &redis{client: func() *goredis.Client { return client }}, srv
}

func TestIncrWithTTL_ExpirySentWithEveryIncrement(t *testing.T) {
	repo, srv := newTestRepo(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := repo.IncrWithTTL(ctx, "ratelimit:contact:x", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	require.Len(t, srv.pipelines, 3)
	for _, cmds := range srv.pipelines {
		assert.Contains(t, cmds, "incr ratelimit:contact:x")
		assert.Contains(t, cmds, "expire ratelimit:contact:x 60 nx")
	}
}

func TestIncrWithTTL_Error(t *testing.T) {
	repo, srv := newTestRepo(t)
	srv.err = errors.New("connection reset by peer")

	_, err := repo.IncrWithTTL(context.Background(), "ratelimit:contact:x", time.Minute)
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	repo, srv := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.Count(ctx, "ratelimit:contact:x")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	srv.counters["ratelimit:contact:x"] = 4
	n, err = repo.Count(ctx, "ratelimit:contact:x")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestRepository_WithoutClient(t *testing.T) {
	repo := &redis{client: func() *goredis.Client { return nil }}

	assert.False(t, repo.Available())
	_, err := repo.IncrWithTTL(context.Background(), "k", time.Minute)
	assert.ErrorIs(t, err, errNoClient)
	_, err = repo.Count(context.Background(), "k")
	assert.ErrorIs(t, err, errNoClient)
}
