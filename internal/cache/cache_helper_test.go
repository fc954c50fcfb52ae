package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedCourse struct {
	ID         uint   `json:"id"`
	CourseCode string `json:"course_code"`
}

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "course:"), mr
}

func TestCacheHelper_SetGetDelete(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	course := cachedCourse{ID: 1, CourseCode: "PY101"}
	if err := helper.Set(ctx, "1", course, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got cachedCourse
	if err := helper.Get(ctx, "1", &got); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.CourseCode != "PY101" {
		t.Errorf("expected PY101, got %s", got.CourseCode)
	}

	if err := helper.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := helper.Get(ctx, "1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound after delete, got %v", err)
	}
}

func TestCacheHelper_TTLExpiry(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "2", cachedCourse{ID: 2}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	var got cachedCourse
	if err := helper.Get(ctx, "2", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected expiry miss, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	loads := 0
	loader := func() (interface{}, error) {
		loads++
		return cachedCourse{ID: 3, CourseCode: "WD101"}, nil
	}

	var got cachedCourse
	if err := helper.CacheOrExecute(ctx, "3", &got, time.Minute, loader); err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if err := helper.CacheOrExecute(ctx, "3", &got, time.Minute, loader); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	if loads != 1 {
		t.Errorf("expected loader to run once, ran %d times", loads)
	}
	if got.CourseCode != "WD101" {
		t.Errorf("expected WD101, got %s", got.CourseCode)
	}
}

func TestCacheHelper_LoaderErrorPassesThrough(t *testing.T) {
	helper, _ := newTestHelper(t)
	wantErr := errors.New("store unavailable")

	var got cachedCourse
	err := helper.CacheOrExecute(context.Background(), "4", &got, time.Minute, func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected loader error, got %v", err)
	}
}

// A nil client means redis is not configured; the helper must stay usable.
func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "course:")
	ctx := context.Background()

	if err := helper.Set(ctx, "5", cachedCourse{ID: 5}, time.Minute); err != nil {
		t.Errorf("set with nil client should be a no-op, got %v", err)
	}

	var got cachedCourse
	if err := helper.Get(ctx, "5", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}

	loads := 0
	if err := helper.CacheOrExecute(ctx, "5", &got, time.Minute, func() (interface{}, error) {
		loads++
		return cachedCourse{ID: 5, CourseCode: "DB301"}, nil
	}); err != nil {
		t.Fatalf("cache-or-execute with nil client failed: %v", err)
	}
	if loads != 1 || got.CourseCode != "DB301" {
		t.Errorf("expected loader result, loads=%d got=%+v", loads, got)
	}

	if err := helper.HealthCheck(ctx); err != nil {
		t.Errorf("health check with nil client should pass, got %v", err)
	}
}
