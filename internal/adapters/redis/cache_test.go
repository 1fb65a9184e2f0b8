package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "rateadmin/internal/adapters/redis"
	"rateadmin/internal/domain"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_SetGetDel(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	in := domain.Hotel{SabreID: "S1"}
	if err := c.Set(ctx, "hotel:S1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.Hotel
	ok, err := c.Get(ctx, "hotel:S1", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.SabreID != "S1" {
		t.Fatalf("roundtrip: %+v", out)
	}

	if err := c.Del(ctx, "hotel:S1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "hotel:S1", &out)
	if err != nil || ok {
		t.Fatalf("deleted key must miss: ok=%v err=%v", ok, err)
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c := newTestCache(t)
	var out domain.Hotel
	ok, err := c.Get(context.Background(), "nope", &out)
	if err != nil {
		t.Fatalf("miss must not error: %v", err)
	}
	if ok {
		t.Fatalf("unexpected hit")
	}
}
