package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := ConnectRedis(context.Background(), mr.Addr())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()
}

func TestConnectRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	if _, err := ConnectRedis(context.Background(), addr); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestConnectRejectsBadDSN(t *testing.T) {
	if _, err := Connect(context.Background(), "://bad"); err == nil {
		t.Fatalf("expected parse error")
	}
}
