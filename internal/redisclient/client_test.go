package redisclient

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewFromURL_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewFromURL("redis://" + mr.Addr() + "/0")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Close()

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestNewFromURL_Invalid(t *testing.T) {
	if _, err := NewFromURL("http://not-redis"); err == nil {
		t.Fatalf("expected error for non-redis scheme")
	}
}

func TestNew_Config(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("pw")

	c := New(Config{Addr: mr.Addr(), Password: "pw", DB: 0})
	defer c.Close()

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping with password: %v", err)
	}

	if got := c.Raw().Options().ReadTimeout; got != ioTimeout {
		t.Fatalf("read timeout = %v, want %v", got, ioTimeout)
	}
}
