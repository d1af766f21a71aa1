package services

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := RequestIDFromContext(ctx); ok {
		t.Fatal("empty context should carry no request id")
	}
	ctx = WithRequestID(ctx, "req-1234")
	id, ok := RequestIDFromContext(ctx)
	if !ok || id != "req-1234" {
		t.Fatalf("got %q ok=%v", id, ok)
	}
	if WithRequestID(ctx, "") != ctx {
		t.Fatal("empty id should return the context unchanged")
	}
}

func TestComponentRoundTrip(t *testing.T) {
	ctx := WithComponent(context.Background(), "generator")
	component, ok := ComponentFromContext(ctx)
	if !ok || component != "generator" {
		t.Fatalf("got %q ok=%v", component, ok)
	}
}
