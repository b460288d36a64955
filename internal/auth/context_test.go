package auth

import (
	"context"
	"testing"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		UserID:  "user-1",
		TokenID: "tok-1",
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", got.UserID, "user-1")
	}
	if got.TokenID != "tok-1" {
		t.Errorf("TokenID = %q, want %q", got.TokenID, "tok-1")
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), "user-7")
	if UserID(ctx) != "user-7" {
		t.Errorf("UserID = %q, want %q", UserID(ctx), "user-7")
	}
}

func TestUserIDMissing(t *testing.T) {
	if UserID(context.Background()) != "" {
		t.Error("expected empty user id for missing context")
	}
}
