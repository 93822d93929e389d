package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/pregai/pregai-backend/internal/repos"
	"github.com/pregai/pregai-backend/internal/requestdata"
	"github.com/pregai/pregai-backend/internal/types"
)

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	db := testDB(t)
	as := testAuthService(t, db)
	ctx := context.Background()

	user := &types.User{
		Email:    "  Jane@Example.COM ",
		Name:     "Jane Doe",
		Password: "s3cret-pass",
	}
	if err := as.RegisterUser(ctx, user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Email != "jane@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.Password == "s3cret-pass" {
		t.Errorf("password stored in plaintext")
	}

	// Duplicate email must be rejected.
	dup := &types.User{Email: "jane@example.com", Name: "Other", Password: "pw123456"}
	if err := as.RegisterUser(ctx, dup); err == nil {
		t.Fatalf("expected duplicate email to fail registration")
	}

	accessToken, refreshToken, err := as.LoginUser(ctx, "jane@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatalf("expected non-empty token pair")
	}

	if _, _, err := as.LoginUser(ctx, "jane@example.com", "wrong-pass"); err == nil {
		t.Fatalf("expected wrong password to fail")
	}
	if _, _, err := as.LoginUser(ctx, "nobody@example.com", "s3cret-pass"); err == nil {
		t.Fatalf("expected unknown email to fail")
	}
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	db := testDB(t)
	as := testAuthService(t, db)
	ctx := context.Background()

	tests := []struct {
		name string
		user *types.User
	}{
		{"missing email", &types.User{Name: "A", Password: "pw123456"}},
		{"missing password", &types.User{Email: "a@example.com", Name: "A"}},
		{"missing name", &types.User{Email: "a@example.com", Password: "pw123456"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := as.RegisterUser(ctx, tt.user); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	db := testDB(t)
	as := testAuthService(t, db)
	ctx := context.Background()

	user := &types.User{Email: "flow@example.com", Name: "Flow", Password: "pw123456"}
	if err := as.RegisterUser(ctx, user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	accessToken, refreshToken, err := as.LoginUser(ctx, "flow@example.com", "pw123456")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	authedCtx, err := as.SetContextFromToken(ctx, accessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil {
		t.Fatalf("no request data in context")
	}
	if rd.UserID == uuid.Nil {
		t.Fatalf("user id not set in request data")
	}
	if rd.TokenString != accessToken || rd.RefreshToken != refreshToken {
		t.Fatalf("request data tokens do not match issued pair")
	}

	if _, err := as.SetContextFromToken(ctx, "not-a-jwt"); err == nil {
		t.Fatalf("expected malformed token to fail")
	}
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	db := testDB(t)
	as := testAuthService(t, db)
	ctx := context.Background()

	user := &types.User{Email: "rotate@example.com", Name: "Rotate", Password: "pw123456"}
	if err := as.RegisterUser(ctx, user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	accessToken, refreshToken, err := as.LoginUser(ctx, "rotate@example.com", "pw123456")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	authedCtx, err := as.SetContextFromToken(ctx, accessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	newAccess, newRefresh, err := as.RefreshUser(authedCtx)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if newRefresh == refreshToken {
		t.Fatalf("refresh token was not rotated")
	}
	if newAccess == "" {
		t.Fatalf("expected new access token")
	}

	// The old refresh token must be unusable after rotation.
	tokenRepo := repos.NewUserTokenRepo(db, testLogger(t))
	old, err := tokenRepo.GetByRefreshTokens(ctx, nil, []string{refreshToken})
	if err != nil {
		t.Fatalf("GetByRefreshTokens: %v", err)
	}
	if len(old) != 0 {
		t.Fatalf("old refresh token still present after rotation")
	}

	// A second refresh in the same second mints a byte-identical JWT; it
	// must replace the stored row rather than collide with it.
	authedCtx, err = as.SetContextFromToken(ctx, newAccess)
	if err != nil {
		t.Fatalf("SetContextFromToken (rotated): %v", err)
	}
	if _, _, err := as.RefreshUser(authedCtx); err != nil {
		t.Fatalf("RefreshUser (immediate second refresh): %v", err)
	}
}

func TestAuthServiceLogout(t *testing.T) {
	db := testDB(t)
	as := testAuthService(t, db)
	ctx := context.Background()

	user := &types.User{Email: "bye@example.com", Name: "Bye", Password: "pw123456"}
	if err := as.RegisterUser(ctx, user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	accessToken, _, err := as.LoginUser(ctx, "bye@example.com", "pw123456")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	authedCtx, err := as.SetContextFromToken(ctx, accessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if err := as.LogoutUser(authedCtx); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}

	// Session is gone, so context resolution must fail even though the
	// JWT itself has not expired.
	if _, err := as.SetContextFromToken(ctx, accessToken); err == nil {
		t.Fatalf("expected token resolution to fail after logout")
	}

	if err := as.LogoutUser(ctx); err == nil {
		t.Fatalf("expected logout without request data to fail")
	}
}
