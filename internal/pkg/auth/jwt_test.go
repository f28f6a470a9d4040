package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/campuslink/backend/internal/app/models"
)

func newTestJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "campuslink.test",
	})
}

func TestGenerateTokenPair_RoundTrip(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	user := &models.User{ID: 42, Email: "student@college.edu"}

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if refreshToken == "" {
		t.Error("refresh token is empty")
	}
	if expiresIn != int(time.Hour.Seconds()) {
		t.Errorf("expiresIn = %d, want %d", expiresIn, int(time.Hour.Seconds()))
	}
	if refreshExpiresIn != int((720 * time.Hour).Seconds()) {
		t.Errorf("refreshExpiresIn = %d, want %d", refreshExpiresIn, int((720*time.Hour).Seconds()))
	}

	claims, err := svc.ValidateAndExtractClaims(accessToken)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "student@college.edu" {
		t.Errorf("claims.Email = %q, want %q", claims.Email, "student@college.edu")
	}
	if claims.Issuer != "campuslink.test" {
		t.Errorf("claims.Issuer = %q, want %q", claims.Issuer, "campuslink.test")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	user := &models.User{ID: 1, Email: "a@b.edu"}

	accessToken, _, _, _, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := svc.ValidateToken(accessToken); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateToken() error = %v, want ErrExpiredToken", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := newTestJWTService(time.Hour)
	user := &models.User{ID: 1, Email: "a@b.edu"}

	accessToken, _, _, _, err := issuer.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	verifier := NewJWTService(JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
	})
	if _, err := verifier.ValidateToken(accessToken); err == nil {
		t.Error("ValidateToken() with wrong secret succeeded")
	}
}

func TestValidateAndExtractClaims_Empty(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	if _, err := svc.ValidateAndExtractClaims(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateAndExtractClaims(\"\") error = %v, want ErrInvalidToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"empty", "", "", true},
		{"no prefix", "abc.def.ghi", "", true},
		{"wrong scheme", "Basic abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractBearerToken(%q) error = %v, wantErr = %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
