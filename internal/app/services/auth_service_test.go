package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/repositories"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/auth"
)

type fakeAccountRepo struct {
	users     map[string]*models.User
	byID      map[int64]*models.User
	lastLogin map[int64]time.Time
}

func newFakeAccountRepo(users ...*models.User) *fakeAccountRepo {
	f := &fakeAccountRepo{
		users:     make(map[string]*models.User),
		byID:      make(map[int64]*models.User),
		lastLogin: make(map[int64]time.Time),
	}
	for _, u := range users {
		f.users[u.Email] = u
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAccountRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAccountRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

type fakeTokenStore struct {
	tokens map[string]*repositories.RefreshToken
	saved  []string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*repositories.RefreshToken)}
}

func (f *fakeTokenStore) Save(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	f.tokens[token] = &repositories.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt}
	f.saved = append(f.saved, token)
	return nil
}

func (f *fakeTokenStore) Find(_ context.Context, token string) (*repositories.RefreshToken, error) {
	if rt, ok := f.tokens[token]; ok {
		copied := *rt
		return &copied, nil
	}
	return nil, apperrors.ErrTokenNotFound
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string) error {
	rt, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	rt.Revoked = true
	return nil
}

func newAuthJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "auth-service-test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "campuslink.test",
	})
}

type authFixture struct {
	users   *fakeAccountRepo
	profile *fakeProfileRepo
	tokens  *fakeTokenStore
	service AuthService
}

func newAuthFixture(txManager TxManager, users ...*models.User) *authFixture {
	accountRepo := newFakeAccountRepo(users...)
	profileRepo := &fakeProfileRepo{profiles: make(map[int64]*models.Profile)}
	for _, u := range users {
		profileRepo.profiles[u.ID] = &models.Profile{UserID: u.ID, DisplayName: u.FirstName + " " + u.LastName}
	}
	tokenStore := newFakeTokenStore()

	return &authFixture{
		users:   accountRepo,
		profile: profileRepo,
		tokens:  tokenStore,
		service: NewAuthService(accountRepo, profileRepo, tokenStore, txManager, newAuthJWT(), zerolog.Nop()),
	}
}

func activeUser(id int64, email, password string, t *testing.T) *models.User {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	return &models.User{ID: id, Email: email, Password: hashed, FirstName: "Asha", LastName: "Patel", IsActive: true}
}

func TestRegister_AutoJoinsDefaultCommunity(t *testing.T) {
	branch := "Computer Science"
	db := &scriptedDB{
		nextID: 100,
		defaults: []*models.Community{
			{ID: 500, Name: "CS Commons", Branch: &branch, IsDefault: true},
		},
	}
	fix := newAuthFixture(&scriptedTxManager{db: db})

	resp, err := fix.service.Register(context.Background(), &dto.RegisterRequest{
		Email:     " Asha@College.EDU ",
		Password:  "opensesame1",
		FirstName: "Asha",
		LastName:  "Patel",
		Branch:    "computer science",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if resp.User.Email != "asha@college.edu" {
		t.Errorf("Email = %q, want normalized lowercase", resp.User.Email)
	}
	if len(db.memberRows) != 1 || db.memberRows[0][0] != 500 {
		t.Fatalf("member rows = %v, want one row for community 500", db.memberRows)
	}
	if db.memberRows[0][1] != resp.User.UserID {
		t.Errorf("auto-joined user %d, want %d", db.memberRows[0][1], resp.User.UserID)
	}
	if resp.Token.AccessToken == "" || resp.Token.RefreshToken == "" {
		t.Error("expected a full token pair")
	}
	if len(fix.tokens.saved) != 1 {
		t.Errorf("refresh tokens saved = %d, want 1", len(fix.tokens.saved))
	}
}

func TestRegister_BranchWithoutDefaults(t *testing.T) {
	branch := "Computer Science"
	db := &scriptedDB{
		defaults: []*models.Community{
			{ID: 500, Name: "CS Commons", Branch: &branch, IsDefault: true},
		},
	}
	fix := newAuthFixture(&scriptedTxManager{db: db})

	_, err := fix.service.Register(context.Background(), &dto.RegisterRequest{
		Email:     "devi@college.edu",
		Password:  "opensesame1",
		FirstName: "Devi",
		LastName:  "Rao",
		Branch:    "Architecture",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if len(db.memberRows) != 0 {
		t.Errorf("member rows = %v, want none for a branch with no defaults", db.memberRows)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := &scriptedDB{emailTaken: true}
	fix := newAuthFixture(&scriptedTxManager{db: db})

	_, err := fix.service.Register(context.Background(), &dto.RegisterRequest{
		Email:     "asha@college.edu",
		Password:  "opensesame1",
		FirstName: "Asha",
		LastName:  "Patel",
		Branch:    "Computer Science",
	})
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("Register() error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	user := activeUser(1, "asha@college.edu", "opensesame1", t)
	fix := newAuthFixture(nil, user)

	resp, err := fix.service.Login(context.Background(), &dto.LoginRequest{
		Email:    "Asha@College.edu",
		Password: "opensesame1",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token.AccessToken == "" || resp.Token.RefreshToken == "" {
		t.Error("expected a full token pair")
	}
	if len(fix.tokens.saved) != 1 {
		t.Errorf("refresh tokens saved = %d, want 1", len(fix.tokens.saved))
	}
	if _, ok := fix.users.lastLogin[1]; !ok {
		t.Error("last login timestamp not recorded")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	fix := newAuthFixture(nil, activeUser(1, "asha@college.edu", "opensesame1", t))

	_, err := fix.service.Login(context.Background(), &dto.LoginRequest{
		Email:    "asha@college.edu",
		Password: "not-the-password",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if len(fix.tokens.saved) != 0 {
		t.Errorf("refresh tokens saved = %d, want 0", len(fix.tokens.saved))
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	fix := newAuthFixture(nil)

	_, err := fix.service.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@college.edu",
		Password: "opensesame1",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	user := activeUser(1, "asha@college.edu", "opensesame1", t)
	user.IsActive = false
	fix := newAuthFixture(nil, user)

	_, err := fix.service.Login(context.Background(), &dto.LoginRequest{
		Email:    "asha@college.edu",
		Password: "opensesame1",
	})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Errorf("Login() error = %v, want ErrAccountDisabled", err)
	}
}

func TestRefreshToken_Rotates(t *testing.T) {
	user := activeUser(1, "asha@college.edu", "opensesame1", t)
	fix := newAuthFixture(nil, user)
	fix.tokens.tokens["r1"] = &repositories.RefreshToken{
		UserID:    1,
		Token:     "r1",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	resp, err := fix.service.RefreshToken(context.Background(), "r1")
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if resp.RefreshToken == "" || resp.RefreshToken == "r1" {
		t.Errorf("RefreshToken = %q, want a newly issued token", resp.RefreshToken)
	}
	if !fix.tokens.tokens["r1"].Revoked {
		t.Error("old refresh token not revoked")
	}
	if len(fix.tokens.saved) != 1 {
		t.Errorf("refresh tokens saved = %d, want 1", len(fix.tokens.saved))
	}
}

func TestRefreshToken_Revoked(t *testing.T) {
	fix := newAuthFixture(nil, activeUser(1, "asha@college.edu", "opensesame1", t))
	fix.tokens.tokens["r1"] = &repositories.RefreshToken{
		UserID:    1,
		Token:     "r1",
		ExpiresAt: time.Now().Add(time.Hour),
		Revoked:   true,
	}

	_, err := fix.service.RefreshToken(context.Background(), "r1")
	if !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Errorf("RefreshToken() error = %v, want ErrTokenRevoked", err)
	}
}

func TestRefreshToken_Expired(t *testing.T) {
	fix := newAuthFixture(nil, activeUser(1, "asha@college.edu", "opensesame1", t))
	fix.tokens.tokens["r1"] = &repositories.RefreshToken{
		UserID:    1,
		Token:     "r1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	_, err := fix.service.RefreshToken(context.Background(), "r1")
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("RefreshToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestLogout(t *testing.T) {
	fix := newAuthFixture(nil)
	fix.tokens.tokens["r1"] = &repositories.RefreshToken{UserID: 1, Token: "r1", ExpiresAt: time.Now().Add(time.Hour)}

	if err := fix.service.Logout(context.Background(), "r1"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if !fix.tokens.tokens["r1"].Revoked {
		t.Error("refresh token not revoked")
	}

	if err := fix.service.Logout(context.Background(), "unknown"); !errors.Is(err, apperrors.ErrTokenNotFound) {
		t.Errorf("Logout() error = %v, want ErrTokenNotFound", err)
	}
}
