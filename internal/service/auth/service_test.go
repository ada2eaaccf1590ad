package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/auth"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/user"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	users map[string]user.User
}

func (r *memUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *memUserRepo) GetByGoogleID(_ context.Context, googleID string) (user.User, error) {
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (r *memUserRepo) Update(_ context.Context, u user.User) error {
	r.users[u.ID] = u
	return nil
}

type memRefreshRepo struct {
	tokens map[string]auth.RefreshToken
}

func (r *memRefreshRepo) Store(_ context.Context, token auth.RefreshToken) error {
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *memRefreshRepo) GetByHash(_ context.Context, tokenHash string) (auth.RefreshToken, error) {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return auth.RefreshToken{}, auth.ErrInvalidToken
	}
	return token, nil
}

func (r *memRefreshRepo) Revoke(_ context.Context, tokenHash string) error {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	token.RevokedAt = &now
	r.tokens[tokenHash] = token
	return nil
}

func (r *memRefreshRepo) RevokeAllForUser(_ context.Context, userID string) error {
	now := time.Now().UTC()
	for hash, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
			r.tokens[hash] = token
		}
	}
	return nil
}

func newTestService(t *testing.T) (auth.AuthService, *memUserRepo, *memRefreshRepo) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &memUserRepo{users: map[string]user.User{
		"worker-1": {
			ID:           "worker-1",
			Email:        "worker@example.com",
			PasswordHash: string(hash),
			Name:         "Worker One",
			Role:         user.RoleSiteWorker,
		},
	}}
	refresh := &memRefreshRepo{tokens: make(map[string]auth.RefreshToken)}
	jwtService := jwt.NewJWTService("test-secret", "1h", "168h")

	svc := NewAuthService(users, refresh, jwtService, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, users, refresh
}

func TestLogin_Success(t *testing.T) {
	svc, _, refresh := newTestService(t)

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "worker@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "worker-1", tokens.UserID)
	assert.Equal(t, string(user.RoleSiteWorker), tokens.Role)

	// The refresh token is stored hashed, never in the clear.
	assert.Len(t, refresh.tokens, 1)
	for hash := range refresh.tokens {
		assert.NotEqual(t, tokens.RefreshToken, hash)
		assert.Len(t, hash, 64)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "worker@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_ValidatesRequest(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email", Password: "x"})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, auth.LoginRequest{
		Email:    "worker@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "worker-1", rotated.UserID)
	assert.NotEmpty(t, rotated.RefreshToken)

	// The spent token no longer works.
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefresh_ReuseRevokesWholeFamily(t *testing.T) {
	svc, _, refresh := newTestService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, auth.LoginRequest{
		Email:    "worker@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)

	// Replaying the old token burns every live token for the user.
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	require.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	for _, stored := range refresh.tokens {
		assert.NotNil(t, stored.RevokedAt)
	}

	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, auth.LoginRequest{
		Email:    "worker@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, tokens.AccessToken)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, auth.LoginRequest{
		Email:    "worker@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}
