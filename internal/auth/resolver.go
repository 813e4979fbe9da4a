package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/casedesk/casedesk/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnauthenticated covers every resolution failure: missing, malformed,
// expired, or revoked credentials, and inactive accounts. Callers get no
// finer detail.
var ErrUnauthenticated = errors.New("unauthenticated")

// UserGetter loads the authoritative account record for a resolved token.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Resolver turns raw bearer credentials into a verified principal: parse
// and verify the JWT, require a live session in the shared store, then
// load the user from Postgres and require the active flag. The session
// store is never consulted for anything beyond liveness.
type Resolver struct {
	tokens   *TokenManager
	sessions *SessionStore
	users    UserGetter
	logger   *zap.Logger
}

func NewResolver(tokens *TokenManager, sessions *SessionStore, users UserGetter, logger *zap.Logger) *Resolver {
	return &Resolver{
		tokens:   tokens,
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// Resolve validates a bearer token and returns the principal behind it.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (model.Principal, error) {
	if bearer == "" {
		return model.Principal{}, ErrUnauthenticated
	}

	claims, err := r.tokens.Parse(bearer)
	if err != nil {
		return model.Principal{}, ErrUnauthenticated
	}

	userID, alive, err := r.sessions.UserID(ctx, claims.ID)
	if err != nil {
		r.logger.Error("session lookup failed", zap.Error(err))
		return model.Principal{}, ErrUnauthenticated
	}
	if !alive || userID != claims.UserID {
		return model.Principal{}, ErrUnauthenticated
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		r.logger.Error("user lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return model.Principal{}, ErrUnauthenticated
	}
	if user == nil || !user.IsActive {
		return model.Principal{}, ErrUnauthenticated
	}

	return user.AsPrincipal(), nil
}

// Login issues a session-bound token for an already-authenticated user.
func (r *Resolver) Login(ctx context.Context, user *model.User) (string, error) {
	sessionID := uuid.NewString()

	if err := r.sessions.Create(ctx, sessionID, user.ID); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	token, err := r.tokens.Issue(user, sessionID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	r.logger.Info("session created",
		zap.Int64("user_id", user.ID),
		zap.String("session_id", sessionID),
	)

	return token, nil
}

// Logout revokes the session behind a bearer token. An invalid token is
// reported as ErrUnauthenticated; revoking a dead session succeeds.
func (r *Resolver) Logout(ctx context.Context, bearer string) error {
	claims, err := r.tokens.Parse(bearer)
	if err != nil {
		return ErrUnauthenticated
	}

	if err := r.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	r.logger.Info("session revoked", zap.String("session_id", claims.ID))
	return nil
}
