// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smart-expense/backend/internal/application/adapter"
)

// LogoutUserInput represents the input for user logout.
type LogoutUserInput struct {
	UserID       uuid.UUID
	Email        string
	RefreshToken string
}

// LogoutUserUseCase handles user logout logic.
type LogoutUserUseCase struct {
	tokenService  adapter.TokenService
	sessionBroker *SessionBroker
}

// NewLogoutUserUseCase creates a new LogoutUserUseCase instance.
func NewLogoutUserUseCase(tokenService adapter.TokenService, sessionBroker *SessionBroker) *LogoutUserUseCase {
	return &LogoutUserUseCase{
		tokenService:  tokenService,
		sessionBroker: sessionBroker,
	}
}

// Execute performs the user logout. Logout always succeeds from the caller's
// point of view; a failed token invalidation is logged and the session is
// still considered ended.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) error {
	if input.RefreshToken != "" {
		if err := uc.tokenService.InvalidateRefreshToken(ctx, input.RefreshToken); err != nil {
			slog.Warn("Failed to invalidate refresh token on logout",
				"userID", input.UserID,
				"error", err,
			)
		}
	}

	uc.sessionBroker.Publish(SessionEvent{
		Type:       SessionSignedOut,
		UserID:     input.UserID,
		Email:      input.Email,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}
