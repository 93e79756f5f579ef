package usecase

import (
	"context"

	"eduway/internal/domain"
	"eduway/internal/infrastructure/repository"
	"eduway/internal/infrastructure/security"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenCache stores issued refresh tokens keyed by token string. Backed by
// redis in production.
type TokenCache interface {
	SaveRefresh(ctx context.Context, userID string, refreshToken string) error
	CheckRefresh(ctx context.Context, refreshToken string) (string, error)
	DeleteRefresh(ctx context.Context, refreshToken string) error
}

type AuthUseCase struct {
	userRepo     *repository.UserRepository
	tokenCache   TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	log          *zap.SugaredLogger
}

func NewAuthUseCase(
	ur *repository.UserRepository,
	tc TokenCache,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	log *zap.SugaredLogger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     ur,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
		log:          log.With("usecase", "auth"),
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, username, password string) (*domain.User, error) {
	exists, err := uc.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:       uuid.New(),
		Username: username,
		Password: hash,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.log.Infow("user registered", "username", username)
	return user, nil
}

func (uc *AuthUseCase) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}

// Login verifies credentials and issues an access/refresh token pair. Lookup
// and password failures both collapse to ErrInvalidCredentials so the response
// does not reveal which usernames exist.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return "", "", domain.ErrInvalidCredentials
	}

	return uc.generateAndSaveTokens(ctx, user)
}

func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (string, string, error) {
	identity, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return "", "", domain.ErrInvalidCredentials
	}

	cachedID, err := uc.tokenCache.CheckRefresh(ctx, oldRefreshToken)
	if err != nil || cachedID != identity.UserID {
		return "", "", domain.ErrInvalidCredentials
	}
	_ = uc.tokenCache.DeleteRefresh(ctx, oldRefreshToken)

	user, err := uc.userRepo.GetByUsername(ctx, identity.Username)
	if err != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	return uc.generateAndSaveTokens(ctx, user)
}

// Logout revokes the refresh token. Unknown tokens are not an error.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokenCache.DeleteRefresh(ctx, refreshToken)
}

func (uc *AuthUseCase) ValidateAccess(token string) (security.Identity, error) {
	return uc.tokenManager.ValidateAccessToken(token)
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, user *domain.User) (string, string, error) {
	access, refresh, err := uc.tokenManager.Generate(user.ID.String(), user.Username)
	if err != nil {
		return "", "", err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, user.ID.String(), refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
