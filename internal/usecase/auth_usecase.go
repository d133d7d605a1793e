package usecase

import (
	"context"

	"adboard/internal/domain/entity"
	"adboard/internal/domain/repository"
	"adboard/internal/infrastructure/firebase"
	"adboard/pkg/errors"
	"adboard/pkg/logger"
)

type AuthUseCase struct {
	userRepo       repository.UserRepository
	firebaseAuth   *firebase.FirebaseAuthClient
	adminSecretKey string
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth *firebase.FirebaseAuthClient, adminSecretKey string) *AuthUseCase {
	return &AuthUseCase{
		userRepo:       userRepo,
		firebaseAuth:   firebaseAuth,
		adminSecretKey: adminSecretKey,
	}
}

type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	SecretKey string
}

// Register creates the auth account and its user document. Registering as
// admin requires the configured secret key.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	role := input.Role
	if role == "" {
		role = "user"
	}
	if role == "admin" {
		if uc.adminSecretKey == "" || input.SecretKey != uc.adminSecretKey {
			return nil, errors.Forbidden("Invalid admin secret key", nil)
		}
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, input.Name)
	if err != nil {
		logger.Error("Register: failed to create auth account for %s: %v", input.Email, err)
		return nil, errors.BadRequest("Failed to create account", err)
	}

	user := &entity.User{
		ID:     uid,
		Email:  input.Email,
		Name:   input.Name,
		Role:   role,
		Online: true,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Roll the auth account back so the email is not left registered
		// without a profile.
		if delErr := uc.firebaseAuth.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Register: failed to roll back auth account %s: %v", uid, delErr)
		}
		return nil, err
	}

	return user, nil
}

func (uc *AuthUseCase) GetCurrentUser(ctx context.Context, uid string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, uid)
}

// SetPresence flips the user's online flag; called by the user's own session
// on sign-in and sign-out.
func (uc *AuthUseCase) SetPresence(ctx context.Context, uid string, online bool) error {
	return uc.userRepo.SetOnline(ctx, uid, online)
}

// SignOut clears presence and revokes the user's refresh tokens.
func (uc *AuthUseCase) SignOut(ctx context.Context, uid string) error {
	if err := uc.userRepo.SetOnline(ctx, uid, false); err != nil {
		logger.Warn("SignOut: failed to clear presence for %s: %v", uid, err)
	}

	return uc.firebaseAuth.RevokeSessions(ctx, uid)
}
