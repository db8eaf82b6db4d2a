package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
)

type UserService interface {
	GetProfile(ctx context.Context, userID int) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error)
}

// UpdateProfileInput покрывает только изменяемые поля профиля.
// Имя и фамилия фиксируются при регистрации и здесь отсутствуют намеренно.
type UpdateProfileInput struct {
	Phone           *string `json:"phone,omitempty"`
	FavoriteTeamID  *int    `json:"favorite_team_id,omitempty"`
	FavoriteAthlete *string `json:"favorite_athlete,omitempty"`
}

type userService struct {
	userRepo         repositories.UserRepository
	teamRepo         repositories.TeamRepository
	verificationRepo repositories.VerificationRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	verificationRepo repositories.VerificationRepository,
) UserService {
	return &userService{
		userRepo:         userRepo,
		teamRepo:         teamRepo,
		verificationRepo: verificationRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	// Если нет терминального статуса, показываем pending при открытой заявке.
	if user.VerificationStatus == nil {
		if pending, err := s.verificationRepo.GetPendingByUser(ctx, userID); err == nil && pending != nil {
			status := models.VerificationPending
			user.VerificationStatus = &status
		}
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.FavoriteTeamID != nil {
		if *input.FavoriteTeamID == 0 {
			user.FavoriteTeamID = nil
		} else {
			if _, err := s.teamRepo.GetByID(ctx, *input.FavoriteTeamID); err != nil {
				if errors.Is(err, repositories.ErrTeamNotFound) {
					return nil, ErrTeamNotFound
				}
				return nil, fmt.Errorf("failed to check favorite team: %w", err)
			}
			user.FavoriteTeamID = input.FavoriteTeamID
		}
	}
	if input.FavoriteAthlete != nil {
		if *input.FavoriteAthlete == "" {
			user.FavoriteAthlete = nil
		} else {
			user.FavoriteAthlete = input.FavoriteAthlete
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile for user %d: %w", userID, err)
	}

	user.PasswordHash = ""
	return user, nil
}
