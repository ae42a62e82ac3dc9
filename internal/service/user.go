package service

import (
	"context"
	"errors"

	"github.com/templui/goalvoice/internal/model"
	"github.com/templui/goalvoice/internal/repository"
)

type UserService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
}

func NewUserService(userRepository repository.UserRepository, profileRepository repository.ProfileRepository) *UserService {
	return &UserService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
	}
}

func (s *UserService) ByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

// Account returns the user with their profile. A missing profile is not an
// error; Profile is nil then.
func (s *UserService) Account(ctx context.Context, id int64) (*model.Account, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepository.ByUserID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, err
	}

	return &model.Account{User: user, Profile: profile}, nil
}

// Contact resolves a user id to the name and phone used for notifications.
func (s *UserService) Contact(ctx context.Context, id int64) (*model.Contact, error) {
	account, err := s.Account(ctx, id)
	if err != nil {
		return nil, err
	}

	contact := &model.Contact{UserID: account.User.ID}
	if account.Profile != nil {
		contact.DisplayName = account.Profile.FullName
		contact.PhoneNumber = account.Profile.Phone()
	}

	return contact, nil
}
