package service

import (
	"fmt"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

type ProfileService interface {
	GetProfile(viewerID, ownerID string) (*model.Profile, error)
	GetMyProfile(userID string) (*model.Profile, error)
	UpdateProfile(userID string, req UpdateProfileRequest) (*model.Profile, error)
}

type profileService struct {
	profileRepo    repository.ProfileRepository
	friendshipRepo repository.FriendshipRepository
}

type UpdateProfileRequest struct {
	Name     string  `json:"name"`
	Details  *string `json:"details,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
}

func NewProfileService(profileRepo repository.ProfileRepository, friendshipRepo repository.FriendshipRepository) ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		friendshipRepo: friendshipRepo,
	}
}

// GetProfile returns a user's profile. Profiles are only visible to their
// owner and the owner's current friends.
func (s *profileService) GetProfile(viewerID, ownerID string) (*model.Profile, error) {
	if viewerID != ownerID {
		friends, err := s.friendshipRepo.AreFriends(viewerID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDependency, err)
		}
		if !friends {
			return nil, fmt.Errorf("%w: user %s may not view profile of %s", ErrNotAuthorized, viewerID, ownerID)
		}
	}

	profile, err := s.profileRepo.FindByUserID(ownerID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: profile for user %s", ErrNotFound, ownerID)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) GetMyProfile(userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: profile for user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile updates the caller's own profile
func (s *profileService) UpdateProfile(userID string, req UpdateProfileRequest) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: profile for user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.Details != nil {
		profile.Details = req.Details
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Location != nil {
		profile.Location = req.Location
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}
