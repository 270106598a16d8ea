package service

import (
	"context"

	"github.com/google/uuid"

	models "socialnet/model"
	"socialnet/pkg/apierror"
	"socialnet/repository"
)

// ProfileService produces enriched profiles: profile fields merged with the
// owner's restricted account view, live follow counts, and the viewer's
// relationship to the owner. Counts are always computed from the follow edge
// store; no cached counter fields exist to drift out of sync.
type ProfileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	follows  repository.FollowRepository
}

func NewProfileService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	follows repository.FollowRepository,
) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, follows: follows}
}

// GetProfile aggregates the profile of targetUserID as seen by viewerID.
// viewerID may be nil; is_following is false for anonymous viewers and for
// the owner viewing themself.
func (s *ProfileService) GetProfile(ctx context.Context, targetUserID uuid.UUID, viewerID *uuid.UUID) (*models.EnrichedProfile, error) {
	user, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByOwner(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	followers, err := s.follows.CountFollowers(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	following, err := s.follows.CountFollowing(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != nil && *viewerID != targetUserID {
		isFollowing, err = s.follows.HasEdge(ctx, *viewerID, targetUserID)
		if err != nil {
			return nil, err
		}
	}

	return &models.EnrichedProfile{
		Profile:        *profile,
		Account:        user.Account(),
		FollowersCount: followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}, nil
}

// GetProfileByUsername resolves the username (case-insensitive exact match)
// and aggregates that user's profile. An unknown username is NotFound.
func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string, viewerID *uuid.UUID) (*models.EnrichedProfile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, user.ID, viewerID)
}

// UpdateProfile patches the caller's profile and returns the re-aggregated
// result.
func (s *ProfileService) UpdateProfile(ctx context.Context, ownerID uuid.UUID, input *models.UpdateProfileInput) (*models.EnrichedProfile, error) {
	if input.Empty() {
		return nil, apierror.InvalidOperation("at least one profile field is required")
	}

	if input.Bio != nil && *input.Bio == "" {
		return nil, apierror.InvalidOperation("bio cannot be empty")
	}

	if _, err := s.profiles.Update(ctx, ownerID, input); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, ownerID, &ownerID)
}
