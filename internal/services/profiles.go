package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/cache"
	"github.com/anonto42/pigstar/backend/internal/models"
	"go.uber.org/zap"
)

const suggestionCount = 3

// ProfileService covers profiles, suggestions and the follow graph.
type ProfileService struct {
	repos   Repositories
	toggles *ToggleEngine
	follow  EdgeKind
	feed    cache.FeedCache
	log     *zap.Logger
}

func NewProfileService(repos Repositories, toggles *ToggleEngine, feed cache.FeedCache, log *zap.Logger) *ProfileService {
	return &ProfileService{
		repos:   repos,
		toggles: toggles,
		follow:  FollowKind(repos.Users, repos.Follows),
		feed:    feed,
		log:     log,
	}
}

func (s *ProfileService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repos.Users.GetUserByID(ctx, id)
}

// GetProfileByUsername returns the user with its follower, following and post counts.
func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	user, err := s.repos.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	counts, err := s.repos.Users.GetCounts(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("profile counts: %w", err)
	}
	return &models.Profile{User: *user, Counts: counts}, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if userID == "" {
		return nil, &apperrors.UnauthenticatedError{}
	}
	user, err := s.repos.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.DisplayName = strings.TrimSpace(req.DisplayName)
	user.Bio = strings.TrimSpace(req.Bio)
	user.Location = strings.TrimSpace(req.Location)
	user.Website = strings.TrimSpace(req.Website)
	if err := s.repos.Users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	invalidateFeed(ctx, s.feed, s.log)
	s.log.Info("profile updated", zap.String("user_id", userID))
	return user, nil
}

// GetSuggestions proposes a few users that userID does not follow yet.
func (s *ProfileService) GetSuggestions(ctx context.Context, userID string) ([]models.Suggestion, error) {
	if userID == "" {
		return []models.Suggestion{}, nil
	}
	return s.repos.Users.GetSuggestions(ctx, userID, suggestionCount)
}

// ToggleFollow follows or unfollows targetID on behalf of actorID.
func (s *ProfileService) ToggleFollow(ctx context.Context, actorID, targetID string) (ToggleResult, error) {
	return s.toggles.Toggle(ctx, s.follow, actorID, targetID)
}

func (s *ProfileService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	return s.repos.Follows.Exists(ctx, actorID, targetID)
}
