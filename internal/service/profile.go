package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/media"
	"github.com/sakif/kickstart-blog/internal/model"
	"github.com/sakif/kickstart-blog/internal/repository"
)

// ProfileService manages the user's profile picture. The image bytes live on
// the media host; the users table only stores the URL and the host-side
// public ID needed to delete an asset later.
type ProfileService struct {
	users    repository.UserRepository
	uploader media.Uploader
	logger   *slog.Logger
}

func NewProfileService(users repository.UserRepository, uploader media.Uploader, logger *slog.Logger) *ProfileService {
	return &ProfileService{users: users, uploader: uploader, logger: logger}
}

// UpdatePicture replaces the user's profile picture.
//
// Sequence: read the current public ID, upload the new asset, then swap the
// avatar columns with a compare-and-swap on that public ID. If a concurrent
// request replaced the picture between our read and our swap, the swap
// reports a conflict and we delete OUR new asset, not theirs — the row never
// ends up pointing at a destroyed image. Only after a winning swap is the
// old asset destroyed, and a failure there is logged but not surfaced: the
// user-visible state is already correct, the stale asset is just garbage on
// the media host.
func (s *ProfileService) UpdatePicture(ctx context.Context, userID string, image io.Reader) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldID := user.AvatarID

	asset, err := s.uploader.Upload(ctx, image, media.FolderProfiles)
	if err != nil {
		return nil, fmt.Errorf("uploading profile picture: %w", err)
	}

	if err := s.users.SwapAvatar(ctx, userID, oldID, asset.URL, asset.PublicID); err != nil {
		if derr := s.uploader.Destroy(ctx, asset.PublicID); derr != nil {
			s.logger.Warn("failed to clean up orphaned avatar",
				slog.String("public_id", asset.PublicID),
				slog.String("error", derr.Error()),
			)
		}
		return nil, err
	}

	if oldID != "" {
		if err := s.uploader.Destroy(ctx, oldID); err != nil {
			s.logger.Warn("failed to destroy old avatar",
				slog.String("public_id", oldID),
				slog.String("error", err.Error()),
			)
		}
	}

	user.AvatarURL = asset.URL
	user.AvatarID = asset.PublicID

	s.logger.Info("profile picture updated", slog.String("user_id", userID))
	return user, nil
}

// RemovePicture deletes the user's profile picture from the media host and
// clears the avatar columns.
func (s *ProfileService) RemovePicture(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.AvatarID == "" {
		return nil, apperror.ValidationFailed("profilePic", "no profile picture to remove")
	}

	if err := s.uploader.Destroy(ctx, user.AvatarID); err != nil {
		return nil, fmt.Errorf("destroying avatar: %w", err)
	}

	if err := s.users.ClearAvatar(ctx, userID); err != nil {
		return nil, err
	}

	user.AvatarURL = ""
	user.AvatarID = ""

	s.logger.Info("profile picture removed", slog.String("user_id", userID))
	return user, nil
}
