package drive

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenRetries = 5

type ShareService interface {
	// Issue creates a share token for a file. expiryHours == 0 means no
	// expiry; maxDownloads nil means unlimited redemptions.
	Issue(ctx context.Context, fileID int64, expiryHours int, maxDownloads *int64) (*FileShare, error)
	// Inspect resolves share metadata with no side effects; previewing a
	// link never consumes its download budget.
	Inspect(ctx context.Context, token string) (*ShareInfo, error)
	// Redeem atomically consumes one download and returns the file row
	// plus the absolute location to stream from.
	Redeem(ctx context.Context, token string) (*File, string, error)
	Revoke(ctx context.Context, token string) error
}

type ShareServiceImpl struct {
	Resolver  *PathResolver
	FileRepo  FileRepository
	ShareRepo ShareRepository
	Events    EventPublisher
	Logger    *zap.Logger
}

func NewShareService(
	resolver *PathResolver,
	fileRepo FileRepository,
	shareRepo ShareRepository,
	events EventPublisher,
	logger *zap.Logger,
) ShareService {
	return &ShareServiceImpl{
		Resolver:  resolver,
		FileRepo:  fileRepo,
		ShareRepo: shareRepo,
		Events:    events,
		Logger:    logger,
	}
}

func newShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *ShareServiceImpl) publish(eventType string, payload map[string]any) {
	if s.Events != nil {
		s.Events.Publish(eventType, payload)
	}
}

// resolveLiveFile maps a stored relative path to the file row and its
// on-disk location, failing with ErrNotFound when either is gone. This
// is what lazily invalidates tokens whose file was deleted out-of-band.
func (s *ShareServiceImpl) resolveLiveFile(ctx context.Context, relPath string) (*File, string, error) {
	f, err := s.FileRepo.GetByPath(ctx, relPath)
	if err != nil {
		return nil, "", err
	}
	abs, err := s.Resolver.Resolve(f.Path)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fsError("stat", f.Path, err)
	}
	return f, abs, nil
}

func (s *ShareServiceImpl) Issue(ctx context.Context, fileID int64, expiryHours int, maxDownloads *int64) (*FileShare, error) {
	f, err := s.FileRepo.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.resolveLiveFile(ctx, f.Path); err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if expiryHours > 0 {
		t := time.Now().Add(time.Duration(expiryHours) * time.Hour)
		expiresAt = &t
	}

	// Token collisions are vanishingly rare but the store's uniqueness
	// constraint stays the final authority; regenerate and retry.
	var share *FileShare
	for attempt := 0; attempt < tokenRetries; attempt++ {
		candidate := &FileShare{
			Token:        newShareToken(),
			FilePath:     f.Path,
			ExpiresAt:    expiresAt,
			MaxDownloads: maxDownloads,
		}
		err = s.ShareRepo.Create(ctx, candidate)
		if err == nil {
			share = candidate
			break
		}
		if !IsDuplicate(err) {
			return nil, err
		}
	}
	if share == nil {
		return nil, err
	}

	if err := s.FileRepo.SetShare(ctx, f.ID, &share.Token, expiresAt); err != nil {
		return nil, err
	}

	s.publish("share.created", map[string]any{"token": share.Token, "path": f.Path})
	return share, nil
}

func (s *ShareServiceImpl) Inspect(ctx context.Context, token string) (*ShareInfo, error) {
	share, err := s.ShareRepo.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if share.ExpiresAt != nil && time.Now().After(*share.ExpiresAt) {
		return nil, ErrShareExpired
	}

	f, _, err := s.resolveLiveFile(ctx, share.FilePath)
	if err != nil {
		return nil, err
	}

	return &ShareInfo{
		Token:         share.Token,
		FileName:      f.OriginalName,
		Size:          f.Size,
		FormattedSize: FormatSize(f.Size),
		MimeType:      f.MimeType,
		Downloads:     share.Downloads,
		MaxDownloads:  share.MaxDownloads,
		ExpiresAt:     share.ExpiresAt,
	}, nil
}

func (s *ShareServiceImpl) Redeem(ctx context.Context, token string) (*File, string, error) {
	share, err := s.ShareRepo.Get(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if share.ExpiresAt != nil && time.Now().After(*share.ExpiresAt) {
		return nil, "", ErrShareExpired
	}

	f, abs, err := s.resolveLiveFile(ctx, share.FilePath)
	if err != nil {
		return nil, "", err
	}

	// Check-and-increment happens in one conditional update; two
	// concurrent redemptions can never both pass a stale counter read.
	ok, err := s.ShareRepo.TryRedeem(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		// Either the budget ran out or the share was revoked underneath us.
		if _, err := s.ShareRepo.Get(ctx, token); err != nil {
			return nil, "", err
		}
		return nil, "", ErrShareLimitReached
	}

	if err := s.FileRepo.IncrementDownloads(ctx, f.Path); err != nil {
		s.Logger.Warn("incrementing file download counter failed", zap.String("path", f.Path), zap.Error(err))
	}

	return f, abs, nil
}

func (s *ShareServiceImpl) Revoke(ctx context.Context, token string) error {
	share, err := s.ShareRepo.Get(ctx, token)
	if err != nil {
		return err
	}
	if err := s.ShareRepo.Delete(ctx, token); err != nil {
		return err
	}

	// Clear the denormalized fields only when the row still carries the
	// revoked token; a newer share on the same file stays live.
	if f, err := s.FileRepo.GetByPath(ctx, share.FilePath); err == nil && f.ShareToken != nil && *f.ShareToken == token {
		if err := s.FileRepo.SetShare(ctx, f.ID, nil, nil); err != nil {
			return err
		}
	}

	s.publish("share.revoked", map[string]any{"token": token, "path": share.FilePath})
	return nil
}
