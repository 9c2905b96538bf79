package drive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type shareFixture struct {
	drive     DriveService
	shares    ShareService
	resolver  *PathResolver
	fileRepo  *memFileRepo
	shareRepo *memShareRepo
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()
	resolver := newTestResolver(t)
	fileRepo := newMemFileRepo()
	folderRepo := newMemFolderRepo()
	shareRepo := newMemShareRepo()
	return &shareFixture{
		drive:     NewDriveService(resolver, NewScanner(resolver), fileRepo, folderRepo, nil, zap.NewNop()),
		shares:    NewShareService(resolver, fileRepo, shareRepo, nil, zap.NewNop()),
		resolver:  resolver,
		fileRepo:  fileRepo,
		shareRepo: shareRepo,
	}
}

func (fx *shareFixture) uploadAndShare(t *testing.T, maxDownloads *int64) (*FileEntry, *FileShare) {
	t.Helper()
	entry, err := fx.drive.Upload(context.Background(), "", "clip.mp4", 4, bytes.NewReader([]byte("data")))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	share, err := fx.shares.Issue(context.Background(), entry.ID, 0, maxDownloads)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return entry, share
}

func TestIssueAndInspect(t *testing.T) {
	fx := newShareFixture(t)
	entry, share := fx.uploadAndShare(t, nil)

	if share.Token == "" || share.FilePath != entry.Path {
		t.Fatalf("Issue() share = %+v", share)
	}

	// The file row carries the denormalized share state.
	row, err := fx.fileRepo.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if row.ShareToken == nil || *row.ShareToken != share.Token || !row.IsPublic {
		t.Errorf("file row share state = %+v", row)
	}

	// Inspect is read-only no matter how often it runs.
	for i := 0; i < 3; i++ {
		info, err := fx.shares.Inspect(context.Background(), share.Token)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if info.Downloads != 0 {
			t.Fatalf("Inspect() downloads = %d, want 0", info.Downloads)
		}
		if info.FileName != "clip.mp4" || info.FormattedSize != "4 B" {
			t.Errorf("Inspect() info = %+v", info)
		}
	}
}

func TestIssueUnknownFile(t *testing.T) {
	fx := newShareFixture(t)

	if _, err := fx.shares.Issue(context.Background(), 999, 0, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Issue() error = %v, want ErrNotFound", err)
	}
}

func TestRedeemIncrementsCounters(t *testing.T) {
	fx := newShareFixture(t)
	entry, share := fx.uploadAndShare(t, nil)

	f, abs, err := fx.shares.Redeem(context.Background(), share.Token)
	if err != nil {
		t.Fatalf("Redeem() error = %v", err)
	}
	if f.OriginalName != "clip.mp4" {
		t.Errorf("Redeem() file = %+v", f)
	}
	if _, err := os.Stat(abs); err != nil {
		t.Errorf("Redeem() returned missing location: %v", err)
	}

	info, err := fx.shares.Inspect(context.Background(), share.Token)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Downloads != 1 {
		t.Errorf("share downloads = %d, want 1", info.Downloads)
	}
	row, _ := fx.fileRepo.Get(context.Background(), entry.ID)
	if row.Downloads != 1 {
		t.Errorf("file downloads = %d, want 1", row.Downloads)
	}
}

func TestRedeemExpiredShare(t *testing.T) {
	fx := newShareFixture(t)
	_, share := fx.uploadAndShare(t, nil)

	past := time.Now().Add(-time.Hour)
	fx.shareRepo.mu.Lock()
	fx.shareRepo.shares[share.Token].ExpiresAt = &past
	fx.shareRepo.mu.Unlock()

	if _, _, err := fx.shares.Redeem(context.Background(), share.Token); !errors.Is(err, ErrShareExpired) {
		t.Errorf("Redeem() error = %v, want ErrShareExpired", err)
	}
	if _, err := fx.shares.Inspect(context.Background(), share.Token); !errors.Is(err, ErrShareExpired) {
		t.Errorf("Inspect() error = %v, want ErrShareExpired", err)
	}
}

func TestRedeemDownloadLimit(t *testing.T) {
	fx := newShareFixture(t)
	limit := int64(2)
	_, share := fx.uploadAndShare(t, &limit)

	// Three concurrent redemptions against a budget of two: exactly two
	// succeed regardless of interleaving.
	var wg sync.WaitGroup
	results := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := fx.shares.Redeem(context.Background(), share.Token)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, limited int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrShareLimitReached):
			limited++
		default:
			t.Errorf("Redeem() unexpected error = %v", err)
		}
	}
	if succeeded != 2 || limited != 1 {
		t.Errorf("Redeem() outcomes = %d ok / %d limited, want 2/1", succeeded, limited)
	}

	info, err := fx.shares.Inspect(context.Background(), share.Token)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Downloads != 2 {
		t.Errorf("share downloads = %d, want 2", info.Downloads)
	}
}

func TestRevoke(t *testing.T) {
	fx := newShareFixture(t)
	entry, share := fx.uploadAndShare(t, nil)

	if err := fx.shares.Revoke(context.Background(), share.Token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, err := fx.shares.Inspect(context.Background(), share.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Inspect() error = %v, want ErrNotFound", err)
	}
	if _, _, err := fx.shares.Redeem(context.Background(), share.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Redeem() error = %v, want ErrNotFound", err)
	}

	row, err := fx.fileRepo.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if row.ShareToken != nil || row.IsPublic {
		t.Errorf("file row share state not cleared: %+v", row)
	}
}

func TestRevokeLeavesNewerShareIntact(t *testing.T) {
	fx := newShareFixture(t)
	entry, first := fx.uploadAndShare(t, nil)

	second, err := fx.shares.Issue(context.Background(), entry.ID, 0, nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := fx.shares.Revoke(context.Background(), first.Token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	// The row still advertises the newer share.
	row, err := fx.fileRepo.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if row.ShareToken == nil || *row.ShareToken != second.Token || !row.IsPublic {
		t.Errorf("file row share state = %+v, want token %q", row, second.Token)
	}
	if _, _, err := fx.shares.Redeem(context.Background(), second.Token); err != nil {
		t.Errorf("Redeem() error = %v, want newer share still redeemable", err)
	}
}

func TestRevokeUnknownToken(t *testing.T) {
	fx := newShareFixture(t)

	if err := fx.shares.Revoke(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Revoke() error = %v, want ErrNotFound", err)
	}
}

func TestShareInvalidatedByFileDeletion(t *testing.T) {
	fx := newShareFixture(t)
	entry, share := fx.uploadAndShare(t, nil)

	// Delete the file through the drive service; the share row stays
	// behind and is invalidated the next time the token resolves.
	if err := fx.drive.DeleteFile(context.Background(), entry.ID); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}

	if _, _, err := fx.shares.Redeem(context.Background(), share.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Redeem() error = %v, want ErrNotFound", err)
	}
	if _, err := fx.shares.Inspect(context.Background(), share.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Inspect() error = %v, want ErrNotFound", err)
	}
}

func TestShareInvalidatedByDiskRemoval(t *testing.T) {
	fx := newShareFixture(t)
	entry, share := fx.uploadAndShare(t, nil)

	// Remove the bytes out-of-band; the row still exists but the token
	// must stop resolving.
	abs, err := fx.resolver.Resolve(entry.Path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := os.Remove(abs); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, _, err := fx.shares.Redeem(context.Background(), share.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Redeem() error = %v, want ErrNotFound", err)
	}
}
