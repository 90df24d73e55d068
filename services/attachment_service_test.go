package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"crml-backend/models"
	"crml-backend/repository"
	"crml-backend/storage"
	"crml-backend/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strconvID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func upload(name, content string) Upload {
	return Upload{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func setupAttachments(t *testing.T) (*AttachmentService, *repository.MotifRepository, string) {
	t.Helper()
	root := t.TempDir()
	repo := repository.NewMotifRepository(testdb.Open(t))
	return NewAttachmentService(repo, storage.NewAttachmentStore(root), discardLogger()), repo, root
}

func readAll(t *testing.T, f *os.File) string {
	t.Helper()
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

func TestAttachmentService_UploadThenOpen(t *testing.T) {
	svc, repo, root := setupAttachments(t)
	ctx := context.Background()

	motif, err := repo.Create(ctx, &models.Motif{Title: "Rose"})
	require.NoError(t, err)

	require.NoError(t, svc.Upload(ctx, motif.ID, []Upload{
		upload("a.png", "png-bytes"),
		upload("sketches/b.pdf", "pdf-bytes"),
	}))

	got, err := repo.Get(ctx, motif.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.pdf"}, []string(got.Attachments))
	assert.FileExists(t, filepath.Join(root, strconvID(motif.ID), "b.pdf"))

	f, size, err := svc.Open(ctx, motif.ID, "a.png")
	require.NoError(t, err)
	assert.Equal(t, int64(len("png-bytes")), size)
	assert.Equal(t, "png-bytes", readAll(t, f))
}

func TestAttachmentService_UploadOverwritesWithoutDuplicating(t *testing.T) {
	svc, repo, _ := setupAttachments(t)
	ctx := context.Background()

	motif, err := repo.Create(ctx, &models.Motif{Title: "Rose"})
	require.NoError(t, err)

	require.NoError(t, svc.Upload(ctx, motif.ID, []Upload{upload("a.png", "v1")}))
	require.NoError(t, svc.Upload(ctx, motif.ID, []Upload{upload("a.png", "v2")}))

	got, err := repo.Get(ctx, motif.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, []string(got.Attachments))

	f, _, err := svc.Open(ctx, motif.ID, "a.png")
	require.NoError(t, err)
	assert.Equal(t, "v2", readAll(t, f))
}

func TestAttachmentService_UploadUnknownMotif(t *testing.T) {
	svc, _, root := setupAttachments(t)

	err := svc.Upload(context.Background(), 7, []Upload{upload("a.png", "x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoDirExists(t, filepath.Join(root, "7"))
}

func TestAttachmentService_UploadNothing(t *testing.T) {
	svc, repo, _ := setupAttachments(t)
	ctx := context.Background()

	motif, err := repo.Create(ctx, &models.Motif{Title: "Rose"})
	require.NoError(t, err)

	require.NoError(t, svc.Upload(ctx, motif.ID, nil))
}

func TestAttachmentService_UploadWriteFailureListsNothing(t *testing.T) {
	svc, repo, root := setupAttachments(t)
	ctx := context.Background()

	motif, err := repo.Create(ctx, &models.Motif{Title: "Rose"})
	require.NoError(t, err)

	broken := Upload{
		Filename: "b.png",
		Open:     func() (io.ReadCloser, error) { return nil, errors.New("client went away") },
	}
	err = svc.Upload(ctx, motif.ID, []Upload{upload("a.png", "x"), broken})
	assert.ErrorIs(t, err, ErrFilesystem)

	got, err := repo.Get(ctx, motif.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Attachments)
	assert.NoFileExists(t, filepath.Join(root, strconvID(motif.ID), "a.png"))
	assert.NoFileExists(t, filepath.Join(root, strconvID(motif.ID), "b.png"))
}

// failingMotifs fails every attachment list update.
type failingMotifs struct {
	motif models.Motif
}

func (f *failingMotifs) Get(context.Context, uint) (*models.Motif, error) {
	m := f.motif
	return &m, nil
}

func (f *failingMotifs) Delete(context.Context, uint) (*models.Motif, error) {
	return nil, errors.New("connection reset")
}

func (f *failingMotifs) SetAttachments(context.Context, uint, []string) error {
	return errors.New("connection reset")
}

func TestAttachmentService_StoreFailureRemovesNewFiles(t *testing.T) {
	root := t.TempDir()
	files := storage.NewAttachmentStore(root)
	motifs := &failingMotifs{motif: models.Motif{ID: 9, Attachments: []string{"old.png"}}}
	svc := NewAttachmentService(motifs, files, discardLogger())

	require.NoError(t, files.Save(9, "old.png", strings.NewReader("old")))

	err := svc.Upload(context.Background(), 9, []Upload{upload("old.png", "new"), upload("fresh.png", "x")})
	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrFilesystem)

	assert.FileExists(t, filepath.Join(root, "9", "old.png"))
	assert.NoFileExists(t, filepath.Join(root, "9", "fresh.png"))
}

func TestAttachmentService_OpenRequiresListedName(t *testing.T) {
	svc, repo, root := setupAttachments(t)
	ctx := context.Background()

	motif, err := repo.Create(ctx, &models.Motif{Title: "Rose"})
	require.NoError(t, err)

	// orphan file on disk, not listed on the motif
	require.NoError(t, os.MkdirAll(filepath.Join(root, strconvID(motif.ID)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, strconvID(motif.ID), "orphan.txt"), []byte("x"), 0o644))

	_, _, err = svc.Open(ctx, motif.ID, "orphan.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, _, err = svc.Open(ctx, motif.ID+1, "orphan.txt")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAttachmentService_Delete(t *testing.T) {
	svc, repo, root := setupAttachments(t)
	ctx := context.Background()

	motif, err := repo.Create(ctx, &models.Motif{Title: "Rose"})
	require.NoError(t, err)
	require.NoError(t, svc.Upload(ctx, motif.ID, []Upload{upload("a.png", "x"), upload("b.png", "y")}))

	require.NoError(t, svc.Delete(ctx, motif.ID, "a.png"))

	got, err := repo.Get(ctx, motif.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.png"}, []string(got.Attachments))
	assert.NoFileExists(t, filepath.Join(root, strconvID(motif.ID), "a.png"))

	assert.ErrorIs(t, svc.Delete(ctx, motif.ID, "a.png"), storage.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, motif.ID+1, "b.png"), repository.ErrNotFound)
}

func TestAttachmentService_DeleteToleratesMissingFile(t *testing.T) {
	svc, repo, root := setupAttachments(t)
	ctx := context.Background()

	motif, err := repo.Create(ctx, &models.Motif{Title: "Rose"})
	require.NoError(t, err)
	require.NoError(t, svc.Upload(ctx, motif.ID, []Upload{upload("a.png", "x")}))
	require.NoError(t, os.Remove(filepath.Join(root, strconvID(motif.ID), "a.png")))

	require.NoError(t, svc.Delete(ctx, motif.ID, "a.png"))

	got, err := repo.Get(ctx, motif.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Attachments)
}

func TestAttachmentService_DeleteMotif(t *testing.T) {
	svc, repo, root := setupAttachments(t)
	ctx := context.Background()

	withFiles, err := repo.Create(ctx, &models.Motif{Title: "Rose"})
	require.NoError(t, err)
	require.NoError(t, svc.Upload(ctx, withFiles.ID, []Upload{upload("a.png", "x")}))

	deleted, err := svc.DeleteMotif(ctx, withFiles.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rose", deleted.Title)
	assert.NoDirExists(t, filepath.Join(root, strconvID(withFiles.ID)))

	_, _, err = svc.Open(ctx, withFiles.ID, "a.png")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	withoutFiles, err := repo.Create(ctx, &models.Motif{Title: "Lily"})
	require.NoError(t, err)
	_, err = svc.DeleteMotif(ctx, withoutFiles.ID)
	require.NoError(t, err)

	_, err = svc.DeleteMotif(ctx, withoutFiles.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAttachmentService_DeleteMotifStoreFailure(t *testing.T) {
	svc := NewAttachmentService(&failingMotifs{}, storage.NewAttachmentStore(t.TempDir()), discardLogger())

	_, err := svc.DeleteMotif(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStore)
}
