// services/attachment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"crml-backend/models"
	"crml-backend/repository"
	"crml-backend/storage"
)

// MotifStore is the part of the motif repository the attachment service needs.
type MotifStore interface {
	Get(ctx context.Context, id uint) (*models.Motif, error)
	Delete(ctx context.Context, id uint) (*models.Motif, error)
	SetAttachments(ctx context.Context, id uint, attachments []string) error
}

// Upload is one named file payload.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// AttachmentService keeps a motif's attachment list and its attachment
// directory in step. The filesystem write and the list update are two steps;
// when the second fails the files created by the first are removed again.
type AttachmentService struct {
	motifs MotifStore
	files  *storage.AttachmentStore
	log    *slog.Logger
}

func NewAttachmentService(motifs MotifStore, files *storage.AttachmentStore, log *slog.Logger) *AttachmentService {
	return &AttachmentService{motifs: motifs, files: files, log: log}
}

// Upload writes every file into the motif's directory and lists the new names
// on the motif. Either all names are listed or none are.
func (s *AttachmentService) Upload(ctx context.Context, motifID uint, uploads []Upload) error {
	motif, err := s.getMotif(ctx, motifID)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		return nil
	}

	names := make([]string, len(uploads))
	for i, u := range uploads {
		if names[i], err = storage.CleanName(u.Filename); err != nil {
			return err
		}
	}

	attachments := slices.Clone([]string(motif.Attachments))
	var created []string
	for i, u := range uploads {
		existed, err := s.files.Exists(motifID, names[i])
		if err != nil {
			s.discard(motifID, created)
			return fmt.Errorf("%w: %w", ErrFilesystem, err)
		}
		if !existed {
			created = append(created, names[i])
		}
		if err := s.write(motifID, names[i], u); err != nil {
			s.discard(motifID, created)
			return fmt.Errorf("%w: %w", ErrFilesystem, err)
		}
		if !slices.Contains(attachments, names[i]) {
			attachments = append(attachments, names[i])
		}
	}

	if err := s.motifs.SetAttachments(ctx, motifID, attachments); err != nil {
		s.discard(motifID, created)
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}

func (s *AttachmentService) write(motifID uint, name string, u Upload) error {
	r, err := u.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", name, err)
	}
	defer r.Close()
	return s.files.Save(motifID, name, r)
}

// discard removes files created during a failed upload.
func (s *AttachmentService) discard(motifID uint, names []string) {
	for _, name := range names {
		if err := s.files.Remove(motifID, name); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.log.Error("failed to remove uploaded attachment", "motif_id", motifID, "file", name, "error", err)
		}
	}
}

// Open returns a listed attachment for reading along with its size.
func (s *AttachmentService) Open(ctx context.Context, motifID uint, name string) (*os.File, int64, error) {
	motif, err := s.getMotif(ctx, motifID)
	if err != nil {
		return nil, 0, err
	}
	if !motif.HasAttachment(name) {
		return nil, 0, storage.ErrNotFound
	}

	f, size, err := s.files.Open(motifID, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	return f, size, nil
}

// Delete removes one listed attachment from disk and from the motif.
func (s *AttachmentService) Delete(ctx context.Context, motifID uint, name string) error {
	motif, err := s.getMotif(ctx, motifID)
	if err != nil {
		return err
	}
	if !motif.HasAttachment(name) {
		return storage.ErrNotFound
	}

	if err := s.files.Remove(motifID, name); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrFilesystem, err)
	}

	remaining := slices.DeleteFunc(slices.Clone([]string(motif.Attachments)), func(a string) bool {
		return a == name
	})
	if err := s.motifs.SetAttachments(ctx, motifID, remaining); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}

// DeleteMotif deletes the motif record and then its whole attachment directory.
func (s *AttachmentService) DeleteMotif(ctx context.Context, motifID uint) (*models.Motif, error) {
	deleted, err := s.motifs.Delete(ctx, motifID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if err := s.files.RemoveAll(motifID); err != nil {
		return deleted, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	return deleted, nil
}

func (s *AttachmentService) getMotif(ctx context.Context, motifID uint) (*models.Motif, error) {
	motif, err := s.motifs.Get(ctx, motifID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return motif, nil
}
