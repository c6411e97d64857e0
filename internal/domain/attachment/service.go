package attachment

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/internal/platform/db"
	"github.com/hrms/hrms/internal/platform/storage"
)

const module = "attachment"

// FileStore is the slice of the blob store the service uses.
type FileStore interface {
	Save(contentType string, size int64, r io.Reader) (string, int64, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
	Path(name string) string
}

type Service struct {
	repo   Repository
	tx     db.TxRunner
	gate   RecordGate
	store  FileStore
	audit  auditlog.Recorder
	logger zerolog.Logger
}

func NewService(repo Repository, tx db.TxRunner, gate RecordGate, store FileStore,
	audit auditlog.Recorder, logger zerolog.Logger) *Service {
	return &Service{repo: repo, tx: tx, gate: gate, store: store, audit: audit, logger: logger}
}

// Upload describes an incoming file.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	Description *string
}

// Create stores the file and its row under a draft record. The gate check,
// the file write and the insert share a transaction so a failed insert can
// still clean up the stored file.
func (s *Service) Create(ctx context.Context, recordID int64, up Upload) (*Attachment, error) {
	a := &Attachment{
		RecordID:    recordID,
		FileName:    up.FileName,
		FileType:    up.ContentType,
		Description: up.Description,
	}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.gate.EnsureDraft(ctx, recordID); err != nil {
			return err
		}
		storedName, written, err := s.store.Save(up.ContentType, up.Size, up.Body)
		if err != nil {
			return storeError(err)
		}
		a.StoredName = storedName
		a.FileSize = written

		if err := s.repo.Create(ctx, a); err != nil {
			if rmErr := s.store.Remove(storedName); rmErr != nil {
				s.logger.Warn().Err(rmErr).Str("file", storedName).
					Msg("orphaned attachment file after failed insert")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "upload", TargetID: a.ID,
		Details: map[string]any{"recordId": recordID, "fileName": a.FileName, "fileSize": a.FileSize}})
	return s.withPath(a), nil
}

// withPath fills the client-facing file path from the stored name.
func (s *Service) withPath(a *Attachment) *Attachment {
	a.FilePath = s.store.Path(a.StoredName)
	return a
}

func storeError(err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidFileType):
		return apperr.New(http.StatusBadRequest, "File type is not allowed; accepted types are PDF, JPEG and PNG")
	case errors.Is(err, storage.ErrFileTooLarge):
		return apperr.New(http.StatusBadRequest, "File exceeds the maximum allowed size")
	default:
		return err
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*Attachment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withPath(a), nil
}

// UpdateDescription changes the only editable attachment field. The gate
// check and the write share a transaction like every other child mutation.
func (s *Service) UpdateDescription(ctx context.Context, id int64, description *string) (*Attachment, error) {
	var a *Attachment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if a, err = s.repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.gate.EnsureDraft(ctx, a.RecordID); err != nil {
			return err
		}
		a.Description = description
		return s.repo.UpdateDescription(ctx, id, description)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "update", TargetID: id})
	return s.withPath(a), nil
}

// Download returns the attachment row and an open reader for its file.
// The caller closes the reader.
func (s *Service) Download(ctx context.Context, id int64) (*Attachment, io.ReadCloser, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(a.StoredName)
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, nil, apperr.NotFound("Attachment file")
	}
	if err != nil {
		return nil, nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "download", TargetID: id})
	return s.withPath(a), rc, nil
}

// Delete removes the row, then the file best-effort after commit. A file
// that fails to delete is logged, never surfaced.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var storedName string
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.gate.EnsureDraft(ctx, a.RecordID); err != nil {
			return err
		}
		storedName = a.StoredName
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := s.store.Remove(storedName); err != nil {
		s.logger.Warn().Err(err).Str("file", storedName).Msg("attachment file removal failed")
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "delete", TargetID: id})
	return nil
}

func (s *Service) ListByRecord(ctx context.Context, recordID int64) ([]*Attachment, error) {
	list, err := s.repo.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		s.withPath(a)
	}
	return list, nil
}

// FileNamesByRecord and RemoveFile let the record service cascade file
// deletion without importing this package's types.

func (s *Service) FileNamesByRecord(ctx context.Context, recordID int64) ([]string, error) {
	return s.repo.StoredNamesByRecord(ctx, recordID)
}

func (s *Service) RemoveFile(name string) error {
	return s.store.Remove(name)
}
