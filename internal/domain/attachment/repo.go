package attachment

import "context"

// Repository defines the persistence interface for attachments.
type Repository interface {
	Create(ctx context.Context, a *Attachment) error
	GetByID(ctx context.Context, id int64) (*Attachment, error)
	UpdateDescription(ctx context.Context, id int64, description *string) error
	Delete(ctx context.Context, id int64) error
	ListByRecord(ctx context.Context, recordID int64) ([]*Attachment, error)
	StoredNamesByRecord(ctx context.Context, recordID int64) ([]string, error)
}

// RecordGate verifies the parent record exists and is in draft, locking its
// row when called inside a transaction. Satisfied by the record service.
type RecordGate interface {
	EnsureDraft(ctx context.Context, recordID int64) error
}
