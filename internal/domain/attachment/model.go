// Package attachment manages files uploaded under a medical record. Row
// mutations follow the draft gate; the stored file is removed best-effort
// after the row is gone.
package attachment

import "time"

// Attachment maps to the attachment table. FileName is the name the client
// uploaded; StoredName is the generated name on disk. FilePath is derived
// from StoredName on reads and is the only path clients see.
type Attachment struct {
	ID          int64     `json:"id"`
	RecordID    int64     `json:"recordId"`
	FileName    string    `json:"fileName"`
	StoredName  string    `json:"-"`
	FilePath    string    `json:"filePath"`
	FileType    string    `json:"fileType"`
	FileSize    int64     `json:"fileSize"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
