package model

import (
	"io"

	"github.com/google/uuid"
)

// UploadStatus tracks an attached file through its upload lifecycle.
type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "PENDING"
	UploadStatusUploading UploadStatus = "UPLOADING"
	UploadStatusDone      UploadStatus = "DONE"
	UploadStatusFailed    UploadStatus = "FAILED"
)

// AttachedFile is one user-selected file pending or completed upload. It is
// distinct from a selected document label: labels are advisory metadata,
// files are concrete artifacts.
type AttachedFile struct {
	ClientID     uuid.UUID
	OriginalName string
	ByteSize     int64
	MimeType     string
	PreviewURL   string

	// Open yields the file content for upload. It may be called at most once
	// per upload attempt; the orchestrator closes the returned reader.
	Open func() (io.ReadCloser, error)

	Status        UploadStatus
	RemoteKey     string
	RemoteURL     string
	FailureReason string
}

// ListingDraft is the single in-progress listing of a submission session.
// It is mutated field-by-field on user input and wholesale on a transport
// mode change, and read only once consumed by submission.
type ListingDraft struct {
	// DisplayNo is generated once at draft creation and never recomputed.
	// It is cosmetic; the persisted record's UUID is the real identifier.
	DisplayNo string

	Type        ListingType
	Title       string
	Description string
	Origin      string
	Destination string

	LoadingDate  string
	DeliveryDate string

	Weight MeasurementInput
	Volume MeasurementInput
	Price  PriceInput

	TransportResponsibility string

	// Mode is nil until the user selects a transport mode.
	Mode *ModeDetails

	// SelectedDocuments holds document labels toggled on from the per-mode
	// catalog. Order of first selection is preserved.
	SelectedDocuments []string

	Files []AttachedFile
}

// HasDocumentLabel reports whether the label is currently selected.
func (d *ListingDraft) HasDocumentLabel(label string) bool {
	for _, l := range d.SelectedDocuments {
		if l == label {
			return true
		}
	}
	return false
}

// FileByClientID returns the index of the attached file with the given client
// ID, or -1 when absent.
func (d *ListingDraft) FileByClientID(clientID uuid.UUID) int {
	for i := range d.Files {
		if d.Files[i].ClientID == clientID {
			return i
		}
	}
	return -1
}

// PendingFiles returns the indices of files still awaiting upload.
func (d *ListingDraft) PendingFiles() []int {
	var idx []int
	for i := range d.Files {
		if d.Files[i].Status == UploadStatusPending {
			idx = append(idx, i)
		}
	}
	return idx
}
