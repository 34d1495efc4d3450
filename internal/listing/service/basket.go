package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/badaskaptan/kargomarket-sub000/internal/config"
	"github.com/badaskaptan/kargomarket-sub000/internal/listing/model"
	"github.com/badaskaptan/kargomarket-sub000/internal/uploads"
)

// AttachPolicy bounds what the basket accepts at attach time. Thresholds
// differ by call site: evidentiary documents and listing images carry
// different limits.
type AttachPolicy struct {
	MaxBytes     int64
	AllowedMIMEs []string
}

func (p AttachPolicy) allows(mime string) bool {
	for _, allowed := range p.AllowedMIMEs {
		if allowed == mime {
			return true
		}
	}
	return false
}

// DocumentPolicy builds the attach policy for supporting documents.
func DocumentPolicy(cfg config.UploadLimitsConfig) AttachPolicy {
	return AttachPolicy{MaxBytes: cfg.MaxDocumentBytes, AllowedMIMEs: cfg.DocumentMIMEs}
}

// ImagePolicy builds the attach policy for listing images.
func ImagePolicy(cfg config.UploadLimitsConfig) AttachPolicy {
	return AttachPolicy{MaxBytes: cfg.MaxImageBytes, AllowedMIMEs: cfg.ImageMIMEs}
}

// FileOutcome is the per-file result of an upload pass.
type FileOutcome struct {
	ClientID uuid.UUID `json:"clientId"`
	Name     string    `json:"name"`
	URL      string    `json:"url,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

// UploadReport aggregates per-file outcomes. One file's failure never rolls
// back or hides another file's success, so the caller can report partial
// success ("listing created; 2 of 3 files uploaded").
type UploadReport struct {
	Succeeded []FileOutcome
	Failed    []FileOutcome
}

// Total returns the number of files the pass attempted.
func (r UploadReport) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// URLs returns the remote URLs of the successful uploads, in attach order.
func (r UploadReport) URLs() []string {
	urls := make([]string, 0, len(r.Succeeded))
	for _, outcome := range r.Succeeded {
		urls = append(urls, outcome.URL)
	}
	return urls
}

// FailedNames returns the original names of the files that failed.
func (r UploadReport) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for _, outcome := range r.Failed {
		names = append(names, outcome.Name)
	}
	return names
}

// UploadOrchestrator manages the attachment lifecycle of a draft and drives
// per-file uploads against the object-storage collaborator.
type UploadOrchestrator struct {
	storage *uploads.UploadService
}

func NewUploadOrchestrator(storage *uploads.UploadService) *UploadOrchestrator {
	return &UploadOrchestrator{storage: storage}
}

// Attach admits a file into the draft's basket after checking it against the
// policy. Rejected files never enter the basket; the returned
// UnsupportedFileError carries the user-facing reason.
func (o *UploadOrchestrator) Attach(draft *model.ListingDraft, file model.AttachedFile, policy AttachPolicy) error {
	if !policy.allows(file.MimeType) {
		return &UnsupportedFileError{Name: file.OriginalName, Reason: fmt.Sprintf("file type %s is not supported", file.MimeType)}
	}
	if policy.MaxBytes > 0 && file.ByteSize > policy.MaxBytes {
		return &UnsupportedFileError{
			Name:   file.OriginalName,
			Reason: fmt.Sprintf("file is larger than the %d MB limit", policy.MaxBytes>>20),
		}
	}

	if file.ClientID == uuid.Nil {
		file.ClientID = uuid.New()
	}
	file.Status = model.UploadStatusPending
	draft.Files = append(draft.Files, file)
	return nil
}

// Remove drops a file from the basket regardless of its upload status. When
// the file already completed upload, the stored object is deleted
// best-effort: a delete failure is logged but never surfaced, because the
// file is already detached from the draft.
func (o *UploadOrchestrator) Remove(ctx context.Context, draft *model.ListingDraft, clientID uuid.UUID) {
	i := draft.FileByClientID(clientID)
	if i < 0 {
		return
	}
	file := draft.Files[i]
	draft.Files = append(draft.Files[:i], draft.Files[i+1:]...)

	if file.Status == model.UploadStatusDone && file.RemoteKey != "" {
		if err := o.storage.Delete(ctx, file.RemoteKey); err != nil {
			slog.WarnContext(ctx, "best-effort delete of detached file failed",
				"key", file.RemoteKey, "error", err)
		}
	}
}

// UploadAll uploads every pending file in the basket. Files are dispatched
// concurrently with no ordering guarantee; each file's status transition is
// independent and one failure never aborts the others. Every pending file
// appears in exactly one side of the returned report.
func (o *UploadOrchestrator) UploadAll(ctx context.Context, draft *model.ListingDraft, namespace string) UploadReport {
	pending := draft.PendingFiles()
	if len(pending) == 0 {
		return UploadReport{}
	}

	var wg sync.WaitGroup
	for _, i := range pending {
		draft.Files[i].Status = model.UploadStatusUploading

		wg.Add(1)
		go func(file *model.AttachedFile) {
			defer wg.Done()
			o.uploadOne(ctx, file, namespace)
		}(&draft.Files[i])
	}
	wg.Wait()

	var report UploadReport
	for _, i := range pending {
		file := draft.Files[i]
		outcome := FileOutcome{ClientID: file.ClientID, Name: file.OriginalName}
		if file.Status == model.UploadStatusDone {
			outcome.URL = file.RemoteURL
			report.Succeeded = append(report.Succeeded, outcome)
		} else {
			outcome.Reason = file.FailureReason
			report.Failed = append(report.Failed, outcome)
		}
	}
	return report
}

func (o *UploadOrchestrator) uploadOne(ctx context.Context, file *model.AttachedFile, namespace string) {
	if file.Open == nil {
		file.Status = model.UploadStatusFailed
		file.FailureReason = "file content is not available"
		return
	}

	body, err := file.Open()
	if err != nil {
		file.Status = model.UploadStatusFailed
		file.FailureReason = fmt.Sprintf("failed to read file: %v", err)
		return
	}
	defer body.Close()

	metadata, err := o.storage.Upload(ctx, namespace, file.OriginalName, body, file.ByteSize, file.MimeType)
	if err != nil {
		file.Status = model.UploadStatusFailed
		file.FailureReason = err.Error()
		slog.WarnContext(ctx, "file upload failed",
			"file", file.OriginalName, "namespace", namespace, "error", err)
		return
	}

	file.Status = model.UploadStatusDone
	file.RemoteKey = metadata.Key
	file.RemoteURL = metadata.URL
	file.FailureReason = ""
}
