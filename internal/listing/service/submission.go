package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/badaskaptan/kargomarket-sub000/internal/listing/model"
)

// SubmissionState is the current step of the submission state machine.
type SubmissionState string

const (
	StateEditing         SubmissionState = "EDITING"
	StateValidating      SubmissionState = "VALIDATING"
	StateCreatingRecord  SubmissionState = "CREATING_RECORD"
	StateUploadingAssets SubmissionState = "UPLOADING_ASSETS"
	StateFinalizing      SubmissionState = "FINALIZING"
	StateDone            SubmissionState = "DONE"
	StateErrored         SubmissionState = "ERRORED"
)

// Outcome summarizes how a completed submission went. The three cases map to
// three distinct user-facing messages.
type Outcome string

const (
	// OutcomeFull: the record was created and every attached file (possibly
	// zero) uploaded.
	OutcomeFull Outcome = "FULL_SUCCESS"
	// OutcomePartial: the record was created, some files uploaded, some failed.
	OutcomePartial Outcome = "PARTIAL_SUCCESS"
	// OutcomeNoAssets: the record was created but every attached file failed
	// to upload.
	OutcomeNoAssets Outcome = "CREATED_WITHOUT_ASSETS"
)

// Notifier is a fire-and-forget sink for human-readable toast messages. The
// workflow never depends on delivery succeeding.
type Notifier interface {
	Success(ctx context.Context, message string)
	Warning(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// SlogNotifier is the default Notifier; it writes toasts to the structured log.
type SlogNotifier struct{}

func (SlogNotifier) Success(ctx context.Context, message string) {
	slog.InfoContext(ctx, "toast", "level", "success", "message", message)
}

func (SlogNotifier) Warning(ctx context.Context, message string) {
	slog.WarnContext(ctx, "toast", "level", "warning", "message", message)
}

func (SlogNotifier) Error(ctx context.Context, message string) {
	slog.WarnContext(ctx, "toast", "level", "error", "message", message)
}

// SubmissionResult is the summary handed back to the caller once the machine
// reaches Done.
type SubmissionResult struct {
	Outcome Outcome
	Message string
	Listing *model.Listing
	Report  UploadReport
}

// SubmissionController drives a draft through
// Validating -> CreatingRecord -> UploadingAssets -> Finalizing -> Done,
// or into Errored. Every network operation is attempted exactly once per
// submission: validation failures are recoverable locally, a record-create
// failure is fatal to the attempt, and asset-upload failures are reported
// but never undo the created record.
type SubmissionController struct {
	repo         ListingRepository
	orchestrator *UploadOrchestrator
	notifier     Notifier
	state        SubmissionState
}

func NewSubmissionController(repo ListingRepository, orchestrator *UploadOrchestrator, notifier Notifier) *SubmissionController {
	if notifier == nil {
		notifier = SlogNotifier{}
	}
	return &SubmissionController{
		repo:         repo,
		orchestrator: orchestrator,
		notifier:     notifier,
		state:        StateEditing,
	}
}

// State reports the controller's current step, for busy indicators.
func (c *SubmissionController) State() SubmissionState {
	return c.state
}

// Submit runs the full machine for a new listing.
func (c *SubmissionController) Submit(ctx context.Context, userID string, draft *model.ListingDraft) (*SubmissionResult, error) {
	return c.run(ctx, userID, draft, nil)
}

// SubmitUpdate runs the same machine for an existing listing, substituting an
// update for the create.
func (c *SubmissionController) SubmitUpdate(ctx context.Context, userID string, listingID uuid.UUID, draft *model.ListingDraft) (*SubmissionResult, error) {
	return c.run(ctx, userID, draft, &listingID)
}

// LoadForEdit fetches a listing and pre-seeds a draft from it. A missing
// record, a foreign owner, or a record of a different type than the editor
// serves all short-circuit before the user can edit.
func (c *SubmissionController) LoadForEdit(ctx context.Context, userID string, listingID uuid.UUID, editorType model.ListingType) (*model.ListingDraft, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	listing, err := c.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != userID {
		return nil, ErrListingNotFound
	}
	if listing.Type != editorType {
		return nil, ErrListingTypeMismatch
	}

	return SeedDraftFromListing(listing), nil
}

func (c *SubmissionController) run(ctx context.Context, userID string, draft *model.ListingDraft, existingID *uuid.UUID) (*SubmissionResult, error) {
	// Identity is the very first precondition, ahead of field validation:
	// without an acting user no network call may happen.
	if userID == "" {
		c.state = StateErrored
		c.notifier.Error(ctx, "you must be signed in to publish a listing")
		return nil, ErrUnauthenticated
	}

	c.state = StateValidating
	if verr := Validate(draft); verr != nil {
		// Recoverable: back to editing, surface the first violation, no
		// network calls have happened.
		c.state = StateEditing
		c.notifier.Error(ctx, verr.Message)
		return nil, verr
	}

	c.state = StateCreatingRecord
	listing, err := c.createOrUpdateRecord(ctx, userID, draft, existingID)
	if err != nil {
		c.state = StateErrored
		c.notifier.Error(ctx, "the listing could not be saved, please try again")
		return nil, err
	}

	c.state = StateUploadingAssets
	report := c.orchestrator.UploadAll(ctx, draft, listing.ID.String())

	c.state = StateFinalizing
	if len(report.Succeeded) > 0 {
		urls := append(listing.AssetURLs, report.URLs()...)
		if err := c.repo.UpdateAssetURLs(ctx, listing.ID, urls); err != nil {
			// The record exists and the objects are stored; losing the URL
			// attachment is reported like an upload failure, not a fatal one.
			slog.WarnContext(ctx, "failed to attach asset URLs to listing",
				"listing_id", listing.ID, "error", err)
		} else {
			listing.AssetURLs = urls
		}
	}

	c.state = StateDone
	result := c.summarize(listing, report)
	switch result.Outcome {
	case OutcomeFull:
		c.notifier.Success(ctx, result.Message)
	default:
		c.notifier.Warning(ctx, result.Message)
	}

	slog.InfoContext(ctx, "listing submission finished",
		"listing_id", listing.ID,
		"display_no", listing.DisplayNo,
		"outcome", result.Outcome,
		"files_succeeded", len(report.Succeeded),
		"files_failed", len(report.Failed),
	)
	return result, nil
}

func (c *SubmissionController) createOrUpdateRecord(ctx context.Context, userID string, draft *model.ListingDraft, existingID *uuid.UUID) (*model.Listing, error) {
	listing, err := buildRecord(userID, draft)
	if err != nil {
		return nil, err
	}

	if existingID == nil {
		if err := c.repo.Create(ctx, listing); err != nil {
			return nil, &PersistenceError{Op: "create", Err: err}
		}
		return listing, nil
	}

	existing, err := c.repo.GetByID(ctx, *existingID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != userID {
		return nil, ErrListingNotFound
	}
	if existing.Type != draft.Type {
		return nil, ErrListingTypeMismatch
	}

	listing.BaseModel = existing.BaseModel
	listing.DisplayNo = existing.DisplayNo
	listing.Status = existing.Status
	listing.AssetURLs = existing.AssetURLs
	if err := c.repo.Update(ctx, listing); err != nil {
		return nil, &PersistenceError{Op: "update", Err: err}
	}
	return listing, nil
}

func (c *SubmissionController) summarize(listing *model.Listing, report UploadReport) *SubmissionResult {
	result := &SubmissionResult{Listing: listing, Report: report}

	switch {
	case len(report.Failed) == 0:
		result.Outcome = OutcomeFull
		result.Message = fmt.Sprintf("listing %s published", listing.DisplayNo)
	case len(report.Succeeded) > 0:
		result.Outcome = OutcomePartial
		result.Message = fmt.Sprintf("listing %s published, %d/%d files uploaded",
			listing.DisplayNo, len(report.Succeeded), report.Total())
	default:
		result.Outcome = OutcomeNoAssets
		result.Message = fmt.Sprintf("listing %s published, but its files could not be uploaded", listing.DisplayNo)
	}
	return result
}

// buildRecord maps the UI-shaped draft onto the persistence schema. Empty
// optional fields become NULL, not empty strings. The draft is already
// validated, so numeric parses here only fail on programmer error.
func buildRecord(userID string, draft *model.ListingDraft) (*model.Listing, error) {
	listing := &model.Listing{
		OwnerID:                 userID,
		Type:                    draft.Type,
		DisplayNo:               draft.DisplayNo,
		Title:                   draft.Title,
		Description:             draft.Description,
		Origin:                  optionalString(draft.Origin),
		Destination:             optionalString(draft.Destination),
		LoadingDate:             optionalString(draft.LoadingDate),
		DeliveryDate:            optionalString(draft.DeliveryDate),
		TransportResponsibility: optionalString(draft.TransportResponsibility),
		DocumentLabels:          append([]string{}, draft.SelectedDocuments...),
		AssetURLs:               []string{},
		Status:                  model.ListingStatusActive,
	}

	if draft.Mode != nil {
		listing.TransportMode = draft.Mode.Mode
		listing.ModeDetails = draft.Mode
	}

	weight, err := strconv.ParseFloat(draft.Weight.Value, 64)
	if err != nil {
		return nil, &ValidationError{Field: "weight", Message: "weight must be a number"}
	}
	listing.WeightValue = &weight
	listing.WeightUnit = optionalString(draft.Weight.Unit)

	if draft.Volume.Value != "" {
		volume, err := strconv.ParseFloat(draft.Volume.Value, 64)
		if err != nil {
			return nil, &ValidationError{Field: "volume", Message: "volume must be a number"}
		}
		listing.VolumeValue = &volume
		listing.VolumeUnit = optionalString(draft.Volume.Unit)
	}

	if draft.Price.Mode == model.PricingModeFixed {
		amount, err := strconv.ParseFloat(draft.Price.Amount, 64)
		if err != nil {
			return nil, &ValidationError{Field: "price", Message: "price must be a number"}
		}
		listing.PriceAmount = &amount
		listing.PriceCurrency = optionalString(draft.Price.Currency)
	}
	if draft.Price.Mode != "" {
		mode := draft.Price.Mode
		listing.PricingMode = &mode
	}

	return listing, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
