package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/badaskaptan/kargomarket-sub000/internal/auth"
	"github.com/badaskaptan/kargomarket-sub000/internal/config"
	"github.com/badaskaptan/kargomarket-sub000/internal/listing/model"
	"github.com/badaskaptan/kargomarket-sub000/internal/listing/schema"
	"github.com/badaskaptan/kargomarket-sub000/internal/listing/service"
	"github.com/badaskaptan/kargomarket-sub000/internal/uploads"
)

const maxSubmissionFormBytes = 64 << 20

// ListingRouter exposes the listing submission workflow over HTTP.
type ListingRouter struct {
	repo         service.ListingRepository
	orchestrator *service.UploadOrchestrator
	storage      *uploads.UploadService
	notifier     service.Notifier
	limits       config.UploadLimitsConfig
}

func NewListingRouter(repo service.ListingRepository, storage *uploads.UploadService, notifier service.Notifier, limits config.UploadLimitsConfig) *ListingRouter {
	return &ListingRouter{
		repo:         repo,
		orchestrator: service.NewUploadOrchestrator(storage),
		storage:      storage,
		notifier:     notifier,
		limits:       limits,
	}
}

// HandleGetSchema handles GET /api/schema/{mode} requests.
// Unknown modes yield empty taxonomy and catalog, not an error.
func (lr *ListingRouter) HandleGetSchema(w http.ResponseWriter, r *http.Request) {
	mode := model.TransportMode(strings.ToUpper(r.PathValue("mode")))

	response := struct {
		VehicleTaxonomy []schema.VehicleGroup  `json:"vehicleTaxonomy"`
		DocumentCatalog []schema.DocumentGroup `json:"documentCatalog"`
	}{
		VehicleTaxonomy: schema.VehicleTaxonomy(mode),
		DocumentCatalog: schema.DocumentCatalog(mode),
	}

	writeJSON(w, http.StatusOK, response)
}

// HandleCreateListing handles POST /api/listings requests. The body is
// multipart: a `payload` JSON part plus zero or more `files` parts.
func (lr *ListingRouter) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	lr.submit(w, r, nil)
}

// HandleUpdateListing handles PUT /api/listings/{listingID} requests with the
// same body shape as creation.
func (lr *ListingRouter) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(r.PathValue("listingID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid listingID: %v", err), http.StatusBadRequest)
		return
	}
	lr.submit(w, r, &listingID)
}

func (lr *ListingRouter) submit(w http.ResponseWriter, r *http.Request, listingID *uuid.UUID) {
	authCtx := auth.GetAuthContext(r.Context())
	userID := ""
	if authCtx != nil {
		userID = authCtx.UserID
	}

	if err := r.ParseMultipartForm(maxSubmissionFormBytes); err != nil {
		http.Error(w, `{"error":"failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}

	var payload model.ListingPayload
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &payload); err != nil {
		http.Error(w, `{"error":"payload part must be valid JSON"}`, http.StatusBadRequest)
		return
	}

	draft := service.BindPayload(&payload)
	if err := lr.attachUploadedFiles(draft, r.MultipartForm); err != nil {
		var unsupported *service.UnsupportedFileError
		if errors.As(err, &unsupported) {
			http.Error(w, fmt.Sprintf(`{"error":%q}`, unsupported.Error()), http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error":"failed to read attached files"}`, http.StatusBadRequest)
		return
	}

	controller := service.NewSubmissionController(lr.repo, lr.orchestrator, lr.notifier)

	var result *service.SubmissionResult
	var err error
	if listingID == nil {
		result, err = controller.Submit(r.Context(), userID, draft)
	} else {
		result, err = controller.SubmitUpdate(r.Context(), userID, *listingID, draft)
	}
	if err != nil {
		lr.writeSubmissionError(w, r, err)
		return
	}

	status := http.StatusCreated
	if listingID != nil {
		status = http.StatusOK
	}
	writeJSON(w, status, &model.SubmissionResponse{
		Listing:   result.Listing,
		Outcome:   string(result.Outcome),
		Message:   result.Message,
		AssetURLs: result.Listing.AssetURLs,
		Failed:    result.Report.FailedNames(),
	})
}

// attachUploadedFiles admits every uploaded part into the draft's basket.
// Image parts run under the image policy, everything else under the document
// policy. The first rejected file fails the request; the basket stays free of
// rejected files.
func (lr *ListingRouter) attachUploadedFiles(draft *model.ListingDraft, form *multipart.Form) error {
	if form == nil {
		return nil
	}
	for _, header := range form.File["files"] {
		mimeType := header.Header.Get("Content-Type")
		policy := service.DocumentPolicy(lr.limits)
		if strings.HasPrefix(mimeType, "image/") {
			policy = service.ImagePolicy(lr.limits)
		}

		file := model.AttachedFile{
			OriginalName: header.Filename,
			ByteSize:     header.Size,
			MimeType:     mimeType,
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		}
		if err := lr.orchestrator.Attach(draft, file, policy); err != nil {
			return err
		}
	}
	return nil
}

func (lr *ListingRouter) writeSubmissionError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	var perr *service.PersistenceError

	switch {
	case errors.As(err, &verr):
		http.Error(w, fmt.Sprintf(`{"error":%q,"field":%q}`, verr.Message, verr.Field), http.StatusBadRequest)
	case errors.Is(err, service.ErrUnauthenticated):
		http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
	case errors.Is(err, service.ErrListingNotFound):
		http.Error(w, `{"error":"listing not found"}`, http.StatusNotFound)
	case errors.Is(err, service.ErrListingTypeMismatch):
		http.Error(w, `{"error":"listing type does not match"}`, http.StatusConflict)
	case errors.As(err, &perr):
		slog.ErrorContext(r.Context(), "listing persistence failed", "op", perr.Op, "error", perr.Err)
		http.Error(w, `{"error":"the listing could not be saved"}`, http.StatusBadGateway)
	default:
		slog.ErrorContext(r.Context(), "listing submission failed", "error", err)
		http.Error(w, `{"error":"listing submission failed"}`, http.StatusInternalServerError)
	}
}

// HandleGetListings handles GET /api/listings requests for the acting user's
// own listings. Optional query filters: type, status, offset, limit.
func (lr *ListingRouter) HandleGetListings(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.GetAuthContext(r.Context())
	if authCtx == nil {
		http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
		return
	}

	filter := model.ListingFilter{OwnerID: &authCtx.UserID}

	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		listingType := model.ListingType(typeStr)
		if !listingType.Valid() {
			http.Error(w, "invalid 'type' query parameter", http.StatusBadRequest)
			return
		}
		filter.Type = &listingType
	}
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := model.ListingStatus(statusStr)
		filter.Status = &status
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		filter.Limit = &limit
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid 'offset' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		filter.Offset = &offset
	}

	listings, err := lr.repo.List(r.Context(), filter)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list listings: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, listings)
}

// HandleGetListing handles GET /api/listings/{listingID} requests.
func (lr *ListingRouter) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(r.PathValue("listingID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid listingID: %v", err), http.StatusBadRequest)
		return
	}

	listing, err := lr.repo.GetByID(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			http.Error(w, `{"error":"listing not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to get listing: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

// HandleRemoveListingAsset handles DELETE /api/listings/{listingID}/files.
// The stored object is deleted best-effort; the URL is detached from the
// record regardless of whether the remote delete succeeded.
func (lr *ListingRouter) HandleRemoveListingAsset(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.GetAuthContext(r.Context())
	if authCtx == nil {
		http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
		return
	}

	listingID, err := uuid.Parse(r.PathValue("listingID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid listingID: %v", err), http.StatusBadRequest)
		return
	}

	var body struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		http.Error(w, `{"error":"body must carry the asset url"}`, http.StatusBadRequest)
		return
	}

	listing, err := lr.repo.GetByID(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			http.Error(w, `{"error":"listing not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to get listing: %v", err), http.StatusInternalServerError)
		return
	}
	if listing.OwnerID != authCtx.UserID {
		http.Error(w, `{"error":"listing not found"}`, http.StatusNotFound)
		return
	}

	remaining := make([]string, 0, len(listing.AssetURLs))
	for _, url := range listing.AssetURLs {
		if url != body.URL {
			remaining = append(remaining, url)
		}
	}
	if err := lr.repo.UpdateAssetURLs(r.Context(), listing.ID, remaining); err != nil {
		http.Error(w, `{"error":"failed to detach asset"}`, http.StatusInternalServerError)
		return
	}

	if body.Key != "" {
		if err := lr.storage.Delete(r.Context(), body.Key); err != nil {
			slog.WarnContext(r.Context(), "best-effort delete of listing asset failed",
				"listing_id", listingID, "key", body.Key, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"assetUrls": remaining})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
