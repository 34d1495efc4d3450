package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badaskaptan/kargomarket-sub000/internal/auth"
	"github.com/badaskaptan/kargomarket-sub000/internal/config"
	"github.com/badaskaptan/kargomarket-sub000/internal/listing/model"
	"github.com/badaskaptan/kargomarket-sub000/internal/listing/service"
	"github.com/badaskaptan/kargomarket-sub000/internal/uploads"
)

const testSecret = "test-secret"

// memoryRepo is an in-memory ListingRepository for handler tests.
type memoryRepo struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*model.Listing
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{listings: make(map[uuid.UUID]*model.Listing)}
}

func (r *memoryRepo) Create(ctx context.Context, listing *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing.ID = uuid.New()
	stored := *listing
	r.listings[listing.ID] = &stored
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, listing *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *listing
	r.listings[listing.ID] = &stored
	return nil
}

func (r *memoryRepo) UpdateAssetURLs(ctx context.Context, listingID uuid.UUID, urls []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[listingID]
	if !ok {
		return service.ErrListingNotFound
	}
	listing.AssetURLs = urls
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[listingID]
	if !ok {
		return nil, service.ErrListingNotFound
	}
	copied := *listing
	return &copied, nil
}

func (r *memoryRepo) List(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Listing
	for _, listing := range r.listings {
		if filter.OwnerID != nil && listing.OwnerID != *filter.OwnerID {
			continue
		}
		out = append(out, *listing)
	}
	return out, nil
}

// memoryDriver stores objects in memory and never fails.
type memoryDriver struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func (d *memoryDriver) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.saved[key] = content
	return nil
}

func (d *memoryDriver) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return nil, "", errors.New("not implemented")
}

func (d *memoryDriver) Delete(ctx context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.saved, key)
	return nil
}

func (d *memoryDriver) GenerateURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://cdn.test/" + key, nil
}

func testLimits() config.UploadLimitsConfig {
	return config.UploadLimitsConfig{
		MaxDocumentBytes: 20 << 20,
		MaxImageBytes:    10 << 20,
		DocumentMIMEs:    []string{"application/pdf"},
		ImageMIMEs:       []string{"image/png"},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *memoryRepo, *memoryDriver) {
	t.Helper()

	repo := newMemoryRepo()
	driver := &memoryDriver{saved: make(map[string][]byte)}
	storage := uploads.NewUploadService(driver)
	lr := NewListingRouter(repo, storage, service.SlogNotifier{}, testLimits())

	verifier := auth.NewTokenVerifier(testSecret)
	requireAuth := auth.RequireAuth(verifier)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/schema/{mode}", lr.HandleGetSchema)
	mux.Handle("POST /api/listings", requireAuth(http.HandlerFunc(lr.HandleCreateListing)))
	mux.Handle("GET /api/listings", requireAuth(http.HandlerFunc(lr.HandleGetListings)))
	mux.Handle("GET /api/listings/{listingID}", requireAuth(http.HandlerFunc(lr.HandleGetListing)))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, repo, driver
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func multipartSubmission(t *testing.T, payload model.ListingPayload, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	payloadJSON, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("payload", string(payloadJSON)))

	for name, content := range files {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="files"; filename="` + name + `"`}
		header["Content-Type"] = []string{"application/pdf"}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func roadPayload() model.ListingPayload {
	return model.ListingPayload{
		Type:          string(model.ListingTypeLoad),
		Title:         "Steel coils Istanbul to Hamburg",
		Description:   "40 coils, tarpaulin required",
		Origin:        "Istanbul",
		Destination:   "Hamburg",
		LoadingDate:   "2026-09-15",
		Weight:        model.MeasurementInput{Value: "10.5", Unit: "t"},
		Volume:        model.MeasurementInput{Value: "25.0", Unit: "m3"},
		TransportMode: string(model.TransportModeRoad),
	}
}

func TestHandleGetSchema(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/schema/sea")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		VehicleTaxonomy []struct {
			Group string `json:"group"`
		} `json:"vehicleTaxonomy"`
		DocumentCatalog []struct {
			Category string `json:"category"`
		} `json:"documentCatalog"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.VehicleTaxonomy)
	assert.Greater(t, len(body.DocumentCatalog), 1, "sea catalog is grouped")

	resp, err = http.Get(server.URL + "/api/schema/teleport")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "unknown modes render empty, not an error")
}

func TestHandleCreateListing(t *testing.T) {
	t.Run("rejects unauthenticated submissions before any work", func(t *testing.T) {
		server, repo, _ := newTestServer(t)

		body, contentType := multipartSubmission(t, roadPayload(), nil)
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/listings", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Empty(t, repo.listings)
	})

	t.Run("creates a listing and uploads its files", func(t *testing.T) {
		server, repo, driver := newTestServer(t)

		body, contentType := multipartSubmission(t, roadPayload(), map[string]string{
			"cmr.pdf": "document body",
		})
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/listings", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearerToken(t, "user-1"))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var response model.SubmissionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
		assert.Equal(t, "FULL_SUCCESS", response.Outcome)
		assert.Len(t, response.AssetURLs, 1)
		assert.Len(t, repo.listings, 1)
		assert.Len(t, driver.saved, 1)

		stored, err := repo.GetByID(context.Background(), response.Listing.ID)
		require.NoError(t, err)
		assert.Equal(t, "user-1", stored.OwnerID)
		assert.Equal(t, response.AssetURLs, stored.AssetURLs)
	})

	t.Run("validation failure returns 400 and persists nothing", func(t *testing.T) {
		server, repo, driver := newTestServer(t)

		payload := roadPayload()
		payload.Title = ""
		body, contentType := multipartSubmission(t, payload, nil)
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/listings", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearerToken(t, "user-1"))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, repo.listings)
		assert.Empty(t, driver.saved)
	})

	t.Run("a disallowed file type fails the request at attach time", func(t *testing.T) {
		server, repo, _ := newTestServer(t)

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		payloadJSON, _ := json.Marshal(roadPayload())
		require.NoError(t, writer.WriteField("payload", string(payloadJSON)))
		header := map[string][]string{
			"Content-Disposition": {`form-data; name="files"; filename="run.exe"`},
			"Content-Type":        {"application/x-msdownload"},
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, _ = part.Write([]byte("mz"))
		require.NoError(t, writer.Close())

		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/listings", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", bearerToken(t, "user-1"))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, repo.listings)
	})
}

func TestHandleGetListings(t *testing.T) {
	server, repo, _ := newTestServer(t)

	mine := &model.Listing{OwnerID: "user-1", Type: model.ListingTypeLoad, Title: "Mine"}
	theirs := &model.Listing{OwnerID: "user-2", Type: model.ListingTypeLoad, Title: "Theirs"}
	require.NoError(t, repo.Create(context.Background(), mine))
	require.NoError(t, repo.Create(context.Background(), theirs))

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/listings", nil)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listings []model.Listing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listings))
	assert.Len(t, listings, 1)
	assert.Equal(t, "Mine", listings[0].Title)
}
