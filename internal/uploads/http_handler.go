package uploads

import (
	"io"
	"net/http"
)

// HTTPHandler serves stored objects back over HTTP. Uploading happens through
// the listing submission flow, never through a standalone endpoint, so this
// handler is download-only. It backs the URLs the local filesystem driver
// generates; S3-backed deployments serve objects directly and can skip it.
type HTTPHandler struct {
	Service *UploadService
}

func NewHTTPHandler(service *UploadService) *HTTPHandler {
	return &HTTPHandler{Service: service}
}

// Download streams the object at the key carried in the URL path. Keys are
// slash-separated (listings/{listingID}/{file}), so the route must use a
// trailing wildcard.
func (h *HTTPHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		http.Error(w, `{"error": "key is required"}`, http.StatusBadRequest)
		return
	}

	reader, contentType, err := h.Service.Download(r.Context(), key)
	if err != nil {
		http.Error(w, `{"error": "file not found"}`, http.StatusNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, reader)
}
