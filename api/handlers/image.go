package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wogarma/missions-api/cloudinary"
	"github.com/wogarma/missions-api/config"
	"github.com/wogarma/missions-api/models"
)

// Image exported for testing purposes
type Image struct {
	Uploader *cloudinary.Client
}

// UploadImageHandler proxies a base64 image payload to the media host
// and returns the hosted URL
func (i Image) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("no image data", http.StatusBadRequest, w, err)
		return
	}
	if req.Image == "" {
		config.ErrorStatus("no image data", http.StatusBadRequest, w, errors.New("empty image payload"))
		return
	}

	url, err := i.Uploader.Upload(r.Context(), req.Image)
	if err != nil {
		// the upstream status text is the most useful detail the client can act on
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.UploadResponse{Status: "OK", URL: url})
}
