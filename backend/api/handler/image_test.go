package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"pixvault/backend/common"
	"pixvault/backend/model"

	"github.com/stretchr/testify/assert"
)

func TestImageLifecycle(t *testing.T) {
	user := createTestUser(t, "lifecycle-user", nil)
	router := newImageRouter(user.ID)

	// Create a record, then rename it, then fetch it back.
	w := doJSON(router, http.MethodPost, "/api/images/", ImageRequestPayload{Title: "holiday"})
	assert.Equal(t, http.StatusOK, w.Code)
	var created model.UserImage
	decodeData(t, w, &created)
	assert.Equal(t, "holiday", created.Title)
	assert.Equal(t, user.ID, created.UserId)
	assert.Empty(t, created.StoredName)

	w = doJSON(router, http.MethodPut, fmt.Sprintf("/api/images/%d", created.ID), ImageRequestPayload{Title: "holiday 2026"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var fetched model.UserImage
	decodeData(t, w, &fetched)
	assert.Equal(t, "holiday 2026", fetched.Title)

	// Listing only shows the caller's own records.
	stranger := createTestUser(t, "lifecycle-stranger", nil)
	w = doJSON(newImageRouter(stranger.ID), http.MethodGet, "/api/images/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var strangerImages []*model.UserImage
	decodeData(t, w, &strangerImages)
	assert.Empty(t, strangerImages)

	// And the record is invisible to anyone but the owner.
	w = doJSON(newImageRouter(stranger.ID), http.MethodGet, fmt.Sprintf("/api/images/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/images/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateImage_RequiresTitle(t *testing.T) {
	user := createTestUser(t, "title-user", nil)
	router := newImageRouter(user.ID)

	w := doJSON(router, http.MethodPost, "/api/images/", ImageRequestPayload{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImage(t *testing.T) {
	user := createTestUser(t, "upload-user", nil)
	router := newImageRouter(user.ID)

	w := doJSON(router, http.MethodPost, "/api/images/", ImageRequestPayload{Title: "raw"})
	var created model.UserImage
	decodeData(t, w, &created)

	// Unsupported extensions are rejected before anything is stored.
	w = doUpload(t, router, fmt.Sprintf("/api/images/%d/upload", created.ID), "animation.gif", []byte("gif bytes"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload := encodedImage(t, "photo.jpg", 400, 300)
	w = doUpload(t, router, fmt.Sprintf("/api/images/%d/upload", created.ID), "photo.jpg", payload)
	assert.Equal(t, http.StatusOK, w.Code)
	var uploaded model.UserImage
	decodeData(t, w, &uploaded)
	assert.NotEmpty(t, uploaded.StoredName)
	assert.Equal(t, ".jpg", filepath.Ext(uploaded.StoredName))

	stored, err := os.ReadFile(filepath.Join(common.UploadPath, uploaded.StoredName))
	assert.NoError(t, err)
	assert.Equal(t, payload, stored)

	// A re-upload replaces the stored file.
	previous := uploaded.StoredName
	w = doUpload(t, router, fmt.Sprintf("/api/images/%d/upload", created.ID), "replacement.png", encodedImage(t, "replacement.png", 100, 100))
	assert.Equal(t, http.StatusOK, w.Code)
	var replaced model.UserImage
	decodeData(t, w, &replaced)
	assert.NotEqual(t, previous, replaced.StoredName)
	_, err = os.Stat(filepath.Join(common.UploadPath, previous))
	assert.True(t, os.IsNotExist(err))
}

// Walks the whole flow for a basic account: register the record, upload
// the file, pull thumbnails within the tier cap and get refused beyond it.
func TestThumbnailEndToEnd_BasicTier(t *testing.T) {
	tier := &model.Tier{Name: "thumb-basic", MaxThumbnailHeight: 200}
	user := createTestUser(t, "thumb-basic-user", tier)
	router := newImageRouter(user.ID)

	w := doJSON(router, http.MethodPost, "/api/images/", ImageRequestPayload{Title: "scenic"})
	var created model.UserImage
	decodeData(t, w, &created)

	// Asking for a thumbnail before the upload cannot work.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d/thumbnail?image_height=100", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	doUpload(t, router, fmt.Sprintf("/api/images/%d/upload", created.ID), "scenic.jpg", encodedImage(t, "scenic.jpg", 400, 300))

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d/thumbnail?image_height=100", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	img, _, err := image.Decode(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dy())

	// The cap itself is fine.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d/thumbnail?image_height=200", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// One pixel past the cap is refused.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d/thumbnail?image_height=201", created.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Your account tier does not allow to create thumbnails of that size", plainError(t, w))

	// A basic tier may not ask for the original by omitting the height.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d/thumbnail", created.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Garbage heights are a parameter problem, not a permission one.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d/thumbnail?image_height=abc", created.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `The value of "image_height" parameter is not a number`, plainError(t, w))
}

func TestThumbnail_PremiumTierGetsOriginal(t *testing.T) {
	tier := &model.Tier{Name: "thumb-premium", MaxThumbnailHeight: 400, CanSeeOriginal: true}
	user := createTestUser(t, "thumb-premium-user", tier)
	router := newImageRouter(user.ID)

	w := doJSON(router, http.MethodPost, "/api/images/", ImageRequestPayload{Title: "original"})
	var created model.UserImage
	decodeData(t, w, &created)

	payload := encodedImage(t, "original.png", 300, 240)
	doUpload(t, router, fmt.Sprintf("/api/images/%d/upload", created.ID), "original.png", payload)

	// Omitting the height serves the stored bytes untouched.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d/thumbnail", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, payload, w.Body.Bytes())

	// A height beyond the source is served at native size, never upscaled.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/images/%d/thumbnail?image_height=400", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	img, _, err := image.Decode(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestGenerateLink(t *testing.T) {
	basicTier := &model.Tier{Name: "link-basic", MaxThumbnailHeight: 200}
	basic := createTestUser(t, "link-basic-user", basicTier)
	basicRouter := newImageRouter(basic.ID)

	w := doJSON(basicRouter, http.MethodPost, "/api/images/", ImageRequestPayload{Title: "no links"})
	var basicImage model.UserImage
	decodeData(t, w, &basicImage)
	doUpload(t, basicRouter, fmt.Sprintf("/api/images/%d/upload", basicImage.ID), "a.jpg", encodedImage(t, "a.jpg", 50, 50))

	// The tier gate answers first, whatever live_time says.
	w = doJSON(basicRouter, http.MethodGet, fmt.Sprintf("/api/images/%d/generate-link?live_time=600", basicImage.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Your account tier does not allow to create links to this image", plainError(t, w))
	w = doJSON(basicRouter, http.MethodGet, fmt.Sprintf("/api/images/%d/generate-link?live_time=junk", basicImage.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	proTier := &model.Tier{Name: "link-pro", MaxThumbnailHeight: 400, CanSeeOriginal: true, CanGenerateLinks: true}
	pro := createTestUser(t, "link-pro-user", proTier)
	proRouter := newImageRouter(pro.ID)

	w = doJSON(proRouter, http.MethodPost, "/api/images/", ImageRequestPayload{Title: "shareable"})
	var proImage model.UserImage
	decodeData(t, w, &proImage)

	// No link for a record that has no bytes yet.
	w = doJSON(proRouter, http.MethodGet, fmt.Sprintf("/api/images/%d/generate-link?live_time=600", proImage.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	doUpload(t, proRouter, fmt.Sprintf("/api/images/%d/upload", proImage.ID), "b.jpg", encodedImage(t, "b.jpg", 50, 50))

	for _, liveTime := range []string{"299", "30001"} {
		w = doJSON(proRouter, http.MethodGet, fmt.Sprintf("/api/images/%d/generate-link?live_time=%s", proImage.ID, liveTime), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "You can only create links with live time between 300 and 30000 seconds", plainError(t, w))
	}

	w = doJSON(proRouter, http.MethodGet, fmt.Sprintf("/api/images/%d/generate-link?live_time=junk", proImage.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `The value of "live_time" parameter is incorrect`, plainError(t, w))

	for _, liveTime := range []string{"300", "30000"} {
		w = doJSON(proRouter, http.MethodGet, fmt.Sprintf("/api/images/%d/generate-link?live_time=%s", proImage.ID, liveTime), nil)
		assert.Equal(t, http.StatusOK, w.Code, "live_time %s must be accepted", liveTime)
		var resp struct {
			Link string `json:"link"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Link, "/media/"+mustImage(t, proImage.ID).StoredName+"?token=")
	}
}

func mustImage(t *testing.T, id int64) *model.UserImage {
	t.Helper()
	image, err := model.UserImageDB.ByID(id)
	assert.NoError(t, err)
	return image
}
