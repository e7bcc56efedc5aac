package handler

import (
	"bytes"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"pixvault/backend/common"
	"pixvault/backend/model"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	common.SQLitePath = ":memory:"
	common.RedisEnabled = false
	common.RDB = nil

	uploadDir, err := os.MkdirTemp("", "pixvault-upload-*")
	if err != nil {
		panic(err)
	}
	common.UploadPath = uploadDir

	if err := model.InitDB(); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(uploadDir)
	os.Exit(code)
}

// asUser stands in for the auth middleware chain: it injects the caller
// identity the way UserAuth does after a successful session or token check.
func asUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", "en")
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// newImageRouter wires the image endpoints for one authenticated caller.
func newImageRouter(userID int64) *gin.Engine {
	router := gin.New()
	images := router.Group("/api/images", asUser(userID))
	{
		images.GET("/", GetMyImages)
		images.POST("/", CreateImage)
		images.GET("/:id", GetImage)
		images.PUT("/:id", UpdateImage)
		images.DELETE("/:id", DeleteImage)
		images.POST("/:id/upload", UploadImage)
		images.GET("/:id/thumbnail", GetThumbnail)
		images.GET("/:id/generate-link", GenerateLink)
	}
	return router
}

// newMediaRouter wires the raw-bytes endpoint, optionally with a caller
// identity (0 means anonymous).
func newMediaRouter(userID int64) *gin.Engine {
	router := gin.New()
	router.GET("/media/*path", asUser(userID), ServeMedia)
	return router
}

func createTestUser(t *testing.T, username string, tier *model.Tier) *model.User {
	t.Helper()
	user := &model.User{Username: username, Password: "secret123", Role: common.RoleCommonUser, Status: common.UserStatusEnabled}
	if tier != nil {
		assert.NoError(t, tier.Insert())
		user.TierId = tier.ID
	}
	assert.NoError(t, user.Insert())
	return user
}

func encodedImage(t *testing.T, name string, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	format, err := imaging.FormatFromFilename(name)
	assert.NoError(t, err)
	var buf bytes.Buffer
	assert.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func doJSON(router *gin.Engine, method, target string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doUpload(t *testing.T, router *gin.Engine, target, fileName string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", fileName)
	assert.NoError(t, err)
	_, err = part.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success, "unexpected failure response: %s", resp.Message)
	if out != nil {
		assert.NoError(t, json.Unmarshal(resp.Data, out))
	}
}

func plainError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}
