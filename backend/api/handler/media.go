package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pixvault/backend/common"
	pverrors "pixvault/backend/common/errors"
	"pixvault/backend/common/i18n"
	"pixvault/backend/model"
	"pixvault/backend/service"

	"github.com/gin-gonic/gin"
)

// ServeMedia streams the original bytes of a stored image. Access is
// granted by a live link token bound to the image, or by an authenticated
// caller whose tier allows originals. Every failure, including a file that
// simply does not exist, produces the same 400 body so outside callers
// cannot probe which images exist.
func ServeMedia(c *gin.Context) {
	lang := c.GetString("lang")
	deny := func() {
		common.RespErrorPlain(c, http.StatusBadRequest, i18n.Translate(pverrors.ErrMediaDenied, lang))
	}

	storedName := strings.TrimPrefix(c.Param("path"), "/")
	if storedName == "" || storedName != filepath.Base(storedName) {
		// Path traversal attempts get the same answer as everything else.
		deny()
		return
	}

	image, err := model.GetImageByStoredName(storedName)
	if err != nil {
		deny()
		return
	}
	filePath := filepath.Join(common.UploadPath, storedName)
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		deny()
		return
	}

	var user *model.User
	if userID, ok := sessionUserId(c); ok {
		user, _ = model.GetUserById(userID, lang)
	}

	if !service.AuthorizeMediaRequest(image, c.Query("token"), user) {
		deny()
		return
	}

	format, supported := model.ImageFormatForName(storedName)
	if !supported {
		deny()
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		deny()
		return
	}
	c.Data(http.StatusOK, "image/"+format, data)
}
