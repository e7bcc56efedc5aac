package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pixvault/backend/common"
	pverrors "pixvault/backend/common/errors"
	"pixvault/backend/common/i18n"
	"pixvault/backend/model"
	"pixvault/backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// loadOwnImage resolves :id to an image owned by the caller. Images are
// always scoped to their owner on the /api/images surface; other parties
// only ever reach bytes through /media.
func loadOwnImage(c *gin.Context) (*model.UserImage, bool) {
	lang := c.GetString("lang")
	userID, ok := sessionUserId(c)
	if !ok {
		common.RespErrorStr(c, http.StatusUnauthorized, "user_id not found in context")
		return nil, false
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, "id").Error())
		return nil, false
	}
	image, err := model.GetImageByIdAndUser(id, userID)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.New(pverrors.ErrImageNotFound, lang).Error())
		return nil, false
	}
	return image, true
}

func GetMyImages(c *gin.Context) {
	userID, ok := sessionUserId(c)
	if !ok {
		common.RespErrorStr(c, http.StatusUnauthorized, "user_id not found in context")
		return
	}
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	images, err := model.GetImagesByUserId(userID, p*common.ItemsPerPage, common.ItemsPerPage)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, images)
}

type ImageRequestPayload struct {
	Title string `json:"title" validate:"required,max=255"`
}

func CreateImage(c *gin.Context) {
	lang := c.GetString("lang")
	userID, ok := sessionUserId(c)
	if !ok {
		common.RespErrorStr(c, http.StatusUnauthorized, "user_id not found in context")
		return
	}
	var payload ImageRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if err := common.Validate.Struct(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	image := &model.UserImage{
		UserId: userID,
		Title:  payload.Title,
	}
	if err := image.Insert(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to create image record", err)
		return
	}
	common.RespSuccess(c, image)
}

func GetImage(c *gin.Context) {
	image, ok := loadOwnImage(c)
	if !ok {
		return
	}
	common.RespSuccess(c, image)
}

func UpdateImage(c *gin.Context) {
	lang := c.GetString("lang")
	image, ok := loadOwnImage(c)
	if !ok {
		return
	}
	var payload ImageRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if err := common.Validate.Struct(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	image.Title = payload.Title
	if err := image.Update(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to update image record", err)
		return
	}
	common.RespSuccess(c, image)
}

func DeleteImage(c *gin.Context) {
	image, ok := loadOwnImage(c)
	if !ok {
		return
	}
	if err := image.Delete(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to delete image record", err)
		return
	}
	if image.StoredName != "" {
		if err := os.Remove(filepath.Join(common.UploadPath, image.StoredName)); err != nil && !os.IsNotExist(err) {
			common.SysError("failed to delete image file " + image.StoredName + ": " + err.Error())
		}
	}
	common.RespSuccessStr(c, "image deleted")
}

// UploadImage stores the binary for an existing record. The file keeps its
// extension but gets a uuid name, which is also the public /media segment.
func UploadImage(c *gin.Context) {
	lang := c.GetString("lang")
	image, ok := loadOwnImage(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, "image").Error())
		return
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if _, supported := model.ContentTypes[ext]; !supported {
		common.RespErrorStr(c, http.StatusBadRequest, "unsupported image format, allowed: png, jpg")
		return
	}

	storedName := uuid.New().String() + "." + ext
	if err := c.SaveUploadedFile(fileHeader, filepath.Join(common.UploadPath, storedName)); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to store image file", err)
		return
	}

	previous := image.StoredName
	image.StoredName = storedName
	if err := image.Update(); err != nil {
		_ = os.Remove(filepath.Join(common.UploadPath, storedName))
		common.RespError(c, http.StatusInternalServerError, "failed to update image record", err)
		return
	}
	if previous != "" {
		if err := os.Remove(filepath.Join(common.UploadPath, previous)); err != nil && !os.IsNotExist(err) {
			common.SysError("failed to delete replaced image file " + previous + ": " + err.Error())
		}
	}
	common.RespSuccess(c, image)
}

// GetThumbnail renders the image scaled to the requested height, subject
// to the caller's tier. The error body shape here is the plain {"error":
// ...} of the media surface, not the APIResponse envelope.
func GetThumbnail(c *gin.Context) {
	lang := c.GetString("lang")
	image, ok := loadOwnImage(c)
	if !ok {
		return
	}
	userID, _ := sessionUserId(c)
	user, err := model.GetUserById(userID, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}

	decision, err := service.AuthorizeThumbnail(user.Policy(), c.Query("image_height"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageHeightInvalid):
			common.RespErrorPlain(c, http.StatusBadRequest, i18n.Translate(pverrors.ErrImageHeightInvalid, lang))
		case errors.Is(err, service.ErrThumbnailForbidden):
			common.RespErrorPlain(c, http.StatusForbidden, i18n.Translate(pverrors.ErrThumbnailForbidden, lang))
		default:
			common.RespErrorPlain(c, http.StatusInternalServerError, i18n.Translate(pverrors.ErrInternalServer, lang))
		}
		return
	}

	if image.StoredName == "" {
		common.RespErrorPlain(c, http.StatusNotFound, i18n.Translate(pverrors.ErrImageNotUploaded, lang))
		return
	}
	format, supported := model.ImageFormatForName(image.StoredName)
	if !supported {
		common.RespErrorPlain(c, http.StatusBadRequest, "unsupported image format")
		return
	}
	filePath := filepath.Join(common.UploadPath, image.StoredName)

	if decision.ServeOriginal {
		data, err := os.ReadFile(filePath)
		if err != nil {
			common.RespErrorPlain(c, http.StatusNotFound, i18n.Translate(pverrors.ErrImageNotUploaded, lang))
			return
		}
		c.Data(http.StatusOK, "image/"+format, data)
		return
	}

	file, err := os.Open(filePath)
	if err != nil {
		common.RespErrorPlain(c, http.StatusNotFound, i18n.Translate(pverrors.ErrImageNotUploaded, lang))
		return
	}
	defer file.Close()

	rendered, format, err := service.RenderThumbnail(file, image.StoredName, decision.Height)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			common.RespErrorPlain(c, http.StatusBadRequest, "unsupported image format")
			return
		}
		common.RespErrorPlain(c, http.StatusInternalServerError, i18n.Translate(pverrors.ErrInternalServer, lang))
		return
	}
	c.Data(http.StatusOK, "image/"+format, rendered)
}

// GenerateLink mints a temporary access link for the image. The tier gate
// is evaluated before the live_time value, matching the established
// behavior of this endpoint.
func GenerateLink(c *gin.Context) {
	lang := c.GetString("lang")
	image, ok := loadOwnImage(c)
	if !ok {
		return
	}
	userID, _ := sessionUserId(c)
	user, err := model.GetUserById(userID, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}
	if image.StoredName == "" {
		common.RespErrorPlain(c, http.StatusNotFound, i18n.Translate(pverrors.ErrImageNotUploaded, lang))
		return
	}

	liveTimeParam := c.Query("live_time")
	liveTime, parseErr := strconv.Atoi(liveTimeParam)
	if parseErr != nil {
		// Out-of-range sentinel; IssueLink still checks the tier first so a
		// forbidden tier answers 403 no matter what live_time says.
		liveTime = -1
	}

	link, err := service.IssueLink(image, liveTime, user.Policy())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkForbidden):
			common.RespErrorPlain(c, http.StatusForbidden, i18n.Translate(pverrors.ErrLinkForbidden, lang))
		case errors.Is(err, service.ErrLiveTimeInvalid) && parseErr != nil:
			common.RespErrorPlain(c, http.StatusBadRequest, i18n.Translate(pverrors.ErrLiveTimeNotNumber, lang))
		case errors.Is(err, service.ErrLiveTimeInvalid):
			common.RespErrorPlain(c, http.StatusBadRequest, i18n.Translate(pverrors.ErrLiveTimeInvalid, lang))
		default:
			common.RespErrorPlain(c, http.StatusInternalServerError, i18n.Translate(pverrors.ErrInternalServer, lang))
		}
		return
	}

	url := common.ServerAddress + "/media/" + image.StoredName + "?token=" + link.Token
	c.JSON(http.StatusOK, gin.H{"link": url})
}
