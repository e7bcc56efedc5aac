package handler

import (
	"net/http"
	"strconv"

	"pixvault/backend/common"
	pverrors "pixvault/backend/common/errors"
	"pixvault/backend/common/i18n"
	"pixvault/backend/model"

	"github.com/gin-gonic/gin"
)

// Tiers are reference data: admins create and edit them, accounts only
// reference them. Deleting a tier detaches its accounts instead of
// deleting them.

func GetAllTiers(c *gin.Context) {
	tiers, err := model.GetAllTiers()
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, tiers)
}

func GetTier(c *gin.Context) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, "id").Error())
		return
	}
	tier, err := model.GetTierById(id)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.New(pverrors.ErrTierNotFound, lang).Error())
		return
	}
	common.RespSuccess(c, tier)
}

type TierCreateRequestPayload struct {
	Name               string `json:"name" validate:"required,max=50"`
	MaxThumbnailHeight int    `json:"max_thumbnail_height" validate:"omitempty,gte=1"`
	CanSeeOriginal     bool   `json:"can_see_original"`
	CanGenerateLinks   bool   `json:"can_generate_links"`
}

func CreateTier(c *gin.Context) {
	lang := c.GetString("lang")
	var payload TierCreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if err := common.Validate.Struct(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if model.IsTierNameTaken(payload.Name) {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.New(pverrors.ErrTierNameTaken, lang).Error())
		return
	}
	tier := &model.Tier{
		Name:               payload.Name,
		MaxThumbnailHeight: payload.MaxThumbnailHeight,
		CanSeeOriginal:     payload.CanSeeOriginal,
		CanGenerateLinks:   payload.CanGenerateLinks,
	}
	if tier.MaxThumbnailHeight == 0 {
		tier.MaxThumbnailHeight = model.DefaultTierPolicy.MaxThumbnailHeight
	}
	if err := tier.Insert(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to create tier", err)
		return
	}
	common.RespSuccess(c, tier)
}

type TierUpdateRequestPayload struct {
	ID                 int64   `json:"id" validate:"required"`
	Name               *string `json:"name" validate:"omitempty,max=50"`
	MaxThumbnailHeight *int    `json:"max_thumbnail_height" validate:"omitempty,gte=1"`
	CanSeeOriginal     *bool   `json:"can_see_original"`
	CanGenerateLinks   *bool   `json:"can_generate_links"`
}

func UpdateTier(c *gin.Context) {
	lang := c.GetString("lang")
	var payload TierUpdateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if err := common.Validate.Struct(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	tier, err := model.GetTierById(payload.ID)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.New(pverrors.ErrTierNotFound, lang).Error())
		return
	}
	if payload.Name != nil && *payload.Name != tier.Name {
		if model.IsTierNameTaken(*payload.Name) {
			common.RespErrorStr(c, http.StatusBadRequest, i18n.New(pverrors.ErrTierNameTaken, lang).Error())
			return
		}
		tier.Name = *payload.Name
	}
	if payload.MaxThumbnailHeight != nil {
		tier.MaxThumbnailHeight = *payload.MaxThumbnailHeight
	}
	if payload.CanSeeOriginal != nil {
		tier.CanSeeOriginal = *payload.CanSeeOriginal
	}
	if payload.CanGenerateLinks != nil {
		tier.CanGenerateLinks = *payload.CanGenerateLinks
	}
	if err := tier.Update(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to update tier", err)
		return
	}
	common.RespSuccess(c, tier)
}

func DeleteTier(c *gin.Context) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, "id").Error())
		return
	}
	if err := model.DeleteTierById(id); err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.New(pverrors.ErrTierNotFound, lang).Error())
		return
	}
	common.RespSuccessStr(c, "tier deleted")
}
