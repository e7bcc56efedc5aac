package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pixvault/backend/common"
	pverrors "pixvault/backend/common/errors"
	"pixvault/backend/common/i18n"
	"pixvault/backend/model"
	"pixvault/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type RegisterRequestPayload struct {
	Username    string `json:"username" validate:"required,min=3,max=20"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
}

func Register(c *gin.Context) {
	lang := c.GetString("lang")
	var payload RegisterRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if err := common.Validate.Struct(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if model.IsUsernameAlreadyTaken(payload.Username) {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.New(pverrors.ErrUsernameTaken, lang).Error())
		return
	}
	user := &model.User{
		Username:    payload.Username,
		Password:    payload.Password,
		DisplayName: payload.DisplayName,
		Role:        common.RoleCommonUser,
		Status:      common.UserStatusEnabled,
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	if err := user.Insert(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to create user", err)
		return
	}
	common.RespSuccess(c, user)
}

type LoginRequestPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(c *gin.Context) {
	lang := c.GetString("lang")
	var payload LoginRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	user := &model.User{
		Username: payload.Username,
		Password: payload.Password,
	}
	if err := user.ValidateAndFill(lang); err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}

	session := sessions.Default(c)
	session.Set("id", user.ID)
	session.Set("username", user.Username)
	session.Set("role", user.Role)
	session.Set("status", user.Status)
	if err := session.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to save session", err)
		return
	}

	accessToken, err := service.GenerateToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to generate token", err)
		return
	}
	refreshToken, err := service.GenerateRefreshToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to generate refresh token", err)
		return
	}

	common.RespSuccess(c, gin.H{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()

	// Blacklist the presented access token for its remaining lifetime.
	if common.RedisEnabled {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := service.ValidateToken(parts[1]); err == nil {
				remaining := time.Until(claims.ExpiresAt.Time)
				if remaining > 0 {
					_ = common.RedisSet("jwt:blacklist:"+parts[1], "1", remaining)
				}
			}
		}
	}
	common.RespSuccessStr(c, "logged out")
}

type RefreshRequestPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func RefreshToken(c *gin.Context) {
	lang := c.GetString("lang")
	var payload RefreshRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	claims, err := service.ValidateRefreshToken(payload.RefreshToken)
	if err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	user, err := model.GetUserById(claims.UserID, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}
	if user.Status != common.UserStatusEnabled {
		common.RespErrorStr(c, http.StatusForbidden, i18n.New(pverrors.ErrUserDisabled, lang).Error())
		return
	}
	accessToken, err := service.GenerateToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to generate token", err)
		return
	}
	refreshToken, err := service.GenerateRefreshToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to generate refresh token", err)
		return
	}
	common.RespSuccess(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func sessionUserId(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

func GetSelf(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := sessionUserId(c)
	if !ok {
		common.RespErrorStr(c, http.StatusUnauthorized, "user_id not found in context")
		return
	}
	user, err := model.GetUserById(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	common.RespSuccess(c, user)
}

type SelfUpdateRequestPayload struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	Password    string `json:"password" validate:"omitempty,min=6"`
}

func UpdateSelf(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := sessionUserId(c)
	if !ok {
		common.RespErrorStr(c, http.StatusUnauthorized, "user_id not found in context")
		return
	}
	var payload SelfUpdateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if err := common.Validate.Struct(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	user, err := model.GetUserById(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	if payload.DisplayName != "" {
		user.DisplayName = payload.DisplayName
	}
	updatePassword := payload.Password != ""
	if updatePassword {
		user.Password = payload.Password
	}
	if err := user.Update(updatePassword); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to update user", err)
		return
	}
	common.RespSuccess(c, user)
}

func DeleteSelf(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := sessionUserId(c)
	if !ok {
		common.RespErrorStr(c, http.StatusUnauthorized, "user_id not found in context")
		return
	}
	if err := model.DeleteUserById(id, lang); err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	common.RespSuccessStr(c, "account deleted")
}

func GetAllUsers(c *gin.Context) {
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	users, err := model.GetAllUsers(p*common.ItemsPerPage, common.ItemsPerPage)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, users)
}

func SearchUsers(c *gin.Context) {
	keyword := c.Query("keyword")
	users, err := model.SearchUsers(keyword)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, users)
}

func GetUser(c *gin.Context) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, "id").Error())
		return
	}
	user, err := model.GetUserById(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	myRole := c.GetInt("role")
	if myRole <= user.Role {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate("no_permission_get_same_or_higher_user", lang))
		return
	}
	common.RespSuccess(c, user)
}

type UserCreateRequestPayload struct {
	Username    string `json:"username" validate:"required,min=3,max=20"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	Role        int    `json:"role" validate:"omitempty,gte=0"`
	TierId      *int64 `json:"tier_id"`
}

func CreateUser(c *gin.Context) {
	lang := c.GetString("lang")
	var payload UserCreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if err := common.Validate.Struct(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if model.IsUsernameAlreadyTaken(payload.Username) {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.New(pverrors.ErrUsernameTaken, lang).Error())
		return
	}
	if payload.Role >= c.GetInt("role") {
		common.RespErrorStr(c, http.StatusForbidden, "cannot create a user with a role at or above your own")
		return
	}
	if payload.TierId != nil {
		if _, err := model.GetTierById(*payload.TierId); err != nil {
			common.RespErrorStr(c, http.StatusBadRequest, i18n.New(pverrors.ErrTierNotFound, lang).Error())
			return
		}
	}
	user := &model.User{
		Username:    payload.Username,
		Password:    payload.Password,
		DisplayName: payload.DisplayName,
		Role:        payload.Role,
		Status:      common.UserStatusEnabled,
	}
	if payload.TierId != nil {
		user.TierId = *payload.TierId
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	if err := user.Insert(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to create user", err)
		return
	}
	common.RespSuccess(c, user)
}

// UserUpdateRequestPayload uses pointer fields to distinguish "not
// provided" from zero values; ClearTier detaches the tier.
type UserUpdateRequestPayload struct {
	ID          int64   `json:"id" validate:"required"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=50"`
	Role        *int    `json:"role" validate:"omitempty,gte=0"`
	Status      *int    `json:"status" validate:"omitempty,oneof=1 2"`
	Password    string  `json:"password" validate:"omitempty,min=6"`
	TierId      *int64  `json:"tier_id"`
	ClearTier   bool    `json:"clear_tier"`
}

func UpdateUser(c *gin.Context) {
	lang := c.GetString("lang")
	var payload UserUpdateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	if err := common.Validate.Struct(&payload); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, err.Error()).Error())
		return
	}
	user, err := model.GetUserById(payload.ID, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	myRole := c.GetInt("role")
	if myRole <= user.Role {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate("no_permission_get_same_or_higher_user", lang))
		return
	}
	if payload.DisplayName != nil {
		user.DisplayName = *payload.DisplayName
	}
	if payload.Role != nil {
		if *payload.Role >= myRole {
			common.RespErrorStr(c, http.StatusForbidden, "cannot promote a user to a role at or above your own")
			return
		}
		user.Role = *payload.Role
	}
	if payload.Status != nil {
		user.Status = *payload.Status
	}
	if payload.ClearTier {
		user.TierId = 0
	} else if payload.TierId != nil {
		if _, err := model.GetTierById(*payload.TierId); err != nil {
			common.RespErrorStr(c, http.StatusBadRequest, i18n.New(pverrors.ErrTierNotFound, lang).Error())
			return
		}
		user.TierId = *payload.TierId
	}
	updatePassword := payload.Password != ""
	if updatePassword {
		user.Password = payload.Password
	}
	if err := user.Update(updatePassword); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to update user", err)
		return
	}
	common.RespSuccess(c, user)
}

func DeleteUser(c *gin.Context) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.InvalidParamError(lang, "id").Error())
		return
	}
	user, err := model.GetUserById(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	if c.GetInt("role") <= user.Role {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate("no_permission_get_same_or_higher_user", lang))
		return
	}
	if err := model.DeleteUserById(id, lang); err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccessStr(c, "user deleted")
}
