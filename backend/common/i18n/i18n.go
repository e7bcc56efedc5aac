package i18n

import (
	"fmt"
	"strings"
)

const defaultLang = "en"

// translations maps error codes (or message keys) to per-language texts.
// The media-facing texts are fixed wire format and must not be reworded.
var translations = map[string]map[string]string{
	"en": {
		"ERR_INTERNAL_SERVER":     "Internal server error",
		"ERR_INVALID_PARAM":       "Invalid parameter: %v",
		"ERR_EMPTY_ID":            "Id is empty",
		"ERR_USER_NOT_FOUND":      "User not found",
		"ERR_EMPTY_CREDENTIALS":   "Username or password is empty",
		"ERR_INVALID_CREDENTIALS": "Invalid username or password, or the user is banned",
		"ERR_USER_DISABLED":       "The user is banned",
		"ERR_USERNAME_TAKEN":      "Username is already taken",
		"ERR_EMPTY_PASSWORD":      "Password is empty",
		"ERR_TIER_NOT_FOUND":      "Tier not found",
		"ERR_TIER_NAME_TAKEN":     "Tier name is already taken",
		"ERR_IMAGE_NOT_FOUND":     "Image not found",
		"ERR_IMAGE_NOT_UPLOADED":  "No image file has been uploaded for this record",
		"ERR_THUMBNAIL_FORBIDDEN": "Your account tier does not allow to create thumbnails of that size",
		"ERR_IMAGE_HEIGHT_INVALID": `The value of "image_height" parameter is not a number`,
		"ERR_LINK_FORBIDDEN":      "Your account tier does not allow to create links to this image",
		"ERR_LIVE_TIME_INVALID":   "You can only create links with live time between 300 and 30000 seconds",
		"ERR_LIVE_TIME_NOT_NUMBER": `The value of "live_time" parameter is incorrect`,
		"ERR_MEDIA_DENIED":        "File does not exist or you have no permission to see it",

		"no_permission_get_same_or_higher_user": "No permission to get information of users at the same or higher level",
	},
	"zh-CN": {
		"ERR_INTERNAL_SERVER":     "服务器内部错误",
		"ERR_INVALID_PARAM":       "无效的参数: %v",
		"ERR_EMPTY_ID":            "id 为空",
		"ERR_USER_NOT_FOUND":      "用户不存在",
		"ERR_EMPTY_CREDENTIALS":   "用户名或密码为空",
		"ERR_INVALID_CREDENTIALS": "用户名或密码错误，或用户已被封禁",
		"ERR_USER_DISABLED":       "用户已被封禁",
		"ERR_USERNAME_TAKEN":      "用户名已被占用",
		"ERR_EMPTY_PASSWORD":      "密码为空",
		"ERR_TIER_NOT_FOUND":      "等级不存在",
		"ERR_TIER_NAME_TAKEN":     "等级名称已被占用",
		"ERR_IMAGE_NOT_FOUND":     "图片不存在",
		"ERR_IMAGE_NOT_UPLOADED":  "该记录尚未上传图片文件",

		"no_permission_get_same_or_higher_user": "无权获取同级或更高级用户的信息",
	},
}

// Translate resolves a message key for the given language, falling back to
// English, then to the key itself so unknown codes stay debuggable.
func Translate(key string, lang string, args ...interface{}) string {
	lang = normalizeLang(lang)
	msg, ok := translations[lang][key]
	if !ok {
		msg, ok = translations[defaultLang][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func normalizeLang(lang string) string {
	if lang == "" {
		return defaultLang
	}
	if strings.HasPrefix(strings.ToLower(lang), "zh") {
		return "zh-CN"
	}
	return defaultLang
}
