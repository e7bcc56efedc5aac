package errors

// Generic error codes
const (
	ErrInternalServer = "ERR_INTERNAL_SERVER"
	ErrInvalidParam   = "ERR_INVALID_PARAM"
)

// User error codes
const (
	ErrEmptyID            = "ERR_EMPTY_ID"
	ErrUserNotFound       = "ERR_USER_NOT_FOUND"
	ErrEmptyCredentials   = "ERR_EMPTY_CREDENTIALS"
	ErrInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrUserDisabled       = "ERR_USER_DISABLED"
	ErrUsernameTaken      = "ERR_USERNAME_TAKEN"
	ErrEmptyPassword      = "ERR_EMPTY_PASSWORD"
)

// Tier error codes
const (
	ErrTierNotFound  = "ERR_TIER_NOT_FOUND"
	ErrTierNameTaken = "ERR_TIER_NAME_TAKEN"
)

// Image and link error codes
const (
	ErrImageNotFound      = "ERR_IMAGE_NOT_FOUND"
	ErrImageNotUploaded   = "ERR_IMAGE_NOT_UPLOADED"
	ErrThumbnailForbidden = "ERR_THUMBNAIL_FORBIDDEN"
	ErrImageHeightInvalid = "ERR_IMAGE_HEIGHT_INVALID"
	ErrLinkForbidden      = "ERR_LINK_FORBIDDEN"
	ErrLiveTimeInvalid    = "ERR_LIVE_TIME_INVALID"
	ErrLiveTimeNotNumber  = "ERR_LIVE_TIME_NOT_NUMBER"
	ErrMediaDenied        = "ERR_MEDIA_DENIED"
)
