package service

import (
	"errors"
	"strconv"

	"pixvault/backend/model"
)

var (
	// ErrThumbnailForbidden: the tier caps out below the requested height,
	// or the height was omitted by a tier that may not see originals.
	ErrThumbnailForbidden = errors.New("tier does not allow a thumbnail of that size")
	// ErrImageHeightInvalid: image_height is not a positive integer.
	ErrImageHeightInvalid = errors.New("image_height is not a number")
)

// AuthorizeMediaRequest decides whether a raw-bytes request for an image
// may be served. The token path is tried first and wins outright: a live
// token bound to this image grants the original regardless of anyone's
// current tier. Otherwise the authenticated caller's tier must allow
// originals. user may be nil for anonymous requests.
//
// The caller collapses a false result and a missing file into one uniform
// denial; nothing here may leak which check failed.
func AuthorizeMediaRequest(image *model.UserImage, token string, user *model.User) bool {
	if token != "" {
		if link, valid := ValidateLinkToken(token); valid && link.ImageId == image.ID {
			return true
		}
	}
	if user == nil {
		return false
	}
	return user.Policy().CanSeeOriginal
}

// ThumbnailDecision is the outcome of an allowed thumbnail request.
type ThumbnailDecision struct {
	// ServeOriginal is set when the height parameter was omitted by a
	// tier that may see originals; the handler streams the stored bytes
	// instead of rendering.
	ServeOriginal bool
	Height        int
}

// AuthorizeThumbnail applies the tier rules to a thumbnail request.
// heightParam is the raw image_height query value. Omitting the height is
// an implicit request for the original and is only allowed for tiers with
// CanSeeOriginal; this asymmetry is a deliberate policy, decided here once
// rather than per endpoint.
func AuthorizeThumbnail(policy model.TierPolicy, heightParam string) (ThumbnailDecision, error) {
	if heightParam == "" {
		if !policy.CanSeeOriginal {
			return ThumbnailDecision{}, ErrThumbnailForbidden
		}
		return ThumbnailDecision{ServeOriginal: true}, nil
	}

	height, err := strconv.Atoi(heightParam)
	if err != nil || height < 1 {
		return ThumbnailDecision{}, ErrImageHeightInvalid
	}

	if height > policy.MaxThumbnailHeight {
		return ThumbnailDecision{}, ErrThumbnailForbidden
	}
	return ThumbnailDecision{Height: height}, nil
}
