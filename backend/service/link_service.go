package service

import (
	"errors"
	"fmt"
	"time"

	"pixvault/backend/model"

	"github.com/google/uuid"
)

// Live time bounds for temporary links, in seconds, both inclusive.
const (
	MinLinkLiveTime = 300
	MaxLinkLiveTime = 30000
)

// maxTokenAttempts bounds collision retries at issuance. uuid collisions
// are effectively impossible, so hitting the bound means something else is
// wrong with the store.
const maxTokenAttempts = 5

var (
	// ErrLinkForbidden: the account tier does not permit link generation.
	ErrLinkForbidden = errors.New("tier does not allow generating links")
	// ErrLiveTimeInvalid: live_time missing, non-numeric or out of range.
	ErrLiveTimeInvalid = errors.New("live time out of range")
)

// IssueLink mints a temporary link for an image. The tier is checked here,
// at issuance, and never again: redeeming a live token does not consult
// the issuer's tier.
func IssueLink(image *model.UserImage, liveTimeSeconds int, policy model.TierPolicy) (*model.TemporaryLink, error) {
	if !policy.CanGenerateLinks {
		return nil, ErrLinkForbidden
	}
	if liveTimeSeconds < MinLinkLiveTime || liveTimeSeconds > MaxLinkLiveTime {
		return nil, ErrLiveTimeInvalid
	}

	expiresAt := time.Now().Add(time.Duration(liveTimeSeconds) * time.Second).Unix()
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		link := &model.TemporaryLink{
			Token:     uuid.New().String(),
			ExpiresAt: expiresAt,
			ImageId:   image.ID,
		}
		if model.IsLinkTokenTaken(link.Token) {
			continue
		}
		if err := link.Insert(); err != nil {
			// The unique index on token may still reject a concurrent
			// duplicate; regenerate and try again.
			continue
		}
		return link, nil
	}
	return nil, fmt.Errorf("failed to generate a unique link token after %d attempts", maxTokenAttempts)
}

// ValidateLinkToken resolves a presented token. The returned link is only
// meaningful when valid is true. Unknown and expired tokens are both just
// "not valid"; validation never mutates the link, so a token keeps working
// for every request until it naturally expires.
func ValidateLinkToken(token string) (*model.TemporaryLink, bool) {
	if token == "" {
		return nil, false
	}
	link, err := model.GetLinkByToken(token)
	if err != nil {
		return nil, false
	}
	if !link.IsValidAt(time.Now()) {
		return nil, false
	}
	return link, true
}
