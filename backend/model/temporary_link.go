package model

import (
	"fmt"
	"time"

	"github.com/burugo/thing"
)

// TemporaryLink is a bearer credential for one image. Anyone holding a
// live token gets the original bytes without authentication. Links are
// never revoked or consumed; expiry alone ends their validity, so stale
// rows are harmless and cleanup is a maintenance concern, not a runtime one.
type TemporaryLink struct {
	thing.BaseModel
	Token     string `db:"token,unique" json:"token"`
	ExpiresAt int64  `db:"expires_at" json:"expires_at"`
	ImageId   int64  `db:"image_id,index" json:"image_id"`
}

func (l *TemporaryLink) TableName() string {
	return "temporary_links"
}

// IsValidAt reports whether the link still grants access at the given time.
// Validity is a pure timestamp comparison with no grace period.
func (l *TemporaryLink) IsValidAt(t time.Time) bool {
	return t.Unix() < l.ExpiresAt
}

var TemporaryLinkDB *thing.Thing[*TemporaryLink]

// TemporaryLinkInit initializes the TemporaryLinkDB
func TemporaryLinkInit() error {
	var err error
	TemporaryLinkDB, err = thing.Use[*TemporaryLink]()
	if err != nil {
		return fmt.Errorf("failed to initialize TemporaryLinkDB: %w", err)
	}
	return nil
}

// GetLinkByToken looks a token up. Callers must not distinguish "no such
// token" from "expired token" in anything user-visible.
func GetLinkByToken(token string) (*TemporaryLink, error) {
	links, err := TemporaryLinkDB.Where("token = ?", token).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("unknown token")
	}
	return links[0], nil
}

func IsLinkTokenTaken(token string) bool {
	links, err := TemporaryLinkDB.Where("token = ?", token).Fetch(0, 1)
	return err == nil && len(links) > 0
}

func (l *TemporaryLink) Insert() error {
	return TemporaryLinkDB.Save(l)
}
