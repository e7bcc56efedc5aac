package model

import (
	"fmt"

	"github.com/burugo/thing"
)

// Tier is administrator-managed reference data describing what an account
// may do. Accounts reference a tier, they never own it.
type Tier struct {
	thing.BaseModel
	Name               string `db:"name,unique" json:"name"`
	MaxThumbnailHeight int    `db:"max_thumbnail_height" json:"max_thumbnail_height"`
	CanSeeOriginal     bool   `db:"can_see_original" json:"can_see_original"`
	CanGenerateLinks   bool   `db:"can_generate_links" json:"can_generate_links"`
}

func (t *Tier) TableName() string {
	return "tiers"
}

// TierPolicy is the single source of truth for per-request permission
// queries. Every component asks a policy value instead of poking at the
// Tier record (or its absence) directly.
type TierPolicy struct {
	MaxThumbnailHeight int
	CanSeeOriginal     bool
	CanGenerateLinks   bool
}

// DefaultTierPolicy applies to accounts without a tier. It is the most
// restrictive policy in the system.
var DefaultTierPolicy = TierPolicy{
	MaxThumbnailHeight: 200,
	CanSeeOriginal:     false,
	CanGenerateLinks:   false,
}

// PolicyFor resolves a tier record (possibly nil) into a policy value.
func PolicyFor(tier *Tier) TierPolicy {
	if tier == nil {
		return DefaultTierPolicy
	}
	return TierPolicy{
		MaxThumbnailHeight: tier.MaxThumbnailHeight,
		CanSeeOriginal:     tier.CanSeeOriginal,
		CanGenerateLinks:   tier.CanGenerateLinks,
	}
}

var TierDB *thing.Thing[*Tier]

// TierInit initializes the TierDB
func TierInit() error {
	var err error
	TierDB, err = thing.Use[*Tier]()
	if err != nil {
		return fmt.Errorf("failed to initialize TierDB: %w", err)
	}
	return nil
}

func GetAllTiers() ([]*Tier, error) {
	return TierDB.Order("id ASC").Fetch(0, 1000)
}

func GetTierById(id int64) (*Tier, error) {
	return TierDB.ByID(id)
}

func IsTierNameTaken(name string) bool {
	tiers, err := TierDB.Where("name = ?", name).Fetch(0, 1)
	return err == nil && len(tiers) > 0
}

func (t *Tier) Insert() error {
	return TierDB.Save(t)
}

func (t *Tier) Update() error {
	return TierDB.Save(t)
}

// DeleteTierById removes a tier and detaches every account referencing it.
// Accounts are kept and fall back to the default policy.
func DeleteTierById(id int64) error {
	tier, err := TierDB.ByID(id)
	if err != nil {
		return err
	}
	users, err := UserDB.Where("tier_id = ?", id).Fetch(0, 10000)
	if err != nil {
		return err
	}
	for _, user := range users {
		user.TierId = 0
		if err := UserDB.Save(user); err != nil {
			return err
		}
	}
	return TierDB.Delete(tier)
}
