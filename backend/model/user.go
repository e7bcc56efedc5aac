package model

import (
	"errors"

	"pixvault/backend/common"
	pverrors "pixvault/backend/common/errors"
	"pixvault/backend/common/i18n"

	"github.com/burugo/thing"
)

// User represents an account. A user references at most one tier; a
// TierId of 0 means no tier, and such accounts get DefaultTierPolicy.
// Sensitive fields like Password are never included in API responses.
type User struct {
	thing.BaseModel
	Username    string `db:"username,unique" json:"username"`
	Password    string `db:"password" json:"-"`
	DisplayName string `db:"display_name" json:"display_name"`
	Role        int    `db:"role" json:"role"`
	Status      int    `db:"status" json:"status"`
	TierId      int64  `db:"tier_id,index" json:"tier_id"`
}

func (u *User) TableName() string {
	return "users"
}

var UserDB *thing.Thing[*User]

// UserInit initializes the UserDB
func UserInit() error {
	var err error
	UserDB, err = thing.Use[*User]()
	if err != nil {
		return err
	}
	return nil
}

func GetAllUsers(startIdx int, num int) ([]*User, error) {
	return UserDB.Order("id DESC").Fetch(startIdx, num)
}

func SearchUsers(keyword string) ([]*User, error) {
	return UserDB.Where(
		"id = ? OR username LIKE ? OR display_name LIKE ?",
		keyword, keyword+"%", keyword+"%",
	).Order("id DESC").Fetch(0, 100)
}

func GetUserById(id int64, lang string) (*User, error) {
	if id == 0 {
		return nil, i18n.New(pverrors.ErrEmptyID, lang)
	}
	user, err := UserDB.ByID(id)
	if err != nil {
		return nil, i18n.Wrap(err, pverrors.ErrUserNotFound, lang)
	}
	return user, nil
}

func DeleteUserById(id int64, lang string) error {
	if id == 0 {
		return i18n.New(pverrors.ErrEmptyID, lang)
	}
	user, err := UserDB.ByID(id)
	if err != nil {
		return i18n.Wrap(err, pverrors.ErrUserNotFound, lang)
	}
	return UserDB.Delete(user)
}

// Policy loads the user's tier and resolves it to a TierPolicy. A missing
// tier reference, including a tier deleted after assignment, resolves to
// the default policy rather than an error.
func (user *User) Policy() TierPolicy {
	if user == nil || user.TierId == 0 {
		return DefaultTierPolicy
	}
	tier, err := TierDB.ByID(user.TierId)
	if err != nil {
		return DefaultTierPolicy
	}
	return PolicyFor(tier)
}

func (user *User) Insert() error {
	if user.Password != "" {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return err
		}
	}
	return UserDB.Save(user)
}

func (user *User) Update(updatePassword bool) error {
	if updatePassword {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return err
		}
	}
	return UserDB.Save(user)
}

func (user *User) Delete() error {
	if user.ID == 0 {
		return errors.New("id is empty")
	}
	return UserDB.Delete(user)
}

// ValidateAndFill checks the credentials and, on success, replaces the
// receiver with the stored record. The error never reveals which part of
// the credentials was wrong.
func (user *User) ValidateAndFill(lang string) error {
	if user.Username == "" || user.Password == "" {
		return i18n.New(pverrors.ErrEmptyCredentials, lang)
	}
	users, err := UserDB.Where("username = ?", user.Username).Fetch(0, 1)
	if err != nil || len(users) == 0 {
		return i18n.New(pverrors.ErrInvalidCredentials, lang)
	}
	found := users[0]
	okay := common.ValidatePasswordAndHash(user.Password, found.Password)
	if !okay || found.Status != common.UserStatusEnabled {
		return i18n.New(pverrors.ErrInvalidCredentials, lang)
	}
	*user = *found
	return nil
}

func (user *User) FillUserById() error {
	if user.ID == 0 {
		return errors.New("id is empty")
	}
	found, err := UserDB.ByID(user.ID)
	if err != nil {
		return err
	}
	*user = *found
	return nil
}

func IsUsernameAlreadyTaken(username string) bool {
	users, err := UserDB.Where("username = ?", username).Fetch(0, 1)
	return err == nil && len(users) > 0
}
