package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/burugo/thing"
)

// ContentTypes maps a supported file extension (without dot) to the image
// format used both for re-encoding thumbnails and for the Content-Type
// header. Content type is always derived from the stored extension, never
// sniffed from the bytes.
var ContentTypes = map[string]string{
	"png": "png",
	"jpg": "jpeg",
}

// ImageFormatForName returns the image format for a stored file name.
func ImageFormatForName(name string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	format, ok := ContentTypes[ext]
	return format, ok
}

// UserImage is an image record owned by exactly one user. StoredName is
// empty until bytes are uploaded; it is a uuid-based file name under the
// upload directory and doubles as the public /media path segment.
type UserImage struct {
	thing.BaseModel
	UserId     int64  `db:"user_id,index" json:"user_id"`
	Title      string `db:"title" json:"title"`
	// Not unique at the schema level: every image starts with an empty
	// stored name and uuid file names do not collide in practice.
	StoredName string `db:"stored_name,index" json:"stored_name"`
}

func (i *UserImage) TableName() string {
	return "user_images"
}

var UserImageDB *thing.Thing[*UserImage]

// UserImageInit initializes the UserImageDB
func UserImageInit() error {
	var err error
	UserImageDB, err = thing.Use[*UserImage]()
	if err != nil {
		return fmt.Errorf("failed to initialize UserImageDB: %w", err)
	}
	return nil
}

// GetImagesByUserId lists a user's own images, newest first.
func GetImagesByUserId(userId int64, startIdx int, num int) ([]*UserImage, error) {
	return UserImageDB.Where("user_id = ?", userId).Order("id DESC").Fetch(startIdx, num)
}

// GetImageByIdAndUser fetches an image only if it belongs to the user.
// Everything an account does to a record goes through this ownership gate.
func GetImageByIdAndUser(id int64, userId int64) (*UserImage, error) {
	images, err := UserImageDB.Where("id = ? AND user_id = ?", id, userId).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("image %d not found for user %d", id, userId)
	}
	return images[0], nil
}

// GetImageByStoredName resolves the /media path segment to a record.
func GetImageByStoredName(storedName string) (*UserImage, error) {
	if storedName == "" {
		return nil, fmt.Errorf("empty stored name")
	}
	images, err := UserImageDB.Where("stored_name = ?", storedName).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no image stored as %s", storedName)
	}
	return images[0], nil
}

func (i *UserImage) Insert() error {
	return UserImageDB.Save(i)
}

func (i *UserImage) Update() error {
	return UserImageDB.Save(i)
}

func (i *UserImage) Delete() error {
	return UserImageDB.Delete(i)
}
