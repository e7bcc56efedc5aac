package tests

import (
	"context"
	"os"
	"testing"

	"pixvault/backend/common"
	"pixvault/backend/model"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	common.SQLitePath = ":memory:"
	if os.Getenv("REDIS_CONN_STRING") == "" {
		common.RedisEnabled = false
		common.RDB = nil
	}

	if err := model.InitDB(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func TestRedisConnection(t *testing.T) {
	if !common.RedisEnabled {
		t.Skip("Redis not enabled, skipping test")
	}
	err := common.InitRedisClient()
	assert.NoError(t, err)
	err = common.RDB.Set(context.Background(), "test-key", "test-value", 0).Err()
	assert.NoError(t, err)
	val, err := common.RDB.Get(context.Background(), "test-key").Result()
	assert.NoError(t, err)
	assert.Equal(t, "test-value", val)
}

func TestPasswordHash(t *testing.T) {
	hash, err := common.Password2Hash("testpass")
	assert.NoError(t, err)
	assert.True(t, common.ValidatePasswordAndHash("testpass", hash))
	assert.False(t, common.ValidatePasswordAndHash("wrongpass", hash))
}

func TestRootAccountSeeded(t *testing.T) {
	// A fresh database gets a root account so the instance is reachable.
	assert.True(t, model.IsUsernameAlreadyTaken("root"))
}

func TestUserInsertAndQuery(t *testing.T) {
	user := &model.User{
		Username:    "testuser",
		Password:    "testpass",
		DisplayName: "Test User",
		Role:        common.RoleCommonUser,
		Status:      common.UserStatusEnabled,
	}
	err := user.Insert()
	assert.NoError(t, err)

	queryUser := &model.User{}
	queryUser.ID = user.ID
	err = queryUser.FillUserById()
	assert.NoError(t, err)
	assert.Equal(t, user.Username, queryUser.Username)
	assert.Equal(t, user.DisplayName, queryUser.DisplayName)
}

func TestGetUserByIdAndDeleteUserById(t *testing.T) {
	user := &model.User{
		Username: "testuser2",
		Password: "testpass",
		Role:     common.RoleCommonUser,
		Status:   common.UserStatusEnabled,
	}
	err := user.Insert()
	assert.NoError(t, err)

	gotUser, err := model.GetUserById(user.ID, "en")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, gotUser.ID)

	err = model.DeleteUserById(user.ID, "en")
	assert.NoError(t, err)

	_, err = model.GetUserById(user.ID, "en")
	assert.Error(t, err)
}
