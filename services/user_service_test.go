package services

import (
	"context"
	"testing"

	"github.com/respir-app/respir-api/database/dbtest"
	"github.com/respir-app/respir-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestResolveUserCreatesOnce(t *testing.T) {
	db := dbtest.New(t)
	svc := NewUserService(db)
	ctx := context.Background()

	first, err := svc.ResolveUser(ctx, "ana@example.com", "Ana")
	require.NoError(t, err)
	second, err := svc.ResolveUser(ctx, "ana@example.com", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.FullName)
	assert.Equal(t, "Ana", *second.FullName)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveUserUpdatesChangedName(t *testing.T) {
	db := dbtest.New(t)
	svc := NewUserService(db)
	ctx := context.Background()

	created, err := svc.ResolveUser(ctx, "ana@example.com", "")
	require.NoError(t, err)
	assert.Nil(t, created.FullName)

	renamed, err := svc.ResolveUser(ctx, "ana@example.com", "  Ana Silva ")
	require.NoError(t, err)
	require.NotNil(t, renamed.FullName)
	assert.Equal(t, "Ana Silva", *renamed.FullName)
	assert.Equal(t, "ana@example.com", renamed.Email)
	assert.False(t, renamed.UpdatedAt.Before(created.UpdatedAt))

	var stored model.User
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.Equal(t, "Ana Silva", *stored.FullName)
}

func TestResolveUserRequiresEmail(t *testing.T) {
	svc := NewUserService(dbtest.New(t))

	_, err := svc.ResolveUser(context.Background(), "   ", "Ana")
	assert.Error(t, err)
}

func TestResolveUserKnownCallerSkipsInsert(t *testing.T) {
	db := dbtest.New(t)
	svc := NewUserService(db)
	ctx := context.Background()

	first, err := svc.ResolveUser(ctx, "ana@example.com", "Ana")
	require.NoError(t, err)
	var stored model.User
	require.NoError(t, db.First(&stored, first.ID).Error)

	inserts := 0
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("count_user_inserts", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			inserts++
		}
	}))

	for _, name := range []string{"", "Ana"} {
		again, err := svc.ResolveUser(ctx, "ana@example.com", name)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		assert.True(t, again.UpdatedAt.Equal(stored.UpdatedAt))
	}
	assert.Zero(t, inserts)

	_, err = svc.ResolveUser(ctx, "bea@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, 1, inserts)
}
