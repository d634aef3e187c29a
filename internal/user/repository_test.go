// File: internal/user/repository_test.go
package user

import (
	"context"
	"errors"
	"testing"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return NewGORMRepository(db)
}

func TestFindByEmailMissingMatchesNotFoundSentinel(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.FindByEmail(context.Background(), "nobody@conesa.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound),
		"the detail-carrying repository error must still match the sentinel")
}

// Registration runs against the real repository here: the service's
// "does this email exist yet" check must treat the repository's not-found
// error as the green light, not as a failure.
func TestRegisterThroughRealRepository(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewService(repo, &config.Config{}, zap.NewNop())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "fresh@conesa.com", "secret-password", "Laura Conesa")
	require.NoError(t, err)
	assert.Equal(t, "fresh@conesa.com", registered.Email)
	assert.Equal(t, common.RoleAgent, registered.Role)

	stored, err := repo.FindByEmail(ctx, "fresh@conesa.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", stored.PasswordHash)

	_, err = svc.Register(ctx, "Fresh@Conesa.com", "another-password", "")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
}

func TestCreateDuplicateEmailReturnsConflict(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := &User{Email: "agent@conesa.com", PasswordHash: "hash", Role: common.RoleAgent}
	require.NoError(t, repo.Create(ctx, first))

	dup := &User{Email: "AGENT@conesa.com", PasswordHash: "hash", Role: common.RoleAgent}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
}
