package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/cache"
	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/repositories"
)

type UserPostgreSQL struct {
	db          *gorm.DB
	cacheHelper *cache.CacheHelper
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:          db,
		cacheHelper: cache.NewCacheHelper(redisClient, "user:"),
	}
}

func (r *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)
	return repositories.TranslateError(
		db.WithContext(ctx).Create(user).Error,
		"users.username or users.email already taken")
}

func (r *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := r.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)

	var user models.User
	err := r.cacheHelper.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheTTL, func() (interface{}, error) {
		var dbUser models.User
		if err := db.WithContext(ctx).First(&dbUser, id).Error; err != nil {
			return nil, repositories.TranslateError(err, "")
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := r.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, repositories.TranslateError(err, "")
	}
	return &user, nil
}

func (r *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.User, int64, error) {
	db := r.getDB(tx)
	var users []*models.User
	var total int64

	query := db.WithContext(ctx).Model(&models.User{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filters.Limit, filters.Offset)
	if err := query.Order("id asc").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)
	if err := repositories.TranslateError(
		db.WithContext(ctx).Save(user).Error,
		"users.username or users.email already taken"); err != nil {
		return err
	}
	return r.cacheHelper.Delete(ctx, fmt.Sprintf("id:%d", user.ID))
}

func (r *UserPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return repositories.TranslateError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return r.cacheHelper.Delete(ctx, fmt.Sprintf("id:%d", id))
}
