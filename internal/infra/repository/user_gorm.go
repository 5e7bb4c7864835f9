package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入する。
func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *UserGormRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	return nil
}

// IDでユーザーを1件取得
func (r *UserGormRepository) FindByID(ctx context.Context, userID int64) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// emailでユーザーを1件取得。存在しない場合はfound=false（エラー扱いしない）。
func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

// 複数IDをまとめて1クエリで取得（表示名の解決用）
func (r *UserGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ユーザー一覧（id ASC、ページング付き）
func (r *UserGormRepository) List(ctx context.Context, limit int, offset int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return []model.User{}, 0, err
	}

	var users []model.User
	err := r.db.WithContext(ctx).
		Order("id asc").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return []model.User{}, 0, err
	}

	return users, total, nil
}
