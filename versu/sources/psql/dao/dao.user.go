package dao

import (
	"context"
	"errors"

	"versu/versu/sources/psql/models"

	"gorm.io/gorm"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

func (dao *UserDAO) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, name, email, passwordHash string, avatar *string) (*models.User, error) {
	user := models.User{
		Name:     name,
		Email:    email,
		Password: passwordHash,
		Avatar:   avatar,
	}
	if err := dao.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies the given column updates and returns the fresh row, or nil if
// the user does not exist.
func (dao *UserDAO) UpdateUser(ctx context.Context, id string, updates map[string]interface{}) (*models.User, error) {
	if len(updates) > 0 {
		res := dao.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
	}
	return dao.GetUserByID(ctx, id)
}
