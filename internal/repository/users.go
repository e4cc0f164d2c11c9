package repository

import (
	"context"

	"ccis-go/internal/database"
	"ccis-go/internal/models"
)

func CreateUser(ctx context.Context, email, password, personID string) (*models.User, error) {
	user := &models.User{
		Email:    email,
		PersonID: personID,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := database.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
