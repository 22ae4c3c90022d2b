package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pentyflix/pentyflix-api/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByUsername retrieves a user by username, nil if not found
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID, nil if not found
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// KeywordRepository provides moderation keyword lookups
type KeywordRepository struct {
	*Repository
}

// NewKeywordRepository creates a new keyword repository
func NewKeywordRepository(repo *Repository) *KeywordRepository {
	return &KeywordRepository{Repository: repo}
}

// ListAll returns every keyword in the table, ordered by ID
func (r *KeywordRepository) ListAll(ctx context.Context) ([]string, error) {
	var keywords []string
	if err := r.db.WithContext(ctx).
		Model(&models.NsfwKeyword{}).
		Order("id").
		Pluck("keyword", &keywords).Error; err != nil {
		return nil, err
	}
	return keywords, nil
}
