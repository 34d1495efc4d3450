package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/badaskaptan/kargomarket-sub000/internal/listing/model"
	"github.com/badaskaptan/kargomarket-sub000/utils"
)

// ListingRepository is the persistence collaborator contract the submission
// workflow consumes.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	Update(ctx context.Context, listing *model.Listing) error
	UpdateAssetURLs(ctx context.Context, listingID uuid.UUID, urls []string) error
	GetByID(ctx context.Context, listingID uuid.UUID) (*model.Listing, error)
	List(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error)
}

// GormListingRepository implements ListingRepository on PostgreSQL via GORM.
type GormListingRepository struct {
	db *gorm.DB
}

func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

func (r *GormListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *GormListingRepository) Update(ctx context.Context, listing *model.Listing) error {
	if err := r.db.WithContext(ctx).Save(listing).Error; err != nil {
		return fmt.Errorf("failed to update listing %s: %w", listing.ID, err)
	}
	return nil
}

// UpdateAssetURLs attaches uploaded asset URLs to an already-created record.
// This is a second, idempotent-by-intent write, never a create.
func (r *GormListingRepository) UpdateAssetURLs(ctx context.Context, listingID uuid.UUID, urls []string) error {
	err := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", listingID).
		Update("asset_urls", urls).Error
	if err != nil {
		return fmt.Errorf("failed to update asset URLs for listing %s: %w", listingID, err)
	}
	return nil
}

func (r *GormListingRepository) GetByID(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to query listing %s: %w", listingID, err)
	}
	return &listing, nil
}

func (r *GormListingRepository) List(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error) {
	query := r.db.WithContext(ctx).Model(&model.Listing{})

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Type != nil {
		query = query.Where("listing_type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	offset, limit := utils.GetPaginationParams(filter.Offset, filter.Limit)

	var listings []model.Listing
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}
