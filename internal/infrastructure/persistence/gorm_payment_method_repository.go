package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/persistence/models"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormPaymentMethodRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormPaymentMethodRepository creates a new GORM-based PaymentMethodRepository implementation
func NewGormPaymentMethodRepository(db *gorm.DB, logger logger.Logger) (payments.PaymentMethodRepository, error) {
	return &gormPaymentMethodRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormPaymentMethodRepository) Create(ctx context.Context, pm *payments.PaymentMethod) error {
	if err := pm.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.PaymentMethodModel{}
	model.FromDomain(pm)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("payment method for user %s with signature %s: %w", pm.UserID, pm.Signature, payments.ErrConflict)
		}
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	pm.ID = model.ID

	r.logger.Info("Created payment method with id ", pm.ID, " for user ", pm.UserID)
	return nil
}

func (r *gormPaymentMethodRepository) UpdateByID(ctx context.Context, pm *payments.PaymentMethod) error {
	if pm.ID == 0 {
		return fmt.Errorf("validation error: payment method id is required")
	}
	if err := pm.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.PaymentMethodModel{}
	model.FromDomain(pm)

	result := r.db.WithContext(ctx).Model(&models.PaymentMethodModel{}).
		Where("id = ?", pm.ID).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment method: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment method with ID %d: %w", pm.ID, payments.ErrNotFound)
	}

	r.logger.Info("Updated payment method with id ", pm.ID)
	return nil
}

func (r *gormPaymentMethodRepository) GetByID(ctx context.Context, id int64) (*payments.PaymentMethod, error) {
	var model models.PaymentMethodModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment method with ID %d: %w", id, payments.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch payment method: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormPaymentMethodRepository) FindByUserAndSignature(ctx context.Context, userID, signature string) (*payments.PaymentMethod, error) {
	var model models.PaymentMethodModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND signature = ?", userID, signature).
		Order("id asc").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment method for user %s: %w", userID, payments.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch payment method: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormPaymentMethodRepository) FindByUserAndToken(ctx context.Context, userID, token string) (*payments.PaymentMethod, error) {
	var model models.PaymentMethodModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("authorization for user %s: %w", userID, payments.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch payment method: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormPaymentMethodRepository) ListByUser(ctx context.Context, query *payments.PaymentMethodQuery) ([]*payments.PaymentMethod, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.PaymentMethodModel
	dbQuery := r.db.WithContext(ctx).Model(&models.PaymentMethodModel{}).
		Where("user_id = ?", query.UserID).
		Order("id asc")

	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch payment methods: %w", err)
	}

	domainList := make([]*payments.PaymentMethod, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormPaymentMethodRepository) DeleteByID(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PaymentMethodModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment method: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment method with ID %d: %w", id, payments.ErrNotFound)
	}

	r.logger.Info("Deleted payment method with id ", id)
	return nil
}
