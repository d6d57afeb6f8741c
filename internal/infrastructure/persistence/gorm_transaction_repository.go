package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/persistence/models"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormTransactionRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTransactionRepository creates a new GORM-based TransactionRepository implementation
func NewGormTransactionRepository(db *gorm.DB, logger logger.Logger) (payments.TransactionRepository, error) {
	return &gormTransactionRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTransactionRepository) Create(ctx context.Context, tx *payments.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TransactionModel{}
	model.FromDomain(tx)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	r.logger.Info("Created transaction ", tx.Reference, " with status ", tx.Status)
	return nil
}

func (r *gormTransactionRepository) UpdateByID(ctx context.Context, tx *payments.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TransactionModel{}
	model.FromDomain(tx)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	r.logger.Info("Updated transaction ", tx.Reference, " to status ", tx.Status)
	return nil
}

func (r *gormTransactionRepository) GetByReference(ctx context.Context, reference string) (*payments.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction %s: %w", reference, payments.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormTransactionRepository) List(ctx context.Context, query *payments.TransactionQuery) ([]*payments.Transaction, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.TransactionModel
	dbQuery := r.db.WithContext(ctx).Model(&models.TransactionModel{})

	if query.UserID != "" {
		dbQuery = dbQuery.Where("user_id = ?", query.UserID)
	}
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", string(query.Status))
	}
	if !query.CreatedBefore.IsZero() {
		dbQuery = dbQuery.Where("created_at < ?", query.CreatedBefore)
	}

	// SortBy and SortOrder are restricted to known columns by Validate
	if query.SortBy != "" {
		order := query.SortOrder
		if order == "" {
			order = "asc"
		}
		dbQuery = dbQuery.Order(fmt.Sprintf("%s %s", query.SortBy, order))
	}

	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return toDomainTransactions(modelList), nil
}

func (r *gormTransactionRepository) ListPending(ctx context.Context, createdBefore time.Time, limit int) ([]*payments.Transaction, error) {
	var modelList []*models.TransactionModel
	dbQuery := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("status = ? AND created_at < ?", string(payments.StatusPending), createdBefore).
		Order("created_at asc")
	if limit > 0 {
		dbQuery = dbQuery.Limit(limit)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending transactions: %w", err)
	}

	return toDomainTransactions(modelList), nil
}

func toDomainTransactions(modelList []*models.TransactionModel) []*payments.Transaction {
	domainList := make([]*payments.Transaction, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList
}
