package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CustomerOrderGormRepository struct {
	db *gorm.DB
}

func NewCustomerOrderGormRepository(db *gorm.DB) *CustomerOrderGormRepository {
	return &CustomerOrderGormRepository{db: db}
}

func (r *CustomerOrderGormRepository) Create(ctx context.Context, order model.CustomerOrder) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *CustomerOrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.CustomerOrder, error) {
	var o model.CustomerOrder
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CustomerOrder{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CustomerOrder{}, err
	}
	return o, nil
}

func (r *CustomerOrderGormRepository) ListByCustomer(ctx context.Context, customerID int64, page int, limit int) ([]model.CustomerOrder, int64, error) {
	return r.list(ctx, "customer_id = ?", customerID, page, limit)
}

func (r *CustomerOrderGormRepository) ListByStore(ctx context.Context, storeID int64, page int, limit int) ([]model.CustomerOrder, int64, error) {
	return r.list(ctx, "store_id = ?", storeID, page, limit)
}

func (r *CustomerOrderGormRepository) list(ctx context.Context, cond string, id int64, page int, limit int) ([]model.CustomerOrder, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CustomerOrder{}).
		Where(cond, id).
		Count(&total).Error; err != nil {
		return []model.CustomerOrder{}, 0, err
	}

	var items []model.CustomerOrder
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where(cond, id).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.CustomerOrder{}, 0, err
	}
	return items, total, nil
}

// statusがfromのときだけ更新。0行なら競合（すでに別状態）。
func (r *CustomerOrderGormRepository) UpdateStatusFrom(ctx context.Context, orderID int64, from, to model.CustomerOrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CustomerOrder{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CustomerOrderGormRepository) Deactivate(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Model(&model.CustomerOrder{}).
		Where("id = ?", orderID).
		Update("is_active", false)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomerOrderGormRepository) CreateItems(ctx context.Context, orderID int64, items []model.CustomerOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *CustomerOrderGormRepository) ListItems(ctx context.Context, orderID int64) ([]model.CustomerOrderItem, error) {
	var items []model.CustomerOrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.CustomerOrderItem{}, err
	}
	return items, nil
}
