package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type SupplierOrderGormRepository struct {
	db *gorm.DB
}

func NewSupplierOrderGormRepository(db *gorm.DB) *SupplierOrderGormRepository {
	return &SupplierOrderGormRepository{db: db}
}

func (r *SupplierOrderGormRepository) Create(ctx context.Context, order model.SupplierOrder) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *SupplierOrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.SupplierOrder, error) {
	var o model.SupplierOrder
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SupplierOrder{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SupplierOrder{}, err
	}
	return o, nil
}

func (r *SupplierOrderGormRepository) ListByManager(ctx context.Context, managerID int64, page int, limit int) ([]model.SupplierOrder, int64, error) {
	return r.list(ctx, "manager_id = ?", managerID, page, limit)
}

func (r *SupplierOrderGormRepository) ListBySupplier(ctx context.Context, supplierID int64, page int, limit int) ([]model.SupplierOrder, int64, error) {
	return r.list(ctx, "supplier_id = ?", supplierID, page, limit)
}

func (r *SupplierOrderGormRepository) list(ctx context.Context, cond string, id int64, page int, limit int) ([]model.SupplierOrder, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.SupplierOrder{}).
		Where(cond, id).
		Count(&total).Error; err != nil {
		return []model.SupplierOrder{}, 0, err
	}

	var items []model.SupplierOrder
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where(cond, id).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.SupplierOrder{}, 0, err
	}
	return items, total, nil
}

func (r *SupplierOrderGormRepository) UpdateStatusFrom(ctx context.Context, orderID int64, from, to model.SupplierOrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.SupplierOrder{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SupplierOrderGormRepository) SetExpectedDeliveryDate(ctx context.Context, orderID int64, date *time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.SupplierOrder{}).
		Where("id = ?", orderID).
		Update("expected_delivery_date", date)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SupplierOrderGormRepository) SetDeliveryResult(ctx context.Context, orderID int64, upd repo.DeliveryResultUpdate) error {
	values := map[string]interface{}{
		"delivery_status":        upd.DeliveryStatus,
		"delivery_accepted_date": upd.DeliveryAcceptedDate,
	}
	if upd.ActualDeliveryDate != nil {
		values["actual_delivery_date"] = *upd.ActualDeliveryDate
	}

	res := r.db.WithContext(ctx).Model(&model.SupplierOrder{}).
		Where("id = ?", orderID).
		Updates(values)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SupplierOrderGormRepository) SetActualDeliveryDate(ctx context.Context, orderID int64, date time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.SupplierOrder{}).
		Where("id = ?", orderID).
		Update("actual_delivery_date", date)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SupplierOrderGormRepository) Deactivate(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Model(&model.SupplierOrder{}).
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

func (r *SupplierOrderGormRepository) CreateItems(ctx context.Context, orderID int64, items []model.SupplierOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *SupplierOrderGormRepository) ListItems(ctx context.Context, orderID int64) ([]model.SupplierOrderItem, error) {
	var items []model.SupplierOrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.SupplierOrderItem{}, err
	}
	return items, nil
}

func (r *SupplierOrderGormRepository) SetItemDeliveredQuantity(ctx context.Context, itemID int64, qty int64) error {
	res := r.db.WithContext(ctx).Model(&model.SupplierOrderItem{}).
		Where("id = ?", itemID).
		Update("delivered_quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
