package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/dto"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/inventory"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo        repository.ProductRepository
	txRunner    inventory.TxRunner
	invalidator inventory.ForecastInvalidator
}

// NewProductUseCase construye el caso de uso. invalidator puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner, invalidator inventory.ForecastInvalidator) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, invalidator: invalidator}
}

// Create crea un producto. InitialStock > 0 se registra como una entrada de ajuste en la
// misma transacción que el producto.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: sku y name son requeridos", domain.ErrInvalidInput)
	}
	if in.InitialStock.IsNegative() {
		return nil, fmt.Errorf("%w: initial_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             in.SKU,
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		UnitOfMeasure:   in.UnitOfMeasure,
		SupplierName:    in.Supplier.Name,
		SupplierContact: in.Supplier.ContactInfo,
		SupplierEmail:   in.Supplier.Email,
		CurrentStock:    decimal.Zero,
		ReorderPoint:    decimal.NewFromInt(entity.DefaultReorderPoint),
		SafetyStock:     decimal.NewFromInt(entity.DefaultSafetyStock),
		LeadTimeDays:    entity.DefaultLeadTimeDays,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if product.UnitOfMeasure == "" {
		product.UnitOfMeasure = "unit"
	}
	if err := applyReorderParams(product, in.ReorderPoint, in.SafetyStock, in.LeadTimeDays); err != nil {
		return nil, err
	}
	if !in.InitialStock.IsPositive() {
		if err := uc.repo.Create(ctx, product); err != nil {
			return nil, err
		}
		resp := dto.ToProductResponse(product)
		return &resp, nil
	}

	product.CurrentStock = in.InitialStock
	initial := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      entity.MovementTypeIn,
		Quantity:  in.InitialStock,
		Reason:    entity.ReasonAdjustment,
		Notes:     "stock inicial",
		CreatedBy: userID,
		CreatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		return movRepo.Create(ctx, initial)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// Update actualiza un producto. No permite modificar el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name vacío", domain.ErrInvalidInput)
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.Supplier != nil {
		product.SupplierName = in.Supplier.Name
		product.SupplierContact = in.Supplier.ContactInfo
		product.SupplierEmail = in.Supplier.Email
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if err := applyReorderParams(product, in.ReorderPoint, in.SafetyStock, in.LeadTimeDays); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	// Lead time y stock de seguridad entran en la cantidad sugerida.
	if uc.invalidator != nil {
		if ierr := uc.invalidator.InvalidateProduct(ctx, product.ID); ierr != nil {
			log.Warn().Err(ierr).Str("product_id", product.ID).Msg("product: no se pudo invalidar la cache de pronósticos")
		}
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func applyReorderParams(p *entity.Product, reorderPoint, safetyStock *decimal.Decimal, leadTime *int) error {
	if reorderPoint != nil {
		if reorderPoint.IsNegative() {
			return fmt.Errorf("%w: reorder_point no puede ser negativo", domain.ErrInvalidInput)
		}
		p.ReorderPoint = *reorderPoint
	}
	if safetyStock != nil {
		if safetyStock.IsNegative() {
			return fmt.Errorf("%w: safety_stock no puede ser negativo", domain.ErrInvalidInput)
		}
		p.SafetyStock = *safetyStock
	}
	if leadTime != nil {
		if *leadTime < 1 {
			return fmt.Errorf("%w: lead_time_days debe ser >= 1", domain.ErrInvalidInput)
		}
		p.LeadTimeDays = *leadTime
	}
	return nil
}
