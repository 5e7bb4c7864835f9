package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/domain/apperr"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductUsecase struct {
	products repo.ProductRepository
}

// DI
func NewProductUsecase(products repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{products: products}
}

type ProductInput struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// 応答はentityではなくDTOで返す（gormタグをAPIの契約に漏らさない）
type ProductOutput struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ProductListOutput struct {
	Products []ProductOutput `json:"products"`
	Total    int64           `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("product name must not be empty")
	}
	if in.PriceCents < 0 {
		return apperr.Validation("price_cents must be >= 0")
	}
	return nil
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (ProductOutput, error) {
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	p, err := u.products.Create(ctx, model.Product{
		Name:       strings.TrimSpace(in.Name),
		PriceCents: in.PriceCents,
	})
	if err != nil {
		return ProductOutput{}, err
	}
	return toProductOutput(p), nil
}

func (u *ProductUsecase) Update(ctx context.Context, id int64, in ProductInput) (ProductOutput, error) {
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	err := u.products.Update(ctx, model.Product{
		ID:         id,
		Name:       strings.TrimSpace(in.Name),
		PriceCents: in.PriceCents,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, apperr.ErrProductNotFound
	}
	if err != nil {
		return ProductOutput{}, err
	}

	//updated_atを含む最新の行を返す
	return u.Get(ctx, id)
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (ProductOutput, error) {
	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, apperr.ErrProductNotFound
	}
	if err != nil {
		return ProductOutput{}, err
	}
	return toProductOutput(p), nil
}

func (u *ProductUsecase) List(ctx context.Context, limit int, offset int) (ProductListOutput, error) {
	if limit < 1 || limit > 100 {
		return ProductListOutput{}, apperr.Validation("limit must be between 1 and 100")
	}
	if offset < 0 {
		return ProductListOutput{}, apperr.Validation("offset must be >= 0")
	}

	products, total, err := u.products.List(ctx, limit, offset)
	if err != nil {
		return ProductListOutput{}, err
	}

	out := ProductListOutput{
		Products: make([]ProductOutput, 0, len(products)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for _, p := range products {
		out.Products = append(out.Products, toProductOutput(p))
	}
	return out, nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:         p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
