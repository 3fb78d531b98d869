package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"invoice_server/internal/model"
	"invoice_server/internal/repository"
	"invoice_server/internal/storage"
)

// ProductService manages the catalogue and its images.
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, id string, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type productService struct {
	repo   repository.ProductRepository
	images storage.ImageStore
	now    func() time.Time
}

func NewProductService(repo repository.ProductRepository, images storage.ImageStore) ProductService {
	return &productService{repo: repo, images: images, now: time.Now}
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	if strings.TrimSpace(req.Name) == "" || req.Price == nil {
		return nil, invalid("Name and price are required")
	}
	unit := req.Unit
	if unit == "" {
		unit = model.DefaultProductUnit
	}
	p := &model.Product{
		Name:     req.Name,
		Price:    *req.Price,
		Unit:     unit,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, id string, req model.UpdateProductRequest) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	req.Apply(p)
	if strings.TrimSpace(p.Name) == "" {
		return nil, invalid("Name is required")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	return notFound(s.repo.Delete(ctx, id))
}

// UploadImage validates and stores a product image and returns its path.
func (s *productService) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", invalid("No image file uploaded")
	}
	ext, contentType, err := storage.ValidateImage(file.Filename, file.Size)
	if err != nil {
		return "", invalid(err.Error())
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	path, err := s.images.Save(ctx, storage.NewImageName(s.now(), ext), src, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return path, nil
}
