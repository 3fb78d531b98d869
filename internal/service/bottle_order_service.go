package service

import (
	"context"
	"fmt"
	"time"

	"invoice_server/internal/model"
	"invoice_server/internal/repository"
)

type BottleOrderService interface {
	List(ctx context.Context, scope repository.OwnerFilter) ([]model.BottleOrder, error)
	Get(ctx context.Context, id string, scope repository.OwnerFilter) (*model.BottleOrder, error)
	Create(ctx context.Context, p model.Principal, fields model.BottleOrderFields) (*model.BottleOrder, error)
	Update(ctx context.Context, id string, scope repository.OwnerFilter, fields model.BottleOrderFields) (*model.BottleOrder, error)
	Delete(ctx context.Context, id string, scope repository.OwnerFilter) error
}

type bottleOrderService struct {
	repo repository.BottleOrderRepository
	now  func() time.Time
}

func NewBottleOrderService(repo repository.BottleOrderRepository) BottleOrderService {
	return &bottleOrderService{repo: repo, now: time.Now}
}

func validateBottleOrder(o *model.BottleOrder) error {
	if o.OrderNo == "" || o.CustomerName == "" || o.CustomerPhone == "" {
		return invalid("orderNo, customerName and customerPhone are required")
	}
	return nil
}

func (s *bottleOrderService) List(ctx context.Context, scope repository.OwnerFilter) ([]model.BottleOrder, error) {
	orders, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list bottle orders: %w", err)
	}
	return orders, nil
}

func (s *bottleOrderService) Get(ctx context.Context, id string, scope repository.OwnerFilter) (*model.BottleOrder, error) {
	o, err := s.repo.Find(ctx, id, scope)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *bottleOrderService) Create(ctx context.Context, p model.Principal, fields model.BottleOrderFields) (*model.BottleOrder, error) {
	o := model.NewBottleOrder(s.now())
	fields.Apply(o)
	stampOwner(p, &o.UserID, &o.UserPhone)
	if err := validateBottleOrder(o); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create bottle order: %w", err)
	}
	return o, nil
}

func (s *bottleOrderService) Update(ctx context.Context, id string, scope repository.OwnerFilter, fields model.BottleOrderFields) (*model.BottleOrder, error) {
	o, err := s.repo.Find(ctx, id, scope)
	if err != nil {
		return nil, notFound(err)
	}
	fields.Apply(o)
	if err := validateBottleOrder(o); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o, scope); err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *bottleOrderService) Delete(ctx context.Context, id string, scope repository.OwnerFilter) error {
	return notFound(s.repo.Delete(ctx, id, scope))
}
