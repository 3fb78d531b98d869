package service

import (
	"context"
	"fmt"

	"invoice_server/internal/model"
	"invoice_server/internal/repository"
)

// BillService applies ownership scoping to every bill operation. Records
// outside the scope are reported as ErrNotFound.
type BillService interface {
	List(ctx context.Context, scope repository.OwnerFilter) ([]model.Bill, error)
	Get(ctx context.Context, id string, scope repository.OwnerFilter) (*model.Bill, error)
	Create(ctx context.Context, p model.Principal, fields model.BillFields) (*model.Bill, error)
	Update(ctx context.Context, id string, scope repository.OwnerFilter, fields model.BillFields) (*model.Bill, error)
	Delete(ctx context.Context, id string, scope repository.OwnerFilter) error
}

type billService struct {
	repo repository.BillRepository
}

func NewBillService(repo repository.BillRepository) BillService {
	return &billService{repo: repo}
}

func (s *billService) List(ctx context.Context, scope repository.OwnerFilter) ([]model.Bill, error) {
	bills, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (s *billService) Get(ctx context.Context, id string, scope repository.OwnerFilter) (*model.Bill, error) {
	b, err := s.repo.Find(ctx, id, scope)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

// Create stamps the bill with the caller's identity.
func (s *billService) Create(ctx context.Context, p model.Principal, fields model.BillFields) (*model.Bill, error) {
	b := model.NewBill()
	fields.Apply(b)
	stampOwner(p, &b.UserID, &b.UserPhone)
	if b.BillNo == "" {
		return nil, invalid("billNo is required")
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	return b, nil
}

func (s *billService) Update(ctx context.Context, id string, scope repository.OwnerFilter, fields model.BillFields) (*model.Bill, error) {
	b, err := s.repo.Find(ctx, id, scope)
	if err != nil {
		return nil, notFound(err)
	}
	fields.Apply(b)
	if b.BillNo == "" {
		return nil, invalid("billNo is required")
	}
	if err := s.repo.Update(ctx, b, scope); err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (s *billService) Delete(ctx context.Context, id string, scope repository.OwnerFilter) error {
	return notFound(s.repo.Delete(ctx, id, scope))
}

// stampOwner sets the ownership fields from the principal. Fields the
// principal has no value for keep what the request supplied.
func stampOwner(p model.Principal, userID, userPhone *string) {
	if p.ID != "" {
		*userID = p.ID
	}
	switch {
	case p.Phone != "":
		*userPhone = p.Phone
	case p.PhoneNumber != "":
		*userPhone = p.PhoneNumber
	}
}
