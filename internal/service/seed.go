package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invoice_server/internal/model"
	"invoice_server/internal/repository"
	"invoice_server/internal/utils"

	"github.com/sirupsen/logrus"
)

// SampleProducts is the starter catalogue written to an empty products table.
var SampleProducts = []model.Product{
	{Name: "250Gram", Price: 6.2, Unit: "pcs", Category: "18Gauge"},
	{Name: "250Gram", Price: 6.2, Unit: "pcs", Category: "19Gauge"},
	{Name: "250Gram", Price: 6.35, Unit: "pcs", Category: "22Gauge"},
	{Name: "500Gram", Price: 6.6, Unit: "pcs", Category: "22Gauge"},
	{Name: "500Gram", Price: 7.3, Unit: "pcs", Category: "28Gauge"},
	{Name: "1KG", Price: 10.9, Unit: "pcs", Category: "35Gauge"},
	{Name: "2KG", Price: 85, Unit: "pcs", Category: "28Gauge"},
	{Name: "5KG", Price: 180, Unit: "pcs", Category: "100Gauge"},
	{Name: "10KG", Price: 45, Unit: "pcs", Category: "120Gauge"},
}

// Seeder fills an empty database with the default admin and catalogue.
type Seeder struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	Logger   *logrus.Logger
}

// SeedProducts inserts SampleProducts when the catalogue is empty and
// returns how many were written.
func (s *Seeder) SeedProducts(ctx context.Context) (int, error) {
	count, err := s.Products.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for _, sample := range SampleProducts {
		p := sample
		if err := s.Products.Create(ctx, &p); err != nil {
			return 0, fmt.Errorf("failed to seed products: %w", err)
		}
	}
	s.Logger.WithField("count", len(SampleProducts)).Info("Seeded sample products")
	return len(SampleProducts), nil
}

// SeedAdmin creates the default admin unless email or password is empty or
// the account already exists. It reports whether a user was created.
func (s *Seeder) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}
	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &model.User{Name: "Admin", Email: email, PasswordHash: hash, Role: model.RoleAdmin}
	if err := s.Users.Create(ctx, admin); err != nil {
		return false, err
	}
	s.Logger.WithField("email", email).Info("Created default admin user")
	return true, nil
}
