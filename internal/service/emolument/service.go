package emolument

import (
	"context"
	"errors"
	"fmt"

	"github.com/zenithhr/payroll-backend-go/internal/domain/emolument"
	"github.com/zenithhr/payroll-backend-go/internal/fixtures"
)

// Service covers the component catalog: the universal template plus
// client-specific components layered on top of it.
type Service struct {
	repo emolument.ComponentRepository
}

func NewService(repo emolument.ComponentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListComponents(ctx context.Context, clientID string) ([]emolument.ComponentResponse, error) {
	components, err := s.repo.ListActiveForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	result := make([]emolument.ComponentResponse, 0, len(components))
	for _, c := range components {
		result = append(result, mapToComponentResponse(c))
	}
	return result, nil
}

func (s *Service) GetComponent(ctx context.Context, code string, clientID *string) (emolument.ComponentResponse, error) {
	c, err := s.repo.GetByCode(ctx, code, clientID)
	if err != nil {
		return emolument.ComponentResponse{}, err
	}
	return mapToComponentResponse(c), nil
}

func (s *Service) CreateComponent(ctx context.Context, req emolument.CreateComponentRequest) (emolument.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return emolument.ComponentResponse{}, err
	}

	created, err := s.repo.Create(ctx, emolument.Component{
		Code:            req.Code,
		Name:            req.Name,
		PayrollCategory: emolument.PayrollCategory(req.PayrollCategory),
		IsPensionable:   req.IsPensionable,
		ClientID:        req.ClientID,
		IsActive:        true,
		DisplayOrder:    req.DisplayOrder,
	})
	if err != nil {
		return emolument.ComponentResponse{}, err
	}
	return mapToComponentResponse(created), nil
}

// EnsureUniversalComponents inserts any universal template component that is
// not in the catalog yet. Existing components are never touched; a historical
// snapshot must keep meaning what it meant when it was taken.
func (s *Service) EnsureUniversalComponents(ctx context.Context) error {
	for _, component := range fixtures.GetUniversalComponents() {
		_, err := s.repo.GetByCode(ctx, component.Code, nil)
		if err == nil {
			continue
		}
		if !errors.Is(err, emolument.ErrUnknownComponent) {
			return fmt.Errorf("check component %s: %w", component.Code, err)
		}

		if _, err := s.repo.Create(ctx, component); err != nil {
			// A concurrent seeder may have won the insert.
			if errors.Is(err, emolument.ErrComponentCodeExists) {
				continue
			}
			return fmt.Errorf("seed component %s: %w", component.Code, err)
		}
	}
	return nil
}

func mapToComponentResponse(c emolument.Component) emolument.ComponentResponse {
	return emolument.ComponentResponse{
		ID:                  c.ID,
		Code:                c.Code,
		Name:                c.Name,
		PayrollCategory:     string(c.PayrollCategory),
		IsPensionable:       c.IsPensionable,
		IsUniversalTemplate: c.IsUniversalTemplate,
		ClientID:            c.ClientID,
		IsActive:            c.IsActive,
		DisplayOrder:        c.DisplayOrder,
		CreatedAt:           c.CreatedAt,
	}
}
