package partner

import (
	"context"

	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create stores a customer with a unique phone number
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniquePhone(ctx, customer.Phone, 0); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Customer with ID %d not found", id)
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns one page of customers
func (s *CustomerService) List(ctx context.Context, filter appshared.ListFilter) (shared.Paginated[CustomerResponse], error) {
	domainFilter := filter.ToDomain()

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}

	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update replaces a customer's details
func (s *CustomerService) Update(ctx context.Context, id int64, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Customer with ID %d not found", id)
	}
	if err := customer.Update(req.Name, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if err := s.ensureUniquePhone(ctx, customer.Phone, id); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return appshared.NotFound(s.customerRepo.Delete(ctx, id), "Customer with ID %d not found", id)
}

func (s *CustomerService) ensureUniquePhone(ctx context.Context, phone string, excludeID int64) error {
	exists, err := s.customerRepo.ExistsByPhone(ctx, phone, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExistsf("Customer with phone '%s' already exists.", phone)
	}
	return nil
}
