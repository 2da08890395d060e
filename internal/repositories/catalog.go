package repositories

import (
	"context"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/seed"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
)

// CatalogRepository serves the read-only reference collections
type CatalogRepository interface {
	Products(ctx context.Context) ([]models.Product, error)
	Employees(ctx context.Context) ([]models.Employee, error)
	ProductionItems(ctx context.Context) ([]models.ProductionItem, error)
	PlanningReference(ctx context.Context) (*models.PlanningReference, error)
	ClearProducts(ctx context.Context) error
	// Warm seeds every reference collection
	Warm(ctx context.Context) error
}

// catalogRepository implements CatalogRepository. The collections are caches of
// the seed data, so write failures are only logged.
type catalogRepository struct {
	products  *store.Collection[[]models.Product]
	employees *store.Collection[[]models.Employee]
	items     *store.Collection[models.ProductionCatalog]
	reference *store.Collection[models.PlanningReference]
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(kv store.KV, seeder store.Seeder, opts ...Option) CatalogRepository {
	o := buildOptions(opts)
	withSeed := func(resource string) []store.CollectionOption {
		if seeder == nil {
			return nil
		}
		return []store.CollectionOption{store.WithSeed(seeder, resource)}
	}
	return &catalogRepository{
		products:  store.NewCollection[[]models.Product](kv, o.keyFunc(KeyProducts), withSeed(seed.ResourceProducts)...),
		employees: store.NewCollection[[]models.Employee](kv, o.keyFunc(KeyEmployees), withSeed(seed.ResourceEmployees)...),
		items:     store.NewCollection[models.ProductionCatalog](kv, o.keyFunc(KeyProductionItems), withSeed(seed.ResourceProduction)...),
		reference: store.NewCollection[models.PlanningReference](kv, o.keyFunc(KeyProductionOrders), withSeed(seed.ResourceProductionOrders)...),
	}
}

// Products returns the product catalog
func (r *catalogRepository) Products(ctx context.Context) ([]models.Product, error) {
	products, err := r.products.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, len(products))
	for i, p := range products {
		if p.Active != nil {
			active := *p.Active
			p.Active = &active
		}
		out[i] = p
	}
	return out, nil
}

// Employees returns the staff list
func (r *catalogRepository) Employees(ctx context.Context) ([]models.Employee, error) {
	employees, err := r.employees.Get(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.Employee{}, employees...), nil
}

// ProductionItems returns the production item catalog
func (r *catalogRepository) ProductionItems(ctx context.Context) ([]models.ProductionItem, error) {
	catalog, err := r.items.Get(ctx)
	if err != nil {
		return nil, err
	}
	items := models.CloneItems(catalog.Items)
	if items == nil {
		items = []models.ProductionItem{}
	}
	return items, nil
}

// PlanningReference returns the default and personalized planning tables
func (r *catalogRepository) PlanningReference(ctx context.Context) (*models.PlanningReference, error) {
	ref, err := r.reference.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := models.PlanningReference{
		DefaultPlanning:      make(map[string][]models.ProductionItem, len(ref.DefaultPlanning)),
		PersonalizedPlanning: make([]models.PersonalizedPlanning, len(ref.PersonalizedPlanning)),
	}
	for day, items := range ref.DefaultPlanning {
		out.DefaultPlanning[day] = models.CloneItems(items)
	}
	for i, p := range ref.PersonalizedPlanning {
		out.PersonalizedPlanning[i] = models.PersonalizedPlanning{Day: p.Day, Items: models.CloneItems(p.Items)}
	}
	return &out, nil
}

// ClearProducts drops the cached product list; the next read seeds it again
func (r *catalogRepository) ClearProducts(ctx context.Context) error {
	return r.products.Clear(ctx)
}

// Warm seeds every reference collection
func (r *catalogRepository) Warm(ctx context.Context) error {
	if _, err := r.Products(ctx); err != nil {
		return err
	}
	if _, err := r.Employees(ctx); err != nil {
		return err
	}
	if _, err := r.ProductionItems(ctx); err != nil {
		return err
	}
	_, err := r.PlanningReference(ctx)
	return err
}
