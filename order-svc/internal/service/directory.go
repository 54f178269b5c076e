package service

import "comanda/order-svc/internal/domain"

// Thin wrappers over the routine data access: restaurants, branches, menus,
// products and customers.

type RestaurantService struct {
	repo RestaurantRepository
}

func NewRestaurantService(repo RestaurantRepository) *RestaurantService {
	return &RestaurantService{repo: repo}
}

func (s *RestaurantService) Create(rest *domain.Restaurant) error {
	return s.repo.CreateRestaurant(rest)
}

func (s *RestaurantService) List() ([]domain.Restaurant, error) {
	return s.repo.ListRestaurants()
}

func (s *RestaurantService) Get(id string) (*domain.Restaurant, error) {
	return s.repo.GetRestaurant(id)
}

func (s *RestaurantService) Update(rest *domain.Restaurant) error {
	return s.repo.UpdateRestaurant(rest)
}

func (s *RestaurantService) Delete(id string) (int64, error) {
	return s.repo.DeleteRestaurant(id)
}

type BranchService struct {
	repo BranchRepository
}

func NewBranchService(repo BranchRepository) *BranchService {
	return &BranchService{repo: repo}
}

func (s *BranchService) Create(branch *domain.Branch) error {
	return s.repo.CreateBranch(branch)
}

func (s *BranchService) List(restaurantID string) ([]domain.Branch, error) {
	return s.repo.ListBranches(restaurantID)
}

func (s *BranchService) Get(id string) (*domain.Branch, error) {
	return s.repo.GetBranch(id)
}

func (s *BranchService) Update(branch *domain.Branch) error {
	return s.repo.UpdateBranch(branch)
}

func (s *BranchService) Delete(id string) (int64, error) {
	return s.repo.DeleteBranch(id)
}

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

func (s *MenuService) Create(menu *domain.Menu) error {
	return s.repo.CreateMenu(menu)
}

func (s *MenuService) List(branchID string) ([]domain.Menu, error) {
	return s.repo.ListMenus(branchID)
}

func (s *MenuService) GetByBranch(branchID string) (*domain.Menu, error) {
	return s.repo.GetMenuByBranch(branchID)
}

func (s *MenuService) Delete(id string) (int64, error) {
	return s.repo.DeleteMenu(id)
}

type ProductService struct {
	repo ProductRepository
}

func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) Create(product *domain.Product) error {
	return s.repo.CreateProduct(product)
}

func (s *ProductService) ListByMenu(menuID string) ([]domain.Product, error) {
	return s.repo.ListProductsByMenu(menuID)
}

func (s *ProductService) Get(id string) (*domain.Product, error) {
	return s.repo.GetProduct(id)
}

func (s *ProductService) Update(product *domain.Product) error {
	return s.repo.UpdateProduct(product)
}

func (s *ProductService) Deactivate(id string) error {
	return s.repo.DeactivateProduct(id)
}
