package product

import (
	"context"
	"math/rand/v2"
	"strings"

	"delicias-urbanas/internal/domain"
	productrepo "delicias-urbanas/internal/repository/product"
)

// DefaultRecommendations is how many add-ons the cart suggests.
const DefaultRecommendations = 3

type Service struct {
	repo    productrepo.Repository
	shuffle func(n int, swap func(i, j int))
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo, shuffle: rand.Shuffle}
}

// Filter narrows the menu. Zero values match everything.
type Filter struct {
	Category domain.Category
	Query    string
}

func (f Filter) matches(p domain.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// Section is one category heading of the menu.
type Section struct {
	Category domain.Category  `json:"category"`
	Products []domain.Product `json:"products"`
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Grouped returns the filtered menu split by category in display order,
// omitting empty categories.
func (s *Service) Grouped(ctx context.Context, f Filter) ([]Section, error) {
	items, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	byCat := make(map[domain.Category][]domain.Product)
	for _, p := range items {
		byCat[p.Category] = append(byCat[p.Category], p)
	}
	sections := make([]Section, 0, len(byCat))
	for _, c := range domain.DisplayCategories {
		if ps := byCat[c]; len(ps) > 0 {
			sections = append(sections, Section{Category: c, Products: ps})
		}
	}
	return sections, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Recommendations suggests up to n drinks or sides that are not in the cart yet.
func (s *Service) Recommendations(ctx context.Context, inCart []string, n int) ([]domain.Product, error) {
	if n <= 0 {
		n = DefaultRecommendations
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]struct{}, len(inCart))
	for _, id := range inCart {
		skip[id] = struct{}{}
	}
	var candidates []domain.Product
	for _, p := range all {
		if _, ok := skip[p.ID]; ok || !p.Category.IsComplement() {
			continue
		}
		candidates = append(candidates, p)
	}
	s.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates, nil
}
