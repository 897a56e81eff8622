package wastemarket

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-waste-market/core"
)

// CategoryPack is a named batch of waste categories a host application can
// seed into the marketplace before serving traffic.
type CategoryPack struct {
	Name       string
	Categories []core.Category
}

type CommandQueryBundleFactory func(service CommandQueryService) (any, error)

// ExtensionHooks lets embedding applications contribute category packs and
// extra command/query bundles without touching the core service.
type ExtensionHooks struct {
	mu sync.RWMutex

	categoryPacks map[string]CategoryPack
	bundles       map[string]CommandQueryBundleFactory
}

func NewExtensionHooks() *ExtensionHooks {
	return &ExtensionHooks{
		categoryPacks: map[string]CategoryPack{},
		bundles:       map[string]CommandQueryBundleFactory{},
	}
}

func (h *ExtensionHooks) RegisterCategoryPack(pack CategoryPack) error {
	if h == nil {
		return fmt.Errorf("wastemarket: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("wastemarket: category pack name is required")
	}
	if len(pack.Categories) == 0 {
		return fmt.Errorf("wastemarket: category pack %q has no categories", name)
	}

	normalized := CategoryPack{
		Name:       name,
		Categories: append([]core.Category(nil), pack.Categories...),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.categoryPacks[name]; exists {
		return fmt.Errorf("wastemarket: category pack %q already registered", name)
	}
	h.categoryPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) RegisterCommandQueryBundle(
	name string,
	factory CommandQueryBundleFactory,
) error {
	if h == nil {
		return fmt.Errorf("wastemarket: extension hooks are nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("wastemarket: command/query bundle name is required")
	}
	if factory == nil {
		return fmt.Errorf("wastemarket: command/query bundle %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.bundles[name]; exists {
		return fmt.Errorf("wastemarket: command/query bundle %q already registered", name)
	}
	h.bundles[name] = factory
	return nil
}

// ApplyCategoryPacks persists every registered pack through the category
// store, in pack name order.
func (h *ExtensionHooks) ApplyCategoryPacks(ctx context.Context, store core.CategoryStore) error {
	if h == nil {
		return nil
	}
	if store == nil {
		return fmt.Errorf("wastemarket: category store is required")
	}

	packs := h.CategoryPacks()
	for _, pack := range packs {
		for _, category := range pack.Categories {
			if strings.TrimSpace(category.ID) == "" {
				return fmt.Errorf("wastemarket: category pack %q contains a category without id", pack.Name)
			}
			if _, err := store.Save(ctx, category); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *ExtensionHooks) BuildCommandQueryBundles(
	service CommandQueryService,
) (map[string]any, error) {
	if h == nil {
		return map[string]any{}, nil
	}
	if service == nil {
		return nil, fmt.Errorf("wastemarket: command/query service is required")
	}

	h.mu.RLock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	factories := make(map[string]CommandQueryBundleFactory, len(h.bundles))
	for name, factory := range h.bundles {
		factories[name] = factory
	}
	h.mu.RUnlock()

	result := make(map[string]any, len(names))
	for _, name := range names {
		bundle, err := factories[name](service)
		if err != nil {
			return nil, err
		}
		result[name] = bundle
	}
	return result, nil
}

func (h *ExtensionHooks) CategoryPacks() []CategoryPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.categoryPacks))
	for name := range h.categoryPacks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CategoryPack, 0, len(names))
	for _, name := range names {
		pack := h.categoryPacks[name]
		out = append(out, CategoryPack{
			Name:       pack.Name,
			Categories: append([]core.Category(nil), pack.Categories...),
		})
	}
	return out
}

func (h *ExtensionHooks) BundleNames() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
