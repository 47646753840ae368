package gallery

import (
	"photo-gallery/feature/gallery/catalog"
	"photo-gallery/feature/gallery/dirconfig"
	"photo-gallery/feature/gallery/metadata"
	"photo-gallery/feature/gallery/reconcile"
	"photo-gallery/feature/gallery/variant"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature wires the gallery feature together.
func NewFeature(settings dirconfig.Settings, db *gorm.DB, logger *zap.Logger) (*Feature, error) {
	store, err := catalog.NewStore(db, logger)
	if err != nil {
		return nil, err
	}
	resolver := dirconfig.NewResolver(settings, logger)
	cache := variant.NewCache(settings, logger)
	engine := reconcile.NewEngine(settings, resolver, store, cache, logger)
	if err := engine.EnsureDirs(); err != nil {
		return nil, err
	}
	parser := metadata.NewParser(settings, store, logger)
	svc := NewService(settings, resolver, store, engine, parser, cache, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}, nil
}

// Service exposes the wired service, for use outside the HTTP stack.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "gallery"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
