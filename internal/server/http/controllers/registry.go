package controllers

import (
	"net/http"

	"github.com/rzbill/lodex/internal/runtime"
	itemsvc "github.com/rzbill/lodex/internal/services/items"
	"github.com/rzbill/lodex/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general *GeneralController
	items   *ItemsController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, svc *itemsvc.Service, logger log.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt),
		items:   NewItemsController(svc, logger),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.items.RegisterRoutes(mux)
}
