// Package warehouse implements the ELT pipeline over the single-file
// store warehouse: schema management, the date dimension, the core
// session/order transform, channel classification, and the analytical
// view layer.
//
// The raw tables (website_sessions, website_pageviews, orders) are
// produced by the bulk loader and consumed read-only; the pipeline
// rebuilds dim_session_activity and fact_orders from scratch on every
// run. Rerunning is the only recovery mechanism.
package warehouse

import (
	"martctl/internal/sqlite"
)

// Service runs the pipeline steps against an open warehouse
type Service struct {
	store *sqlite.Service
}

// NewService creates a new pipeline service
func NewService(store *sqlite.Service) *Service {
	return &Service{store: store}
}

// Store returns the underlying warehouse service
func (s *Service) Store() *sqlite.Service {
	return s.store
}
