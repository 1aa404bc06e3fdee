package config

import (
	"time"

	"github.com/saturnines/userfeed/pkg/logger"
)

// Feed represents the full config for one user feed
type Feed struct {
	Name    string        `yaml:"name" validate:"required"` // Required: Unique identifier
	Source  Source        `yaml:"source"`                   // Upstream API
	Paging  Paging        `yaml:"paging"`                   // Page size
	Display Display       `yaml:"display"`                  // Presentation defaults
	Logger  logger.Config `yaml:"logger"`                   // Logging
}

// Source represents API config
type Source struct {
	Endpoint      string            `yaml:"endpoint" validate:"required"` // API URL, may hold {{VAR}} templates
	QuantityParam string            `yaml:"quantity_param,omitempty"`     // Page size query parameter
	Headers       map[string]string `yaml:"headers,omitempty"`            // Static HTTP headers
	Timeout       time.Duration     `yaml:"timeout,omitempty"`            // HTTP client timeout, e.g. "15s"
}

// Paging controls how many profiles one page holds
type Paging struct {
	PageSize int `yaml:"page_size,omitempty" validate:"gt=0,lte=5000"`
}

// Display holds presentation defaults
type Display struct {
	Layout      string `yaml:"layout,omitempty" validate:"oneof=list grid"`
	GridColumns int    `yaml:"grid_columns,omitempty" validate:"gt=0,lte=12"`
}
