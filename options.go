package larkdocs

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/feature"
	"github.com/agentstation/larkdocs/pkg/host"
	"github.com/agentstation/larkdocs/pkg/loader"
	"github.com/agentstation/larkdocs/pkg/widget"
)

// Option is a function that configures a Component
type Option func(*config) error

// config is captured once by New and never changes afterwards
type config struct {
	src     string
	mount   host.Element
	feature *feature.Config
	theme   widget.Theme
	size    *widget.Size
	auth    *AuthConfig

	hooks *hooks

	env    host.Environment
	loader *loader.Loader
	logger *zerolog.Logger
}

// WithFeatureConfig sets the initial feature configuration
func WithFeatureConfig(cfg *feature.Config) Option {
	return func(c *config) error {
		c.feature = cfg
		return nil
	}
}

// WithTheme sets the widget color scheme
func WithTheme(theme widget.Theme) Option {
	return func(c *config) error {
		switch theme {
		case widget.ThemeLight, widget.ThemeDark:
			c.theme = theme
			return nil
		}
		return errors.NewValidationError("theme", theme, "must be light or dark")
	}
}

// WithSize sets the widget dimensions
func WithSize(size widget.Size) Option {
	return func(c *config) error {
		c.size = &size
		return nil
	}
}

// WithAuth sets the signed authentication bundle. It is handed to the
// widget unchanged.
func WithAuth(auth *AuthConfig) Option {
	return func(c *config) error {
		c.auth = auth
		return nil
	}
}

// WithEnvironment sets the host environment. Without WithLoader the
// component gets a loader of its own for env.
func WithEnvironment(env host.Environment) Option {
	return func(c *config) error {
		if env == nil {
			return errors.NewValidationError("environment", nil, "must not be nil")
		}
		c.env = env
		return nil
	}
}

// WithLoader shares an SDK loader between components on the same page.
func WithLoader(l *loader.Loader) Option {
	return func(c *config) error {
		if l == nil {
			return errors.NewValidationError("loader", nil, "must not be nil")
		}
		c.loader = l
		return nil
	}
}

// WithLogger sets the component logger
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithOnError adds a callback for errors reported by the widget
func WithOnError(fn ErrorHook) Option {
	return func(c *config) error {
		c.hooks.OnError(fn)
		return nil
	}
}

// WithOnAuthError adds a callback for rejected authentication bundles
func WithOnAuthError(fn AuthErrorHook) Option {
	return func(c *config) error {
		c.hooks.OnAuthError(fn)
		return nil
	}
}

// WithOnMountSuccess adds a callback for a successful mount
func WithOnMountSuccess(fn MountHook) Option {
	return func(c *config) error {
		c.hooks.OnMountSuccess(fn)
		return nil
	}
}

// WithOnMountTimeout adds a callback for a mount that timed out
func WithOnMountTimeout(fn MountHook) Option {
	return func(c *config) error {
		c.hooks.OnMountTimeout(fn)
		return nil
	}
}
