package config

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func Validate(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator validates one domain at a time.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(cfg *Config) *configurationValidator {
	return &configurationValidator{config: cfg}
}

func (cv *configurationValidator) validate() error {
	for _, check := range []func() error{
		cv.validateSite,
		cv.validatePaths,
		cv.validatePassthrough,
		cv.validatePlugins,
		cv.validateFastBuild,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validateSite() error {
	if cv.config.Site.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(cv.config.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ferrors.ValidationError("site.base_url must be an absolute URL").
			WithContext("base_url", cv.config.Site.BaseURL).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validatePaths() error {
	content := filepath.Clean(cv.config.Content.Directory)
	output := filepath.Clean(cv.config.Output.Directory)
	if content == output {
		return ferrors.ValidationError("content and output directories must differ").
			WithContext("directory", content).
			Build()
	}
	if !doublestar.ValidatePattern(cv.config.Content.Pattern) {
		return ferrors.ValidationError("invalid content pattern").
			WithContext("pattern", cv.config.Content.Pattern).
			Build()
	}
	if filepath.IsAbs(cv.config.Output.DataFile) || escapes(cv.config.Output.DataFile) {
		return ferrors.ValidationError("output.data_file must stay inside the output directory").
			WithContext("data_file", cv.config.Output.DataFile).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validatePassthrough() error {
	for i, rule := range cv.config.Passthrough {
		if strings.TrimSpace(rule.Pattern) == "" {
			return ferrors.ValidationError("passthrough pattern cannot be empty").
				WithContext("index", i).
				Build()
		}
		if !doublestar.ValidatePattern(rule.Pattern) {
			return ferrors.ValidationError("invalid passthrough pattern").
				WithContext("pattern", rule.Pattern).
				Build()
		}
		if filepath.IsAbs(rule.Dest) || escapes(rule.Dest) {
			return ferrors.ValidationError("passthrough dest must stay inside the output directory").
				WithContext("dest", rule.Dest).
				Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validatePlugins() error {
	rss := cv.config.Plugins.RSS
	switch rss.Format {
	case "rss", "atom":
	default:
		return ferrors.ValidationError("plugins.rss.format must be rss or atom").
			WithContext("format", rss.Format).
			Build()
	}
	if rss.Limit < 0 {
		return ferrors.ValidationError("plugins.rss.limit cannot be negative").
			WithContext("limit", rss.Limit).
			Build()
	}
	if rss.Enabled && cv.config.Site.BaseURL == "" {
		return ferrors.ValidationError("plugins.rss requires site.base_url").Build()
	}
	return nil
}

func (cv *configurationValidator) validateFastBuild() error {
	fb := cv.config.FastBuild
	if fb.Enabled && fb.CutoffYear <= 0 {
		return ferrors.ValidationError("fast_build.cutoff_year is required when fast_build is enabled").Build()
	}
	return nil
}

func escapes(rel string) bool {
	if rel == "" {
		return false
	}
	clean := filepath.Clean(rel)
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
