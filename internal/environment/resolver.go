// Package environment maps the ENV deployment name to service base URLs and
// builds the authentication headers each backend expects.
package environment

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

var (
	// ErrMissingEnv is returned when no deployment is selected.
	ErrMissingEnv = errors.New("ENV is not set")
	// ErrUnknownKind is returned for a URL kind without a template.
	ErrUnknownKind = errors.New("unknown url kind")
)

// Kind names one of the deployment's public surfaces.
type Kind string

const (
	KindService          Kind = "service"
	KindBackend          Kind = "backend"
	KindFrontend         Kind = "frontend"
	KindLegacy           Kind = "legacy"
	KindMobile           Kind = "mobile"
	KindAPISync          Kind = "api-sync"
	KindBackofficeLegacy Kind = "backoffice-legacy"
)

// Kinds lists every surface in display order.
var Kinds = []Kind{
	KindService, KindBackend, KindFrontend, KindLegacy, KindMobile, KindAPISync, KindBackofficeLegacy,
}

const envPlaceholder = "{env}"

var defaultTemplates = map[Kind]string{
	KindService:          "https://{env}-services.investree.tech",
	KindBackend:          "https://{env}-backend.investree.tech",
	KindFrontend:         "https://{env}.investree.tech",
	KindLegacy:           "https://{env}-legacy.investree.tech",
	KindMobile:           "https://{env}-mobile.investree.tech",
	KindAPISync:          "https://{env}-apisync.investree.tech",
	KindBackofficeLegacy: "https://{env}-bo.investree.tech",
}

// Resolver turns a URL kind into the base URL of the selected deployment.
type Resolver struct {
	env       string
	templates map[Kind]string
	override  string
}

type Option func(r *Resolver)

// WithTemplates replaces the templates of the given kinds.
func WithTemplates(templates map[Kind]string) Option {
	return func(r *Resolver) {
		maps.Copy(r.templates, templates)
	}
}

// WithBaseURLOverride points every kind at one URL, e.g. a local fake backend.
func WithBaseURLOverride(url string) Option {
	return func(r *Resolver) {
		r.override = strings.TrimRight(url, "/")
	}
}

// New returns a resolver for env. An empty env fails fast.
func New(env string, opts ...Option) (*Resolver, error) {
	env = strings.TrimSpace(env)
	if env == "" {
		return nil, ErrMissingEnv
	}
	r := &Resolver{env: env, templates: maps.Clone(defaultTemplates)}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Env returns the selected deployment name.
func (r *Resolver) Env() string {
	return r.env
}

// URL resolves kind for the selected deployment. Nothing is cached.
func (r *Resolver) URL(kind Kind) (string, error) {
	tpl, ok := r.templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if r.override != "" {
		return r.override, nil
	}
	return strings.TrimRight(strings.ReplaceAll(tpl, envPlaceholder, r.env), "/"), nil
}

// URLs resolves every known kind.
func (r *Resolver) URLs() (map[Kind]string, error) {
	out := make(map[Kind]string, len(Kinds))
	for _, k := range Kinds {
		u, err := r.URL(k)
		if err != nil {
			return nil, err
		}
		out[k] = u
	}
	return out, nil
}
