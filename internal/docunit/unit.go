// Package docunit orchestrates one documentation probe: perform a single
// HTTP call, walk the observed request and response into field descriptors,
// and render the apidoc annotation stub.
package docunit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/yourorg/adfmt/internal/annotate"
	"github.com/yourorg/adfmt/internal/probe"
	"github.com/yourorg/adfmt/internal/schema"
)

// ErrInvalidUnit reports a unit constructed with missing required fields.
var ErrInvalidUnit = errors.New("invalid unit")

// Permission is the apidoc permission of a unit's endpoints.
type Permission struct {
	Name    string
	Explain string
}

// Config describes one unit.
type Config struct {
	// Name of the unit; becomes the stub class name.
	Name        string
	Group       string
	Description string
	Permission  Permission
	// ErrorExample documents the error shape of the unit's endpoints;
	// probing only observes the success path.
	ErrorExample map[string]any

	Client   *probe.Client
	Renderer *annotate.Renderer
	Logger   *slog.Logger
}

// Unit documents endpoints of one API group. Each probe call performs
// exactly one request and yields one immutable Doc; the unit itself keeps
// no state between calls.
type Unit struct {
	name         string
	group        string
	description  string
	permission   Permission
	errorExample *schema.Value
	client       *probe.Client
	renderer     *annotate.Renderer
	logger       *slog.Logger
}

func New(cfg Config) (*Unit, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidUnit)
	}
	if cfg.Client == nil || strings.TrimSpace(cfg.Client.BaseURL) == "" {
		return nil, fmt.Errorf("%w: client base url cannot be empty", ErrInvalidUnit)
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = &annotate.Renderer{Placeholder: annotate.DefaultPlaceholder}
	}
	u := &Unit{
		name:        cfg.Name,
		group:       cfg.Group,
		description: cfg.Description,
		permission:  cfg.Permission,
		client:      cfg.Client,
		renderer:    renderer,
		logger:      cfg.Logger,
	}
	if len(cfg.ErrorExample) > 0 {
		v := schema.FromAny(cfg.ErrorExample)
		u.errorExample = &v
	}
	return u, nil
}

// Name returns the unit name.
func (u *Unit) Name() string { return u.name }

// Group returns the unit group.
func (u *Unit) Group() string { return u.group }

// Doc is one rendered documentation snapshot, immutable once produced.
type Doc struct {
	Method     string
	Path       string
	StatusCode int
	output     annotate.RenderedDoc
}

// Output returns the rendered stub method text.
func (d *Doc) Output() string { return d.output.String() }

func (u *Unit) Get(ctx context.Context, path, title string, params probe.Params) (*Doc, error) {
	return u.do(ctx, http.MethodGet, path, title, params)
}

func (u *Unit) Post(ctx context.Context, path, title string, params probe.Params) (*Doc, error) {
	return u.do(ctx, http.MethodPost, path, title, params)
}

func (u *Unit) Put(ctx context.Context, path, title string, params probe.Params) (*Doc, error) {
	return u.do(ctx, http.MethodPut, path, title, params)
}

func (u *Unit) Delete(ctx context.Context, path, title string, params probe.Params) (*Doc, error) {
	return u.do(ctx, http.MethodDelete, path, title, params)
}

// Probe dispatches on an arbitrary method name.
func (u *Unit) Probe(ctx context.Context, method, path, title string, params probe.Params) (*Doc, error) {
	return u.do(ctx, strings.ToUpper(method), path, title, params)
}

func (u *Unit) do(ctx context.Context, method, path, title string, params probe.Params) (*Doc, error) {
	normalized, err := annotate.NormalizePath(path)
	if err != nil {
		return nil, err
	}

	res, err := u.client.Do(ctx, method, path, params)
	if err != nil {
		return nil, err
	}

	body, err := schema.Decode(res.Body)
	if err != nil {
		return nil, fmt.Errorf("response of %s %s: %w", method, path, err)
	}

	headerDoc := headersValue(u.client.Headers)
	paramDoc := paramsValue(params)

	in := annotate.Input{
		Meta: annotate.EndpointMeta{
			Method:            strings.ToLower(method),
			Path:              normalized,
			Title:             title,
			Description:       u.description,
			Group:             u.group,
			PermissionName:    u.permission.Name,
			PermissionExplain: u.permission.Explain,
			ClassName:         annotate.ClassName(u.name),
			MethodName:        annotate.MethodName(normalized),
		},
		Headers: schema.Walk(headerDoc, schema.GroupHeader),
		Params:  schema.Walk(paramDoc, schema.GroupParam),
		Success: schema.Walk(body, schema.GroupSuccess),
	}
	if !headerDoc.IsEmpty() {
		in.Examples.Header = &headerDoc
	}
	if !paramDoc.IsEmpty() {
		in.Examples.Param = &paramDoc
	}
	in.Examples.Success = &body
	if u.errorExample != nil {
		in.Errors = schema.Walk(*u.errorExample, schema.GroupError)
		in.Examples.Error = u.errorExample
	}

	if u.logger != nil {
		u.logger.Info("documented endpoint", "unit", u.name, "method", method, "path", normalized, "status", res.StatusCode)
	}

	return &Doc{
		Method:     strings.ToLower(method),
		Path:       normalized,
		StatusCode: res.StatusCode,
		output:     u.renderer.Render(in),
	}, nil
}

// headersValue turns the client's default headers into a document. Header
// maps carry no order, so keys are sorted for determinism.
func headersValue(headers map[string]string) schema.Value {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	v := schema.Value{Kind: schema.KindObject}
	for _, k := range keys {
		v.Members = append(v.Members, schema.Member{Key: k, Value: schema.Value{Kind: schema.KindString, Str: headers[k]}})
	}
	return v
}

// paramsValue keeps the caller-supplied parameter order.
func paramsValue(params probe.Params) schema.Value {
	v := schema.Value{Kind: schema.KindObject}
	for _, p := range params {
		v.Members = append(v.Members, schema.Member{Key: p.Key, Value: schema.FromAny(p.Value)})
	}
	return v
}
