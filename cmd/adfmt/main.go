package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourorg/adfmt/internal/annotate"
	"github.com/yourorg/adfmt/internal/config"
	"github.com/yourorg/adfmt/internal/docunit"
	"github.com/yourorg/adfmt/internal/probe"
	"github.com/yourorg/adfmt/internal/store"
	"github.com/yourorg/adfmt/pkg/types"
)

const defaultConfigContent = `api:
  base_url: ""
  timeout_seconds: 30
  headers: {}

doc:
  group: ""
  description: ""
  permission:
    name: ""
    explain: ""
  placeholder: "ready to fill in"
  mapping: {}
  error_example: {}

mask:
  fields:
    - password
    - secret
    - token
    - api_key
    - access_token
    - refresh_token
    - credential
  replacement: "***REDACTED***"

output:
  dir: "./docs"

log:
  level: "info"
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "adfmt",
		Short: "Generate apidoc annotation stubs from live HTTP responses",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")

	root.AddCommand(newInitCmd())
	root.AddCommand(newProbeCmd(&cfgPath))
	root.AddCommand(newGenerateCmd(&cfgPath))
	root.AddCommand(newListCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newExportCmd())

	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize ~/.adfmt directory and default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := baseDir()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			cfgFile := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(cfgFile, []byte(defaultConfigContent), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created", cfgFile)
			} else if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "exists", cfgFile)
			} else {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "database ready")
			fmt.Fprintln(cmd.OutOrStdout(), "please set api.base_url in", cfgFile)
			return nil
		},
	}
}

func newProbeCmd(cfgPath *string) *cobra.Command {
	var name, group, method, path, title, description string
	var rawParams []string
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe one endpoint and record its doc",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.ValidateProbe(); err != nil {
				return err
			}
			logger := newLogger(cfg.Log.Level)

			unit, err := buildUnit(cfg, name, group, description, nil, logger)
			if err != nil {
				return err
			}
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}

			doc, err := unit.Probe(cmd.Context(), method, path, title, params)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := saveDoc(s, unit, doc); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), doc.Output())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "unit name")
	cmd.Flags().StringVar(&group, "group", "", "apidoc group (defaults to doc.group)")
	cmd.Flags().StringVar(&method, "method", "get", "http method")
	cmd.Flags().StringVar(&path, "path", "", "request path")
	cmd.Flags().StringVar(&title, "title", "", "endpoint title")
	cmd.Flags().StringVar(&description, "description", "", "endpoint description (defaults to doc.description)")
	cmd.Flags().StringArrayVar(&rawParams, "param", nil, "request parameter as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newGenerateCmd(cfgPath *string) *cobra.Command {
	var manifestPath string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Probe every endpoint in a manifest and write stub files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.ValidateProbe(); err != nil {
				return err
			}
			logger := newLogger(cfg.Log.Level)

			manifest, err := config.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, mu := range manifest.Units {
				unit, err := buildUnit(cfg, mu.Name, mu.Group, mu.Description, mu.ErrorExample, logger)
				if err != nil {
					return err
				}
				for _, ep := range mu.Endpoints {
					params := make(probe.Params, 0, len(ep.Params))
					for _, p := range ep.Params {
						params = append(params, probe.Param{Key: p.Key, Value: p.Value})
					}
					doc, err := unit.Probe(cmd.Context(), ep.Method, ep.Path, ep.Title, params)
					if err != nil {
						return fmt.Errorf("unit %s: %w", mu.Name, err)
					}
					if err := saveDoc(s, unit, doc); err != nil {
						return err
					}
				}
				out, err := docunit.Export(s, mu.Name, cfg.Output.Dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "probe manifest file")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documented units",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			units, err := s.ListUnits()
			if err != nil {
				return err
			}
			for _, u := range units {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tgroup=%s\tdocs=%d\tupdated=%s\n",
					u.Name, u.Group, u.DocCount, u.UpdatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	var unit string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the assembled stub of a unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			stub, err := docunit.Assemble(s, unit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stub)
			return nil
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "unit name")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var unit string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a unit and its docs",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			return s.DeleteUnit(unit)
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "unit name")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func newExportCmd() *cobra.Command {
	var unit, dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stub file of a unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			path, err := docunit.Export(s, unit, dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "unit name")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".adfmt"), nil
}

func openStore() (store.Store, error) {
	dir, err := baseDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return store.NewSQLiteStore(filepath.Join(dir, "adfmt.db"))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func buildUnit(cfg *config.Config, name, group, description string, errorExample map[string]any, logger *slog.Logger) (*docunit.Unit, error) {
	if group == "" {
		group = cfg.Doc.Group
	}
	if description == "" {
		description = cfg.Doc.Description
	}
	if errorExample == nil {
		errorExample = cfg.Doc.ErrorExample
	}
	client := &probe.Client{
		BaseURL: cfg.API.BaseURL,
		Headers: cfg.API.Headers,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		Logger:  logger,
	}
	renderer := &annotate.Renderer{
		Mapping:     cfg.Doc.Mapping,
		Placeholder: cfg.Doc.Placeholder,
		Mask:        cfg.Mask.Fields,
		Replacement: cfg.Mask.Replacement,
	}
	return docunit.New(docunit.Config{
		Name:        name,
		Group:       group,
		Description: description,
		Permission: docunit.Permission{
			Name:    cfg.Doc.Permission.Name,
			Explain: cfg.Doc.Permission.Explain,
		},
		ErrorExample: errorExample,
		Client:       client,
		Renderer:     renderer,
		Logger:       logger,
	})
}

func saveDoc(s store.Store, unit *docunit.Unit, doc *docunit.Doc) error {
	if _, err := s.SaveUnit(unit.Name(), unit.Group()); err != nil {
		return err
	}
	return s.SaveMethodDoc(&types.MethodDoc{
		UnitName:   unit.Name(),
		Method:     doc.Method,
		Path:       doc.Path,
		StatusCode: doc.StatusCode,
		Doc:        doc.Output(),
	})
}

// parseParams converts repeated key=value flags into ordered params,
// narrowing values so the doc infers real types: integers and floats become
// numbers, true/false booleans, everything else stays a string.
func parseParams(raw []string) (probe.Params, error) {
	params := make(probe.Params, 0, len(raw))
	for _, r := range raw {
		key, value, ok := strings.Cut(r, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q, expected key=value", r)
		}
		params = append(params, probe.Param{Key: key, Value: narrow(value)})
	}
	return params, nil
}

func narrow(v string) any {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}
