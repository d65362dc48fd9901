// Package config provides the stale.yaml configuration loader.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// SupportedVersion is the only schema version the loader understands.
const SupportedVersion = "1"

var validCheckNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds stale.yaml in cwd or the nearest parent and returns its checks.
func (l *Loader) Load(cwd string) ([]domain.Check, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(configPath)
}

// LoadFile reads the checks declared in the file at configPath, sorted by name.
func (l *Loader) LoadFile(configPath string) ([]domain.Check, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, readError(configPath, err)
	}

	var stalefile Stalefile
	if err := readAndUnmarshalYAML(absPath, &stalefile); err != nil {
		return nil, err
	}

	if stalefile.Version != "" && stalefile.Version != SupportedVersion {
		l.Logger.Warn("unsupported config version, reading it as version "+SupportedVersion,
			"version", stalefile.Version, "path", absPath)
	}

	root := resolveRoot(absPath, stalefile.Root)

	names := make([]string, 0, len(stalefile.Checks))
	for name := range stalefile.Checks {
		names = append(names, name)
	}
	slices.Sort(names)

	checks := make([]domain.Check, 0, len(names))
	for _, name := range names {
		check, err := buildCheck(name, stalefile.Checks[name], stalefile.Defaults, root)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}

	return checks, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", notFoundError(cwd)
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", notFoundError(cwd)
}

// resolveRoot returns the directory relative paths in the file are joined onto.
func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

func buildCheck(name string, dto *CheckDTO, defaults ScanDTO, root string) (domain.Check, error) {
	if err := validateCheckName(name); err != nil {
		return domain.Check{}, err
	}
	if dto == nil || strings.TrimSpace(dto.Source) == "" {
		return domain.Check{}, missingFieldError(name, "source")
	}
	if strings.TrimSpace(dto.Target) == "" {
		return domain.Check{}, missingFieldError(name, "target")
	}

	return domain.Check{
		Name:   name,
		Source: resolvePath(root, dto.Source),
		Target: resolvePath(root, dto.Target),
		Config: domain.NewScanConfig(scanOptions(defaults.merge(dto.ScanDTO))...),
	}, nil
}

func scanOptions(dto ScanDTO) []domain.ScanOption {
	opts := []domain.ScanOption{domain.WithPatterns(dto.Patterns...)}
	if dto.Verbose != nil {
		opts = append(opts, domain.WithVerbose(*dto.Verbose))
	}
	if dto.FollowLinks != nil {
		opts = append(opts, domain.WithFollowLinks(*dto.FollowLinks))
	}
	if dto.FollowRootLinks != nil {
		opts = append(opts, domain.WithFollowRootLinks(*dto.FollowRootLinks))
	}
	if dto.MaxDepth != nil {
		opts = append(opts, domain.WithMaxDepth(*dto.MaxDepth))
	}
	if dto.MaxOpenHandles != nil {
		opts = append(opts, domain.WithMaxOpenHandles(*dto.MaxOpenHandles))
	}
	if dto.SameFileSystem != nil {
		opts = append(opts, domain.WithSameFileSystem(*dto.SameFileSystem))
	}
	return opts
}

// readAndUnmarshalYAML reads a YAML file and decodes it into target, rejecting unknown keys.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is the discovered or user supplied config file
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return readError(configPath, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(domain.ErrConfigParseFailed, zerr.With(zerr.Wrap(err, "decode"), "path", configPath))
	}

	return nil
}

// validateCheckName checks that the name is usable on the command line.
func validateCheckName(name string) error {
	if !validCheckNameRegex.MatchString(name) {
		return errors.Join(domain.ErrInvalidCheckName, zerr.With(zerr.New("invalid check name"), "check", name))
	}
	return nil
}

func notFoundError(cwd string) error {
	return errors.Join(domain.ErrConfigNotFound, zerr.With(zerr.New("searched directory and its parents"), "cwd", cwd))
}

func readError(configPath string, err error) error {
	return errors.Join(domain.ErrConfigReadFailed, zerr.With(zerr.Wrap(err, "read"), "path", configPath))
}

func missingFieldError(name, field string) error {
	err := zerr.With(zerr.New("required field is empty"), "field", field)
	return errors.Join(domain.ErrMissingCheckField, zerr.With(err, "check", name))
}
