package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kkotenko/robotframework-tidy/internal/files"
)

// fileNames is the per-directory search order during discovery.
var fileNames = []string{"robotidy.toml", ".robotidy.yaml", ".robotidy.yml"}

// FileConfig mirrors Config with optional fields, as read from a config
// file. Nil means "not set" and leaves the merged value alone.
type FileConfig struct {
	Transform []string `toml:"transform" yaml:"transform"`
	Configure []string `toml:"configure" yaml:"configure"`
	Src       []string `toml:"src" yaml:"src"`

	Exclude       *string `toml:"exclude" yaml:"exclude"`
	ExtendExclude *string `toml:"extend_exclude" yaml:"extend_exclude"`

	SpaceCount         *int    `toml:"spacecount" yaml:"spacecount"`
	Indent             *int    `toml:"indent" yaml:"indent"`
	ContinuationIndent *int    `toml:"continuation_indent" yaml:"continuation_indent"`
	LineLength         *int    `toml:"line_length" yaml:"line_length"`
	Separator          *string `toml:"separator" yaml:"separator"`
	LineSeparator      *string `toml:"lineseparator" yaml:"lineseparator"`

	StartLine *int `toml:"startline" yaml:"startline"`
	EndLine   *int `toml:"endline" yaml:"endline"`

	Check       *bool   `toml:"check" yaml:"check"`
	Diff        *bool   `toml:"diff" yaml:"diff"`
	NoOverwrite *bool   `toml:"no_overwrite" yaml:"no_overwrite"`
	Output      *string `toml:"output" yaml:"output"`

	TargetVersion *int  `toml:"target_version" yaml:"target_version"`
	ForceOrder    *bool `toml:"force_order" yaml:"force_order"`
	Reruns        *int  `toml:"reruns" yaml:"reruns"`

	Cache       *bool   `toml:"cache" yaml:"cache"`
	Concurrency *int    `toml:"concurrency" yaml:"concurrency"`
	Verbose     *bool   `toml:"verbose" yaml:"verbose"`
	Color       *string `toml:"color" yaml:"color"`
	Progress    *bool   `toml:"progress" yaml:"progress"`
}

// Apply overlays the file's set fields onto c.
func (f *FileConfig) Apply(c *Config) {
	if f == nil {
		return
	}
	if f.Transform != nil {
		c.Transform = f.Transform
	}
	if f.Configure != nil {
		c.Configure = f.Configure
	}
	if f.Src != nil {
		c.Src = f.Src
	}
	setString(&c.Exclude, f.Exclude)
	setString(&c.ExtendExclude, f.ExtendExclude)
	setInt(&c.SpaceCount, f.SpaceCount)
	setInt(&c.Indent, f.Indent)
	setInt(&c.ContinuationIndent, f.ContinuationIndent)
	setInt(&c.LineLength, f.LineLength)
	setString(&c.Separator, f.Separator)
	setString(&c.LineSeparator, f.LineSeparator)
	setInt(&c.StartLine, f.StartLine)
	setInt(&c.EndLine, f.EndLine)
	setBool(&c.Check, f.Check)
	setBool(&c.Diff, f.Diff)
	setBool(&c.NoOverwrite, f.NoOverwrite)
	setString(&c.Output, f.Output)
	setInt(&c.TargetVersion, f.TargetVersion)
	setBool(&c.ForceOrder, f.ForceOrder)
	setInt(&c.Reruns, f.Reruns)
	setBool(&c.Cache, f.Cache)
	setInt(&c.Concurrency, f.Concurrency)
	setBool(&c.Verbose, f.Verbose)
	setString(&c.Color, f.Color)
	setBool(&c.Progress, f.Progress)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Load reads a config file, dispatching on its extension. Unknown keys
// are rejected so typos fail loudly instead of silently formatting with
// defaults.
func Load(path string) (*FileConfig, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadTOML(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported config file %s: expected .toml, .yaml or .yml", path)
	}
}

func loadTOML(path string) (*FileConfig, error) {
	var fc FileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown configuration keys: %s", path, strings.Join(keys, ", "))
	}
	return &fc, nil
}

func loadYAML(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &fc, nil
}

// DiscoverFile walks up from the common root of the source paths and
// returns the first config file found.
func DiscoverFile(paths []string) (string, bool, error) {
	dir, err := commonRoot(paths)
	if err != nil {
		return "", false, err
	}
	for {
		for _, name := range fileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, true, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// commonRoot returns the deepest directory containing all the given
// paths; the working directory when there are none.
func commonRoot(paths []string) (string, error) {
	var dirs []string
	for _, p := range paths {
		if p == files.Dash {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %q: %w", p, err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		dirs = append(dirs, abs)
	}
	if len(dirs) == 0 {
		return os.Getwd()
	}
	root := dirs[0]
	for _, d := range dirs[1:] {
		root = commonPrefixDir(root, d)
	}
	return root, nil
}

func commonPrefixDir(a, b string) string {
	sep := string(filepath.Separator)
	as := strings.Split(filepath.Clean(a), sep)
	bs := strings.Split(filepath.Clean(b), sep)
	n := 0
	for n < len(as) && n < len(bs) && as[n] == bs[n] {
		n++
	}
	prefix := strings.Join(as[:n], sep)
	if prefix == "" {
		return sep
	}
	return prefix
}
