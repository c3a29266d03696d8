package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kkotenko/robotframework-tidy/internal/transform"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robotidy.toml", `
transform = ["NormalizeTags:case=upper"]
spacecount = 2
line_length = 100
separator = "tab"
check = true
target_version = 6
src = ["tests", "resources"]
`)
	fc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	fc.Apply(&cfg)

	if diff := cmp.Diff([]string{"NormalizeTags:case=upper"}, cfg.Transform); diff != "" {
		t.Errorf("Transform (-want +got):\n%s", diff)
	}
	if cfg.SpaceCount != 2 || cfg.LineLength != 100 || cfg.Separator != "tab" {
		t.Errorf("layout knobs not applied: %+v", cfg)
	}
	if !cfg.Check || cfg.TargetVersion != 6 {
		t.Errorf("check/target_version not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"tests", "resources"}, cfg.Src); diff != "" {
		t.Errorf("Src (-want +got):\n%s", diff)
	}
	// Untouched fields keep their defaults.
	if cfg.LineSeparator != "native" || cfg.Color != "auto" {
		t.Errorf("defaults clobbered: %+v", cfg)
	}
}

func TestLoadTOMLUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robotidy.toml", "linelength = 100\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unknown configuration keys") {
		t.Fatalf("unknown key should be rejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "linelength") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".robotidy.yaml", `
transform:
  - RenameVariables
line_length: 80
diff: true
`)
	fc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	fc.Apply(&cfg)
	if cfg.LineLength != 80 || !cfg.Diff {
		t.Errorf("yaml fields not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"RenameVariables"}, cfg.Transform); diff != "" {
		t.Errorf("Transform (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".robotidy.yaml", "line_len: 80\n")
	if _, err := Load(path); err == nil {
		t.Fatal("unknown yaml key should be rejected")
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".robotidy.yaml", "")
	fc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	fc.Apply(&cfg)
	if cfg.LineLength != 120 {
		t.Errorf("empty file should leave defaults, got %+v", cfg)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robotidy.json", "{}")
	if _, err := Load(path); err == nil {
		t.Fatal("json config should be rejected")
	}
}

func TestDiscoverFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "robotidy.toml", "")
	writeFile(t, root, filepath.Join("suite", "a.robot"), "")
	writeFile(t, root, filepath.Join("other", "b.robot"), "")

	path, ok, err := DiscoverFile([]string{
		filepath.Join(root, "suite", "a.robot"),
		filepath.Join(root, "other", "b.robot"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !ok || path != filepath.Join(root, "robotidy.toml") {
		t.Errorf("DiscoverFile = %q, %v; want root config", path, ok)
	}
}

func TestDiscoverFileNearestWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "robotidy.toml", "")
	writeFile(t, root, filepath.Join("suite", ".robotidy.yaml"), "")
	writeFile(t, root, filepath.Join("suite", "a.robot"), "")

	path, ok, err := DiscoverFile([]string{filepath.Join(root, "suite", "a.robot")})
	if err != nil {
		t.Fatal(err)
	}
	if !ok || path != filepath.Join(root, "suite", ".robotidy.yaml") {
		t.Errorf("DiscoverFile = %q, %v; want nearest config", path, ok)
	}
}

func TestDiscoverFileTOMLPreferred(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "robotidy.toml", "")
	writeFile(t, root, ".robotidy.yaml", "")
	writeFile(t, root, "a.robot", "")

	path, ok, err := DiscoverFile([]string{filepath.Join(root, "a.robot")})
	if err != nil {
		t.Fatal(err)
	}
	if !ok || path != filepath.Join(root, "robotidy.toml") {
		t.Errorf("DiscoverFile = %q, %v; want toml over yaml", path, ok)
	}
}

func TestDiscoverFileAbsent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.robot", "")

	path, ok, err := DiscoverFile([]string{filepath.Join(root, "a.robot")})
	if err != nil {
		t.Fatal(err)
	}
	// The walk continues above the temp dir, so only assert nothing
	// inside the tree was picked up.
	if ok && strings.HasPrefix(path, root) {
		t.Errorf("unexpected config %q", path)
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero spacecount", func(c *Config) { c.SpaceCount = 0 }},
		{"negative indent", func(c *Config) { c.Indent = -1 }},
		{"zero line length", func(c *Config) { c.LineLength = 0 }},
		{"bad separator", func(c *Config) { c.Separator = "comma" }},
		{"bad lineseparator", func(c *Config) { c.LineSeparator = "mac" }},
		{"bad color", func(c *Config) { c.Color = "always" }},
		{"target too old", func(c *Config) { c.TargetVersion = 3 }},
		{"target too new", func(c *Config) { c.TargetVersion = 8 }},
		{"reruns over cap", func(c *Config) { c.Reruns = 11 }},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }},
		{"endline without startline", func(c *Config) { c.EndLine = 5 }},
		{"endline before startline", func(c *Config) { c.StartLine = 9; c.EndLine = 5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("want validation error")
			}
		})
	}
}

func TestLayoutInheritsSpacecount(t *testing.T) {
	cfg := Default()
	cfg.SpaceCount = 2
	cfg.ContinuationIndent = 6
	lay := cfg.Layout()
	want := transform.Layout{SpaceCount: 2, Indent: 2, ContinuationIndent: 6, Separator: "space", LineLength: 120}
	if lay != want {
		t.Errorf("Layout = %+v, want %+v", lay, want)
	}
}

func TestExcludes(t *testing.T) {
	cfg := Default()
	opts, err := cfg.Excludes()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Exclude != nil || opts.ExtendExclude != nil {
		t.Errorf("empty patterns should keep discovery defaults: %+v", opts)
	}

	cfg.Exclude = `/build/`
	cfg.ExtendExclude = `/gen/`
	opts, err = cfg.Excludes()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Exclude == nil || !opts.Exclude.MatchString("/x/build/y") {
		t.Error("exclude pattern not compiled")
	}
	if opts.ExtendExclude == nil || !opts.ExtendExclude.MatchString("/x/gen/y") {
		t.Error("extend-exclude pattern not compiled")
	}

	cfg.Exclude = `(`
	if _, err := cfg.Excludes(); err == nil {
		t.Error("invalid pattern should error")
	}
}

func TestSelections(t *testing.T) {
	cfg := Default()
	cfg.Transform = []string{"NormalizeTags:case=upper", "RenameVariables"}
	cfg.Configure = []string{"SplitTooLongLine:split_on_every_arg=true"}

	selected, configured, err := cfg.Selections()
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 2 || len(configured) != 1 {
		t.Fatalf("selected %d configured %d", len(selected), len(configured))
	}
	if selected[0].Name != "NormalizeTags" || configured[0].Name != "SplitTooLongLine" {
		t.Errorf("names not parsed: %+v %+v", selected, configured)
	}

	cfg.Configure = []string{"NormalizeTags"}
	if _, _, err := cfg.Selections(); err == nil {
		t.Error("configure without parameters should error")
	}
}

func TestLineSeparatorText(t *testing.T) {
	cfg := Default()

	cfg.LineSeparator = "windows"
	if sep, enforce := cfg.LineSeparatorText(); sep != "\r\n" || !enforce {
		t.Errorf("windows = %q, %v", sep, enforce)
	}
	cfg.LineSeparator = "unix"
	if sep, enforce := cfg.LineSeparatorText(); sep != "\n" || !enforce {
		t.Errorf("unix = %q, %v", sep, enforce)
	}
	cfg.LineSeparator = "auto"
	if _, enforce := cfg.LineSeparatorText(); enforce {
		t.Error("auto must not enforce a line ending")
	}
	cfg.LineSeparator = "native"
	if sep, enforce := cfg.LineSeparatorText(); sep == "" || !enforce {
		t.Error("native must enforce a line ending")
	}
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical configs must share a fingerprint")
	}
	b.LineLength = 80
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("line length must change the fingerprint")
	}
	c := Default()
	c.Check = true
	if a.Fingerprint() != c.Fingerprint() {
		t.Error("check mode does not affect output and must not change the fingerprint")
	}
}
