package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/fwojciec/html2md"
	"gopkg.in/yaml.v3"
)

// Config is the YAML form of the conversion options.
type Config struct {
	IncludeTags         []string          `yaml:"includeTags"`
	ExcludeTags         []string          `yaml:"excludeTags"`
	DefaultCodeLanguage string            `yaml:"defaultCodeLanguage"`
	CodeLanguages       map[string]string `yaml:"codeLanguages"`
	FrontMatter         struct {
		Enabled    bool                `yaml:"enabled"`
		Properties []FrontMatterConfig `yaml:"properties"`
	} `yaml:"frontMatter"`
}

// FrontMatterConfig is one front matter property in a Config.
type FrontMatterConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Type string `yaml:"type"`
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, html2md.Errorf(html2md.EINVALID, "parse config %s: %v", path, err)
	}
	return &cfg, nil
}

// Options converts the config into conversion options.
func (c *Config) Options() html2md.Options {
	opts := html2md.Options{
		IncludeTags:          c.IncludeTags,
		ExcludeTags:          c.ExcludeTags,
		DefaultCodeLanguage:  c.DefaultCodeLanguage,
		CodeLanguageClassMap: map[string]string{},
	}
	for class, lang := range c.CodeLanguages {
		opts.CodeLanguageClassMap[class] = lang
	}
	opts.FrontMatter.Enabled = c.FrontMatter.Enabled
	for _, p := range c.FrontMatter.Properties {
		opts.FrontMatter.Properties = append(opts.FrontMatter.Properties, html2md.FrontMatterProperty{
			Name:     p.Name,
			Path:     p.Path,
			DataType: html2md.PropertyDataType(p.Type),
		})
	}
	return opts
}

// options merges the config file, if any, with the flags. Flags append to
// list values and override scalar ones.
func (cli *CLI) options() (html2md.Options, error) {
	cfg := &Config{}
	if cli.Config != "" {
		loaded, err := LoadConfig(cli.Config)
		if err != nil {
			return html2md.Options{}, err
		}
		cfg = loaded
	}
	opts := cfg.Options()

	opts.IncludeTags = append(opts.IncludeTags, SplitRules(cli.IncludeTags)...)
	opts.ExcludeTags = append(opts.ExcludeTags, SplitRules(cli.ExcludeTags)...)
	if cli.DefaultCodeLanguage != "" {
		opts.DefaultCodeLanguage = cli.DefaultCodeLanguage
	}
	for class, lang := range cli.CodeLanguage {
		opts.CodeLanguageClassMap[class] = lang
	}
	for _, raw := range cli.FrontMatter {
		p, err := ParseFrontMatterProperty(raw)
		if err != nil {
			return html2md.Options{}, err
		}
		opts.FrontMatter.Properties = append(opts.FrontMatter.Properties, p)
		opts.FrontMatter.Enabled = true
	}

	return opts, opts.Validate()
}

// ParseFrontMatterProperty parses Name=path with an optional :date or :text
// suffix naming the data type.
func ParseFrontMatterProperty(raw string) (html2md.FrontMatterProperty, error) {
	name, path, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
		return html2md.FrontMatterProperty{}, html2md.Errorf(html2md.EINVALID, "front matter %q must be Name=path", raw)
	}

	p := html2md.FrontMatterProperty{
		Name:     strings.TrimSpace(name),
		Path:     strings.TrimSpace(path),
		DataType: html2md.DataTypeText,
	}
	for _, dt := range []html2md.PropertyDataType{html2md.DataTypeDate, html2md.DataTypeText} {
		if trimmed, ok := strings.CutSuffix(p.Path, ":"+string(dt)); ok {
			p.Path = trimmed
			p.DataType = dt
			break
		}
	}
	return p, nil
}

// ParseFilter compiles include patterns for sitemap URLs.
func ParseFilter(patterns []string) (*html2md.URLFilter, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	filter := &html2md.URLFilter{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, html2md.Errorf(html2md.EINVALID, "invalid filter %q: %v", p, err)
		}
		filter.Include = append(filter.Include, re)
	}
	return filter, nil
}

// SplitRules splits comma separated selector lists. Commas inside
// brackets, parentheses or quotes belong to the expression.
func SplitRules(values []string) []string {
	var rules []string
	for _, v := range values {
		var depth int
		var quote rune
		start := 0
		for i, r := range v {
			switch {
			case quote != 0:
				if r == quote {
					quote = 0
				}
			case r == '\'' || r == '"':
				quote = r
			case r == '[' || r == '(':
				depth++
			case r == ']' || r == ')':
				if depth > 0 {
					depth--
				}
			case r == ',' && depth == 0:
				rules = appendRule(rules, v[start:i])
				start = i + 1
			}
		}
		rules = appendRule(rules, v[start:])
	}
	return rules
}

func appendRule(rules []string, rule string) []string {
	if rule = strings.TrimSpace(rule); rule != "" {
		rules = append(rules, rule)
	}
	return rules
}
