package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RenderYAML returns the configuration as commented YAML. The document is
// built from yaml.Node values rather than struct marshaling so durations
// render in Go syntax ("30s") instead of nanosecond integers, and path fields
// left empty render as the derived runtime paths the program actually uses.
func RenderYAML(cfg Config) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	logKey := scalarNode("log")
	logKey.HeadComment = "Logging"
	root.Content = append(root.Content, logKey, buildLogNode(cfg.Log))

	cacheKey := scalarNode("cache")
	cacheKey.HeadComment = "Process metadata cache"
	root.Content = append(root.Content, cacheKey, buildCacheNode(cfg.Cache))

	tracingKey := scalarNode("tracing")
	tracingKey.HeadComment = "Discovery cycle tracing"
	root.Content = append(root.Content, tracingKey, buildTracingNode(cfg.Tracing))

	if themeNode := buildThemeNode(cfg.Theme); themeNode != nil {
		themeKey := scalarNode("theme")
		themeKey.HeadComment = "Theme overrides"
		root.Content = append(root.Content, themeKey, themeNode)
	}

	doc := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{root},
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return buf.Bytes(), nil
}

func buildLogNode(lc LogConfig) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(node, "level", lc.Level)
	file := lc.File
	if file == "" {
		file = DefaultLogFilePath()
	}
	appendPair(node, "file", file)
	appendPair(node, "buffer_size", strconv.Itoa(lc.BufferSize))
	return node
}

func buildCacheNode(cc CacheConfig) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(node, "enabled", strconv.FormatBool(cc.Enabled))
	appendPair(node, "ttl", cc.TTL.String())
	return node
}

func buildTracingNode(tc TracingConfig) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(node, "enabled", strconv.FormatBool(tc.Enabled))
	appendPair(node, "exporter", tc.Exporter)
	appendPair(node, "file_path", tc.EffectiveTracesPath())
	appendPair(node, "otlp_endpoint", tc.OTLPEndpoint)
	appendPair(node, "sample_rate", strconv.FormatFloat(tc.SampleRate, 'g', -1, 64))
	return node
}

// buildThemeNode returns nil when no theme values are set so the section is
// omitted entirely, matching a config file that never mentioned it.
func buildThemeNode(tc ThemeConfig) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	if tc.Highlight != "" {
		appendPair(node, "highlight", tc.Highlight)
	}
	if tc.Subtle != "" {
		appendPair(node, "subtle", tc.Subtle)
	}
	if tc.Error != "" {
		appendPair(node, "error", tc.Error)
	}
	if tc.Success != "" {
		appendPair(node, "success", tc.Success)
	}
	if tc.MarkdownStyle != "" {
		appendPair(node, "markdown_style", tc.MarkdownStyle)
	}
	if len(node.Content) == 0 {
		return nil
	}
	return node
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func appendPair(mapping *yaml.Node, key, value string) {
	mapping.Content = append(mapping.Content, scalarNode(key), scalarNode(value))
}

// atomicWrite writes data to path via a temp file and rename so an
// interrupted write never leaves a truncated config behind. The parent
// directory must already exist.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	temp, err := os.CreateTemp(dir, ".apiscout.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
