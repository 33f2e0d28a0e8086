package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/barysiuk/ananke/internal/core/agent"
	"github.com/barysiuk/ananke/internal/logger"
)

// tomlCodec reads and writes Codex's config.toml. Comments are not
// preserved on write.
type tomlCodec struct{}

func (tomlCodec) read(src agent.MCPSource, path string) ([]McpServer, error) {
	doc, err := loadTOML(path)
	if err != nil {
		return nil, err
	}
	table, _ := doc[src.Key].(map[string]any)

	servers := make([]McpServer, 0, len(table))
	for id, v := range table {
		cfg, ok := v.(map[string]any)
		if !ok {
			logger.Warnw("skipping MCP entry that is not a table", "path", path, "server", id)
			continue
		}
		servers = append(servers, McpServer{ID: id, Config: tomlToJSON(cfg).(map[string]any)})
	}
	sortServers(servers)
	return servers, nil
}

func (tomlCodec) upsert(src agent.MCPSource, servers []McpServer) error {
	path := src.PrimaryPath
	doc, err := loadTOML(path)
	if err != nil {
		return err
	}

	table := map[string]any{}
	if existing, ok := doc[src.Key]; ok {
		if table, ok = existing.(map[string]any); !ok {
			return fmt.Errorf("invalid %s format in %s: expected a table", src.Key, path)
		}
	}
	for _, srv := range servers {
		v, err := jsonToTOML(fromStandardConfig(src.Dialect, srv.Config))
		if err != nil {
			return fmt.Errorf("server %q: %w", srv.ID, err)
		}
		table[srv.ID] = v
	}
	doc[src.Key] = table
	return saveTOML(path, doc)
}

func (tomlCodec) remove(src agent.MCPSource, id string) error {
	path := src.PrimaryPath
	doc, err := loadTOML(path)
	if err != nil {
		return err
	}
	table, ok := doc[src.Key].(map[string]any)
	if !ok {
		return ErrNoMcpServers
	}
	if _, ok := table[id]; !ok {
		return fmt.Errorf("%w: %s", ErrMcpServerNotFound, id)
	}
	delete(table, id)
	return saveTOML(path, doc)
}

func loadTOML(path string) (map[string]any, error) {
	content, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc := map[string]any{}
	if strings.TrimSpace(content) == "" {
		return doc, nil
	}
	if _, err := toml.Decode(content, &doc); err != nil {
		return nil, fmt.Errorf("invalid TOML in %s: %w", path, err)
	}
	return doc, nil
}

func saveTOML(path string, doc map[string]any) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("serializing TOML: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

// tomlToJSON converts decoded TOML values into JSON-compatible ones.
func tomlToJSON(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = tomlToJSON(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = tomlToJSON(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = tomlToJSON(item)
		}
		return out
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

// jsonToTOML converts a JSON value into one the TOML encoder accepts.
func jsonToTOML(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, errors.New("null values are not supported in TOML")
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("unsupported number %s", val)
		}
		return f, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			conv, err := jsonToTOML(item)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			conv, err := jsonToTOML(item)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	default:
		return val, nil
	}
}
