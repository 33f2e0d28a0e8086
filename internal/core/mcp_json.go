package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"

	"github.com/barysiuk/ananke/internal/core/agent"
	"github.com/barysiuk/ananke/internal/logger"
)

// jsonCodec edits JSON and JSONC agent files in place. Comments and keys
// other than the servers object are preserved.
type jsonCodec struct{}

func (jsonCodec) read(src agent.MCPSource, path string) ([]McpServer, error) {
	content, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	std, err := hujson.Standardize([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	obj := gjson.GetBytes(std, src.Key)
	if !obj.IsObject() {
		return nil, nil
	}
	var servers []McpServer
	obj.ForEach(func(key, value gjson.Result) bool {
		cfg, err := decodeConfig([]byte(value.Raw))
		if err != nil {
			logger.Warnw("skipping MCP entry that is not an object", "path", path, "server", key.String())
			return true
		}
		servers = append(servers, McpServer{ID: key.String(), Config: toStandardConfig(src.Dialect, cfg)})
		return true
	})
	sortServers(servers)
	return servers, nil
}

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

func (jsonCodec) upsert(src agent.MCPSource, servers []McpServer) error {
	path := src.PrimaryPath
	root, err := loadJSONC(path)
	if err != nil {
		return err
	}

	topPtr := "/" + jsonPointerEscape(src.Key)
	if top := root.Find(topPtr); top == nil {
		if err := applyPatch(&root, patchOp{Op: "add", Path: topPtr, Value: map[string]any{}}); err != nil {
			return fmt.Errorf("creating config key %q: %w", src.Key, err)
		}
	} else if _, ok := top.Value.(*hujson.Object); !ok {
		return fmt.Errorf("invalid %s format in %s: expected an object", src.Key, path)
	}

	ops := make([]patchOp, 0, len(servers))
	for _, srv := range servers {
		entryPtr := topPtr + "/" + jsonPointerEscape(srv.ID)
		op := "add"
		if root.Find(entryPtr) != nil {
			op = "replace"
		}
		ops = append(ops, patchOp{Op: op, Path: entryPtr, Value: fromStandardConfig(src.Dialect, srv.Config)})
	}
	if err := applyPatch(&root, ops...); err != nil {
		return fmt.Errorf("writing MCP entries: %w", err)
	}

	return writeFileAtomic(path, finalizeJSONC(&root))
}

func (jsonCodec) remove(src agent.MCPSource, id string) error {
	path := src.PrimaryPath
	content, err := readConfigFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(content) == "" {
		return ErrNoMcpServers
	}
	root, err := hujson.Parse([]byte(content))
	if err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	topPtr := "/" + jsonPointerEscape(src.Key)
	top := root.Find(topPtr)
	if top == nil {
		return ErrNoMcpServers
	}
	if _, ok := top.Value.(*hujson.Object); !ok {
		return ErrNoMcpServers
	}
	entryPtr := topPtr + "/" + jsonPointerEscape(id)
	if root.Find(entryPtr) == nil {
		return fmt.Errorf("%w: %s", ErrMcpServerNotFound, id)
	}
	if err := applyPatch(&root, patchOp{Op: "remove", Path: entryPtr}); err != nil {
		return fmt.Errorf("removing MCP entry: %w", err)
	}
	return writeFileAtomic(path, finalizeJSONC(&root))
}

// loadJSONC parses a file that must hold an object; a missing or blank
// file is an empty object.
func loadJSONC(path string) (hujson.Value, error) {
	content, err := readConfigFile(path)
	if err != nil {
		return hujson.Value{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(content) == "" {
		content = "{}"
	}
	root, err := hujson.Parse([]byte(content))
	if err != nil {
		return hujson.Value{}, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	if _, ok := root.Value.(*hujson.Object); !ok {
		return hujson.Value{}, fmt.Errorf("invalid JSON format in %s: expected an object", path)
	}
	return root, nil
}

func applyPatch(root *hujson.Value, ops ...patchOp) error {
	if len(ops) == 0 {
		return nil
	}
	patch, err := json.Marshal(ops)
	if err != nil {
		return err
	}
	return root.Patch(patch)
}

// finalizeJSONC formats the AST and produces the bytes to write.
func finalizeJSONC(root *hujson.Value) []byte {
	root.Format()
	removeTrailingCommas(root)
	return root.Pack()
}

// removeTrailingCommas walks the JSONC AST and removes trailing commas.
func removeTrailingCommas(v *hujson.Value) {
	switch vv := v.Value.(type) {
	case *hujson.Object:
		for i := range vv.Members {
			removeTrailingCommas(&vv.Members[i].Name)
			removeTrailingCommas(&vv.Members[i].Value)
		}
		if len(vv.Members) > 0 {
			vv.Members[len(vv.Members)-1].Value.AfterExtra = nil
		}
	case *hujson.Array:
		for i := range vv.Elements {
			removeTrailingCommas(&vv.Elements[i])
		}
		if len(vv.Elements) > 0 {
			vv.Elements[len(vv.Elements)-1].AfterExtra = nil
		}
	}
}

// decodeConfig decodes a JSON object keeping numbers exact.
func decodeConfig(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var cfg map[string]any
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("expected an object")
	}
	return cfg, nil
}
