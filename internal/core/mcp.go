package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/barysiuk/ananke/internal/core/agent"
	"github.com/barysiuk/ananke/internal/logger"
)

var (
	// ErrMcpServerNotFound is returned when deleting an id the file lacks.
	ErrMcpServerNotFound = errors.New("MCP server not found")
	// ErrNoMcpServers is returned when the file has no servers object at all.
	ErrNoMcpServers = errors.New("no MCP servers configured")
)

// mcpCodec reads and edits one configuration file format.
type mcpCodec interface {
	read(src agent.MCPSource, path string) ([]McpServer, error)
	upsert(src agent.MCPSource, servers []McpServer) error
	remove(src agent.MCPSource, id string) error
}

func codecFor(src agent.MCPSource) mcpCodec {
	if src.Format == agent.FormatTOML {
		return tomlCodec{}
	}
	return jsonCodec{}
}

func sortServers(servers []McpServer) {
	sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
}

// readServers returns the servers of src in the standard shape. A missing
// file has no servers.
func readServers(src agent.MCPSource) ([]McpServer, error) {
	path := src.ReadPath()
	if !pathExists(path) {
		return []McpServer{}, nil
	}
	servers, err := codecFor(src).read(src, path)
	if err != nil {
		return nil, err
	}
	if servers == nil {
		servers = []McpServer{}
	}
	return servers, nil
}

// ListMcpSources returns one McpSource per agent that is installed or has
// a configuration file.
func (s *Store) ListMcpSources(_ context.Context) ([]McpSource, error) {
	var out []McpSource
	for _, src := range s.mcpSources() {
		if !src.Listed() {
			continue
		}
		path := src.ReadPath()
		servers, err := readServers(src)
		if err != nil {
			return nil, err
		}
		out = append(out, McpSource{
			ID:      src.ID,
			Label:   src.Label,
			Path:    path,
			Format:  string(src.Format),
			Exists:  pathExists(path),
			Servers: servers,
		})
	}
	return out, nil
}

// ParseMcpServersJSON extracts the entries of a {"mcpServers": {...}}
// document in document order. A repeated id keeps its last value.
func ParseMcpServersJSON(raw string) ([]McpServer, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New("invalid MCP JSON")
	}
	obj := gjson.Get(raw, "mcpServers")
	if !obj.IsObject() {
		return nil, errors.New("mcpServers object missing")
	}

	var servers []McpServer
	index := map[string]int{}
	var parseErr error
	obj.ForEach(func(key, value gjson.Result) bool {
		cfg, err := decodeConfig([]byte(value.Raw))
		if err != nil {
			parseErr = fmt.Errorf("server %q: MCP server config must be an object", key.String())
			return false
		}
		srv := McpServer{ID: key.String(), Config: cfg}
		if i, dup := index[srv.ID]; dup {
			servers[i] = srv
			return true
		}
		index[srv.ID] = len(servers)
		servers = append(servers, srv)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return servers, nil
}

// UpsertMcpServerJSON merges every entry of raw's mcpServers object into the
// source's file, one id at a time. Ids not in raw are left untouched. The
// whole payload is validated before anything is written.
func (s *Store) UpsertMcpServerJSON(_ context.Context, sourceID, raw string) error {
	src, err := s.mcpSource(sourceID)
	if err != nil {
		return err
	}
	servers, err := ParseMcpServersJSON(raw)
	if err != nil {
		return err
	}
	for _, srv := range servers {
		data, err := json.Marshal(srv.Config)
		if err != nil {
			return fmt.Errorf("server %q: %w", srv.ID, err)
		}
		if err := ValidateServerConfig(srv.ID, data); err != nil {
			return err
		}
	}
	if len(servers) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := codecFor(src).upsert(src, servers); err != nil {
		return err
	}
	logger.Infow("upserted MCP servers", "source", sourceID, "count", len(servers))
	return nil
}

// DeleteMcpServer removes one server entry from the source's file.
func (s *Store) DeleteMcpServer(_ context.Context, sourceID, id string) error {
	src, err := s.mcpSource(sourceID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := codecFor(src).remove(src, id); err != nil {
		return err
	}
	logger.Infow("deleted MCP server", "source", sourceID, "server", id)
	return nil
}

// SyncMcpFromAgent copies every server the target lacks from the source,
// converting between the two agents' dialects.
func (s *Store) SyncMcpFromAgent(_ context.Context, sourceID, targetID string) (SyncResult, error) {
	if sourceID == targetID {
		return SyncResult{}, errors.New("source and target must be different")
	}
	src, err := s.mcpSource(sourceID)
	if err != nil {
		return SyncResult{}, err
	}
	tgt, err := s.mcpSource(targetID)
	if err != nil {
		return SyncResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sourceServers, err := readServers(src)
	if err != nil {
		return SyncResult{}, err
	}
	targetServers, err := readServers(tgt)
	if err != nil {
		return SyncResult{}, err
	}

	sourceIDs := make([]string, len(sourceServers))
	byID := make(map[string]McpServer, len(sourceServers))
	for i, srv := range sourceServers {
		sourceIDs[i] = srv.ID
		byID[srv.ID] = srv
	}
	targetIDs := make([]string, len(targetServers))
	for i, srv := range targetServers {
		targetIDs[i] = srv.ID
	}
	plan := PlanSync(sourceIDs, targetIDs)

	if len(plan.ToAdd) > 0 {
		toAdd := make([]McpServer, len(plan.ToAdd))
		for i, id := range plan.ToAdd {
			toAdd[i] = byID[id]
		}
		if err := codecFor(tgt).upsert(tgt, toAdd); err != nil {
			return SyncResult{}, err
		}
	}

	res := plan.Result()
	logger.Infow("synced MCP servers", "from", sourceID, "to", targetID, "added", res.Added, "skipped", res.Skipped)
	return res, nil
}
