package core

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/mcp-server.schema.json
var mcpServerSchema []byte

// ValidateServerConfig checks one MCP server entry against the embedded
// schema: an object with a command or a URL and well-typed optional fields.
func ValidateServerConfig(id string, config []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(mcpServerSchema),
		gojsonschema.NewBytesLoader(config),
	)
	if err != nil {
		return fmt.Errorf("server %q: schema validation failed: %w", id, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return formatNumberedErrors(fmt.Sprintf("server %q is invalid", id), msgs)
}

// formatNumberedErrors formats a list of messages as a single error with a numbered list.
func formatNumberedErrors(prefix string, msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	if len(msgs) == 1 {
		return fmt.Errorf("%s: %s", prefix, msgs[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s with %d errors:\n", prefix, len(msgs))
	for i, msg := range msgs {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, msg)
	}
	return errors.New(strings.TrimSuffix(b.String(), "\n"))
}
