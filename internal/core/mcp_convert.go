package core

import "github.com/barysiuk/ananke/internal/core/agent"

// toStandardConfig converts an entry read from an agent's file into the
// standard {command, args, env, url} shape.
func toStandardConfig(d agent.Dialect, cfg map[string]any) map[string]any {
	switch d {
	case agent.DialectOpenCode:
		return openCodeToStandard(cfg)
	case agent.DialectAntigravity:
		return antigravityToStandard(cfg)
	default:
		return cloneConfig(cfg)
	}
}

// fromStandardConfig converts a standard entry into the agent's dialect.
func fromStandardConfig(d agent.Dialect, cfg map[string]any) map[string]any {
	switch d {
	case agent.DialectOpenCode:
		return standardToOpenCode(cfg)
	case agent.DialectAntigravity:
		return standardToAntigravity(cfg)
	default:
		return cloneConfig(cfg)
	}
}

// OpenCode keeps the command and its arguments in one array and calls the
// environment "environment".
func openCodeToStandard(cfg map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range cfg {
		switch k {
		case "command":
			switch cmd := v.(type) {
			case []any:
				if len(cmd) == 0 {
					continue
				}
				if first, ok := cmd[0].(string); ok {
					out["command"] = first
					var args []any
					for _, a := range cmd[1:] {
						if s, ok := a.(string); ok {
							args = append(args, s)
						}
					}
					if len(args) > 0 {
						out["args"] = args
					}
				}
			case string:
				out["command"] = cmd
			}
		case "environment":
			out["env"] = v
		case "env":
			if _, ok := cfg["environment"]; !ok {
				out["env"] = v
			}
		default:
			out[k] = v
		}
	}
	return out
}

func standardToOpenCode(cfg map[string]any) map[string]any {
	out := cloneConfig(cfg)

	if cmd, ok := cfg["command"]; ok {
		if s, ok := cmd.(string); ok {
			list := []any{s}
			if args, ok := cfg["args"].([]any); ok {
				for _, a := range args {
					if as, ok := a.(string); ok {
						list = append(list, as)
					}
				}
			}
			out["command"] = list
		}
		delete(out, "args")
	}

	if envs, ok := out["env"]; ok {
		delete(out, "env")
		if _, exists := out["environment"]; !exists {
			out["environment"] = envs
		}
	}

	if _, ok := out["type"]; !ok {
		if _, hasURL := out["url"]; hasURL {
			out["type"] = "remote"
		} else if _, hasCmd := out["command"]; hasCmd {
			out["type"] = "local"
		}
	}
	return out
}

// Antigravity names the remote endpoint "serverUrl".
func antigravityToStandard(cfg map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range cfg {
		if k == "serverUrl" {
			continue
		}
		out[k] = v
	}
	if u, ok := cfg["serverUrl"]; ok {
		out["url"] = u
	}
	return out
}

func standardToAntigravity(cfg map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range cfg {
		if k == "url" {
			continue
		}
		out[k] = v
	}
	if _, ok := out["serverUrl"]; !ok {
		if u, ok := cfg["url"]; ok {
			out["serverUrl"] = u
		}
	}
	return out
}

func cloneConfig(cfg map[string]any) map[string]any {
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	return out
}
