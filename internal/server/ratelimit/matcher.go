package ratelimit

import "strings"

// MatchEndpoint resolves a request path and method to its endpoint
// configuration. Exact matches win over prefix matches; nil means the
// default limit applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// Health probes must never be throttled.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Limit: 0}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
