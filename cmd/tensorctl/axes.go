package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseAxisSizes parses a comma-separated "name=value" list (e.g.
// "ph=2,pw=2") into the axis-size hint map spec.md §6's
// einops_rearrange/einops_reduce/einops_repeat take. An empty string
// yields a nil map (fully shape-determined pattern).
func parseAxisSizes(spec string) (map[string]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	out := make(map[string]int)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --axes entry %q, want name=value", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("invalid --axes value for %q: %w", name, err)
		}
		out[strings.TrimSpace(name)] = n
	}
	return out, nil
}
