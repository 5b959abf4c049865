// Package featureflags evaluates operator-controlled toggles such as the
// swagger UI and the metrics dashboard.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known flags.
const (
	Swagger          = "swagger"
	MetricsDashboard = "metrics_dashboard"
	AdminSubmit      = "admin_submit"
)

// defaults apply when FEATURE_FLAGS does not mention a flag.
var defaults = map[string]string{
	Swagger:          "on",
	MetricsDashboard: "off",
	AdminSubmit:      "on",
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "swagger=off,metrics_dashboard=on,admin_submit=50%"
type Manager struct {
	flags map[string]string
}

// NewManager creates a feature-flag manager from a comma-separated config string.
func NewManager(raw string) *Manager {
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// On reports whether a flag is switched on for everyone. Percentage rollouts count as off.
func (m *Manager) On(name string) bool {
	return m.Enabled(name, 0)
}

// Enabled returns whether a flag is enabled for an admin.
// Supported values:
// - on/true/1
// - off/false/0
// - N% (deterministic per-admin rollout, e.g. 25%)
func (m *Manager) Enabled(name string, adminID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	if adminID == 0 {
		return false
	}
	return rolloutBucket(name, adminID) < pct
}

// Names lists configured flags in order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.flags))
	for k := range m.flags {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns evaluated flag status for one admin.
func (m *Manager) Snapshot(adminID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, adminID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, adminID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), adminID)))
	return int(h.Sum32() % 100)
}
