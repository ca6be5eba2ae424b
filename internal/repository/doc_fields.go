package repository

import (
	"time"

	"github.com/campus-market/marketplace-service/internal/docstore"
)

// Accessors over raw document maps. Documents written by earlier versions
// of the service mix field types freely, so reads stay lenient.

func docString(data map[string]any, path string) string {
	val, ok := docstore.Lookup(data, path)
	if !ok {
		return ""
	}
	s, _ := val.(string)
	return s
}

func docFloat(data map[string]any, path string) float64 {
	val, ok := docstore.Lookup(data, path)
	if !ok {
		return 0
	}
	switch n := val.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func docTime(data map[string]any, path string, fallback time.Time) time.Time {
	raw := docString(data, path)
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fallback
	}
	return t
}
