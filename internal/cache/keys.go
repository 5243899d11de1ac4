package cache

import (
	"strconv"
	"strings"
)

const (
	KindEntity = "entity"
	KindPage   = "page"
)

// EntityKey is the key of one assembled character: entity_<uid>.
func EntityKey(uid string) string {
	return KindEntity + "_" + strings.TrimSpace(uid)
}

// PageKey is the key of one resolved listing page: page_<n>.
func PageKey(page int) string {
	return KindPage + "_" + strconv.Itoa(page)
}

// ParseKey splits a key built by EntityKey or PageKey into its kind and id.
func ParseKey(key string) (kind, id string, ok bool) {
	kind, id, found := strings.Cut(key, "_")
	if !found || id == "" {
		return "", "", false
	}
	switch kind {
	case KindEntity, KindPage:
		return kind, id, true
	default:
		return "", "", false
	}
}
