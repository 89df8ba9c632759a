package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

const wildcard = "*"

// Permission lists the roles allowed on one route pattern. Skip marks public routes.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route. An empty role list admits any caller.
func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

// PermissionData is the route table. Skip at the top level disables authorization entirely.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	indexOnce sync.Once
	exact     map[string]Permission
	prefixes  []Permission
}

func key(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

func (r *PermissionData) index() {
	r.exact = make(map[string]Permission, len(r.Endpoints))
	r.prefixes = nil

	for _, endpoint := range r.Endpoints {
		if strings.HasSuffix(endpoint.Path, wildcard) {
			r.prefixes = append(r.prefixes, endpoint)

			continue
		}

		r.exact[key(endpoint.Method, endpoint.Path)] = endpoint
	}

	// Longest prefix first so "/swagger/v1/*" beats "/swagger/*".
	slices.SortFunc(r.prefixes, func(a, b Permission) int {
		return len(b.Path) - len(a.Path)
	})
}

// FindPermissions returns the entry for a chi route pattern, trying exact patterns before
// wildcard ones. The zero Permission means the route is not listed.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	r.indexOnce.Do(r.index)

	if permission, ok := r.exact[key(method, path)]; ok {
		return permission
	}

	for _, permission := range r.prefixes {
		if !strings.EqualFold(permission.Method, method) && permission.Method != wildcard {
			continue
		}

		if strings.HasPrefix(path, strings.TrimSuffix(permission.Path, wildcard)) {
			return permission
		}
	}

	return Permission{}
}

func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, err //nolint:wrapcheck
	}

	permissions.indexOnce.Do(permissions.index)

	return &permissions, nil
}

// Get loads the embedded route table. A nil result makes the RBAC middleware refuse every
// protected route.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
