package coordinator

import (
	"strings"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/methodology"
)

// parseViews parses a "m1:l1,m2:l2" views string into an enabled view list.
// An empty or malformed string (missing colon, empty methodology/level) is a
// Validation error (spec §4.9).
func parseViews(viewsString string) ([]domain.MethodologyView, error) {
	viewsString = strings.TrimSpace(viewsString)
	if viewsString == "" {
		return nil, apperr.Validation("views string must not be empty")
	}

	parts := strings.Split(viewsString, ",")
	views := make([]domain.MethodologyView, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		pair := strings.SplitN(part, ":", 2)
		if len(pair) != 2 {
			return nil, apperr.Validation("malformed view %q, expected \"methodology:level\"", part)
		}
		m, level := strings.TrimSpace(pair[0]), strings.TrimSpace(pair[1])
		if m == "" || level == "" {
			return nil, apperr.Validation("malformed view %q, expected \"methodology:level\"", part)
		}
		views = append(views, domain.MethodologyView{
			Methodology: m,
			Level:       methodology.NormalizeLevel(level),
			Enabled:     true,
		})
	}
	return views, nil
}

// viewsAsMethodologyViews converts a use case's views into the
// methodology.View slice Collect expects, restricted to enabled views.
func viewsAsMethodologyViews(views []domain.MethodologyView) []methodology.View {
	out := make([]methodology.View, 0, len(views))
	for _, v := range views {
		if !v.Enabled {
			continue
		}
		out = append(out, methodology.View{Methodology: v.Methodology, Level: v.Level})
	}
	return out
}

// distinctMethodologies returns the set of methodology names named by an
// enabled view list, in first-seen order.
func distinctMethodologies(views []domain.MethodologyView) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range views {
		if !v.Enabled || seen[v.Methodology] {
			continue
		}
		seen[v.Methodology] = true
		out = append(out, v.Methodology)
	}
	return out
}
