package render

import (
	"math"
	"sort"

	"github.com/iburimskiy/survival-singularity/internal/interaction"
	"github.com/iburimskiy/survival-singularity/internal/scene"
)

// Minimum pick radius so distant objects stay clickable.
const minPickRadius = 6.0

// Picker hit-tests objects by their projected bounding circle.
type Picker struct {
	Camera *Camera
}

// Intersect returns every object whose projected bounds contain p, nearest
// first. Equal depths keep the object order.
func (pk Picker) Intersect(p interaction.Point, objects []*scene.Object) []interaction.Hit {
	var hits []interaction.Hit
	for _, obj := range objects {
		x, y, depth, ok := pk.Camera.Project(obj.Position)
		if !ok {
			continue
		}
		r := math.Max(pk.Camera.ScreenRadius(obj.Radius(), depth), minPickRadius)
		if math.Hypot(p.X-x, p.Y-y) <= r {
			hits = append(hits, interaction.Hit{ID: obj.ID, Depth: depth})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Depth < hits[j].Depth })
	return hits
}
