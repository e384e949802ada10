// pkg/vision/vision_test.go
package vision

import (
	"testing"

	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/physics"
)

func occluderSquare(cx, cy, half float64) physics.Polygon {
	return physics.Polygon{Vertices: []physics.Vector2D{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}}
}

func TestIsPointInShadow(t *testing.T) {
	sun := entity.Sun{Position: physics.Vector2D{X: 0, Y: 0}, Intensity: 1, Radius: 50}

	tests := []struct {
		name      string
		point     physics.Vector2D
		suns      []entity.Sun
		occluders []physics.Polygon
		expected  bool
	}{
		{
			name:     "lit_clear_line",
			point:    physics.Vector2D{X: 200, Y: 0},
			suns:     []entity.Sun{sun},
			expected: false,
		},
		{
			name:      "shadowed_behind_asteroid",
			point:     physics.Vector2D{X: 200, Y: 0},
			suns:      []entity.Sun{sun},
			occluders: []physics.Polygon{occluderSquare(100, 0, 20)},
			expected:  true,
		},
		{
			name:      "second_sun_breaks_shadow",
			point:     physics.Vector2D{X: 200, Y: 0},
			suns:      []entity.Sun{sun, {Position: physics.Vector2D{X: 200, Y: 300}}},
			occluders: []physics.Polygon{occluderSquare(100, 0, 20)},
			expected:  false,
		},
		{
			name:     "no_suns_means_shadow",
			point:    physics.Vector2D{X: 0, Y: 0},
			suns:     nil,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPointInShadow(tt.point, tt.suns, tt.occluders)
			if got != tt.expected {
				t.Errorf("IsPointInShadow() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIsObjectVisibleToPlayer(t *testing.T) {
	sun := entity.Sun{Position: physics.Vector2D{X: 0, Y: 0}}
	asteroid := occluderSquare(100, 0, 20)
	shadowed := physics.Vector2D{X: 200, Y: 0}

	tests := []struct {
		name     string
		target   Target
		obs      Observer
		expected bool
	}{
		{
			name:     "owner_always_sees",
			target:   Target{Position: shadowed, OwnerID: "p0", Cloaked: true},
			obs:      Observer{PlayerID: "p0"},
			expected: true,
		},
		{
			name:     "lit_object_visible_to_all",
			target:   Target{Position: physics.Vector2D{X: 0, Y: 200}, OwnerID: "p1"},
			obs:      Observer{PlayerID: "p0"},
			expected: true,
		},
		{
			name:     "shadowed_object_hidden",
			target:   Target{Position: shadowed, OwnerID: "p1"},
			obs:      Observer{PlayerID: "p0"},
			expected: false,
		},
		{
			name:   "shadowed_object_in_sight_radius",
			target: Target{Position: shadowed, OwnerID: "p1"},
			obs: Observer{
				PlayerID: "p0",
				Sights:   []SightSource{{Position: physics.Vector2D{X: 190, Y: 0}, Radius: 50}},
			},
			expected: true,
		},
		{
			name:   "shadowed_object_in_influence",
			target: Target{Position: shadowed, OwnerID: "p1"},
			obs: Observer{
				PlayerID:   "p0",
				Influences: []SightSource{{Position: shadowed, Radius: 120}},
			},
			expected: true,
		},
		{
			name:   "cloaked_hidden_despite_light_and_sight",
			target: Target{Position: physics.Vector2D{X: 0, Y: 200}, OwnerID: "p1", Cloaked: true},
			obs: Observer{
				PlayerID: "p0",
				Sights:   []SightSource{{Position: physics.Vector2D{X: 0, Y: 200}, Radius: 100}},
			},
			expected: false,
		},
		{
			name:     "cloaked_revealed_visible",
			target:   Target{Position: shadowed, OwnerID: "p1", Cloaked: true, Revealed: true},
			obs:      Observer{PlayerID: "p0"},
			expected: true,
		},
		{
			name:   "cloaked_caught_by_detection_cone",
			target: Target{Position: physics.Vector2D{X: 250, Y: 0}, OwnerID: "p1", Cloaked: true},
			obs: Observer{
				PlayerID: "p0",
				Cones: []DetectionCone{{
					Apex:      physics.Vector2D{X: 200, Y: 0},
					Facing:    0,
					HalfAngle: 0.5,
					Range:     100,
				}},
			},
			expected: true,
		},
		{
			name:   "cone_misses_behind_apex",
			target: Target{Position: physics.Vector2D{X: 150, Y: 0}, OwnerID: "p1", Cloaked: true},
			obs: Observer{
				PlayerID: "p0",
				Cones: []DetectionCone{{
					Apex:      physics.Vector2D{X: 200, Y: 0},
					Facing:    0,
					HalfAngle: 0.5,
					Range:     100,
				}},
			},
			expected: false,
		},
	}

	suns := []entity.Sun{sun}
	occluders := []physics.Polygon{asteroid}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsObjectVisibleToPlayer(tt.target, tt.obs, suns, occluders)
			if got != tt.expected {
				t.Errorf("IsObjectVisibleToPlayer() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestDetectionCone_Contains(t *testing.T) {
	cone := DetectionCone{
		Apex:      physics.Vector2D{X: 0, Y: 0},
		Facing:    0,
		HalfAngle: 0.5,
		Range:     100,
	}

	tests := []struct {
		name     string
		point    physics.Vector2D
		expected bool
	}{
		{
			name:     "straight_ahead",
			point:    physics.Vector2D{X: 50, Y: 0},
			expected: true,
		},
		{
			name:     "within_half_angle",
			point:    physics.Vector2D{X: 50, Y: 20},
			expected: true,
		},
		{
			name:     "outside_half_angle",
			point:    physics.Vector2D{X: 50, Y: 50},
			expected: false,
		},
		{
			name:     "beyond_range",
			point:    physics.Vector2D{X: 150, Y: 0},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cone.Contains(tt.point)
			if got != tt.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}
