package components

import "github.com/go-gl/mathgl/mgl64"

// TransformComponent 世界空间变换
//
// Position 为角色胶囊体中心；Facing 为水平面上的单位朝向向量（Y 分量恒为 0）。
type TransformComponent struct {
	Position mgl64.Vec3
	Facing   mgl64.Vec3
}
