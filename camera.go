package furshell

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera holds a fly-camera pose plus perspective projection parameters.
// Navigation mutators only touch camera state; the GPU never sees a Camera
// directly (see CameraBinding).
type Camera struct {
	position mgl32.Vec3
	yaw      float32 // radians, 0 looks down -Z
	pitch    float32 // radians, unclamped
	aspect   float32
	fovScale float32
	near     float32
	far      float32
}

// LookAt builds a camera at eye oriented towards target. Width and height set
// the projection aspect ratio; the vertical field of view is fovScale times a
// quarter turn.
func LookAt(eye, target mgl32.Vec3, width, height, fovScale, near, far float32) Camera {
	dir := target.Sub(eye)
	yaw := float32(math.Atan2(float64(dir.X()), float64(-dir.Z())))
	var pitch float32
	if l := dir.Len(); l > 0 {
		pitch = float32(math.Asin(float64(dir.Y() / l)))
	}
	return Camera{
		position: eye,
		yaw:      yaw,
		pitch:    pitch,
		aspect:   width / height,
		fovScale: fovScale,
		near:     near,
		far:      far,
	}
}

// Resize updates the projection aspect ratio. Position and orientation are
// untouched.
func (c *Camera) Resize(width, height uint32) {
	c.aspect = float32(width) / float32(height)
}

func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Forward is the unit view direction for the current yaw/pitch.
func (c *Camera) Forward() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.yaw))
	sp, cp := math.Sincos(float64(c.pitch))
	return mgl32.Vec3{
		float32(sy * cp),
		float32(sp),
		float32(-cy * cp),
	}
}

// Right is the camera-local +X axis.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(worldUp).Normalize()
}

// Up is the camera-local +Y axis.
func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward()).Normalize()
}

// WalkForward moves the camera delta units along its forward axis. Callers
// pass (positive - negative) * dt so opposing inputs cancel.
func (c *Camera) WalkForward(delta float32) {
	c.position = c.position.Add(c.Forward().Mul(delta))
}

// WalkRight moves the camera delta units along its right axis.
func (c *Camera) WalkRight(delta float32) {
	c.position = c.position.Add(c.Right().Mul(delta))
}

// LevitateUp moves the camera delta units along its local up axis.
func (c *Camera) LevitateUp(delta float32) {
	c.position = c.position.Add(c.Up().Mul(delta))
}

// RotateRight adjusts yaw by delta radians.
func (c *Camera) RotateRight(delta float32) {
	c.yaw += delta
}

// RotateUp adjusts pitch by delta radians. Pitch is deliberately unclamped:
// rotating past a pole wraps the view instead of stopping at it.
func (c *Camera) RotateUp(delta float32) {
	c.pitch += delta
}

// ViewProjection recomputes the combined matrix from the current state, so it
// always reflects the latest mutation.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	proj := mgl32.Perspective(c.fovScale*math.Pi/4, c.aspect, c.near, c.far)
	view := mgl32.LookAtV(c.position, c.position.Add(c.Forward()), worldUp)
	return proj.Mul4(view)
}
