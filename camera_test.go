package furshell

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cameraEpsilon = 1e-5

func assertVec3InDelta(t *testing.T, expected, actual mgl32.Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, expected.X(), actual.X(), delta)
	assert.InDelta(t, expected.Y(), actual.Y(), delta)
	assert.InDelta(t, expected.Z(), actual.Z(), delta)
}

func TestLookAtFacesTarget(t *testing.T) {
	camera := LookAt(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{0, 0, 0}, 800, 600, 1, 0.1, 100)

	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, camera.Forward(), cameraEpsilon)
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, camera.Right(), cameraEpsilon)
	assertVec3InDelta(t, mgl32.Vec3{0, 1, 0}, camera.Up(), cameraEpsilon)
}

func TestWalkForwardMovesAlongForward(t *testing.T) {
	camera := LookAt(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 2, -1}, 800, 600, 1, 0.1, 100)
	start := camera.Position()
	forward := camera.Forward()

	camera.WalkForward(2.5)

	assertVec3InDelta(t, start.Add(forward.Mul(2.5)), camera.Position(), cameraEpsilon)
}

func TestWalkRightAndLevitateUp(t *testing.T) {
	camera := LookAt(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{0, 0, 0}, 800, 600, 1, 0.1, 100)

	camera.WalkRight(1)
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 4}, camera.Position(), cameraEpsilon)

	camera.LevitateUp(1)
	assertVec3InDelta(t, mgl32.Vec3{1, 1, 4}, camera.Position(), cameraEpsilon)
}

func TestOpposingInputsCancel(t *testing.T) {
	camera := LookAt(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{0, 0, 0}, 800, 600, 1, 0.1, 100)
	start := camera.Position()

	camera.WalkForward((0.5 - 0.5) * 0.016)

	assertVec3InDelta(t, start, camera.Position(), cameraEpsilon)
}

func TestResizeChangesOnlyProjection(t *testing.T) {
	camera := LookAt(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{0, 0, 0}, 800, 600, 1, 0.1, 100)
	position := camera.Position()
	forward := camera.Forward()
	before := camera.ViewProjection()

	camera.Resize(1920, 1080)

	assertVec3InDelta(t, position, camera.Position(), cameraEpsilon)
	assertVec3InDelta(t, forward, camera.Forward(), cameraEpsilon)
	assert.NotEqual(t, before, camera.ViewProjection())
}

func TestRotateRightTurnsForward(t *testing.T) {
	camera := LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, 800, 600, 1, 0.1, 100)

	camera.RotateRight(math.Pi / 2)

	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, camera.Forward(), cameraEpsilon)
}

func TestPitchIsUnclamped(t *testing.T) {
	// Rotating past the zenith flips the horizontal view direction instead
	// of pinning at straight up.
	camera := LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, 800, 600, 1, 0.1, 100)

	camera.RotateUp(3 * math.Pi / 4)

	forward := camera.Forward()
	require.Greater(t, forward.Z(), float32(0), "forward flipped past the pole")
	assert.InDelta(t, math.Sqrt2/2, float64(forward.Y()), cameraEpsilon)
}

func TestViewProjectionTracksMutation(t *testing.T) {
	camera := LookAt(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{0, 0, 0}, 800, 600, 1, 0.1, 100)
	before := camera.ViewProjection()

	camera.WalkForward(1)

	assert.NotEqual(t, before, camera.ViewProjection())
}
