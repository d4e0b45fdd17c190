package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/midgard-view/internal/engine/camera"
)

func TestCameraUniformsStale(t *testing.T) {
	u := &CameraUniforms{projection: -1, view: -1, viewProjection: -1, model: -1, normalMatrix: -1}
	assert.True(t, u.stale(0, camera.Standard), "never uploaded")

	// All locations are -1 so Upload only records state.
	u.Upload(camera.Matrices{Revision: 3}, camera.Standard)
	assert.False(t, u.stale(3, camera.Standard))
	assert.True(t, u.stale(4, camera.Standard), "new revision")
	assert.True(t, u.stale(3, camera.Reflected), "different view kind")

	u.Invalidate()
	assert.True(t, u.stale(3, camera.Standard))
}
