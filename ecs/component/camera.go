package component

// Camera is a scene camera. Only orthographic cameras have bounds.
type Camera struct {
	Orthographic     bool
	OrthographicSize float64
	Aspect           float64
}

var CameraComponent = NewComponent[Camera]()
