package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// TPS is the fixed physics rate. One ebiten update advances one tick.
	TPS = 60

	// UnitSize is the edge of one grid cell in pixels. Level coordinates and
	// instruction distances are authored in units.
	UnitSize = 32.0
)
