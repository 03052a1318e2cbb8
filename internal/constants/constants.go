// Package constants provides shared constants used across the codebase.
package constants

// Collage geometry constants
const (
	// CollageWidth is the width of the composite image fed to the saliency oracle
	CollageWidth = 448

	// CollageHeight is the height of the composite image
	CollageHeight = 1123

	// BottomOffset is the vertical offset at which the second image is pasted
	BottomOffset = 675
)

// Saliency classification constants
const (
	// Group1Limit is the exclusive upper bound of the salient y-coordinate that favors the top image
	Group1Limit = 448

	// Group2Limit is the exclusive lower bound of the salient y-coordinate that favors the bottom image
	Group2Limit = 675
)

// Sampling constants
const (
	// DefaultSamples is the default draw budget for a comparison
	DefaultSamples = 10000

	// DefaultSeed is the default seed of the sampling random source
	DefaultSeed = 0
)

// Vision model constants
const (
	// MaxUploadSize is the maximum dimension (width or height) of collages sent to hosted vision models
	MaxUploadSize = 800

	// MaxJSONRetries is the number of attempts a vision model gets to return parseable JSON
	MaxJSONRetries = 5
)
