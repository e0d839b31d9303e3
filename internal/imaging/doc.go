// Package imaging provides the image loading and edge detection stages used
// by circle detection.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Edge Detection
//
// Smooth converts to grayscale and applies a Gaussian blur. CannyEdges runs
// Sobel gradients, non-maximum suppression and hysteresis thresholding and
// returns an EdgeMap whose coordinates are relative to the image origin.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid redundant
// disk reads. Large images may consume significant memory when cached; batch
// callers should Evict each image once it has been processed.
package imaging
