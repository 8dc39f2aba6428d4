// Package process holds platform-specific cleanup for browser processes
// started by the rasterizer.
package process
