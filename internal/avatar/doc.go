// Package avatar turns an uploaded photo into the profile image stored on a
// resume.
//
// # Pipeline
//
//  1. ValidateUpload checks MIME type and size (first failure wins).
//  2. Load decodes the bytes off the caller's goroutine and records the
//     natural dimensions once.
//  3. The caller positions a square CropRegion over the image as displayed
//     in its viewport (see FitDisplay, DefaultCropRegion, LockSquare).
//  4. Crop maps the region back to natural pixels, resamples it so the long
//     edge is at most MaxEdge, and encodes a JPEG data URI.
//
// The transform never touches UI state: it only needs the decoded image,
// the displayed size and the region.
package avatar
