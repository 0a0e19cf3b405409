// Package logtail reads the last lines of the launcher log for the log
// overlay.
//
// Read seeks from the end of the file in fixed-size blocks, so the cost
// depends on the number of lines requested and not on the file size. A
// missing file is not an error: the log may not exist before the first
// write. Lines are returned oldest first with line endings stripped.
package logtail
