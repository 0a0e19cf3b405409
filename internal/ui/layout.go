package ui

import "time"

// Card grid geometry.
const (
	// CardWidth is the outer width of one card including its border.
	CardWidth = 30

	// CardHeight is the outer height of one card including its border.
	CardHeight = 6

	// CardGap is the horizontal gap between cards.
	CardGap = 1
)

// Chrome rows outside the grid: header, status line, detail line, footer.
const chromeRows = 5

// Log overlay limits.
const (
	// LogTailLines is the number of launcher log lines shown in the overlay.
	LogTailLines = 500

	// LogRefreshInterval is how often the open log overlay re-reads the file.
	LogRefreshInterval = 2 * time.Second
)
