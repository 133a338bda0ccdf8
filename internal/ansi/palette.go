package ansi

// Supported foreground codes. Only these literal code strings style text.
var foreground = map[string]string{
	"30": "#000000", // black
	"31": "#FF3B30", // red
	"32": "#34C759", // green
	"33": "#FFCC00", // yellow
	"34": "#007AFF", // blue
	"35": "#FF00FF", // magenta
	"36": "#66FFFF", // cyan
	"37": "#AAAAAA", // light gray

	"90": "#555555", // dark gray
	"91": "#FF4C5B", // light red
	"92": "#3ADE3A", // light green
	"93": "#FFFF14", // light yellow
	"94": "#5AC8FA", // light blue
	"95": "#FF33FF", // light magenta
	"96": "#33CCFF", // light cyan
	"97": "#FFFFFF", // white
}

// Background codes mirror the foreground palette.
var background = map[string]string{
	"40": "#000000",
	"41": "#FF3B30",
	"42": "#34C759",
	"43": "#FFCC00",
	"44": "#007AFF",
	"45": "#FF00FF",
	"46": "#66FFFF",
	"47": "#AAAAAA",

	"100": "#555555",
	"101": "#FF4C5B",
	"102": "#3ADE3A",
	"103": "#FFFF14",
	"104": "#5AC8FA",
	"105": "#FF33FF",
	"106": "#33CCFF",
	"107": "#FFFFFF",
}
