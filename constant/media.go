package constant

// VideoExtensions lists the file types offered by the file picker.
var VideoExtensions = []string{
	".mp4", ".m4v", ".mkv", ".webm", ".mov", ".avi", ".wmv", ".flv", ".mpg", ".mpeg", ".ts",
}
