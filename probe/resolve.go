package probe

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultBinary is used when nothing better can be derived.
const DefaultBinary = "ffprobe"

// ResolveBinary picks the ffprobe binary.
//
// Resolution order:
// 1) Explicit probeBin
// 2) Derived from a concrete playBin path (.../ffplay -> .../ffprobe) when that file exists
// 3) DefaultBinary, resolved on PATH
func ResolveBinary(probeBin, playBin string) string {
	return resolveBinaryWithStat(probeBin, playBin, os.Stat)
}

func resolveBinaryWithStat(probeBin, playBin string, stat func(string) (os.FileInfo, error)) string {
	if probeBin = strings.TrimSpace(probeBin); probeBin != "" {
		return probeBin
	}

	playBin = strings.TrimSpace(playBin)
	if !strings.ContainsRune(playBin, filepath.Separator) {
		return DefaultBinary
	}

	base := filepath.Base(playBin)
	ext := filepath.Ext(base)
	if strings.TrimSuffix(base, ext) != "ffplay" {
		return DefaultBinary
	}

	candidate := filepath.Join(filepath.Dir(playBin), "ffprobe"+ext)
	if fi, err := stat(candidate); err == nil && fi != nil && !fi.IsDir() {
		return candidate
	}
	return DefaultBinary
}
