package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

var startedAt = time.Now()

// SysHealth represents real-time process and storage metrics.
type SysHealth struct {
	AllocMB      uint64        `json:"alloc_mb"`
	SysMB        uint64        `json:"sys_mb"`
	NumGC        uint32        `json:"num_gc"`
	Goroutines   int           `json:"goroutines"`
	Uptime       time.Duration `json:"uptime_ns"`
	DatabaseSize string        `json:"database_size"`
	ExportsSize  string        `json:"exports_size"`
}

// GetSysHealth collects health data for the database file and the export directory.
func GetSysHealth(databasePath, exportPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		Uptime:       time.Since(startedAt).Truncate(time.Second),
		DatabaseSize: FormatBytes(pathSize(databasePath)),
		ExportsSize:  FormatBytes(pathSize(exportPath)),
	}
}

// pathSize sums the size of a file or of every file below a directory. Missing paths are 0.
func pathSize(path string) int64 {
	if path == "" {
		return 0
	}
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

// FormatBytes renders a byte count with a binary unit ("1.5 KB").
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
