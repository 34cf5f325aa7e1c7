package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/mohesu/jasmin-api/internal/config"
)

var (
	logFile *os.File
	mu      sync.Mutex
)

// Init tees the standard logger to stdout and config.Cfg.LogPath. An empty
// path keeps stdout only. Must be called after config.Load().
func Init() {
	path := config.Cfg.LogPath
	if path == "" {
		log.SetOutput(os.Stdout)
		return
	}
	if err := Open(path); err != nil {
		log.Printf("WARNING: %v", err)
	}
}

// Open starts writing log output to path as well as stdout.
func Open(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.Printf("Logging to file: %s", path)
	return nil
}

// Close detaches the log file and returns output to stdout.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	log.SetOutput(os.Stdout)
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
