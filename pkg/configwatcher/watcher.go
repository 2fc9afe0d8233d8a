package configwatcher

import (
	"ecolearn_backend/internal/config"
	"ecolearn_backend/pkg/logger"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg *config.Config)

// WatchConfig reloads the configuration file on change, debounced to one
// reload per second of quiet.
func WatchConfig(configPath string, reloader ConfigReloader) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Log.Fatal("config watcher create failed", zap.Error(err))
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		logger.Log.Fatal("config path resolve failed", zap.Error(err))
	}

	if err := watcher.Add(absPath); err != nil {
		logger.Log.Fatal("config file watch failed", zap.Error(err))
	}

	var mu sync.Mutex
	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				mu.Lock()
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(1 * time.Second)
				mu.Unlock()
			}
		case <-timer.C:
			dirPath := filepath.Dir(configPath)
			newCfg, err := config.LoadConfig(dirPath)
			if err != nil {
				logger.Log.Error("config reload failed", zap.Error(err))
				continue
			}
			reloader(newCfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("config watcher error", zap.Error(err))
		}
	}
}
