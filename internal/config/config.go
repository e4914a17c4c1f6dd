package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix is prepended to every variable: TODO_DB_PATH, TODO_LOG_LEVEL, ...
const Prefix = "todo"

const appDirName = "snaptodo"

type Config struct {
	DBPath        string `envconfig:"DB_PATH"`
	CacheDir      string `envconfig:"CACHE_DIR"`
	ConfigDir     string `envconfig:"CONFIG_DIR"`
	GalleryDir    string `envconfig:"GALLERY_DIR"`
	CameraCommand string `envconfig:"CAMERA_CMD"`
	Theme         string `envconfig:"THEME" default:"classic"`
	Token         string `envconfig:"TOKEN"`

	Log struct {
		Level string `envconfig:"LEVEL" default:"info"`
		File  string `envconfig:"FILE"`
	} `envconfig:"LOG"`

	HTTP struct {
		Addr        string   `envconfig:"ADDR" default:"127.0.0.1:8787"`
		CORSOrigins []string `envconfig:"CORS_ORIGINS"`
	} `envconfig:"HTTP"`
}

// Load reads an optional dotenv file, then the environment, and fills in
// platform directories for anything left empty.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading %s: %w", envFile, err)
			}
			log.Debug().Str("file", envFile).Msg("no env file, using process environment")
		}
	}

	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := c.fillDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) fillDefaults() error {
	if c.ConfigDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("config dir: %w", err)
		}
		c.ConfigDir = filepath.Join(base, appDirName)
	}
	if c.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("cache dir: %w", err)
		}
		c.CacheDir = filepath.Join(base, appDirName)
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.ConfigDir, "Todo_DB.sqlite")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.CacheDir, "todo.log")
	}
	if c.GalleryDir == "" {
		c.GalleryDir = defaultGalleryDir()
	}
	if c.CameraCommand == "" {
		c.CameraCommand = DefaultCameraCommand(runtime.GOOS)
	}
	return nil
}

// ImagesDir is the private cache directory captured photos are written to.
func (c *Config) ImagesDir() string { return filepath.Join(c.CacheDir, "images") }

// PermissionFile records that the user allowed camera access.
func (c *Config) PermissionFile() string { return filepath.Join(c.ConfigDir, "camera.granted") }

// DefaultCameraCommand returns a one-shot capture command for goos.
// {file} is replaced by the destination path.
func DefaultCameraCommand(goos string) string {
	switch goos {
	case "darwin":
		return "imagesnap -q {file}"
	case "windows":
		return `ffmpeg -loglevel error -y -f dshow -i "video=Integrated Camera" -frames:v 1 {file}`
	default:
		return "ffmpeg -loglevel error -y -f v4l2 -i /dev/video0 -frames:v 1 {file}"
	}
}

func defaultGalleryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	pics := filepath.Join(home, "Pictures")
	if st, err := os.Stat(pics); err == nil && st.IsDir() {
		return pics
	}
	return home
}
