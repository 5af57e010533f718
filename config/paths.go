package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Sentinel files that mark the repository root. The cwd is trusted only
// when at least one of them is present.
var rootSentinels = []string{"sucursales.json", "go.mod", "secrets.env.example"}

func looksLikeRoot(dir string) bool {
	for _, s := range rootSentinels {
		if _, err := os.Stat(filepath.Join(dir, s)); err == nil {
			return true
		}
	}
	return false
}

// GetProjectRoot resolves the project root directory. Resolution order:
//  1. cwd, if it contains a sentinel file
//  2. TRANSFERS_PIPELINE_ROOT env var, if it contains a sentinel file
//  3. cwd as a last resort
func GetProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	if looksLikeRoot(cwd) {
		return cwd
	}
	if envRoot := os.Getenv("TRANSFERS_PIPELINE_ROOT"); envRoot != "" {
		abs, err := filepath.Abs(envRoot)
		if err == nil && looksLikeRoot(abs) {
			return abs
		}
	}
	return cwd
}

// ResolvePath joins the project root with a relative path.
func ResolvePath(relative string) string {
	if filepath.IsAbs(relative) {
		return relative
	}
	return filepath.Join(GetProjectRoot(), relative)
}

// LoadSecretsEnv loads secrets.env from the project root into the process
// environment. Existing variables are not overwritten. A missing file is
// not an error.
func LoadSecretsEnv() {
	root := GetProjectRoot()
	for _, name := range []string{"secrets.env", filepath.Join("utils", "secrets.env")} {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			GetLogger().WithField("path", path).Warn("could not load secrets env file")
		}
	}
}
