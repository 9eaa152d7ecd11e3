package fixtures

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/charlievieth/fastwalk"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
	"github.com/pelletier/go-toml/v2"
)

// LoadDir walks dir and registers every regular file whose relative
// path matches pattern (doublestar syntax, e.g. "**/*.json"). Fixture
// names are the slash-separated paths relative to dir. Returns how many
// fixtures were registered.
func (r *Registry) LoadDir(dir, pattern string) (int, error) {
	if !doublestar.ValidatePattern(pattern) {
		return 0, fmt.Errorf("bad fixture pattern %q", pattern)
	}

	var (
		mu    sync.Mutex
		count int
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		name := filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(pattern, name); !ok {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read fixture %s: %w", path, err)
		}
		if err := r.register(name, data); err != nil {
			return err
		}

		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

// LoadArchive registers every regular file in a .tar.gz bundle. Entry
// names become fixture names with any leading "./" stripped; entries
// that climb out of the bundle are skipped.
func (r *Registry) LoadArchive(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("read archive %s: %w", path, err)
	}
	defer gz.Close()

	count := 0
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read archive %s: %w", path, err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := strings.TrimPrefix(filepath.ToSlash(header.Name), "./")
		if name == "" || strings.Contains(name, "..") {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return count, fmt.Errorf("read archive entry %s: %w", header.Name, err)
		}
		if err := r.register(name, data); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// register decodes structured formats so every structured fixture
// serves as JSON no matter how it was authored; markup is sanitized and
// anything unrecognized is stored raw with a sniffed content type.
func (r *Registry) register(name string, data []byte) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		var v interface{}
		if err := sonic.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode fixture %s: %w", name, err)
		}
		return r.Add(name, v)
	case ".yaml", ".yml":
		var v interface{}
		if err := yaml.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode fixture %s: %w", name, err)
		}
		return r.Add(name, v)
	case ".toml":
		var v map[string]interface{}
		if err := toml.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode fixture %s: %w", name, err)
		}
		return r.Add(name, v)
	case ".html", ".htm":
		r.AddHTML(name, string(data))
		return nil
	case ".txt":
		r.AddText(name, string(data))
		return nil
	default:
		r.AddFile(name, data)
		return nil
	}
}
