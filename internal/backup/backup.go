// file: internal/backup/backup.go
// version: 1.0.0
// guid: 7d9f1b3c-5e7a-4c9d-8f2b-8a0c2d4e6f8a

package backup

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Info describes one snapshot archive.
type Info struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// Config holds snapshot configuration.
type Config struct {
	BackupDir  string
	MaxBackups int
}

// DefaultConfig returns the default snapshot configuration.
func DefaultConfig() Config {
	return Config{
		BackupDir:  "backups",
		MaxBackups: 10,
	}
}

// CreateSnapshot archives the library CSV and the record database into a
// timestamped tar.gz, then prunes old snapshots past MaxBackups. Paths
// that do not exist are skipped, so a fresh install still snapshots.
func CreateSnapshot(libraryPath, databasePath string, cfg Config) (*Info, error) {
	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("librorank_%s.tar.gz", timestamp)
	path := filepath.Join(cfg.BackupDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	added := 0
	for _, src := range []string{libraryPath, databasePath} {
		if src == "" {
			continue
		}
		n, err := addToArchive(tw, src)
		if err != nil {
			tw.Close()
			gz.Close()
			f.Close()
			os.Remove(path)
			return nil, err
		}
		added += n
	}

	if err := tw.Close(); err != nil {
		gz.Close()
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to finalize compression: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close backup file: %w", err)
	}

	if added == 0 {
		os.Remove(path)
		return nil, fmt.Errorf("nothing to snapshot")
	}

	checksum, err := fileChecksum(path)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	if err := pruneOldSnapshots(cfg.BackupDir, cfg.MaxBackups); err != nil {
		return nil, err
	}

	return &Info{
		Filename:  filename,
		Path:      path,
		Size:      stat.Size(),
		Checksum:  checksum,
		CreatedAt: stat.ModTime(),
	}, nil
}

// addToArchive writes a file or directory tree into the archive, returning
// how many regular files were added. Missing paths add nothing.
func addToArchive(tw *tar.Writer, src string) (int, error) {
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", src, err)
	}

	if !info.IsDir() {
		return 1, writeFileEntry(tw, src, filepath.Base(src))
	}

	count := 0
	base := filepath.Base(src)
	err = filepath.Walk(src, func(path string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		count++
		return writeFileEntry(tw, path, filepath.Join(base, rel))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to archive %s: %w", src, err)
	}
	return count, nil
}

func writeFileEntry(tw *tar.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to build header for %s: %w", path, err)
	}
	hdr.Name = filepath.ToSlash(name)
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return nil
}

// ListSnapshots returns available snapshots, newest first.
func ListSnapshots(backupDir string) ([]Info, error) {
	entries, err := os.ReadDir(backupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tar.gz") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Filename:  e.Name(),
			Path:      filepath.Join(backupDir, e.Name()),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to checksum %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func pruneOldSnapshots(backupDir string, maxBackups int) error {
	if maxBackups < 1 {
		return nil
	}
	infos, err := ListSnapshots(backupDir)
	if err != nil {
		return err
	}
	for _, old := range infos[min(maxBackups, len(infos)):] {
		if err := os.Remove(old.Path); err != nil {
			return fmt.Errorf("failed to prune %s: %w", old.Path, err)
		}
	}
	return nil
}
