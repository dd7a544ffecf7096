package trambar

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type BackupOptions struct {
	Dir  string // destination directory, <prefix>/backups when empty
	Keep int    // number of dumps to retain, 0 keeps everything
}

func BackupDir(prefix string) string {
	return filepath.Join(prefix, "backups")
}

// RunBackup dumps the postgres database into a timestamped, gzip-compressed
// file. The dump is skipped with a notice when the service is not running.
func RunBackup(rt Runtime, cfg Config, opts BackupOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = BackupDir(cfg.Prefix)
	}
	if err := ensureDir(dir, 0o750); err != nil {
		return err
	}

	ts := time.Now().UTC().Format("20060102T150405Z")
	outPath := filepath.Join(dir, fmt.Sprintf("postgres_%s.sql.gz", ts))

	if !ComposeServiceRunning(rt, cfg, "postgres") {
		fmt.Println("skip postgres dump (service not running)")
		return nil
	}

	err := dumpService(rt, cfg, "postgres", outPath,
		`PGPASSWORD="$POSTGRES_PASSWORD" pg_dumpall -U "$POSTGRES_USER"`)
	if err != nil {
		return err
	}

	if opts.Keep > 0 {
		removed, err := pruneBackups(dir, "postgres_", opts.Keep)
		if err != nil {
			return err
		}
		for _, name := range removed {
			fmt.Printf("pruned %s\n", name)
		}
	}
	return nil
}

// dumpService pipes the dump command output through Go's gzip writer instead
// of constructing a shell pipeline, eliminating shell interpolation.
func dumpService(rt Runtime, cfg Config, service, outPath, dumpCmd string) error {
	args := append(ComposeBaseArgs(rt, cfg), "exec", "-T", service, "sh", "-c", dumpCmd)
	cmd := exec.Command(rt.Compose[0], args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%s dump setup failed: %w", service, err)
	}
	cmd.Stderr = os.Stderr

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}

	// A failed dump must not leave a truncated file behind: retention
	// pruning would count it as the newest backup.
	complete := false
	defer func() {
		outFile.Close()
		if !complete {
			os.Remove(outPath)
		}
	}()

	gz := gzip.NewWriter(outFile)

	if err := cmd.Start(); err != nil {
		gz.Close()
		return fmt.Errorf("%s dump start failed: %w", service, err)
	}

	if _, err := io.Copy(gz, stdout); err != nil {
		gz.Close()
		return fmt.Errorf("%s dump copy failed: %w", service, err)
	}

	if err := gz.Close(); err != nil {
		return fmt.Errorf("%s gzip close failed: %w", service, err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s dump failed: %w", service, err)
	}
	complete = true

	fmt.Printf("wrote %s\n", outPath)
	return nil
}

// pruneBackups removes all but the newest keep dumps matching prefix.
// Timestamped names sort chronologically, so lexical order suffices.
func pruneBackups(dir, prefix string, keep int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".sql.gz") {
			names = append(names, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	if len(names) <= keep {
		return nil, nil
	}
	removed := names[keep:]
	for _, name := range removed {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return nil, err
		}
	}
	return removed, nil
}
