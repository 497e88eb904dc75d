package binprovider

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractArchiveMember extracts a single named file from a .tar.gz archive
// to destPath. The member is matched by exact path or by base name, which
// tolerates release archives that nest the binary under a versioned
// top-level directory.
func extractArchiveMember(archivePath, destPath, member string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		name := filepath.ToSlash(header.Name)
		if name != member && !strings.HasSuffix(name, "/"+member) {
			continue
		}

		out, err := os.Create(destPath)
		if err != nil {
			return fmt.Errorf("create dest: %w", err)
		}
		if _, err := io.Copy(out, tarReader); err != nil {
			out.Close()
			os.Remove(destPath)
			return fmt.Errorf("extract member: %w", err)
		}
		if err := out.Close(); err != nil {
			os.Remove(destPath)
			return fmt.Errorf("close dest: %w", err)
		}
		return nil
	}

	return fmt.Errorf("member %s not found in %s", member, filepath.Base(archivePath))
}
