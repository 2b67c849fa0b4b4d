package project

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bnema/devc/internal/config"
)

// buildImage builds the devcontainer image from the descriptor's
// Dockerfile. The tag is content-addressed on the Dockerfile bytes so
// unchanged Dockerfiles reuse the image across runs.
func (p *Project) buildImage(ctx context.Context, rt Runtime, d *config.DevContainer) (string, error) {
	dir := p.devcontainerDir()
	dockerfile := d.Build.Dockerfile

	contents, err := os.ReadFile(filepath.Join(dir, dockerfile))
	if err != nil {
		return "", fmt.Errorf("failed to read dockerfile %s: %w", dockerfile, err)
	}

	sum := sha1.Sum(contents)
	tag := "devcontainer_" + hex.EncodeToString(sum[:])[:10]

	// The build API reads the Dockerfile out of the submitted tarball.
	buildContext, err := tarDirectory(dir, "devcontainer")
	if err != nil {
		return "", fmt.Errorf("failed to package build context: %w", err)
	}

	if err := rt.BuildImage(ctx, buildContext, path.Join("devcontainer", dockerfile), tag); err != nil {
		return "", err
	}

	return tag, nil
}

// tarDirectory packages dir as a gzip'd tar stream with every entry placed
// under prefix/.
func tarDirectory(dir, prefix string) (io.Reader, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	err := filepath.WalkDir(dir, func(file string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		// Regular files and directories only; sockets and symlink
		// targets have no business in a build context.
		if !info.Mode().IsRegular() && !info.IsDir() {
			log.Debug("Skipping irregular file in build context", "file", file)
			return nil
		}

		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = path.Join(prefix, filepath.ToSlash(rel))
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}

	return &buf, nil
}
