package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/avatar"
	"github.com/alnah/go-cvforge/internal/config"
)

// sniffLen is how many leading bytes are read for MIME detection.
const sniffLen = 512

// runAvatar crops a photo to a square avatar. The result replaces the
// resume's photo (--document), is written as a JPEG (--output), or both.
func runAvatar(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseAvatarFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: avatar takes exactly one image file", ErrUsage)
	}
	imagePath := positional[0]

	cfg, err := resolveConfig(f.common.config, env, env.Stderr)
	if err != nil {
		return err
	}
	settings, err := mergeAvatarFlags(f, cfg)
	if err != nil {
		return err
	}

	doc := cvforge.Document{}
	if f.document != "" {
		if doc, err = cvforge.LoadDocument(f.document); err != nil {
			return err
		}
	}
	editor, err := cvforge.NewEditor(doc)
	if err != nil {
		return err
	}

	session := cvforge.NewCropSession(editor,
		cvforge.NewWriterNotifier(env.Stderr, f.common.quiet),
		cvforge.WithViewport(float64(settings.Viewport), float64(settings.Viewport)),
		cvforge.WithAvatarOutput(settings.MaxEdge, settings.Quality),
	)

	upload, err := openUpload(imagePath)
	if err != nil {
		return err
	}
	ready, err := session.Open(ctx, upload)
	if err != nil {
		return err
	}
	if err := <-ready; err != nil {
		return err
	}

	region, err := session.SetRegion(requestedRegion(session.Region(), f))
	if err != nil {
		return err
	}
	if f.common.verbose {
		d := session.Displayed()
		fmt.Fprintf(env.Stderr, "displayed %.0fx%.0f, crop %.0fx%.0f at (%.0f, %.0f)\n",
			d.Width, d.Height, region.Width, region.Height, region.X, region.Y)
	}

	enc, err := session.Commit(ctx)
	if err != nil {
		return err
	}

	if f.output != "" || f.document == "" {
		out := f.output
		if out == "" {
			out = defaultAvatarPath(imagePath)
		}
		if err := writeFile(out, enc.Bytes); err != nil {
			return err
		}
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "Created %s (%dx%d)\n", out, enc.Width, enc.Height)
		}
	}

	if f.document != "" {
		if err := cvforge.SaveDocument(f.document, editor.Document()); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "Updated photo in %s\n", f.document)
		}
	}

	return nil
}

// mergeAvatarFlags layers explicit flags over the avatar config section.
func mergeAvatarFlags(f *avatarFlags, base *config.Config) (config.AvatarConfig, error) {
	cfg := *base
	if f.viewport != 0 {
		cfg.Avatar.Viewport = f.viewport
	}
	if f.maxEdge != 0 {
		cfg.Avatar.MaxEdge = f.maxEdge
	}
	if f.quality != 0 {
		cfg.Avatar.Quality = f.quality
	}
	if err := cfg.Validate(); err != nil {
		return config.AvatarConfig{}, err
	}

	a := cfg.Avatar
	if a.Viewport == 0 {
		a.Viewport = config.DefaultViewport
	}
	if a.MaxEdge == 0 {
		a.MaxEdge = config.DefaultMaxEdge
	}
	if a.Quality == 0 {
		a.Quality = config.DefaultQuality
	}
	return a, nil
}

// requestedRegion overrides the session's default region with whichever
// of --x, --y and --size were given.
func requestedRegion(current avatar.CropRegion, f *avatarFlags) avatar.CropRegion {
	r := current
	if f.x != cropUnset {
		r.X = f.x
	}
	if f.y != cropUnset {
		r.Y = f.y
	}
	if f.size != cropUnset {
		r.Width = f.size
		r.Height = f.size
	}
	return r
}

// openUpload reads an image file into an Upload, detecting its MIME type
// from the extension and leading bytes. Files over the upload limit are
// rejected from their size alone.
func openUpload(path string) (avatar.Upload, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided image path
	if err != nil {
		return avatar.Upload{}, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return avatar.Upload{}, err
	}
	if info.Size() > avatar.MaxUploadSize {
		return avatar.Upload{}, fmt.Errorf("%w: %s is %d bytes (limit %d)",
			cvforge.ErrFileTooLarge, filepath.Base(path), info.Size(), avatar.MaxUploadSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, avatar.MaxUploadSize+1))
	if err != nil {
		return avatar.Upload{}, err
	}
	return avatar.Upload{
		Filename: filepath.Base(path),
		MIMEType: avatar.DetectMIMEType(path, data[:min(len(data), sniffLen)]),
		Size:     int64(len(data)),
		Data:     bytes.NewReader(data),
	}, nil
}

// defaultAvatarPath returns "<name>-avatar.jpg" next to the source image.
func defaultAvatarPath(imagePath string) string {
	base := strings.TrimSuffix(imagePath, filepath.Ext(imagePath))
	return base + "-avatar.jpg"
}

// writeFile creates the parent directory and writes data.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: creating output directory: %w", ErrWriteOutput, err)
		}
	}
	// #nosec G306 -- output files are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
