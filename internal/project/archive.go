// Package project implements the .asproj archive format: a zip container
// holding project.json and the project's video file.
package project

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mateusz-kow/Auto-Subs/internal/style"
	"github.com/mateusz-kow/Auto-Subs/internal/subtitle"
)

const (
	projectJSONName  = "project.json"
	videoEntryPrefix = "video."
)

var (
	ErrVideoEntryMissing  = errors.New("video file not found in project archive")
	ErrProjectJSONMissing = errors.New("project.json not found in project archive")
)

// Data is the fully parsed content of a project archive.
type Data struct {
	Document  *subtitle.Document
	Style     style.Style
	VideoPath string // extracted video location inside the scratch directory
}

type projectJSON struct {
	SubtitlesData *subtitle.Document `json:"subtitles_data"`
	StyleData     map[string]any     `json:"style_data"`
}

// Save writes the document, style and video into a fresh archive at path.
func Save(path string, doc *subtitle.Document, st style.Style, videoPath string) error {
	video, err := os.Open(videoPath)
	if err != nil {
		return fmt.Errorf("failed to open project video: %w", err)
	}
	defer video.Close()

	content, err := json.MarshalIndent(projectJSON{
		SubtitlesData: doc,
		StyleData:     st,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create project archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	jsonEntry, err := zw.Create(projectJSONName)
	if err != nil {
		return fmt.Errorf("failed to create archive entry: %w", err)
	}
	if _, err := jsonEntry.Write(content); err != nil {
		return fmt.Errorf("failed to write project data: %w", err)
	}

	videoEntry, err := zw.Create("video" + filepath.Ext(videoPath))
	if err != nil {
		return fmt.Errorf("failed to create video entry: %w", err)
	}
	if _, err := io.Copy(videoEntry, video); err != nil {
		return fmt.Errorf("failed to write project video: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize project archive: %w", err)
	}
	return nil
}

// Load extracts and fully parses the archive into scratchDir. Nothing is
// returned unless every part of the archive is valid, so callers can apply
// the result without risking partial state.
func Load(path, scratchDir string) (*Data, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project archive: %w", err)
	}
	defer reader.Close()

	var jsonFile, videoFile *zip.File
	for _, file := range reader.File {
		switch {
		case file.Name == projectJSONName:
			jsonFile = file
		case strings.HasPrefix(file.Name, videoEntryPrefix) && videoFile == nil:
			videoFile = file
		}
	}
	if videoFile == nil {
		return nil, ErrVideoEntryMissing
	}
	if jsonFile == nil {
		return nil, ErrProjectJSONMissing
	}

	content, err := readZipEntry(jsonFile)
	if err != nil {
		return nil, err
	}

	var parsed projectJSON
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", projectJSONName, err)
	}

	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	videoPath := filepath.Join(scratchDir, filepath.Base(videoFile.Name))
	if err := extractZipEntry(videoFile, videoPath); err != nil {
		return nil, err
	}

	doc := parsed.SubtitlesData
	if doc == nil {
		doc = subtitle.EmptyDocument()
	}

	merged := style.Default()
	merged.Merge(style.Style(parsed.StyleData))

	return &Data{
		Document:  doc,
		Style:     merged,
		VideoPath: videoPath,
	}, nil
}

func readZipEntry(file *zip.File) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open archive entry %s: %w", file.Name, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive entry %s: %w", file.Name, err)
	}
	return content, nil
}

func extractZipEntry(file *zip.File, dest string) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", file.Name, err)
	}
	defer reader.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("failed to extract %s: %w", file.Name, err)
	}
	return nil
}
